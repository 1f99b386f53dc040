package timeoffhandler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/config"
	"hr-portal-backend/db"
	"hr-portal-backend/lib/approval"
	calendarclient "hr-portal-backend/lib/calendar"
	employeestore "hr-portal-backend/lib/employee/store"
	xlsexport "hr-portal-backend/lib/export/xls"
	notificationhandler "hr-portal-backend/lib/notification"
	timeoffstore "hr-portal-backend/lib/timeoff/store"
	"hr-portal-backend/lib/utils/helpers"
	"hr-portal-backend/lib/workday"
	workspaceclient "hr-portal-backend/lib/workspace"
	"hr-portal-backend/models"
	timeoffapimodels "hr-portal-backend/models/api/timeoff"
	dbmodels "hr-portal-backend/models/db"
)

type Provider interface {
	Create(actorEmail string, data timeoffapimodels.TimeOffData) (timeoffapimodels.TimeOffView, error)
	Update(actor approval.Actor, id string, data timeoffapimodels.TimeOffData) (timeoffapimodels.TimeOffView, error)
	Delete(actor approval.Actor, id string) error
	GetByID(actor approval.Actor, id string) (timeoffapimodels.TimeOffView, error)
	ListMy(email string, year int) ([]timeoffapimodels.TimeOffView, error)
	ListForApproval(actor approval.Actor) ([]timeoffapimodels.TimeOffView, error)
	ListAll(filter timeoffstore.AdminFilter) ([]timeoffapimodels.TimeOffView, error)
	ExportXLS(filter timeoffstore.AdminFilter) (*bytes.Buffer, error)
	Approve(ctx context.Context, actor approval.Actor, id string) (timeoffapimodels.TimeOffView, error)
	Reject(ctx context.Context, actor approval.Actor, id, reason string) (timeoffapimodels.TimeOffView, error)
	RetrySync(actor approval.Actor, id string) (timeoffapimodels.TimeOffView, error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:         timeoffstore.NewInstance(db.DB),
		employeeStore: employeestore.NewInstance(db.DB),
		notifier:      notificationhandler.Instance,
		calendar:      calendarclient.Instance,
		workspace:     workspaceclient.Instance,
		xls:           xlsexport.Instance,
	}
}

type impl struct {
	store         timeoffstore.Provider
	employeeStore employeestore.Provider
	notifier      notificationhandler.Provider
	calendar      calendarclient.Provider
	workspace     workspaceclient.Provider
	xls           xlsexport.Provider
}

// requestAdapter feeds a stored record into the approval machine.
type requestAdapter struct {
	rec dbmodels.TimeOffRequest
}

func (a requestAdapter) RequestID() string                    { return a.rec.ID }
func (a requestAdapter) OwnerEmail() string                   { return a.rec.EmployeeEmail }
func (a requestAdapter) ApproverEmail() string                { return a.rec.ManagerEmail }
func (a requestAdapter) CurrentStatus() models.ApprovalStatus { return a.rec.Status }

func (i *impl) Create(actorEmail string, data timeoffapimodels.TimeOffData) (timeoffapimodels.TimeOffView, error) {
	empty := timeoffapimodels.TimeOffView{}
	if err := data.Validate(); err != nil {
		return empty, err
	}
	employee, err := i.employeeStore.GetByEmail(actorEmail)
	if err != nil {
		return empty, errors.Wrap(err, "failed to load employee")
	}
	if employee == nil {
		return empty, apperrors.NotFound("employee", actorEmail)
	}
	if employee.ManagerEmail == nil || *employee.ManagerEmail == "" {
		return empty, apperrors.Validation("no manager assigned, ask an admin to set one")
	}
	start, end, err := data.Dates()
	if err != nil {
		return empty, err
	}
	// Region and the day count freeze at creation time. The same
	// calculation backs the preview endpoint, so stored and previewed
	// values can not drift.
	region := employee.HolidayRegionCode()
	workingDays := workday.CountWorkingDays(start, end, region)

	rec := dbmodels.TimeOffRequest{
		ApprovalFields: dbmodels.ApprovalFields{
			EmployeeEmail: helpers.NormalizeEmail(employee.Email),
			ManagerEmail:  helpers.NormalizeEmail(*employee.ManagerEmail),
		},
		Status:               models.ApprovalStatusPending,
		StartDate:            start,
		EndDate:              end,
		TimeOffType:          data.TimeOffType,
		Notes:                data.Notes,
		HolidayRegion:        region,
		WorkingDaysCount:     workingDays,
		AutoresponderEnabled: data.AutoresponderEnabled,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return empty, errors.Wrap(err, "failed to create time-off request")
	}
	created, err := i.store.GetByID(id)
	if err != nil || created == nil {
		return empty, errors.Wrap(err, "failed to reload time-off request")
	}
	i.notify(notificationhandler.KindRequestSubmitted, []string{created.ManagerEmail}, *created, created.EmployeeEmail, "")
	return timeoffapimodels.Convert(*created), nil
}

func (i *impl) Update(actor approval.Actor, id string, data timeoffapimodels.TimeOffData) (timeoffapimodels.TimeOffView, error) {
	empty := timeoffapimodels.TimeOffView{}
	if err := data.Validate(); err != nil {
		return empty, err
	}
	rec, err := i.load(id)
	if err != nil {
		return empty, err
	}
	if helpers.NormalizeEmail(actor.Email) != rec.EmployeeEmail {
		return empty, apperrors.PermissionDenied("only the owner may edit a request")
	}
	if rec.Status != models.ApprovalStatusPending {
		return empty, apperrors.InvalidState("only pending requests can be edited")
	}
	start, end, err := data.Dates()
	if err != nil {
		return empty, err
	}
	workingDays := workday.CountWorkingDays(start, end, rec.HolidayRegion)
	err = i.store.Update(id, map[string]interface{}{
		"start_date":            start,
		"end_date":              end,
		"timeoff_type":          string(data.TimeOffType),
		"notes":                 data.Notes,
		"working_days_count":    workingDays,
		"autoresponder_enabled": data.AutoresponderEnabled,
	})
	if err != nil {
		return empty, errors.Wrap(err, "failed to update time-off request")
	}
	updated, err := i.load(id)
	if err != nil {
		return empty, err
	}
	return timeoffapimodels.Convert(*updated), nil
}

func (i *impl) Delete(actor approval.Actor, id string) error {
	rec, err := i.load(id)
	if err != nil {
		return err
	}
	if helpers.NormalizeEmail(actor.Email) != rec.EmployeeEmail {
		return apperrors.PermissionDenied("only the owner may delete a request")
	}
	if rec.Status != models.ApprovalStatusPending {
		return apperrors.InvalidState("only pending requests can be deleted")
	}
	return i.store.Delete(id)
}

func (i *impl) GetByID(actor approval.Actor, id string) (timeoffapimodels.TimeOffView, error) {
	rec, err := i.load(id)
	if err != nil {
		return timeoffapimodels.TimeOffView{}, err
	}
	if !approval.CanView(actor, requestAdapter{*rec}) {
		return timeoffapimodels.TimeOffView{}, apperrors.NotFound("time-off request", id)
	}
	return timeoffapimodels.Convert(*rec), nil
}

func (i *impl) ListMy(email string, year int) ([]timeoffapimodels.TimeOffView, error) {
	list, err := i.store.ListByEmployee(email, year)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list time-off requests")
	}
	return timeoffapimodels.ConvertList(list), nil
}

// ListForApproval returns what the actor can decide on right now: pending
// requests of their reports, plus manager-approved ones for admins.
func (i *impl) ListForApproval(actor approval.Actor) ([]timeoffapimodels.TimeOffView, error) {
	result := []timeoffapimodels.TimeOffView{}
	asManager, err := i.store.ListByManager(actor.Email, []models.ApprovalStatus{models.ApprovalStatusPending})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list requests for manager")
	}
	result = append(result, timeoffapimodels.ConvertList(asManager)...)
	if actor.IsAdmin {
		forAdmin, err := i.store.ListAll(timeoffstore.AdminFilter{Status: models.ApprovalStatusManagerApproved})
		if err != nil {
			return nil, errors.Wrap(err, "failed to list requests for admin")
		}
		for _, rec := range forAdmin {
			if rec.EmployeeEmail == helpers.NormalizeEmail(actor.Email) {
				continue
			}
			result = append(result, timeoffapimodels.Convert(rec))
		}
	}
	return result, nil
}

func (i *impl) ListAll(filter timeoffstore.AdminFilter) ([]timeoffapimodels.TimeOffView, error) {
	list, err := i.store.ListAll(filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list time-off requests")
	}
	return timeoffapimodels.ConvertList(list), nil
}

func (i *impl) ExportXLS(filter timeoffstore.AdminFilter) (*bytes.Buffer, error) {
	list, err := i.store.ListAll(filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list time-off requests")
	}
	return i.xls.ExportTimeOffList(list)
}

func (i *impl) Approve(ctx context.Context, actor approval.Actor, id string) (timeoffapimodels.TimeOffView, error) {
	empty := timeoffapimodels.TimeOffView{}
	rec, err := i.load(id)
	if err != nil {
		return empty, err
	}
	tr, err := approval.Approve(actor, requestAdapter{*rec}, time.Now())
	if err != nil {
		return empty, err
	}
	if tr.Tier == approval.TierAdmin {
		// Final approval is the moment vacation days are committed, so
		// the balance check lives here, not at creation time.
		if rec.TimeOffType == models.TimeOffTypeVacation {
			if err := i.checkVacationBalance(*rec); err != nil {
				return empty, err
			}
		}
		tr.Updates["sync_state"] = string(models.SyncStatePending)
	}
	if err := i.store.Transition(tr); err != nil {
		return empty, err
	}
	updated, err := i.load(id)
	if err != nil {
		return empty, err
	}
	switch tr.Tier {
	case approval.TierManager:
		i.notifyAdmins(notificationhandler.KindManagerApproved, *updated, actor.Email)
	case approval.TierAdmin:
		i.notify(notificationhandler.KindRequestApproved, []string{updated.EmployeeEmail}, *updated, actor.Email, "")
		go i.runApprovedSideEffects(*updated)
	}
	return timeoffapimodels.Convert(*updated), nil
}

func (i *impl) Reject(ctx context.Context, actor approval.Actor, id, reason string) (timeoffapimodels.TimeOffView, error) {
	empty := timeoffapimodels.TimeOffView{}
	rec, err := i.load(id)
	if err != nil {
		return empty, err
	}
	tr, err := approval.Reject(actor, requestAdapter{*rec}, reason, time.Now())
	if err != nil {
		return empty, err
	}
	if err := i.store.Transition(tr); err != nil {
		return empty, err
	}
	updated, err := i.load(id)
	if err != nil {
		return empty, err
	}
	i.notify(notificationhandler.KindRequestRejected, []string{updated.EmployeeEmail}, *updated, actor.Email, reason)
	return timeoffapimodels.Convert(*updated), nil
}

// RetrySync re-runs the calendar and autoresponder side effects for an
// approved request whose previous attempt failed.
func (i *impl) RetrySync(actor approval.Actor, id string) (timeoffapimodels.TimeOffView, error) {
	empty := timeoffapimodels.TimeOffView{}
	rec, err := i.load(id)
	if err != nil {
		return empty, err
	}
	if !actor.IsAdmin && helpers.NormalizeEmail(actor.Email) != rec.EmployeeEmail {
		return empty, apperrors.PermissionDenied("only the owner or an admin can retry the sync")
	}
	if rec.Status != models.ApprovalStatusApproved {
		return empty, apperrors.InvalidState("only approved requests are synced")
	}
	if rec.SyncState != models.SyncStateFailed {
		return empty, apperrors.InvalidState("the request sync did not fail")
	}
	if err := i.store.Update(rec.ID, map[string]interface{}{
		"sync_state": string(models.SyncStatePending),
		"sync_error": "",
	}); err != nil {
		return empty, err
	}
	updated, err := i.load(id)
	if err != nil {
		return empty, err
	}
	go i.runApprovedSideEffects(*updated)
	return timeoffapimodels.Convert(*updated), nil
}

// checkVacationBalance rejects a final approval that would overdraw the
// allowance for the year the request starts in.
func (i *impl) checkVacationBalance(rec dbmodels.TimeOffRequest) error {
	employee, err := i.employeeStore.GetByEmail(rec.EmployeeEmail)
	if err != nil {
		return errors.Wrap(err, "failed to load employee")
	}
	if employee == nil {
		return apperrors.NotFound("employee", rec.EmployeeEmail)
	}
	used, err := i.store.SumVacationWorkingDays(rec.EmployeeEmail, rec.StartDate.Year(),
		[]models.ApprovalStatus{models.ApprovalStatusApproved})
	if err != nil {
		return errors.Wrap(err, "failed to sum used vacation days")
	}
	remaining := employee.VacationDaysPerYear - used
	if rec.WorkingDaysCount > remaining {
		return apperrors.Validation("not enough vacation days: %d requested, %d remaining",
			rec.WorkingDaysCount, remaining)
	}
	return nil
}

func (i *impl) load(id string) (*dbmodels.TimeOffRequest, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load time-off request")
	}
	if rec == nil {
		return nil, apperrors.NotFound("time-off request", id)
	}
	return rec, nil
}

// runApprovedSideEffects creates the calendar event and enables the
// autoresponder after final approval. It never propagates failure into
// the approval: the outcome lands in sync_state/sync_error.
func (i *impl) runApprovedSideEffects(rec dbmodels.TimeOffRequest) {
	logger := log.
		WithField("timeoff_id", rec.ID).
		WithField("employee", rec.EmployeeEmail)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	updates := map[string]interface{}{
		"sync_state": string(models.SyncStateDone),
		"sync_error": "",
	}
	eventID, err := i.calendar.CreateAbsenceEvent(ctx, calendarclient.AbsenceEvent{
		EmployeeEmail: rec.EmployeeEmail,
		Title:         fmt.Sprintf("%s: %s", rec.EmployeeEmail, rec.TimeOffType.ToHuman()),
		StartDate:     rec.StartDate,
		EndDate:       rec.EndDate,
	})
	if err != nil {
		logger.WithError(err).Error("failed to create absence calendar event")
		updates["sync_state"] = string(models.SyncStateFailed)
		updates["sync_error"] = err.Error()
	} else if eventID != "" {
		updates["calendar_event_id"] = eventID
	}

	if rec.AutoresponderEnabled {
		err = i.workspace.SetAutoresponder(ctx, rec.EmployeeEmail, workspaceclient.AutoresponderSettings{
			Enabled:   true,
			Subject:   "Out of office",
			Message:   fmt.Sprintf("I am out of office until %s and will reply after I am back.", rec.EndDate.Format("2006-01-02")),
			StartDate: rec.StartDate,
			EndDate:   rec.EndDate,
		})
		if err != nil {
			logger.WithError(err).Error("failed to enable autoresponder")
			updates["sync_state"] = string(models.SyncStateFailed)
			updates["sync_error"] = err.Error()
		}
	}
	if err := i.store.Update(rec.ID, updates); err != nil {
		logger.WithError(err).Error("failed to record side effect result")
	}
}

func (i *impl) notify(kind notificationhandler.Kind, recipients []string, rec dbmodels.TimeOffRequest, actorEmail, reason string) {
	if i.notifier == nil {
		return
	}
	i.notifier.Notify(notificationhandler.Message{
		Kind:       kind,
		Recipients: recipients,
		Params: map[string]string{
			"request_kind": models.RequestKindTimeOff.ToHuman(),
			"employee":     rec.EmployeeEmail,
			"actor":        actorEmail,
			"reason":       reason,
			"details": fmt.Sprintf("%s, %s to %s (%d working days)",
				rec.TimeOffType.ToHuman(),
				rec.StartDate.Format("2006-01-02"),
				rec.EndDate.Format("2006-01-02"),
				rec.WorkingDaysCount),
			"link": fmt.Sprintf("/timeoff/%s", rec.ID),
		},
	})
}

func (i *impl) notifyAdmins(kind notificationhandler.Kind, rec dbmodels.TimeOffRequest, actorEmail string) {
	admins := config.Conf.AdminList()
	if len(admins) == 0 {
		return
	}
	i.notify(kind, admins, rec, actorEmail, "")
}
