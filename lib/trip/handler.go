package triphandler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/config"
	"hr-portal-backend/db"
	"hr-portal-backend/lib/approval"
	employeestore "hr-portal-backend/lib/employee/store"
	notificationhandler "hr-portal-backend/lib/notification"
	tripstore "hr-portal-backend/lib/trip/store"
	tripdocshandler "hr-portal-backend/lib/tripdocs"
	"hr-portal-backend/lib/utils/helpers"
	"hr-portal-backend/models"
	tripapimodels "hr-portal-backend/models/api/trip"
	dbmodels "hr-portal-backend/models/db"
)

type Provider interface {
	Create(actorEmail string, data tripapimodels.TripData) (tripapimodels.TripView, error)
	Update(actor approval.Actor, id string, data tripapimodels.TripData) (tripapimodels.TripView, error)
	Delete(actor approval.Actor, id string) error
	GetByID(actor approval.Actor, id string) (tripapimodels.TripView, error)
	ListMy(email string) ([]tripapimodels.TripView, error)
	ListForApproval(actor approval.Actor) ([]tripapimodels.TripView, error)
	ListAll(filter tripstore.AdminFilter) ([]tripapimodels.TripView, error)
	Approve(ctx context.Context, actor approval.Actor, id string) (tripapimodels.TripView, error)
	Reject(ctx context.Context, actor approval.Actor, id, reason string) (tripapimodels.TripView, error)

	UploadReceipt(ctx context.Context, actor approval.Actor, tripID, fileName string, data []byte, contentType string) (key string, err error)
	SubmitJustification(actor approval.Actor, tripID string, data tripapimodels.JustificationData) (tripapimodels.JustificationView, error)
	ReviewJustification(ctx context.Context, actor approval.Actor, tripID, justificationID string, data tripapimodels.JustificationReviewData) (tripapimodels.JustificationView, error)
	GetDocument(ctx context.Context, actor approval.Actor, tripID, docName string) ([]byte, error)

	StartDueTrips(ctx context.Context)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:         tripstore.NewInstance(db.DB),
		employeeStore: employeestore.NewInstance(db.DB),
		notifier:      notificationhandler.Instance,
		docs:          tripdocshandler.Instance,
	}
}

type impl struct {
	store         tripstore.Provider
	employeeStore employeestore.Provider
	notifier      notificationhandler.Provider
	docs          tripdocshandler.Provider
}

// requestAdapter feeds a trip into the shared approval machine. Post
// approval statuses report as approved so the machine rejects late
// approve or reject attempts.
type requestAdapter struct {
	rec dbmodels.TripRequest
}

func (a requestAdapter) RequestID() string                    { return a.rec.ID }
func (a requestAdapter) OwnerEmail() string                   { return a.rec.EmployeeEmail }
func (a requestAdapter) ApproverEmail() string                { return a.rec.ManagerEmail }
func (a requestAdapter) CurrentStatus() models.ApprovalStatus { return a.rec.Status.ApprovalPhase() }

func (i *impl) Create(actorEmail string, data tripapimodels.TripData) (tripapimodels.TripView, error) {
	empty := tripapimodels.TripView{}
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
	rec := dbmodels.TripRequest{
		ApprovalFields: dbmodels.ApprovalFields{
			EmployeeEmail: helpers.NormalizeEmail(employee.Email),
			ManagerEmail:  helpers.NormalizeEmail(*employee.ManagerEmail),
		},
		Status:              models.TripStatusPending,
		Destination:         data.Destination,
		StartDate:           start,
		EndDate:             end,
		Purpose:             data.Purpose,
		ExpectedGoal:        data.ExpectedGoal,
		EstimatedBudget:     data.EstimatedBudget,
		Currency:            data.Currency,
		NeedsAdvanceFunding: data.NeedsAdvanceFunding,
		AdvanceAmount:       data.AdvanceAmount,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return empty, errors.Wrap(err, "failed to create trip request")
	}
	created, err := i.load(id)
	if err != nil {
		return empty, err
	}
	i.notify(notificationhandler.KindRequestSubmitted, []string{created.ManagerEmail}, *created, created.EmployeeEmail, "")
	return tripapimodels.Convert(*created), nil
}

func (i *impl) Update(actor approval.Actor, id string, data tripapimodels.TripData) (tripapimodels.TripView, error) {
	empty := tripapimodels.TripView{}
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
	if rec.Status != models.TripStatusPending {
		return empty, apperrors.InvalidState("only pending requests can be edited")
	}
	start, end, err := data.Dates()
	if err != nil {
		return empty, err
	}
	err = i.store.Update(id, map[string]interface{}{
		"destination":           data.Destination,
		"start_date":            start,
		"end_date":              end,
		"purpose":               data.Purpose,
		"expected_goal":         data.ExpectedGoal,
		"estimated_budget":      data.EstimatedBudget,
		"currency":              string(data.Currency),
		"needs_advance_funding": data.NeedsAdvanceFunding,
		"advance_amount":        data.AdvanceAmount,
	})
	if err != nil {
		return empty, errors.Wrap(err, "failed to update trip request")
	}
	updated, err := i.load(id)
	if err != nil {
		return empty, err
	}
	return tripapimodels.Convert(*updated), nil
}

func (i *impl) Delete(actor approval.Actor, id string) error {
	rec, err := i.load(id)
	if err != nil {
		return err
	}
	if helpers.NormalizeEmail(actor.Email) != rec.EmployeeEmail {
		return apperrors.PermissionDenied("only the owner may delete a request")
	}
	if rec.Status != models.TripStatusPending {
		return apperrors.InvalidState("only pending requests can be deleted")
	}
	return i.store.Delete(id)
}

func (i *impl) GetByID(actor approval.Actor, id string) (tripapimodels.TripView, error) {
	rec, err := i.load(id)
	if err != nil {
		return tripapimodels.TripView{}, err
	}
	if !approval.CanView(actor, requestAdapter{*rec}) {
		return tripapimodels.TripView{}, apperrors.NotFound("trip request", id)
	}
	return tripapimodels.Convert(*rec), nil
}

func (i *impl) ListMy(email string) ([]tripapimodels.TripView, error) {
	list, err := i.store.ListByEmployee(email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list trip requests")
	}
	return tripapimodels.ConvertList(list), nil
}

func (i *impl) ListForApproval(actor approval.Actor) ([]tripapimodels.TripView, error) {
	result := []tripapimodels.TripView{}
	asManager, err := i.store.ListByManager(actor.Email, []models.TripStatus{models.TripStatusPending})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list requests for manager")
	}
	result = append(result, tripapimodels.ConvertList(asManager)...)
	if actor.IsAdmin {
		forAdmin, err := i.store.ListAll(tripstore.AdminFilter{Status: models.TripStatusManagerApproved})
		if err != nil {
			return nil, errors.Wrap(err, "failed to list requests for admin")
		}
		for _, rec := range forAdmin {
			if rec.EmployeeEmail == helpers.NormalizeEmail(actor.Email) {
				continue
			}
			result = append(result, tripapimodels.Convert(rec))
		}
	}
	return result, nil
}

func (i *impl) ListAll(filter tripstore.AdminFilter) ([]tripapimodels.TripView, error) {
	list, err := i.store.ListAll(filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list trip requests")
	}
	return tripapimodels.ConvertList(list), nil
}

func (i *impl) Approve(ctx context.Context, actor approval.Actor, id string) (tripapimodels.TripView, error) {
	empty := tripapimodels.TripView{}
	rec, err := i.load(id)
	if err != nil {
		return empty, err
	}
	tr, err := approval.Approve(actor, requestAdapter{*rec}, time.Now())
	if err != nil {
		return empty, err
	}
	if tr.Tier == approval.TierAdmin {
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
		go i.prepareDocuments(*updated)
	}
	return tripapimodels.Convert(*updated), nil
}

func (i *impl) Reject(ctx context.Context, actor approval.Actor, id, reason string) (tripapimodels.TripView, error) {
	empty := tripapimodels.TripView{}
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
	return tripapimodels.Convert(*updated), nil
}

// prepareDocuments builds the document folder after final approval. A
// failure never reverts the approval, the outcome lands in
// sync_state/sync_error and can be retried by approving support staff.
func (i *impl) prepareDocuments(rec dbmodels.TripRequest) {
	logger := log.
		WithField("trip_id", rec.ID).
		WithField("employee", rec.EmployeeEmail)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	updates := map[string]interface{}{
		"sync_state": string(models.SyncStateDone),
		"sync_error": "",
	}
	folderURL, spreadsheetURL, err := i.docs.PrepareTripWorkspace(ctx, rec)
	if err != nil {
		logger.WithError(err).Error("failed to prepare trip documents")
		updates["sync_state"] = string(models.SyncStateFailed)
		updates["sync_error"] = err.Error()
	} else {
		updates["drive_folder_url"] = folderURL
		updates["spreadsheet_url"] = spreadsheetURL
	}
	if err := i.store.Update(rec.ID, updates); err != nil {
		logger.WithError(err).Error("failed to record document preparation result")
	}
}

func (i *impl) UploadReceipt(ctx context.Context, actor approval.Actor, tripID, fileName string, data []byte, contentType string) (string, error) {
	rec, err := i.load(tripID)
	if err != nil {
		return "", err
	}
	if helpers.NormalizeEmail(actor.Email) != rec.EmployeeEmail {
		return "", apperrors.PermissionDenied("only the trip owner may upload receipts")
	}
	if err := justifiableFrom(rec.Status); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", apperrors.Validation("receipt file is empty")
	}
	// Receipts for the upcoming submission land under its number before
	// the justification record exists.
	next := len(rec.Justifications) + 1
	return i.docs.UploadReceipt(ctx, tripID, next, fileName, data, contentType)
}

func (i *impl) SubmitJustification(actor approval.Actor, tripID string, data tripapimodels.JustificationData) (tripapimodels.JustificationView, error) {
	empty := tripapimodels.JustificationView{}
	if err := data.Validate(); err != nil {
		return empty, err
	}
	rec, err := i.load(tripID)
	if err != nil {
		return empty, err
	}
	if helpers.NormalizeEmail(actor.Email) != rec.EmployeeEmail {
		return empty, apperrors.PermissionDenied("only the trip owner may submit a justification")
	}
	if err := justifiableFrom(rec.Status); err != nil {
		return empty, err
	}
	for _, key := range data.ReceiptKeys {
		if !strings.HasPrefix(key, fmt.Sprintf("trips/%s/receipts/", tripID)) {
			return empty, apperrors.Validation("receipt key %s does not belong to this trip", key)
		}
	}
	id, err := i.store.SubmitJustification(tripID, rec.EmployeeEmail, rec.Status, dbmodels.TripJustification{
		Status:       models.JustificationStatusPendingReview,
		TotalClaimed: data.TotalClaimed,
		Notes:        data.Notes,
		ReceiptKeys:  data.ReceiptKeys,
	})
	if err != nil {
		if _, ok := apperrors.KindOf(err); ok {
			return empty, err
		}
		return empty, errors.Wrap(err, "failed to create justification")
	}
	created, err := i.store.GetJustification(id)
	if err != nil || created == nil {
		return empty, errors.Wrap(err, "failed to reload justification")
	}
	i.notifyJustificationSubmitted(*rec, *created)
	return tripapimodels.ConvertJustification(*created), nil
}

func (i *impl) ReviewJustification(ctx context.Context, actor approval.Actor, tripID, justificationID string, data tripapimodels.JustificationReviewData) (tripapimodels.JustificationView, error) {
	empty := tripapimodels.JustificationView{}
	if err := data.Validate(); err != nil {
		return empty, err
	}
	if !actor.IsAdmin {
		return empty, apperrors.PermissionDenied("only admins review justifications")
	}
	rec, err := i.load(tripID)
	if err != nil {
		return empty, err
	}
	if helpers.NormalizeEmail(actor.Email) == rec.EmployeeEmail {
		return empty, apperrors.PermissionDenied("you can not review your own justification")
	}
	just, err := i.store.GetJustification(justificationID)
	if err != nil {
		return empty, errors.Wrap(err, "failed to load justification")
	}
	if just == nil || just.TripRequestID != tripID {
		return empty, apperrors.NotFound("justification", justificationID)
	}
	if just.Status != models.JustificationStatusPendingReview {
		return empty, apperrors.InvalidState("justification was already reviewed")
	}

	now := time.Now()
	justUpdates := map[string]interface{}{
		"reviewed_by": helpers.NormalizeEmail(actor.Email),
		"reviewed_at": now,
	}
	tripTarget := models.TripStatusCompleted
	if data.Approve {
		justUpdates["status"] = string(models.JustificationStatusApproved)
		justUpdates["total_approved"] = data.TotalApproved
	} else {
		justUpdates["status"] = string(models.JustificationStatusRejected)
		justUpdates["admin_feedback"] = data.AdminFeedback
		tripTarget = models.TripStatusJustificationRejected
	}
	err = i.store.FinalizeJustificationReview(tripID, rec.Status, tripTarget, justificationID, justUpdates)
	if err != nil {
		if _, ok := apperrors.KindOf(err); ok {
			return empty, err
		}
		return empty, errors.Wrap(err, "failed to record the review")
	}

	reviewed, err := i.store.GetJustification(justificationID)
	if err != nil || reviewed == nil {
		return empty, errors.Wrap(err, "failed to reload justification")
	}
	go i.refreshExpenseSheet(*rec)
	i.notifyJustificationReviewed(*rec, *reviewed, actor.Email, data.AdminFeedback)
	return tripapimodels.ConvertJustification(*reviewed), nil
}

func (i *impl) GetDocument(ctx context.Context, actor approval.Actor, tripID, docName string) ([]byte, error) {
	rec, err := i.load(tripID)
	if err != nil {
		return nil, err
	}
	if !approval.CanView(actor, requestAdapter{*rec}) {
		return nil, apperrors.NotFound("trip request", tripID)
	}
	return i.docs.GetDocument(ctx, tripID, docName)
}

// StartDueTrips moves approved trips whose start date has passed into
// the in-progress status. Runs from the background worker.
func (i *impl) StartDueTrips(ctx context.Context) {
	due, err := i.store.ListDueToStart(time.Now())
	if err != nil {
		log.WithError(err).Error("failed to list trips due to start")
		return
	}
	for _, rec := range due {
		if helpers.IsContextDone(ctx) {
			return
		}
		err := i.store.SetStatus(rec.ID, models.TripStatusApproved, models.TripStatusInProgress, nil)
		if err != nil {
			log.
				WithField("trip_id", rec.ID).
				WithError(err).
				Warn("failed to move trip into progress")
			continue
		}
		log.
			WithField("trip_id", rec.ID).
			WithField("employee", rec.EmployeeEmail).
			Info("trip moved into progress")
	}
}

func (i *impl) refreshExpenseSheet(rec dbmodels.TripRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	justifications, err := i.store.ListJustifications(rec.ID)
	if err != nil {
		log.WithField("trip_id", rec.ID).WithError(err).Error("failed to list justifications for expense sheet")
		return
	}
	if err := i.docs.RefreshExpenseSheet(ctx, rec, justifications); err != nil {
		log.WithField("trip_id", rec.ID).WithError(err).Error("failed to refresh expense sheet")
	}
}

// justifiableFrom gates the expense justification flow: it opens after
// final approval and reopens after a rejected review.
func justifiableFrom(status models.TripStatus) error {
	switch status {
	case models.TripStatusApproved, models.TripStatusInProgress, models.TripStatusJustificationRejected:
		return nil
	case models.TripStatusJustificationSubmitted:
		return apperrors.InvalidState("a justification is already awaiting review")
	default:
		return apperrors.InvalidState("the trip is not at the justification stage")
	}
}

func (i *impl) load(id string) (*dbmodels.TripRequest, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load trip request")
	}
	if rec == nil {
		return nil, apperrors.NotFound("trip request", id)
	}
	return rec, nil
}

func (i *impl) notify(kind notificationhandler.Kind, recipients []string, rec dbmodels.TripRequest, actorEmail, reason string) {
	if i.notifier == nil {
		return
	}
	i.notifier.Notify(notificationhandler.Message{
		Kind:       kind,
		Recipients: recipients,
		Params: map[string]string{
			"request_kind": models.RequestKindTrip.ToHuman(),
			"employee":     rec.EmployeeEmail,
			"actor":        actorEmail,
			"reason":       reason,
			"details": fmt.Sprintf("%s, %s to %s, budget %.2f %s",
				rec.Destination,
				rec.StartDate.Format("2006-01-02"),
				rec.EndDate.Format("2006-01-02"),
				rec.EstimatedBudget,
				rec.Currency),
			"link": fmt.Sprintf("/trips/%s", rec.ID),
		},
	})
}

func (i *impl) notifyAdmins(kind notificationhandler.Kind, rec dbmodels.TripRequest, actorEmail string) {
	admins := config.Conf.AdminList()
	if len(admins) == 0 {
		return
	}
	i.notify(kind, admins, rec, actorEmail, "")
}

func (i *impl) notifyJustificationSubmitted(rec dbmodels.TripRequest, just dbmodels.TripJustification) {
	if i.notifier == nil {
		return
	}
	admins := config.Conf.AdminList()
	if len(admins) == 0 {
		return
	}
	i.notifier.Notify(notificationhandler.Message{
		Kind:       notificationhandler.KindJustificationSubmitted,
		Recipients: admins,
		Params: map[string]string{
			"employee":    rec.EmployeeEmail,
			"destination": rec.Destination,
			"details":     fmt.Sprintf("%d", just.SubmissionNumber),
			"link":        fmt.Sprintf("/trips/%s", rec.ID),
		},
	})
}

func (i *impl) notifyJustificationReviewed(rec dbmodels.TripRequest, just dbmodels.TripJustification, actorEmail, feedback string) {
	if i.notifier == nil {
		return
	}
	verdict := "approved"
	if just.Status == models.JustificationStatusRejected {
		verdict = "rejected"
	}
	i.notifier.Notify(notificationhandler.Message{
		Kind:       notificationhandler.KindJustificationReviewed,
		Recipients: []string{rec.EmployeeEmail},
		Params: map[string]string{
			"employee": rec.EmployeeEmail,
			"actor":    actorEmail,
			"details":  verdict,
			"reason":   feedback,
			"link":     fmt.Sprintf("/trips/%s", rec.ID),
		},
	})
}
