package assethandler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/config"
	"hr-portal-backend/db"
	"hr-portal-backend/lib/approval"
	assetstore "hr-portal-backend/lib/asset/store"
	employeestore "hr-portal-backend/lib/employee/store"
	xlsexport "hr-portal-backend/lib/export/xls"
	notificationhandler "hr-portal-backend/lib/notification"
	"hr-portal-backend/lib/utils/helpers"
	"hr-portal-backend/models"
	assetapimodels "hr-portal-backend/models/api/asset"
	dbmodels "hr-portal-backend/models/db"
)

type Provider interface {
	CreateRequest(actorEmail string, data assetapimodels.AssetRequestData) (assetapimodels.AssetRequestView, error)
	UpdateRequest(actor approval.Actor, id string, data assetapimodels.AssetRequestData) (assetapimodels.AssetRequestView, error)
	DeleteRequest(actor approval.Actor, id string) error
	GetRequest(actor approval.Actor, id string) (assetapimodels.AssetRequestView, error)
	ListMyRequests(email string) ([]assetapimodels.AssetRequestView, error)
	ListForApproval(actor approval.Actor) ([]assetapimodels.AssetRequestView, error)
	ListAllRequests(filter assetstore.AdminFilter) ([]assetapimodels.AssetRequestView, error)
	Approve(ctx context.Context, actor approval.Actor, id string) (assetapimodels.AssetRequestView, error)
	Reject(ctx context.Context, actor approval.Actor, id, reason string) (assetapimodels.AssetRequestView, error)

	CreateAsset(actor approval.Actor, data assetapimodels.InventoryAssetData) (assetapimodels.InventoryAssetView, error)
	UpdateAsset(actor approval.Actor, id string, data assetapimodels.InventoryAssetData) (assetapimodels.InventoryAssetView, error)
	ChangeStatus(actor approval.Actor, id string, data assetapimodels.StatusChangeData) (assetapimodels.InventoryAssetView, error)
	Reassign(actor approval.Actor, id string, data assetapimodels.ReassignData) (assetapimodels.InventoryAssetView, error)
	GetAsset(actor approval.Actor, id string) (assetapimodels.InventoryAssetView, error)
	ListMyAssets(email string) ([]assetapimodels.InventoryAssetView, error)
	ListAssets(filter assetstore.InventoryFilter) ([]assetapimodels.InventoryAssetView, error)
	ExportInventoryXLS(filter assetstore.InventoryFilter) (*bytes.Buffer, error)
	AuditLog(assetID string) ([]assetapimodels.AuditLogView, error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:         assetstore.NewInstance(db.DB),
		employeeStore: employeestore.NewInstance(db.DB),
		notifier:      notificationhandler.Instance,
		xls:           xlsexport.Instance,
	}
}

type impl struct {
	store         assetstore.Provider
	employeeStore employeestore.Provider
	notifier      notificationhandler.Provider
	xls           xlsexport.Provider
}

type requestAdapter struct {
	rec dbmodels.AssetRequest
}

func (a requestAdapter) RequestID() string                    { return a.rec.ID }
func (a requestAdapter) OwnerEmail() string                   { return a.rec.EmployeeEmail }
func (a requestAdapter) ApproverEmail() string                { return a.rec.ManagerEmail }
func (a requestAdapter) CurrentStatus() models.ApprovalStatus { return a.rec.Status }

func (i *impl) CreateRequest(actorEmail string, data assetapimodels.AssetRequestData) (assetapimodels.AssetRequestView, error) {
	empty := assetapimodels.AssetRequestView{}
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
	rec := dbmodels.AssetRequest{
		ApprovalFields: dbmodels.ApprovalFields{
			EmployeeEmail: helpers.NormalizeEmail(employee.Email),
			ManagerEmail:  helpers.NormalizeEmail(*employee.ManagerEmail),
		},
		Status:                models.ApprovalStatusPending,
		Category:              data.Category,
		BusinessJustification: data.BusinessJustification,
		CustomDescription:     data.CustomDescription,
		PurchaseURL:           data.PurchaseURL,
		EstimatedCost:         data.EstimatedCost,
	}
	id, err := i.store.CreateRequest(rec)
	if err != nil {
		return empty, errors.Wrap(err, "failed to create asset request")
	}
	created, err := i.loadRequest(id)
	if err != nil {
		return empty, err
	}
	i.notify(notificationhandler.KindRequestSubmitted, []string{created.ManagerEmail}, *created, created.EmployeeEmail, "")
	return assetapimodels.ConvertRequest(*created), nil
}

func (i *impl) UpdateRequest(actor approval.Actor, id string, data assetapimodels.AssetRequestData) (assetapimodels.AssetRequestView, error) {
	empty := assetapimodels.AssetRequestView{}
	if err := data.Validate(); err != nil {
		return empty, err
	}
	rec, err := i.loadRequest(id)
	if err != nil {
		return empty, err
	}
	if helpers.NormalizeEmail(actor.Email) != rec.EmployeeEmail {
		return empty, apperrors.PermissionDenied("only the owner may edit a request")
	}
	if rec.Status != models.ApprovalStatusPending {
		return empty, apperrors.InvalidState("only pending requests can be edited")
	}
	err = i.store.UpdateRequest(id, map[string]interface{}{
		"category":               string(data.Category),
		"business_justification": data.BusinessJustification,
		"custom_description":     data.CustomDescription,
		"purchase_url":           data.PurchaseURL,
		"estimated_cost":         data.EstimatedCost,
	})
	if err != nil {
		return empty, errors.Wrap(err, "failed to update asset request")
	}
	updated, err := i.loadRequest(id)
	if err != nil {
		return empty, err
	}
	return assetapimodels.ConvertRequest(*updated), nil
}

func (i *impl) DeleteRequest(actor approval.Actor, id string) error {
	rec, err := i.loadRequest(id)
	if err != nil {
		return err
	}
	if helpers.NormalizeEmail(actor.Email) != rec.EmployeeEmail {
		return apperrors.PermissionDenied("only the owner may delete a request")
	}
	if rec.Status != models.ApprovalStatusPending {
		return apperrors.InvalidState("only pending requests can be deleted")
	}
	return i.store.DeleteRequest(id)
}

func (i *impl) GetRequest(actor approval.Actor, id string) (assetapimodels.AssetRequestView, error) {
	rec, err := i.loadRequest(id)
	if err != nil {
		return assetapimodels.AssetRequestView{}, err
	}
	if !approval.CanView(actor, requestAdapter{*rec}) {
		return assetapimodels.AssetRequestView{}, apperrors.NotFound("asset request", id)
	}
	return assetapimodels.ConvertRequest(*rec), nil
}

func (i *impl) ListMyRequests(email string) ([]assetapimodels.AssetRequestView, error) {
	list, err := i.store.ListRequestsByEmployee(email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list asset requests")
	}
	return assetapimodels.ConvertRequestList(list), nil
}

func (i *impl) ListForApproval(actor approval.Actor) ([]assetapimodels.AssetRequestView, error) {
	result := []assetapimodels.AssetRequestView{}
	asManager, err := i.store.ListRequestsByManager(actor.Email, []models.ApprovalStatus{models.ApprovalStatusPending})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list requests for manager")
	}
	result = append(result, assetapimodels.ConvertRequestList(asManager)...)
	if actor.IsAdmin {
		forAdmin, err := i.store.ListAllRequests(assetstore.AdminFilter{Status: models.ApprovalStatusManagerApproved})
		if err != nil {
			return nil, errors.Wrap(err, "failed to list requests for admin")
		}
		for _, rec := range forAdmin {
			if rec.EmployeeEmail == helpers.NormalizeEmail(actor.Email) {
				continue
			}
			result = append(result, assetapimodels.ConvertRequest(rec))
		}
	}
	return result, nil
}

func (i *impl) ListAllRequests(filter assetstore.AdminFilter) ([]assetapimodels.AssetRequestView, error) {
	list, err := i.store.ListAllRequests(filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list asset requests")
	}
	return assetapimodels.ConvertRequestList(list), nil
}

// Approve runs the shared two-tier machine. Final approval creates the
// inventory entry together with its first audit row in one transaction,
// so an approved request always points at a tracked asset.
func (i *impl) Approve(ctx context.Context, actor approval.Actor, id string) (assetapimodels.AssetRequestView, error) {
	empty := assetapimodels.AssetRequestView{}
	rec, err := i.loadRequest(id)
	if err != nil {
		return empty, err
	}
	tr, err := approval.Approve(actor, requestAdapter{*rec}, time.Now())
	if err != nil {
		return empty, err
	}
	switch tr.Tier {
	case approval.TierManager:
		if err := i.store.Transition(tr); err != nil {
			return empty, err
		}
	case approval.TierAdmin:
		asset := assetFromRequest(*rec, actor.Email)
		audit := dbmodels.AssetAuditLog{
			ActorEmail: helpers.NormalizeEmail(actor.Email),
			Action:     models.AssetAuditActionCreated,
			Changes: dbmodels.EntityChanges{
				Description: fmt.Sprintf("created from approved request %s", rec.ID),
				Data: []dbmodels.FieldChanges{
					{Field: "employee_email", NewValue: asset.EmployeeEmail},
					{Field: "category", NewValue: string(asset.Category)},
					{Field: "description", NewValue: asset.Description},
					{Field: "status", NewValue: string(asset.Status)},
				},
			},
		}
		if _, err := i.store.FinalizeApproval(tr, asset, audit); err != nil {
			return empty, err
		}
	}
	updated, err := i.loadRequest(id)
	if err != nil {
		return empty, err
	}
	switch tr.Tier {
	case approval.TierManager:
		i.notifyAdmins(notificationhandler.KindManagerApproved, *updated, actor.Email)
	case approval.TierAdmin:
		i.notify(notificationhandler.KindRequestApproved, []string{updated.EmployeeEmail}, *updated, actor.Email, "")
	}
	return assetapimodels.ConvertRequest(*updated), nil
}

func (i *impl) Reject(ctx context.Context, actor approval.Actor, id, reason string) (assetapimodels.AssetRequestView, error) {
	empty := assetapimodels.AssetRequestView{}
	rec, err := i.loadRequest(id)
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
	updated, err := i.loadRequest(id)
	if err != nil {
		return empty, err
	}
	i.notify(notificationhandler.KindRequestRejected, []string{updated.EmployeeEmail}, *updated, actor.Email, reason)
	return assetapimodels.ConvertRequest(*updated), nil
}

func assetFromRequest(rec dbmodels.AssetRequest, actorEmail string) dbmodels.EmployeeAsset {
	description := rec.Category.ToHuman()
	if rec.Category == models.AssetCategoryMisc {
		description = rec.CustomDescription
	}
	return dbmodels.EmployeeAsset{
		EmployeeEmail: rec.EmployeeEmail,
		Category:      rec.Category,
		Description:   description,
		AssignedDate:  helpers.DateOnly(time.Now()),
		AssignedBy:    helpers.NormalizeEmail(actorEmail),
		Cost:          rec.EstimatedCost,
		Status:        models.AssetStatusActive,
	}
}

func (i *impl) CreateAsset(actor approval.Actor, data assetapimodels.InventoryAssetData) (assetapimodels.InventoryAssetView, error) {
	empty := assetapimodels.InventoryAssetView{}
	if err := data.Validate(); err != nil {
		return empty, err
	}
	employee, err := i.employeeStore.GetByEmail(data.EmployeeEmail)
	if err != nil {
		return empty, errors.Wrap(err, "failed to load employee")
	}
	if employee == nil {
		return empty, apperrors.NotFound("employee", data.EmployeeEmail)
	}
	asset := dbmodels.EmployeeAsset{
		EmployeeEmail: helpers.NormalizeEmail(data.EmployeeEmail),
		Category:      data.Category,
		Description:   data.Description,
		SerialNumber:  data.SerialNumber,
		AssignedDate:  data.AssignedDateValue(),
		AssignedBy:    helpers.NormalizeEmail(actor.Email),
		Cost:          data.Cost,
		Currency:      data.Currency,
		Status:        models.AssetStatusActive,
		Notes:         data.Notes,
	}
	audit := dbmodels.AssetAuditLog{
		ActorEmail: helpers.NormalizeEmail(actor.Email),
		Action:     models.AssetAuditActionCreated,
		Changes: dbmodels.EntityChanges{
			Description: "created manually",
			Data: []dbmodels.FieldChanges{
				{Field: "employee_email", NewValue: asset.EmployeeEmail},
				{Field: "category", NewValue: string(asset.Category)},
				{Field: "description", NewValue: asset.Description},
				{Field: "status", NewValue: string(asset.Status)},
			},
		},
	}
	id, err := i.store.CreateAsset(asset, audit)
	if err != nil {
		return empty, errors.Wrap(err, "failed to create asset")
	}
	return i.assetView(id)
}

func (i *impl) UpdateAsset(actor approval.Actor, id string, data assetapimodels.InventoryAssetData) (assetapimodels.InventoryAssetView, error) {
	empty := assetapimodels.InventoryAssetView{}
	if err := data.Validate(); err != nil {
		return empty, err
	}
	rec, err := i.loadAsset(id)
	if err != nil {
		return empty, err
	}
	updates := map[string]interface{}{}
	changes := []dbmodels.FieldChanges{}
	if data.Description != rec.Description {
		updates["description"] = data.Description
		changes = append(changes, dbmodels.FieldChanges{Field: "description", OldValue: rec.Description, NewValue: data.Description})
	}
	if data.Category != rec.Category {
		updates["category"] = string(data.Category)
		changes = append(changes, dbmodels.FieldChanges{Field: "category", OldValue: string(rec.Category), NewValue: string(data.Category)})
	}
	if !strPtrEqual(data.SerialNumber, rec.SerialNumber) {
		updates["serial_number"] = data.SerialNumber
		changes = append(changes, dbmodels.FieldChanges{Field: "serial_number", OldValue: strPtrValue(rec.SerialNumber), NewValue: strPtrValue(data.SerialNumber)})
	}
	if !floatPtrEqual(data.Cost, rec.Cost) {
		updates["cost"] = data.Cost
		changes = append(changes, dbmodels.FieldChanges{Field: "cost", OldValue: rec.Cost, NewValue: data.Cost})
	}
	if data.Currency != rec.Currency {
		updates["currency"] = string(data.Currency)
		changes = append(changes, dbmodels.FieldChanges{Field: "currency", OldValue: string(rec.Currency), NewValue: string(data.Currency)})
	}
	if data.Notes != rec.Notes {
		updates["notes"] = data.Notes
		changes = append(changes, dbmodels.FieldChanges{Field: "notes", OldValue: rec.Notes, NewValue: data.Notes})
	}
	if len(updates) == 0 {
		return assetapimodels.ConvertAsset(*rec), nil
	}
	err = i.store.UpdateAsset(id, updates, dbmodels.AssetAuditLog{
		ActorEmail: helpers.NormalizeEmail(actor.Email),
		Action:     models.AssetAuditActionUpdated,
		Changes:    dbmodels.EntityChanges{Description: "details updated", Data: changes},
	})
	if err != nil {
		return empty, errors.Wrap(err, "failed to update asset")
	}
	return i.assetView(id)
}

func (i *impl) ChangeStatus(actor approval.Actor, id string, data assetapimodels.StatusChangeData) (assetapimodels.InventoryAssetView, error) {
	empty := assetapimodels.InventoryAssetView{}
	if err := data.Validate(); err != nil {
		return empty, err
	}
	rec, err := i.loadAsset(id)
	if err != nil {
		return empty, err
	}
	if rec.Status == data.Status {
		return assetapimodels.ConvertAsset(*rec), nil
	}
	updates := map[string]interface{}{"status": string(data.Status)}
	changes := []dbmodels.FieldChanges{
		{Field: "status", OldValue: string(rec.Status), NewValue: string(data.Status)},
	}
	if data.Notes != "" {
		updates["notes"] = data.Notes
		changes = append(changes, dbmodels.FieldChanges{Field: "notes", OldValue: rec.Notes, NewValue: data.Notes})
	}
	if data.Status == models.AssetStatusReturned {
		now := helpers.DateOnly(time.Now())
		updates["return_date"] = now
		changes = append(changes, dbmodels.FieldChanges{Field: "return_date", NewValue: now.Format("2006-01-02")})
	}
	err = i.store.UpdateAsset(id, updates, dbmodels.AssetAuditLog{
		ActorEmail: helpers.NormalizeEmail(actor.Email),
		Action:     models.AssetAuditActionStatusChanged,
		Changes:    dbmodels.EntityChanges{Description: "status changed", Data: changes},
	})
	if err != nil {
		return empty, errors.Wrap(err, "failed to change asset status")
	}
	return i.assetView(id)
}

func (i *impl) Reassign(actor approval.Actor, id string, data assetapimodels.ReassignData) (assetapimodels.InventoryAssetView, error) {
	empty := assetapimodels.InventoryAssetView{}
	if err := data.Validate(); err != nil {
		return empty, err
	}
	rec, err := i.loadAsset(id)
	if err != nil {
		return empty, err
	}
	target := helpers.NormalizeEmail(data.EmployeeEmail)
	if target == rec.EmployeeEmail {
		return empty, apperrors.Validation("the asset is already assigned to %s", target)
	}
	employee, err := i.employeeStore.GetByEmail(target)
	if err != nil {
		return empty, errors.Wrap(err, "failed to load employee")
	}
	if employee == nil {
		return empty, apperrors.NotFound("employee", target)
	}
	now := helpers.DateOnly(time.Now())
	updates := map[string]interface{}{
		"employee_email": target,
		"assigned_date":  now,
		"assigned_by":    helpers.NormalizeEmail(actor.Email),
		"status":         string(models.AssetStatusActive),
		"return_date":    nil,
	}
	changes := []dbmodels.FieldChanges{
		{Field: "employee_email", OldValue: rec.EmployeeEmail, NewValue: target},
		{Field: "assigned_date", OldValue: rec.AssignedDate.Format("2006-01-02"), NewValue: now.Format("2006-01-02")},
	}
	if data.Notes != "" {
		updates["notes"] = data.Notes
		changes = append(changes, dbmodels.FieldChanges{Field: "notes", OldValue: rec.Notes, NewValue: data.Notes})
	}
	err = i.store.UpdateAsset(id, updates, dbmodels.AssetAuditLog{
		ActorEmail: helpers.NormalizeEmail(actor.Email),
		Action:     models.AssetAuditActionReassigned,
		Changes:    dbmodels.EntityChanges{Description: "reassigned", Data: changes},
	})
	if err != nil {
		return empty, errors.Wrap(err, "failed to reassign asset")
	}
	return i.assetView(id)
}

func (i *impl) GetAsset(actor approval.Actor, id string) (assetapimodels.InventoryAssetView, error) {
	rec, err := i.loadAsset(id)
	if err != nil {
		return assetapimodels.InventoryAssetView{}, err
	}
	if !actor.IsAdmin && helpers.NormalizeEmail(actor.Email) != rec.EmployeeEmail {
		return assetapimodels.InventoryAssetView{}, apperrors.NotFound("asset", id)
	}
	return assetapimodels.ConvertAsset(*rec), nil
}

func (i *impl) ListMyAssets(email string) ([]assetapimodels.InventoryAssetView, error) {
	list, err := i.store.ListAssetsByEmployee(email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assets")
	}
	return assetapimodels.ConvertAssetList(list), nil
}

func (i *impl) ListAssets(filter assetstore.InventoryFilter) ([]assetapimodels.InventoryAssetView, error) {
	list, err := i.store.ListAllAssets(filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assets")
	}
	return assetapimodels.ConvertAssetList(list), nil
}

func (i *impl) ExportInventoryXLS(filter assetstore.InventoryFilter) (*bytes.Buffer, error) {
	list, err := i.store.ListAllAssets(filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assets")
	}
	return i.xls.ExportAssetList(list)
}

func (i *impl) AuditLog(assetID string) ([]assetapimodels.AuditLogView, error) {
	if _, err := i.loadAsset(assetID); err != nil {
		return nil, err
	}
	list, err := i.store.ListAuditLog(assetID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit log")
	}
	result := make([]assetapimodels.AuditLogView, 0, len(list))
	for _, rec := range list {
		result = append(result, assetapimodels.ConvertAuditLog(rec))
	}
	return result, nil
}

func (i *impl) loadRequest(id string) (*dbmodels.AssetRequest, error) {
	rec, err := i.store.GetRequestByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load asset request")
	}
	if rec == nil {
		return nil, apperrors.NotFound("asset request", id)
	}
	return rec, nil
}

func (i *impl) loadAsset(id string) (*dbmodels.EmployeeAsset, error) {
	rec, err := i.store.GetAssetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load asset")
	}
	if rec == nil {
		return nil, apperrors.NotFound("asset", id)
	}
	return rec, nil
}

func (i *impl) assetView(id string) (assetapimodels.InventoryAssetView, error) {
	rec, err := i.loadAsset(id)
	if err != nil {
		return assetapimodels.InventoryAssetView{}, err
	}
	return assetapimodels.ConvertAsset(*rec), nil
}

func (i *impl) notify(kind notificationhandler.Kind, recipients []string, rec dbmodels.AssetRequest, actorEmail, reason string) {
	if i.notifier == nil {
		return
	}
	details := rec.Category.ToHuman()
	if rec.Category == models.AssetCategoryMisc {
		details = rec.CustomDescription
	}
	i.notifier.Notify(notificationhandler.Message{
		Kind:       kind,
		Recipients: recipients,
		Params: map[string]string{
			"request_kind": models.RequestKindAsset.ToHuman(),
			"employee":     rec.EmployeeEmail,
			"actor":        actorEmail,
			"reason":       reason,
			"details":      details,
			"link":         fmt.Sprintf("/assets/requests/%s", rec.ID),
		},
	})
}

func (i *impl) notifyAdmins(kind notificationhandler.Kind, rec dbmodels.AssetRequest, actorEmail string) {
	admins := config.Conf.AdminList()
	if len(admins) == 0 {
		return
	}
	i.notify(kind, admins, rec, actorEmail, "")
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func strPtrValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
