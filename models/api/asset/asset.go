package assetapimodels

import (
	"time"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/models"
	apimodels "hr-portal-backend/models/api"
	dbmodels "hr-portal-backend/models/db"
)

type AssetRequestData struct {
	Category              models.AssetCategory `json:"category"`
	BusinessJustification string               `json:"business_justification"`
	CustomDescription     string               `json:"custom_description"`
	PurchaseURL           string               `json:"purchase_url"`
	EstimatedCost         *float64             `json:"estimated_cost"`
}

func (d AssetRequestData) Validate() error {
	if !d.Category.IsValid() {
		return apperrors.Validation("unknown asset category: %s", d.Category)
	}
	if d.BusinessJustification == "" {
		return apperrors.Validation("business_justification is required")
	}
	if d.Category == models.AssetCategoryMisc {
		if d.CustomDescription == "" {
			return apperrors.Validation("custom_description is required for the misc category")
		}
		if d.PurchaseURL == "" {
			return apperrors.Validation("purchase_url is required for the misc category")
		}
		if d.EstimatedCost == nil || *d.EstimatedCost <= 0 {
			return apperrors.Validation("estimated_cost must be positive for the misc category")
		}
	}
	return nil
}

type AssetRequestView struct {
	ID                    string                `json:"id"`
	EmployeeEmail         string                `json:"employee_email"`
	ManagerEmail          string                `json:"manager_email"`
	Status                models.ApprovalStatus `json:"status"`
	StatusName            string                `json:"status_name"`
	Category              models.AssetCategory  `json:"category"`
	CategoryName          string                `json:"category_name"`
	BusinessJustification string                `json:"business_justification"`
	CustomDescription     string                `json:"custom_description"`
	PurchaseURL           string                `json:"purchase_url"`
	EstimatedCost         *float64              `json:"estimated_cost"`
	AssetID               *string               `json:"asset_id"`
	ManagerApprovedBy     *string               `json:"manager_approved_by"`
	ManagerApprovedAt     *time.Time            `json:"manager_approved_at"`
	AdminApprovedBy       *string               `json:"admin_approved_by"`
	AdminApprovedAt       *time.Time            `json:"admin_approved_at"`
	RejectedBy            *string               `json:"rejected_by"`
	RejectedAt            *time.Time            `json:"rejected_at"`
	RejectionReason       string                `json:"rejection_reason"`
	SyncState             models.SyncState      `json:"sync_state"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

func ConvertRequest(rec dbmodels.AssetRequest) AssetRequestView {
	return AssetRequestView{
		ID:                    rec.ID,
		EmployeeEmail:         rec.EmployeeEmail,
		ManagerEmail:          rec.ManagerEmail,
		Status:                rec.Status,
		StatusName:            rec.Status.ToHuman(),
		Category:              rec.Category,
		CategoryName:          rec.Category.ToHuman(),
		BusinessJustification: rec.BusinessJustification,
		CustomDescription:     rec.CustomDescription,
		PurchaseURL:           rec.PurchaseURL,
		EstimatedCost:         rec.EstimatedCost,
		AssetID:               rec.AssetID,
		ManagerApprovedBy:     rec.ManagerApprovedBy,
		ManagerApprovedAt:     rec.ManagerApprovedAt,
		AdminApprovedBy:       rec.AdminApprovedBy,
		AdminApprovedAt:       rec.AdminApprovedAt,
		RejectedBy:            rec.RejectedBy,
		RejectedAt:            rec.RejectedAt,
		RejectionReason:       rec.RejectionReason,
		SyncState:             rec.SyncState,
		CreatedAt:             rec.CreatedAt,
		UpdatedAt:             rec.UpdatedAt,
	}
}

func ConvertRequestList(recs []dbmodels.AssetRequest) []AssetRequestView {
	result := make([]AssetRequestView, 0, len(recs))
	for _, rec := range recs {
		result = append(result, ConvertRequest(rec))
	}
	return result
}

// InventoryAssetData covers direct admin creation and edits of inventory
// entries. Assignment from an approved request fills these fields itself.
type InventoryAssetData struct {
	EmployeeEmail string               `json:"employee_email"`
	Category      models.AssetCategory `json:"category"`
	Description   string               `json:"description"`
	SerialNumber  *string              `json:"serial_number"`
	AssignedDate  string               `json:"assigned_date"` // YYYY-MM-DD
	Cost          *float64             `json:"cost"`
	Currency      models.Currency      `json:"currency"`
	Notes         string               `json:"notes"`
}

func (d InventoryAssetData) Validate() error {
	if d.EmployeeEmail == "" {
		return apperrors.Validation("employee_email is required")
	}
	if !d.Category.IsValid() {
		return apperrors.Validation("unknown asset category: %s", d.Category)
	}
	if d.Description == "" {
		return apperrors.Validation("description is required")
	}
	if _, err := apimodels.ParseDate("assigned_date", d.AssignedDate); err != nil {
		return err
	}
	if d.Cost != nil && *d.Cost < 0 {
		return apperrors.Validation("cost can not be negative")
	}
	if d.Currency != "" && !d.Currency.IsValid() {
		return apperrors.Validation("unknown currency: %s", d.Currency)
	}
	return nil
}

func (d InventoryAssetData) AssignedDateValue() time.Time {
	v, _ := apimodels.ParseDate("assigned_date", d.AssignedDate)
	return v
}

// StatusChangeData moves an inventory asset between lifecycle states.
type StatusChangeData struct {
	Status models.AssetStatus `json:"status"`
	Notes  string             `json:"notes"`
}

func (d StatusChangeData) Validate() error {
	if !d.Status.IsValid() {
		return apperrors.Validation("unknown asset status: %s", d.Status)
	}
	return nil
}

type ReassignData struct {
	EmployeeEmail string `json:"employee_email"`
	Notes         string `json:"notes"`
}

func (d ReassignData) Validate() error {
	if d.EmployeeEmail == "" {
		return apperrors.Validation("employee_email is required")
	}
	return nil
}

type InventoryAssetView struct {
	ID            string               `json:"id"`
	EmployeeEmail string               `json:"employee_email"`
	Category      models.AssetCategory `json:"category"`
	CategoryName  string               `json:"category_name"`
	Description   string               `json:"description"`
	SerialNumber  *string              `json:"serial_number"`
	AssignedDate  string               `json:"assigned_date"`
	AssignedBy    string               `json:"assigned_by"`
	Cost          *float64             `json:"cost"`
	Currency      models.Currency      `json:"currency"`
	Status        models.AssetStatus   `json:"status"`
	StatusName    string               `json:"status_name"`
	Notes         string               `json:"notes"`
	ReturnDate    *string              `json:"return_date"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func ConvertAsset(rec dbmodels.EmployeeAsset) InventoryAssetView {
	view := InventoryAssetView{
		ID:            rec.ID,
		EmployeeEmail: rec.EmployeeEmail,
		Category:      rec.Category,
		CategoryName:  rec.Category.ToHuman(),
		Description:   rec.Description,
		SerialNumber:  rec.SerialNumber,
		AssignedDate:  apimodels.FormatDate(rec.AssignedDate),
		AssignedBy:    rec.AssignedBy,
		Cost:          rec.Cost,
		Currency:      rec.Currency,
		Status:        rec.Status,
		StatusName:    rec.Status.ToHuman(),
		Notes:         rec.Notes,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
	if rec.ReturnDate != nil {
		d := apimodels.FormatDate(*rec.ReturnDate)
		view.ReturnDate = &d
	}
	return view
}

func ConvertAssetList(recs []dbmodels.EmployeeAsset) []InventoryAssetView {
	result := make([]InventoryAssetView, 0, len(recs))
	for _, rec := range recs {
		result = append(result, ConvertAsset(rec))
	}
	return result
}

type AuditLogView struct {
	ID         string                  `json:"id"`
	AssetID    string                  `json:"asset_id"`
	ActorEmail string                  `json:"actor_email"`
	Action     models.AssetAuditAction `json:"action"`
	Changes    dbmodels.EntityChanges  `json:"changes"`
	ChangedAt  time.Time               `json:"changed_at"`
}

func ConvertAuditLog(rec dbmodels.AssetAuditLog) AuditLogView {
	return AuditLogView{
		ID:         rec.ID,
		AssetID:    rec.AssetID,
		ActorEmail: rec.ActorEmail,
		Action:     rec.Action,
		Changes:    rec.Changes,
		ChangedAt:  rec.ChangedAt,
	}
}
