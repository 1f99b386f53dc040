package tripapimodels

import (
	"time"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/models"
	apimodels "hr-portal-backend/models/api"
	dbmodels "hr-portal-backend/models/db"
)

type TripData struct {
	Destination         string          `json:"destination"`
	StartDate           string          `json:"start_date"` // YYYY-MM-DD
	EndDate             string          `json:"end_date"`   // YYYY-MM-DD
	Purpose             string          `json:"purpose"`
	ExpectedGoal        string          `json:"expected_goal"`
	EstimatedBudget     float64         `json:"estimated_budget"`
	Currency            models.Currency `json:"currency"`
	NeedsAdvanceFunding bool            `json:"needs_advance_funding"`
	AdvanceAmount       *float64        `json:"advance_amount"`
}

func (d TripData) Validate() error {
	if d.Destination == "" {
		return apperrors.Validation("destination is required")
	}
	if d.Purpose == "" {
		return apperrors.Validation("purpose is required")
	}
	start, end, err := d.Dates()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return apperrors.Validation("end_date is before start_date")
	}
	if d.EstimatedBudget <= 0 {
		return apperrors.Validation("estimated_budget must be positive")
	}
	if !d.Currency.IsValid() {
		return apperrors.Validation("unknown currency: %s", d.Currency)
	}
	if d.NeedsAdvanceFunding {
		if d.AdvanceAmount == nil || *d.AdvanceAmount <= 0 {
			return apperrors.Validation("advance_amount must be positive when advance funding is requested")
		}
		if *d.AdvanceAmount > d.EstimatedBudget {
			return apperrors.Validation("advance_amount exceeds estimated_budget")
		}
	}
	return nil
}

func (d TripData) Dates() (start, end time.Time, err error) {
	start, err = apimodels.ParseDate("start_date", d.StartDate)
	if err != nil {
		return
	}
	end, err = apimodels.ParseDate("end_date", d.EndDate)
	return
}

type TripView struct {
	ID                  string               `json:"id"`
	EmployeeEmail       string               `json:"employee_email"`
	ManagerEmail        string               `json:"manager_email"`
	Status              models.TripStatus    `json:"status"`
	StatusName          string               `json:"status_name"`
	Destination         string               `json:"destination"`
	StartDate           string               `json:"start_date"`
	EndDate             string               `json:"end_date"`
	Purpose             string               `json:"purpose"`
	ExpectedGoal        string               `json:"expected_goal"`
	EstimatedBudget     float64              `json:"estimated_budget"`
	Currency            models.Currency      `json:"currency"`
	NeedsAdvanceFunding bool                 `json:"needs_advance_funding"`
	AdvanceAmount       *float64             `json:"advance_amount"`
	DriveFolderURL      string               `json:"drive_folder_url"`
	SpreadsheetURL      string               `json:"spreadsheet_url"`
	ManagerApprovedBy   *string              `json:"manager_approved_by"`
	ManagerApprovedAt   *time.Time           `json:"manager_approved_at"`
	AdminApprovedBy     *string              `json:"admin_approved_by"`
	AdminApprovedAt     *time.Time           `json:"admin_approved_at"`
	RejectedBy          *string              `json:"rejected_by"`
	RejectedAt          *time.Time           `json:"rejected_at"`
	RejectionReason     string               `json:"rejection_reason"`
	SyncState           models.SyncState     `json:"sync_state"`
	Justifications      []JustificationView  `json:"justifications,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

func Convert(rec dbmodels.TripRequest) TripView {
	view := TripView{
		ID:                  rec.ID,
		EmployeeEmail:       rec.EmployeeEmail,
		ManagerEmail:        rec.ManagerEmail,
		Status:              rec.Status,
		StatusName:          rec.Status.ToHuman(),
		Destination:         rec.Destination,
		StartDate:           apimodels.FormatDate(rec.StartDate),
		EndDate:             apimodels.FormatDate(rec.EndDate),
		Purpose:             rec.Purpose,
		ExpectedGoal:        rec.ExpectedGoal,
		EstimatedBudget:     rec.EstimatedBudget,
		Currency:            rec.Currency,
		NeedsAdvanceFunding: rec.NeedsAdvanceFunding,
		AdvanceAmount:       rec.AdvanceAmount,
		DriveFolderURL:      rec.DriveFolderURL,
		SpreadsheetURL:      rec.SpreadsheetURL,
		ManagerApprovedBy:   rec.ManagerApprovedBy,
		ManagerApprovedAt:   rec.ManagerApprovedAt,
		AdminApprovedBy:     rec.AdminApprovedBy,
		AdminApprovedAt:     rec.AdminApprovedAt,
		RejectedBy:          rec.RejectedBy,
		RejectedAt:          rec.RejectedAt,
		RejectionReason:     rec.RejectionReason,
		SyncState:           rec.SyncState,
		CreatedAt:           rec.CreatedAt,
		UpdatedAt:           rec.UpdatedAt,
	}
	for _, j := range rec.Justifications {
		view.Justifications = append(view.Justifications, ConvertJustification(j))
	}
	return view
}

func ConvertList(recs []dbmodels.TripRequest) []TripView {
	result := make([]TripView, 0, len(recs))
	for _, rec := range recs {
		result = append(result, Convert(rec))
	}
	return result
}

type JustificationData struct {
	TotalClaimed *float64 `json:"total_claimed"`
	Notes        string   `json:"notes"`
	ReceiptKeys  []string `json:"receipt_keys"`
}

func (d JustificationData) Validate() error {
	if d.TotalClaimed == nil || *d.TotalClaimed < 0 {
		return apperrors.Validation("total_claimed is required and can not be negative")
	}
	if len(d.ReceiptKeys) == 0 {
		return apperrors.Validation("at least one receipt is required")
	}
	return nil
}

// JustificationReviewData is the admin verdict on a submitted justification.
type JustificationReviewData struct {
	Approve       bool     `json:"approve"`
	TotalApproved *float64 `json:"total_approved"`
	AdminFeedback string   `json:"admin_feedback"`
}

func (d JustificationReviewData) Validate() error {
	if d.Approve {
		if d.TotalApproved == nil || *d.TotalApproved < 0 {
			return apperrors.Validation("total_approved is required and can not be negative on approval")
		}
		return nil
	}
	if d.AdminFeedback == "" {
		return apperrors.Validation("admin_feedback is required on rejection")
	}
	return nil
}

type JustificationView struct {
	ID               string                     `json:"id"`
	TripRequestID    string                     `json:"trip_request_id"`
	EmployeeEmail    string                     `json:"employee_email"`
	SubmissionNumber int                        `json:"submission_number"`
	Status           models.JustificationStatus `json:"status"`
	StatusName       string                     `json:"status_name"`
	TotalClaimed     *float64                   `json:"total_claimed"`
	TotalApproved    *float64                   `json:"total_approved"`
	Notes            string                     `json:"notes"`
	AdminFeedback    string                     `json:"admin_feedback"`
	ReceiptKeys      []string                   `json:"receipt_keys"`
	ReviewedBy       *string                    `json:"reviewed_by"`
	ReviewedAt       *time.Time                 `json:"reviewed_at"`
	CreatedAt        time.Time                  `json:"created_at"`
}

func ConvertJustification(rec dbmodels.TripJustification) JustificationView {
	return JustificationView{
		ID:               rec.ID,
		TripRequestID:    rec.TripRequestID,
		EmployeeEmail:    rec.EmployeeEmail,
		SubmissionNumber: rec.SubmissionNumber,
		Status:           rec.Status,
		StatusName:       rec.Status.ToHuman(),
		TotalClaimed:     rec.TotalClaimed,
		TotalApproved:    rec.TotalApproved,
		Notes:            rec.Notes,
		AdminFeedback:    rec.AdminFeedback,
		ReceiptKeys:      rec.ReceiptKeys,
		ReviewedBy:       rec.ReviewedBy,
		ReviewedAt:       rec.ReviewedAt,
		CreatedAt:        rec.CreatedAt,
	}
}
