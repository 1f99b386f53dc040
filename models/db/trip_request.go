package dbmodels

import (
	"time"

	"hr-portal-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TripRequest struct {
	BaseModel
	ApprovalFields
	SideEffectFields
	Status models.TripStatus `gorm:"type:varchar(50);index" json:"status"`

	Destination  string          `gorm:"type:varchar(255)" json:"destination"`
	StartDate    time.Time       `gorm:"type:date" json:"start_date"`
	EndDate      time.Time       `gorm:"type:date" json:"end_date"`
	Purpose      string          `json:"purpose"`
	ExpectedGoal string          `json:"expected_goal"`

	EstimatedBudget      float64         `json:"estimated_budget"`
	Currency             models.Currency `gorm:"type:varchar(10)" json:"currency"`
	NeedsAdvanceFunding  bool            `json:"needs_advance_funding"`
	AdvanceAmount        *float64        `json:"advance_amount"`

	// Set once by the document collaborator on admin approval.
	DriveFolderURL string `json:"drive_folder_url"`
	SpreadsheetURL string `json:"spreadsheet_url"`

	Justifications []TripJustification `gorm:"foreignKey:TripRequestID" json:"justifications,omitempty"`
}

func (TripRequest) TableName() string {
	return "trip_requests"
}

func (r TripRequest) CalendarDays() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

func (r *TripRequest) AfterDelete(tx *gorm.DB) (err error) {
	if r.ID == "" {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("trip_request_id = ?", r.ID).Delete(&TripJustification{})
	return
}

type TripJustification struct {
	BaseModel
	TripRequestID    string                     `gorm:"type:varchar(36);index" json:"trip_request_id"`
	EmployeeEmail    string                     `gorm:"type:varchar(255);index" json:"employee_email"`
	SubmissionNumber int                        `json:"submission_number"`
	Status           models.JustificationStatus `gorm:"type:varchar(50)" json:"status"`
	TotalClaimed     *float64                   `json:"total_claimed"`
	TotalApproved    *float64                   `json:"total_approved"`
	Notes            string                     `json:"notes"`
	AdminFeedback    string                     `json:"admin_feedback"`
	ReceiptKeys      StringSlice                `gorm:"type:text" json:"receipt_keys"`
	ReviewedBy       *string                    `gorm:"type:varchar(255)" json:"reviewed_by"`
	ReviewedAt       *time.Time                 `json:"reviewed_at"`
}

func (TripJustification) TableName() string {
	return "trip_justifications"
}
