package timeoffapimodels

import (
	"time"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/models"
	apimodels "hr-portal-backend/models/api"
	dbmodels "hr-portal-backend/models/db"
)

type TimeOffData struct {
	StartDate            string             `json:"start_date"` // YYYY-MM-DD
	EndDate              string             `json:"end_date"`   // YYYY-MM-DD
	TimeOffType          models.TimeOffType `json:"timeoff_type"`
	Notes                string             `json:"notes"`
	AutoresponderEnabled bool               `json:"autoresponder_enabled"`
}

func (d TimeOffData) Validate() error {
	start, end, err := d.Dates()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return apperrors.Validation("end_date is before start_date")
	}
	if !d.TimeOffType.IsValid() {
		return apperrors.Validation("unknown timeoff type: %s", d.TimeOffType)
	}
	return nil
}

func (d TimeOffData) Dates() (start, end time.Time, err error) {
	start, err = apimodels.ParseDate("start_date", d.StartDate)
	if err != nil {
		return
	}
	end, err = apimodels.ParseDate("end_date", d.EndDate)
	return
}

type TimeOffView struct {
	ID                   string                `json:"id"`
	EmployeeEmail        string                `json:"employee_email"`
	ManagerEmail         string                `json:"manager_email"`
	Status               models.ApprovalStatus `json:"status"`
	StatusName           string                `json:"status_name"`
	StartDate            string                `json:"start_date"`
	EndDate              string                `json:"end_date"`
	TimeOffType          models.TimeOffType    `json:"timeoff_type"`
	TimeOffTypeName      string                `json:"timeoff_type_name"`
	Notes                string                `json:"notes"`
	HolidayRegion        string                `json:"holiday_region"`
	WorkingDaysCount     int                   `json:"working_days_count"`
	CalendarDays         int                   `json:"calendar_days"`
	AutoresponderEnabled bool                  `json:"autoresponder_enabled"`
	ManagerApprovedBy    *string               `json:"manager_approved_by"`
	ManagerApprovedAt    *time.Time            `json:"manager_approved_at"`
	AdminApprovedBy      *string               `json:"admin_approved_by"`
	AdminApprovedAt      *time.Time            `json:"admin_approved_at"`
	RejectedBy           *string               `json:"rejected_by"`
	RejectedAt           *time.Time            `json:"rejected_at"`
	RejectionReason      string                `json:"rejection_reason"`
	SyncState            models.SyncState      `json:"sync_state"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

func Convert(rec dbmodels.TimeOffRequest) TimeOffView {
	return TimeOffView{
		ID:                   rec.ID,
		EmployeeEmail:        rec.EmployeeEmail,
		ManagerEmail:         rec.ManagerEmail,
		Status:               rec.Status,
		StatusName:           rec.Status.ToHuman(),
		StartDate:            apimodels.FormatDate(rec.StartDate),
		EndDate:              apimodels.FormatDate(rec.EndDate),
		TimeOffType:          rec.TimeOffType,
		TimeOffTypeName:      rec.TimeOffType.ToHuman(),
		Notes:                rec.Notes,
		HolidayRegion:        rec.HolidayRegion,
		WorkingDaysCount:     rec.WorkingDaysCount,
		CalendarDays:         rec.CalendarDays(),
		AutoresponderEnabled: rec.AutoresponderEnabled,
		ManagerApprovedBy:    rec.ManagerApprovedBy,
		ManagerApprovedAt:    rec.ManagerApprovedAt,
		AdminApprovedBy:      rec.AdminApprovedBy,
		AdminApprovedAt:      rec.AdminApprovedAt,
		RejectedBy:           rec.RejectedBy,
		RejectedAt:           rec.RejectedAt,
		RejectionReason:      rec.RejectionReason,
		SyncState:            rec.SyncState,
		CreatedAt:            rec.CreatedAt,
		UpdatedAt:            rec.UpdatedAt,
	}
}

func ConvertList(recs []dbmodels.TimeOffRequest) []TimeOffView {
	result := make([]TimeOffView, 0, len(recs))
	for _, rec := range recs {
		result = append(result, Convert(rec))
	}
	return result
}
