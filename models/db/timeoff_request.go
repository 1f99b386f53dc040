package dbmodels

import (
	"time"

	"hr-portal-backend/models"
)

type TimeOffRequest struct {
	BaseModel
	ApprovalFields
	SideEffectFields
	Status models.ApprovalStatus `gorm:"type:varchar(50);index" json:"status"`

	StartDate   time.Time          `gorm:"type:date" json:"start_date"`
	EndDate     time.Time          `gorm:"type:date" json:"end_date"`
	TimeOffType models.TimeOffType `gorm:"type:varchar(50)" json:"timeoff_type"`
	Notes       string             `json:"notes"`

	// HolidayRegion and WorkingDaysCount are frozen at creation time and
	// recomputed only on edit. A later change of the employee's region does
	// not invalidate stored requests.
	HolidayRegion    string `gorm:"type:varchar(50)" json:"holiday_region"`
	WorkingDaysCount int    `json:"working_days_count"`

	CalendarEventID      *string `gorm:"type:varchar(255)" json:"calendar_event_id"`
	AutoresponderEnabled bool    `json:"autoresponder_enabled"`
}

func (TimeOffRequest) TableName() string {
	return "timeoff_requests"
}

func (r TimeOffRequest) CalendarDays() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}
