package dbmodels

import (
	"time"
)

// Employee mirrors a workspace directory entry plus HR-managed attributes.
// Rows are created or refreshed by directory sync and edited by admins,
// never deleted.
type Employee struct {
	Email               string     `gorm:"primaryKey;type:varchar(255)" json:"email"`
	WorkspaceID         string     `gorm:"type:varchar(100)" json:"workspace_id"`
	GivenName           string     `gorm:"type:varchar(255)" json:"given_name"`
	FamilyName          string     `gorm:"type:varchar(255)" json:"family_name"`
	FullName            string     `gorm:"type:varchar(255)" json:"full_name"`
	PhotoURL            string     `json:"photo_url"`
	ManagerEmail        *string    `gorm:"type:varchar(255);index" json:"manager_email"`
	Department          string     `gorm:"type:varchar(255)" json:"department"`
	JobTitle            string     `gorm:"type:varchar(255)" json:"job_title"`
	Location            string     `gorm:"type:varchar(255)" json:"location"`
	Country             string     `gorm:"type:varchar(100)" json:"country"`
	Region              string     `gorm:"type:varchar(100)" json:"region"`
	HolidayRegion       *string    `gorm:"type:varchar(50)" json:"holiday_region"`
	VacationDaysPerYear int        `json:"vacation_days_per_year"`
	IsActive            bool       `json:"is_active"`
	LastWorkspaceSync   *time.Time `json:"last_workspace_sync"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (e Employee) DisplayName() string {
	if e.FullName == "" {
		return e.Email
	}
	return e.FullName + " (" + e.Email + ")"
}

// HolidayRegionCode returns the region code or "" when the employee has
// no regional calendar assigned.
func (e Employee) HolidayRegionCode() string {
	if e.HolidayRegion == nil {
		return ""
	}
	return *e.HolidayRegion
}
