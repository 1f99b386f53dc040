package employeeapimodels

import (
	"net/mail"
	"time"

	"hr-portal-backend/apperrors"
	dbmodels "hr-portal-backend/models/db"
)

type EmployeeView struct {
	Email               string     `json:"email"`
	WorkspaceID         string     `json:"workspace_id"`
	GivenName           string     `json:"given_name"`
	FamilyName          string     `json:"family_name"`
	FullName            string     `json:"full_name"`
	PhotoURL            string     `json:"photo_url"`
	ManagerEmail        *string    `json:"manager_email"`
	Department          string     `json:"department"`
	JobTitle            string     `json:"job_title"`
	Location            string     `json:"location"`
	Country             string     `json:"country"`
	Region              string     `json:"region"`
	HolidayRegion       *string    `json:"holiday_region"`
	VacationDaysPerYear int        `json:"vacation_days_per_year"`
	IsActive            bool       `json:"is_active"`
	LastWorkspaceSync   *time.Time `json:"last_workspace_sync"`
}

func Convert(rec dbmodels.Employee) EmployeeView {
	return EmployeeView{
		Email:               rec.Email,
		WorkspaceID:         rec.WorkspaceID,
		GivenName:           rec.GivenName,
		FamilyName:          rec.FamilyName,
		FullName:            rec.FullName,
		PhotoURL:            rec.PhotoURL,
		ManagerEmail:        rec.ManagerEmail,
		Department:          rec.Department,
		JobTitle:            rec.JobTitle,
		Location:            rec.Location,
		Country:             rec.Country,
		Region:              rec.Region,
		HolidayRegion:       rec.HolidayRegion,
		VacationDaysPerYear: rec.VacationDaysPerYear,
		IsActive:            rec.IsActive,
		LastWorkspaceSync:   rec.LastWorkspaceSync,
	}
}

// EmployeeUpdateData carries the HR-managed attributes an admin may edit.
// Directory-owned fields (names, photo, workspace id) are refreshed by sync
// and are not editable here.
type EmployeeUpdateData struct {
	ManagerEmail        *string `json:"manager_email"`
	Department          *string `json:"department"`
	JobTitle            *string `json:"job_title"`
	Location            *string `json:"location"`
	Country             *string `json:"country"`
	Region              *string `json:"region"`
	HolidayRegion       *string `json:"holiday_region"`
	VacationDaysPerYear *int    `json:"vacation_days_per_year"`
	IsActive            *bool   `json:"is_active"`
}

func (d EmployeeUpdateData) Validate() error {
	if d.ManagerEmail != nil && *d.ManagerEmail != "" {
		if _, err := mail.ParseAddress(*d.ManagerEmail); err != nil {
			return apperrors.Validation("manager_email has an invalid format")
		}
	}
	if d.VacationDaysPerYear != nil && *d.VacationDaysPerYear < 0 {
		return apperrors.Validation("vacation_days_per_year can not be negative")
	}
	return nil
}

type VacationSummaryView struct {
	Email         string  `json:"email"`
	Year          int     `json:"year"`
	TotalDays     int     `json:"total_days"`
	UsedDays      int     `json:"used_days"`
	RemainingDays int     `json:"remaining_days"` // may go negative, shown as-is
	PendingDays   int     `json:"pending_days"`
	HolidayRegion *string `json:"holiday_region"`
}
