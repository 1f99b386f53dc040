package balancehandler

import (
	"github.com/pkg/errors"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/db"
	employeestore "hr-portal-backend/lib/employee/store"
	timeoffstore "hr-portal-backend/lib/timeoff/store"
	"hr-portal-backend/models"
	employeeapimodels "hr-portal-backend/models/api/employee"
)

// Provider computes vacation balances on demand. Nothing is cached: the
// summary is rebuilt from approved requests every time, so an admin
// changing the yearly allowance is reflected immediately (and may push
// the remainder negative, which is reported as-is).
type Provider interface {
	Summary(email string, year int) (employeeapimodels.VacationSummaryView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		employeeStore: employeestore.NewInstance(db.DB),
		timeoffStore:  timeoffstore.NewInstance(db.DB),
	}
}

type impl struct {
	employeeStore employeestore.Provider
	timeoffStore  timeoffstore.Provider
}

func (i impl) Summary(email string, year int) (employeeapimodels.VacationSummaryView, error) {
	empty := employeeapimodels.VacationSummaryView{}
	employee, err := i.employeeStore.GetByEmail(email)
	if err != nil {
		return empty, errors.Wrap(err, "failed to load employee")
	}
	if employee == nil {
		return empty, apperrors.NotFound("employee", email)
	}
	used, err := i.timeoffStore.SumVacationWorkingDays(employee.Email, year,
		[]models.ApprovalStatus{models.ApprovalStatusApproved})
	if err != nil {
		return empty, err
	}
	pending, err := i.timeoffStore.SumVacationWorkingDays(employee.Email, year,
		[]models.ApprovalStatus{models.ApprovalStatusPending, models.ApprovalStatusManagerApproved})
	if err != nil {
		return empty, err
	}
	return employeeapimodels.VacationSummaryView{
		Email:         employee.Email,
		Year:          year,
		TotalDays:     employee.VacationDaysPerYear,
		UsedDays:      used,
		RemainingDays: employee.VacationDaysPerYear - used,
		PendingDays:   pending,
		HolidayRegion: employee.HolidayRegion,
	}, nil
}
