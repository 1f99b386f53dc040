package employeehandler

import (
	"github.com/pkg/errors"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/config"
	"hr-portal-backend/db"
	employeestore "hr-portal-backend/lib/employee/store"
	"hr-portal-backend/lib/utils/helpers"
	"hr-portal-backend/lib/workday"
	authapimodels "hr-portal-backend/models/api/auth"
	employeeapimodels "hr-portal-backend/models/api/employee"
)

type Provider interface {
	GetByEmail(email string) (employeeapimodels.EmployeeView, error)
	List(filter employeestore.ListFilter) ([]employeeapimodels.EmployeeView, error)
	Update(email string, data employeeapimodels.EmployeeUpdateData) error
	Profile(email string) (authapimodels.ProfileView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: employeestore.NewInstance(db.DB),
	}
}

type impl struct {
	store employeestore.Provider
}

func (i impl) GetByEmail(email string) (employeeapimodels.EmployeeView, error) {
	rec, err := i.store.GetByEmail(email)
	if err != nil {
		return employeeapimodels.EmployeeView{}, errors.Wrap(err, "failed to load employee")
	}
	if rec == nil {
		return employeeapimodels.EmployeeView{}, apperrors.NotFound("employee", email)
	}
	return employeeapimodels.Convert(*rec), nil
}

func (i impl) List(filter employeestore.ListFilter) ([]employeeapimodels.EmployeeView, error) {
	list, err := i.store.List(filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list employees")
	}
	result := make([]employeeapimodels.EmployeeView, 0, len(list))
	for _, rec := range list {
		result = append(result, employeeapimodels.Convert(rec))
	}
	return result, nil
}

func (i impl) Update(email string, data employeeapimodels.EmployeeUpdateData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	rec, err := i.store.GetByEmail(email)
	if err != nil {
		return errors.Wrap(err, "failed to load employee")
	}
	if rec == nil {
		return apperrors.NotFound("employee", email)
	}
	updMap := map[string]interface{}{}
	if data.ManagerEmail != nil {
		manager := helpers.NormalizeEmail(*data.ManagerEmail)
		if manager != "" {
			if manager == helpers.NormalizeEmail(email) {
				return apperrors.Validation("an employee can not be their own manager")
			}
			managerRec, err := i.store.GetByEmail(manager)
			if err != nil {
				return errors.Wrap(err, "failed to load manager")
			}
			if managerRec == nil {
				return apperrors.Validation("manager %s is not a known employee", manager)
			}
			updMap["manager_email"] = manager
		} else {
			updMap["manager_email"] = nil
		}
	}
	if data.HolidayRegion != nil {
		if *data.HolidayRegion != "" && !workday.IsKnownRegion(*data.HolidayRegion) {
			return apperrors.Validation("unknown holiday region: %s", *data.HolidayRegion)
		}
		if *data.HolidayRegion == "" {
			updMap["holiday_region"] = nil
		} else {
			updMap["holiday_region"] = *data.HolidayRegion
		}
	}
	if data.Department != nil {
		updMap["department"] = *data.Department
	}
	if data.JobTitle != nil {
		updMap["job_title"] = *data.JobTitle
	}
	if data.Location != nil {
		updMap["location"] = *data.Location
	}
	if data.Country != nil {
		updMap["country"] = *data.Country
	}
	if data.Region != nil {
		updMap["region"] = *data.Region
	}
	if data.VacationDaysPerYear != nil {
		updMap["vacation_days_per_year"] = *data.VacationDaysPerYear
	}
	if data.IsActive != nil {
		updMap["is_active"] = *data.IsActive
	}
	if len(updMap) == 0 {
		return nil
	}
	return i.store.Update(email, updMap)
}

func (i impl) Profile(email string) (authapimodels.ProfileView, error) {
	rec, err := i.store.GetByEmail(email)
	if err != nil {
		return authapimodels.ProfileView{}, errors.Wrap(err, "failed to load employee")
	}
	if rec == nil {
		return authapimodels.ProfileView{}, apperrors.NotFound("employee", email)
	}
	isManager, err := i.store.HasReports(rec.Email)
	if err != nil {
		return authapimodels.ProfileView{}, errors.Wrap(err, "failed to check reports")
	}
	return authapimodels.ProfileView{
		Email:        rec.Email,
		FullName:     rec.FullName,
		PhotoURL:     rec.PhotoURL,
		ManagerEmail: rec.ManagerEmail,
		IsAdmin:      config.Conf.IsAdminEmail(rec.Email),
		IsManager:    isManager,
	}, nil
}
