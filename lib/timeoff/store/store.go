package timeoffstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"hr-portal-backend/lib/approval"
	"hr-portal-backend/lib/utils/helpers"
	"hr-portal-backend/models"
	dbmodels "hr-portal-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TimeOffRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.TimeOffRequest, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	ListByEmployee(email string, year int) (list []dbmodels.TimeOffRequest, err error)
	ListByManager(managerEmail string, statuses []models.ApprovalStatus) (list []dbmodels.TimeOffRequest, err error)
	ListAll(filter AdminFilter) (list []dbmodels.TimeOffRequest, err error)
	Transition(tr approval.Transition) error
	SumVacationWorkingDays(email string, year int, statuses []models.ApprovalStatus) (int, error)
}

type AdminFilter struct {
	Status models.ApprovalStatus
	Email  string
	Year   int
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TimeOffRequest) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.TimeOffRequest, error) {
	rec := dbmodels.TimeOffRequest{}
	err := i.db.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.TimeOffRequest{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("record not found")
	}
	return nil
}

func (i impl) Delete(id string) error {
	return i.db.
		Delete(&dbmodels.TimeOffRequest{BaseModel: dbmodels.BaseModel{ID: id}}).
		Error
}

func yearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

func (i impl) ListByEmployee(email string, year int) (list []dbmodels.TimeOffRequest, err error) {
	list = []dbmodels.TimeOffRequest{}
	tx := i.db.
		Where("employee_email = ?", helpers.NormalizeEmail(email)).
		Order("start_date desc")
	if year != 0 {
		from, to := yearRange(year)
		tx = tx.Where("start_date >= ? AND start_date < ?", from, to)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByManager(managerEmail string, statuses []models.ApprovalStatus) (list []dbmodels.TimeOffRequest, err error) {
	list = []dbmodels.TimeOffRequest{}
	tx := i.db.
		Where("manager_email = ?", helpers.NormalizeEmail(managerEmail)).
		Order("created_at")
	if len(statuses) != 0 {
		tx = tx.Where("status IN ?", statusStrings(statuses))
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListAll(filter AdminFilter) (list []dbmodels.TimeOffRequest, err error) {
	list = []dbmodels.TimeOffRequest{}
	tx := i.db.Order("created_at desc")
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.Email != "" {
		tx = tx.Where("employee_email = ?", helpers.NormalizeEmail(filter.Email))
	}
	if filter.Year != 0 {
		from, to := yearRange(filter.Year)
		tx = tx.Where("start_date >= ? AND start_date < ?", from, to)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Transition(tr approval.Transition) error {
	return approval.ApplyTransition(i.db, &dbmodels.TimeOffRequest{}, tr)
}

// SumVacationWorkingDays totals frozen working-day counts of vacation
// requests whose start date falls within the year.
func (i impl) SumVacationWorkingDays(email string, year int, statuses []models.ApprovalStatus) (int, error) {
	from, to := yearRange(year)
	var total *int
	err := i.db.
		Model(&dbmodels.TimeOffRequest{}).
		Select("SUM(working_days_count)").
		Where("employee_email = ?", helpers.NormalizeEmail(email)).
		Where("timeoff_type = ?", string(models.TimeOffTypeVacation)).
		Where("status IN ?", statusStrings(statuses)).
		Where("start_date >= ? AND start_date < ?", from, to).
		Scan(&total).
		Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum vacation days")
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func statusStrings(statuses []models.ApprovalStatus) []string {
	result := make([]string, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, string(s))
	}
	return result
}
