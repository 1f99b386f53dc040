package employeestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hr-portal-backend/lib/utils/helpers"
	dbmodels "hr-portal-backend/models/db"
)

type Provider interface {
	Upsert(rec dbmodels.Employee) error
	GetByEmail(email string) (rec *dbmodels.Employee, err error)
	List(filter ListFilter) (list []dbmodels.Employee, err error)
	Update(email string, updMap map[string]interface{}) error
	ListByManager(managerEmail string) (list []dbmodels.Employee, err error)
	HasReports(email string) (bool, error)
}

type ListFilter struct {
	ActiveOnly bool
	Department string
	Search     string
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Upsert inserts or refreshes a directory entry keyed by email. Sync runs
// overwrite directory-owned columns only, HR-managed columns survive.
func (i impl) Upsert(rec dbmodels.Employee) error {
	rec.Email = helpers.NormalizeEmail(rec.Email)
	err := i.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"workspace_id", "given_name", "family_name", "full_name",
			"photo_url", "department", "job_title", "location",
			"is_active", "last_workspace_sync", "updated_at",
		}),
	}).Create(&rec).Error
	if err != nil {
		return errors.Wrap(err, "failed to upsert employee")
	}
	return nil
}

func (i impl) GetByEmail(email string) (*dbmodels.Employee, error) {
	rec := dbmodels.Employee{}
	err := i.db.
		Where("email = ?", helpers.NormalizeEmail(email)).
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

func (i impl) List(filter ListFilter) (list []dbmodels.Employee, err error) {
	list = []dbmodels.Employee{}
	tx := i.db.Order("full_name")
	if filter.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}
	if filter.Department != "" {
		tx = tx.Where("department = ?", filter.Department)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		tx = tx.Where("full_name LIKE ? OR email LIKE ?", like, like)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(email string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Employee{}).
		Where("email = ?", helpers.NormalizeEmail(email)).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("employee not found")
	}
	return nil
}

func (i impl) ListByManager(managerEmail string) (list []dbmodels.Employee, err error) {
	list = []dbmodels.Employee{}
	err = i.db.
		Where("manager_email = ?", helpers.NormalizeEmail(managerEmail)).
		Order("full_name").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) HasReports(email string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.Employee{}).
		Where("manager_email = ?", helpers.NormalizeEmail(email)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
