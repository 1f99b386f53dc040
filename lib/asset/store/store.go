package assetstore

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
	CreateRequest(rec dbmodels.AssetRequest) (id string, err error)
	GetRequestByID(id string) (rec *dbmodels.AssetRequest, err error)
	UpdateRequest(id string, updMap map[string]interface{}) error
	DeleteRequest(id string) error
	ListRequestsByEmployee(email string) (list []dbmodels.AssetRequest, err error)
	ListRequestsByManager(managerEmail string, statuses []models.ApprovalStatus) (list []dbmodels.AssetRequest, err error)
	ListAllRequests(filter AdminFilter) (list []dbmodels.AssetRequest, err error)
	Transition(tr approval.Transition) error
	// FinalizeApproval applies the admin approval transition, creates the
	// inventory entry with its audit row and links it back to the request,
	// all in one transaction.
	FinalizeApproval(tr approval.Transition, asset dbmodels.EmployeeAsset, audit dbmodels.AssetAuditLog) (assetID string, err error)

	CreateAsset(asset dbmodels.EmployeeAsset, audit dbmodels.AssetAuditLog) (id string, err error)
	GetAssetByID(id string) (rec *dbmodels.EmployeeAsset, err error)
	UpdateAsset(id string, updMap map[string]interface{}, audit dbmodels.AssetAuditLog) error
	ListAssetsByEmployee(email string) (list []dbmodels.EmployeeAsset, err error)
	ListAllAssets(filter InventoryFilter) (list []dbmodels.EmployeeAsset, err error)
	ListAuditLog(assetID string) (list []dbmodels.AssetAuditLog, err error)
}

type AdminFilter struct {
	Status models.ApprovalStatus
	Email  string
}

type InventoryFilter struct {
	Status models.AssetStatus
	Email  string
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateRequest(rec dbmodels.AssetRequest) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetRequestByID(id string) (*dbmodels.AssetRequest, error) {
	rec := dbmodels.AssetRequest{}
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

func (i impl) UpdateRequest(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.AssetRequest{}).
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

func (i impl) DeleteRequest(id string) error {
	return i.db.
		Delete(&dbmodels.AssetRequest{BaseModel: dbmodels.BaseModel{ID: id}}).
		Error
}

func (i impl) ListRequestsByEmployee(email string) (list []dbmodels.AssetRequest, err error) {
	list = []dbmodels.AssetRequest{}
	err = i.db.
		Where("employee_email = ?", helpers.NormalizeEmail(email)).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListRequestsByManager(managerEmail string, statuses []models.ApprovalStatus) (list []dbmodels.AssetRequest, err error) {
	list = []dbmodels.AssetRequest{}
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

func (i impl) ListAllRequests(filter AdminFilter) (list []dbmodels.AssetRequest, err error) {
	list = []dbmodels.AssetRequest{}
	tx := i.db.Order("created_at desc")
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.Email != "" {
		tx = tx.Where("employee_email = ?", helpers.NormalizeEmail(filter.Email))
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Transition(tr approval.Transition) error {
	return approval.ApplyTransition(i.db, &dbmodels.AssetRequest{}, tr)
}

func (i impl) FinalizeApproval(tr approval.Transition, asset dbmodels.EmployeeAsset, audit dbmodels.AssetAuditLog) (string, error) {
	err := i.db.Transaction(func(tx *gorm.DB) error {
		if err := approval.ApplyTransition(tx, &dbmodels.AssetRequest{}, tr); err != nil {
			return err
		}
		if err := tx.Create(&asset).Error; err != nil {
			return err
		}
		audit.AssetID = asset.ID
		if audit.ChangedAt.IsZero() {
			audit.ChangedAt = time.Now()
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}
		return tx.
			Model(&dbmodels.AssetRequest{}).
			Where("id = ?", tr.RequestID).
			Update("asset_id", asset.ID).
			Error
	})
	if err != nil {
		return "", err
	}
	return asset.ID, nil
}

func (i impl) CreateAsset(asset dbmodels.EmployeeAsset, audit dbmodels.AssetAuditLog) (string, error) {
	err := i.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&asset).Error; err != nil {
			return err
		}
		audit.AssetID = asset.ID
		if audit.ChangedAt.IsZero() {
			audit.ChangedAt = time.Now()
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return "", err
	}
	return asset.ID, nil
}

// UpdateAsset mutates the inventory row and appends the audit entry in
// the same transaction, so the log never misses a change.
func (i impl) UpdateAsset(id string, updMap map[string]interface{}, audit dbmodels.AssetAuditLog) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&dbmodels.EmployeeAsset{}).
			Where("id = ?", id).
			Updates(updMap)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("record not found")
		}
		audit.AssetID = id
		if audit.ChangedAt.IsZero() {
			audit.ChangedAt = time.Now()
		}
		return tx.Create(&audit).Error
	})
}

func (i impl) GetAssetByID(id string) (*dbmodels.EmployeeAsset, error) {
	rec := dbmodels.EmployeeAsset{}
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

func (i impl) ListAssetsByEmployee(email string) (list []dbmodels.EmployeeAsset, err error) {
	list = []dbmodels.EmployeeAsset{}
	err = i.db.
		Where("employee_email = ?", helpers.NormalizeEmail(email)).
		Order("assigned_date desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListAllAssets(filter InventoryFilter) (list []dbmodels.EmployeeAsset, err error) {
	list = []dbmodels.EmployeeAsset{}
	tx := i.db.Order("assigned_date desc")
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.Email != "" {
		tx = tx.Where("employee_email = ?", helpers.NormalizeEmail(filter.Email))
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListAuditLog(assetID string) (list []dbmodels.AssetAuditLog, err error) {
	list = []dbmodels.AssetAuditLog{}
	err = i.db.
		Where("asset_id = ?", assetID).
		Order("changed_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func statusStrings(statuses []models.ApprovalStatus) []string {
	result := make([]string, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, string(s))
	}
	return result
}
