package dbmodels

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hr-portal-backend/models"
)

// EmployeeAsset is mutated only through the asset inventory handler, which
// appends one audit row per mutation inside the same transaction.
type EmployeeAsset struct {
	BaseModel
	EmployeeEmail string               `gorm:"type:varchar(255);index" json:"employee_email"`
	Category      models.AssetCategory `gorm:"type:varchar(50)" json:"category"`
	Description   string               `json:"description"`
	SerialNumber  *string              `gorm:"type:varchar(255)" json:"serial_number"`
	AssignedDate  time.Time            `gorm:"type:date" json:"assigned_date"`
	AssignedBy    string               `gorm:"type:varchar(255)" json:"assigned_by"`
	Cost          *float64             `json:"cost"`
	Currency      models.Currency      `gorm:"type:varchar(10)" json:"currency"`
	Status        models.AssetStatus   `gorm:"type:varchar(50);index" json:"status"`
	Notes         string               `json:"notes"`
	ReturnDate    *time.Time           `gorm:"type:date" json:"return_date"`
}

func (EmployeeAsset) TableName() string {
	return "employee_assets"
}

// AssetAuditLog rows are append-only: no update or delete path exists.
type AssetAuditLog struct {
	ID         string                  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AssetID    string                  `gorm:"type:varchar(36);index" json:"asset_id"`
	ActorEmail string                  `gorm:"type:varchar(255)" json:"actor_email"`
	Action     models.AssetAuditAction `gorm:"type:varchar(50)" json:"action"`
	Changes    EntityChanges           `gorm:"type:text" json:"changes"`
	ChangedAt  time.Time               `gorm:"index" json:"changed_at"`
}

func (AssetAuditLog) TableName() string {
	return "asset_audit_logs"
}

func (l *AssetAuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
