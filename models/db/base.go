package dbmodels

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hr-portal-backend/models"
)

type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ApprovalFields is embedded by every request kind going through the shared
// two-tier approval workflow. The status column itself is declared per
// entity (trips carry extra post-approval statuses).
type ApprovalFields struct {
	EmployeeEmail     string     `gorm:"type:varchar(255);index" json:"employee_email"`
	ManagerEmail      string     `gorm:"type:varchar(255);index" json:"manager_email"`
	ManagerApprovedBy *string    `gorm:"type:varchar(255)" json:"manager_approved_by"`
	ManagerApprovedAt *time.Time `json:"manager_approved_at"`
	AdminApprovedBy   *string    `gorm:"type:varchar(255)" json:"admin_approved_by"`
	AdminApprovedAt   *time.Time `json:"admin_approved_at"`
	RejectedBy        *string    `gorm:"type:varchar(255)" json:"rejected_by"`
	RejectedAt        *time.Time `json:"rejected_at"`
	RejectionReason   string     `json:"rejection_reason"`
}

// SideEffectFields tracks delivery of fire-and-forget post-approval side
// effects. A failed side effect is reported here, never rolled back into
// the approval itself.
type SideEffectFields struct {
	SyncState models.SyncState `gorm:"type:varchar(20)" json:"sync_state"`
	SyncError string           `json:"sync_error,omitempty"`
}
