package dbmodels

import (
	"hr-portal-backend/models"
)

type AssetRequest struct {
	BaseModel
	ApprovalFields
	SideEffectFields
	Status models.ApprovalStatus `gorm:"type:varchar(50);index" json:"status"`

	Category              models.AssetCategory `gorm:"type:varchar(50)" json:"category"`
	BusinessJustification string               `json:"business_justification"`

	// Required only for the misc category.
	CustomDescription string   `json:"custom_description"`
	PurchaseURL       string   `json:"purchase_url"`
	EstimatedCost     *float64 `json:"estimated_cost"`

	// Inventory entry created on admin approval.
	AssetID *string `gorm:"type:varchar(36)" json:"asset_id"`
}

func (AssetRequest) TableName() string {
	return "asset_requests"
}
