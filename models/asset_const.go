package models

type AssetCategory string

const (
	AssetCategoryLaptop        AssetCategory = "laptop"
	AssetCategoryMonitor       AssetCategory = "monitor"
	AssetCategoryHeadphones    AssetCategory = "headphones"
	AssetCategoryKeyboardMouse AssetCategory = "keyboard_mouse"
	AssetCategoryChair         AssetCategory = "chair"
	AssetCategoryDesk          AssetCategory = "desk"
	AssetCategoryMisc          AssetCategory = "misc"
)

var assetCategoryHumanName = map[AssetCategory]string{
	AssetCategoryLaptop:        "Laptop",
	AssetCategoryMonitor:       "Monitor",
	AssetCategoryHeadphones:    "Headphones",
	AssetCategoryKeyboardMouse: "Keyboard and mouse",
	AssetCategoryChair:         "Chair",
	AssetCategoryDesk:          "Desk",
	AssetCategoryMisc:          "Other equipment",
}

func (c AssetCategory) ToHuman() string {
	if human, exist := assetCategoryHumanName[c]; exist {
		return human
	}
	return string(c)
}

func (c AssetCategory) IsValid() bool {
	_, exist := assetCategoryHumanName[c]
	return exist
}

type AssetStatus string

const (
	AssetStatusActive   AssetStatus = "active"
	AssetStatusReturned AssetStatus = "returned"
	AssetStatusDamaged  AssetStatus = "damaged"
)

var assetStatusHumanName = map[AssetStatus]string{
	AssetStatusActive:   "In use",
	AssetStatusReturned: "Returned",
	AssetStatusDamaged:  "Damaged",
}

func (s AssetStatus) ToHuman() string {
	if human, exist := assetStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s AssetStatus) IsValid() bool {
	_, exist := assetStatusHumanName[s]
	return exist
}

// AssetAuditAction names a mutation recorded in the asset audit log.
type AssetAuditAction string

const (
	AssetAuditActionCreated       AssetAuditAction = "created"
	AssetAuditActionUpdated       AssetAuditAction = "updated"
	AssetAuditActionStatusChanged AssetAuditAction = "status_changed"
	AssetAuditActionReassigned    AssetAuditAction = "reassigned"
)
