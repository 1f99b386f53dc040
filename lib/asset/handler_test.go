package assethandler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/config"
	"hr-portal-backend/lib/approval"
	assetstore "hr-portal-backend/lib/asset/store"
	employeestore "hr-portal-backend/lib/employee/store"
	xlsexport "hr-portal-backend/lib/export/xls"
	notificationhandler "hr-portal-backend/lib/notification"
	"hr-portal-backend/lib/utils/helpers"
	"hr-portal-backend/models"
	assetapimodels "hr-portal-backend/models/api/asset"
	dbmodels "hr-portal-backend/models/db"
)

type fakeNotifier struct {
	messages []notificationhandler.Message
}

func (f *fakeNotifier) Notify(msg notificationhandler.Message) {
	f.messages = append(f.messages, msg)
}

func (f *fakeNotifier) Start(ctx context.Context) {}

type testEnv struct {
	handler *impl
	db      *gorm.DB
}

func newEnv(t *testing.T) testEnv {
	t.Helper()
	config.Conf = &config.Configuration{}
	config.Conf.Auth.AdminUsers = "admin@example.com"

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.Nil(t, err)
	sqlDB, err := gdb.DB()
	require.Nil(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.Nil(t, gdb.AutoMigrate(
		&dbmodels.Employee{},
		&dbmodels.AssetRequest{},
		&dbmodels.EmployeeAsset{},
		&dbmodels.AssetAuditLog{},
	))

	xlsexport.NewHandler()
	h := &impl{
		store:         assetstore.NewInstance(gdb),
		employeeStore: employeestore.NewInstance(gdb),
		notifier:      &fakeNotifier{},
		xls:           xlsexport.Instance,
	}
	return testEnv{handler: h, db: gdb}
}

func seedEmployee(t *testing.T, db *gorm.DB, email string, manager *string) {
	t.Helper()
	rec := dbmodels.Employee{
		Email:               email,
		FullName:            email,
		ManagerEmail:        manager,
		VacationDaysPerYear: 22,
		IsActive:            true,
	}
	require.Nil(t, db.Create(&rec).Error)
}

var (
	owner   = approval.Actor{Email: "user@example.com"}
	manager = approval.Actor{Email: "manager@example.com"}
	admin   = approval.Actor{Email: "admin@example.com", IsAdmin: true}
)

func laptopRequest() assetapimodels.AssetRequestData {
	return assetapimodels.AssetRequestData{
		Category:              models.AssetCategoryLaptop,
		BusinessJustification: "current one is out of warranty",
	}
}

func TestRequestValidation(t *testing.T) {
	t.Run("misc needs description url and cost", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"))

		_, err := env.handler.CreateRequest("user@example.com", assetapimodels.AssetRequestData{
			Category:              models.AssetCategoryMisc,
			BusinessJustification: "standing desk converter",
		})
		requireKind(t, err, apperrors.KindValidation)

		view, err := env.handler.CreateRequest("user@example.com", assetapimodels.AssetRequestData{
			Category:              models.AssetCategoryMisc,
			BusinessJustification: "standing desk converter",
			CustomDescription:     "desk converter, model X",
			PurchaseURL:           "https://shop.example.com/x",
			EstimatedCost:         helpers.Float64Ptr(250),
		})
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusPending, view.Status)
	})

	t.Run("standard categories need no extras", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"))
		view, err := env.handler.CreateRequest("user@example.com", laptopRequest())
		require.Nil(t, err)
		require.Equal(t, models.AssetCategoryLaptop, view.Category)
	})
}

func TestApprovalCreatesInventory(t *testing.T) {
	env := newEnv(t)
	seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"))
	view, err := env.handler.CreateRequest("user@example.com", laptopRequest())
	require.Nil(t, err)

	_, err = env.handler.Approve(context.Background(), manager, view.ID)
	require.Nil(t, err)
	final, err := env.handler.Approve(context.Background(), admin, view.ID)
	require.Nil(t, err)
	require.Equal(t, models.ApprovalStatusApproved, final.Status)
	require.NotNil(t, final.AssetID)

	asset, err := env.handler.GetAsset(admin, *final.AssetID)
	require.Nil(t, err)
	require.Equal(t, "user@example.com", asset.EmployeeEmail)
	require.Equal(t, models.AssetStatusActive, asset.Status)
	require.Equal(t, "Laptop", asset.Description)
	require.Equal(t, "admin@example.com", asset.AssignedBy)

	log, err := env.handler.AuditLog(*final.AssetID)
	require.Nil(t, err)
	require.Len(t, log, 1)
	require.Equal(t, models.AssetAuditActionCreated, log[0].Action)
	require.Equal(t, "admin@example.com", log[0].ActorEmail)
}

func createAsset(t *testing.T, env testEnv) assetapimodels.InventoryAssetView {
	t.Helper()
	seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"))
	seedEmployee(t, env.db, "other@example.com", helpers.StrPtr("manager@example.com"))
	asset, err := env.handler.CreateAsset(admin, assetapimodels.InventoryAssetData{
		EmployeeEmail: "user@example.com",
		Category:      models.AssetCategoryMonitor,
		Description:   "27 inch monitor",
		SerialNumber:  helpers.StrPtr("SN-001"),
		AssignedDate:  "2026-01-15",
		Cost:          helpers.Float64Ptr(400),
		Currency:      models.CurrencyUSD,
	})
	require.Nil(t, err)
	return asset
}

func TestInventoryLifecycle(t *testing.T) {
	t.Run("every mutation appends one audit row", func(t *testing.T) {
		env := newEnv(t)
		asset := createAsset(t, env)

		_, err := env.handler.UpdateAsset(admin, asset.ID, assetapimodels.InventoryAssetData{
			EmployeeEmail: "user@example.com",
			Category:      models.AssetCategoryMonitor,
			Description:   "27 inch monitor",
			SerialNumber:  helpers.StrPtr("SN-002"),
			AssignedDate:  "2026-01-15",
			Cost:          helpers.Float64Ptr(400),
			Currency:      models.CurrencyUSD,
		})
		require.Nil(t, err)

		returned, err := env.handler.ChangeStatus(admin, asset.ID, assetapimodels.StatusChangeData{
			Status: models.AssetStatusReturned,
			Notes:  "employee offboarded",
		})
		require.Nil(t, err)
		require.Equal(t, models.AssetStatusReturned, returned.Status)
		require.NotNil(t, returned.ReturnDate)

		log, err := env.handler.AuditLog(asset.ID)
		require.Nil(t, err)
		require.Len(t, log, 3)
		require.Equal(t, models.AssetAuditActionCreated, log[0].Action)
		require.Equal(t, models.AssetAuditActionUpdated, log[1].Action)
		require.Equal(t, models.AssetAuditActionStatusChanged, log[2].Action)

		serialChange := log[1].Changes.Data[0]
		require.Equal(t, "serial_number", serialChange.Field)
		require.Equal(t, "SN-001", serialChange.OldValue)
		require.Equal(t, "SN-002", serialChange.NewValue)
	})

	t.Run("reassign moves the asset and resets the return date", func(t *testing.T) {
		env := newEnv(t)
		asset := createAsset(t, env)

		_, err := env.handler.ChangeStatus(admin, asset.ID, assetapimodels.StatusChangeData{Status: models.AssetStatusReturned})
		require.Nil(t, err)

		moved, err := env.handler.Reassign(admin, asset.ID, assetapimodels.ReassignData{
			EmployeeEmail: "other@example.com",
		})
		require.Nil(t, err)
		require.Equal(t, "other@example.com", moved.EmployeeEmail)
		require.Equal(t, models.AssetStatusActive, moved.Status)
		require.Nil(t, moved.ReturnDate)

		log, err := env.handler.AuditLog(asset.ID)
		require.Nil(t, err)
		require.Equal(t, models.AssetAuditActionReassigned, log[len(log)-1].Action)
	})

	t.Run("reassign to the current holder is rejected", func(t *testing.T) {
		env := newEnv(t)
		asset := createAsset(t, env)
		_, err := env.handler.Reassign(admin, asset.ID, assetapimodels.ReassignData{
			EmployeeEmail: "user@example.com",
		})
		requireKind(t, err, apperrors.KindValidation)
	})

	t.Run("reassign to an unknown employee fails", func(t *testing.T) {
		env := newEnv(t)
		asset := createAsset(t, env)
		_, err := env.handler.Reassign(admin, asset.ID, assetapimodels.ReassignData{
			EmployeeEmail: "ghost@example.com",
		})
		requireKind(t, err, apperrors.KindNotFound)
	})

	t.Run("non-admin sees only own assets", func(t *testing.T) {
		env := newEnv(t)
		asset := createAsset(t, env)

		_, err := env.handler.GetAsset(owner, asset.ID)
		require.Nil(t, err)
		_, err = env.handler.GetAsset(approval.Actor{Email: "other@example.com"}, asset.ID)
		requireKind(t, err, apperrors.KindNotFound)

		mine, err := env.handler.ListMyAssets("user@example.com")
		require.Nil(t, err)
		require.Len(t, mine, 1)
	})
}

func TestExportInventory(t *testing.T) {
	env := newEnv(t)
	createAsset(t, env)

	buf, err := env.handler.ExportInventoryXLS(assetstore.InventoryFilter{})
	require.Nil(t, err)
	require.NotZero(t, buf.Len())
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := apperrors.KindOf(err)
	require.True(t, ok)
	require.Equal(t, kind, got)
}
