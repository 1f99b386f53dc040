package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/models"
	dbmodels "hr-portal-backend/models/db"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.Nil(t, err)
	sqlDB, err := db.DB()
	require.Nil(t, err)
	// one in-memory database per test, keep it on a single connection
	sqlDB.SetMaxOpenConns(1)
	require.Nil(t, db.AutoMigrate(&dbmodels.TimeOffRequest{}))
	return db
}

func seedRequest(t *testing.T, db *gorm.DB) dbmodels.TimeOffRequest {
	t.Helper()
	rec := dbmodels.TimeOffRequest{
		ApprovalFields: dbmodels.ApprovalFields{
			EmployeeEmail: "user@example.com",
			ManagerEmail:  "manager@example.com",
		},
		Status:      models.ApprovalStatusPending,
		StartDate:   time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC),
		TimeOffType: models.TimeOffTypeVacation,
	}
	require.Nil(t, db.Create(&rec).Error)
	return rec
}

func TestApplyTransition(t *testing.T) {
	t.Run("applies when status matches", func(t *testing.T) {
		db := testDB(t)
		rec := seedRequest(t, db)

		tr, err := Approve(Actor{Email: "manager@example.com"}, timeOffAdapter{rec}, now)
		require.Nil(t, err)
		require.Nil(t, ApplyTransition(db, &dbmodels.TimeOffRequest{}, tr))

		var got dbmodels.TimeOffRequest
		require.Nil(t, db.First(&got, "id = ?", rec.ID).Error)
		require.Equal(t, models.ApprovalStatusManagerApproved, got.Status)
		require.NotNil(t, got.ManagerApprovedBy)
		require.Equal(t, "manager@example.com", *got.ManagerApprovedBy)
		require.NotNil(t, got.ManagerApprovedAt)
	})

	t.Run("concurrent decision reports conflict", func(t *testing.T) {
		db := testDB(t)
		rec := seedRequest(t, db)

		tr, err := Reject(Actor{Email: "manager@example.com"}, timeOffAdapter{rec}, "busy week", now)
		require.Nil(t, err)
		require.Nil(t, ApplyTransition(db, &dbmodels.TimeOffRequest{}, tr))

		// Second decision was made against the stale pending snapshot.
		tr2, err := Approve(Actor{Email: "manager@example.com"}, timeOffAdapter{rec}, now)
		require.Nil(t, err)
		err = ApplyTransition(db, &dbmodels.TimeOffRequest{}, tr2)
		requireKind(t, err, apperrors.KindConflict)

		var got dbmodels.TimeOffRequest
		require.Nil(t, db.First(&got, "id = ?", rec.ID).Error)
		require.Equal(t, models.ApprovalStatusRejected, got.Status)
	})

	t.Run("missing request reports not found", func(t *testing.T) {
		db := testDB(t)
		rec := seedRequest(t, db)

		tr, err := Approve(Actor{Email: "manager@example.com"}, timeOffAdapter{rec}, now)
		require.Nil(t, err)
		tr.RequestID = "no-such-id"
		err = ApplyTransition(db, &dbmodels.TimeOffRequest{}, tr)
		requireKind(t, err, apperrors.KindNotFound)
	})
}

// timeOffAdapter mirrors the adapter the time-off store uses in production.
type timeOffAdapter struct {
	rec dbmodels.TimeOffRequest
}

func (a timeOffAdapter) RequestID() string                    { return a.rec.ID }
func (a timeOffAdapter) OwnerEmail() string                   { return a.rec.EmployeeEmail }
func (a timeOffAdapter) ApproverEmail() string                { return a.rec.ManagerEmail }
func (a timeOffAdapter) CurrentStatus() models.ApprovalStatus { return a.rec.Status }
