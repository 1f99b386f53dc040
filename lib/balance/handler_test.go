package balancehandler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hr-portal-backend/apperrors"
	employeestore "hr-portal-backend/lib/employee/store"
	timeoffstore "hr-portal-backend/lib/timeoff/store"
	"hr-portal-backend/lib/utils/helpers"
	"hr-portal-backend/models"
	dbmodels "hr-portal-backend/models/db"
)

func newEnv(t *testing.T) (impl, *gorm.DB) {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gormDB.AutoMigrate(&dbmodels.Employee{}, &dbmodels.TimeOffRequest{}))

	handler := impl{
		employeeStore: employeestore.NewInstance(gormDB),
		timeoffStore:  timeoffstore.NewInstance(gormDB),
	}
	return handler, gormDB
}

func seedRequest(t *testing.T, db *gorm.DB, email string, offType models.TimeOffType,
	status models.ApprovalStatus, start time.Time, workingDays int) {
	t.Helper()
	rec := dbmodels.TimeOffRequest{
		ApprovalFields: dbmodels.ApprovalFields{
			EmployeeEmail: email,
			ManagerEmail:  "manager@example.com",
		},
		Status:           status,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, workingDays),
		TimeOffType:      offType,
		WorkingDaysCount: workingDays,
	}
	require.NoError(t, db.Create(&rec).Error)
}

func TestSummary(t *testing.T) {
	handler, db := newEnv(t)

	employee := dbmodels.Employee{
		Email:               "alice@example.com",
		FullName:            "Alice Black",
		VacationDaysPerYear: 20,
		HolidayRegion:       helpers.StrPtr("mx"),
		IsActive:            true,
	}
	require.NoError(t, db.Create(&employee).Error)

	jan := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	seedRequest(t, db, employee.Email, models.TimeOffTypeVacation, models.ApprovalStatusApproved, jan, 5)
	seedRequest(t, db, employee.Email, models.TimeOffTypeVacation, models.ApprovalStatusApproved, jun, 3)
	// pending and half-approved requests count towards the pending bucket
	seedRequest(t, db, employee.Email, models.TimeOffTypeVacation, models.ApprovalStatusPending, jun, 2)
	seedRequest(t, db, employee.Email, models.TimeOffTypeVacation, models.ApprovalStatusManagerApproved, jun, 4)
	// excluded: rejected, sick leave, other year, other employee
	seedRequest(t, db, employee.Email, models.TimeOffTypeVacation, models.ApprovalStatusRejected, jun, 7)
	seedRequest(t, db, employee.Email, models.TimeOffTypeSickLeave, models.ApprovalStatusApproved, jun, 6)
	seedRequest(t, db, employee.Email, models.TimeOffTypeVacation, models.ApprovalStatusApproved, jan.AddDate(-1, 0, 0), 9)
	seedRequest(t, db, "bob@example.com", models.TimeOffTypeVacation, models.ApprovalStatusApproved, jun, 8)

	view, err := handler.Summary(employee.Email, 2026)
	require.NoError(t, err)
	require.Equal(t, 20, view.TotalDays)
	require.Equal(t, 8, view.UsedDays)
	require.Equal(t, 12, view.RemainingDays)
	require.Equal(t, 6, view.PendingDays)
	require.Equal(t, 2026, view.Year)
}

func TestSummaryOverdrawn(t *testing.T) {
	handler, db := newEnv(t)

	employee := dbmodels.Employee{
		Email:               "carol@example.com",
		VacationDaysPerYear: 10,
		IsActive:            true,
	}
	require.NoError(t, db.Create(&employee).Error)

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	seedRequest(t, db, employee.Email, models.TimeOffTypeVacation, models.ApprovalStatusApproved, start, 12)

	view, err := handler.Summary(employee.Email, 2026)
	require.NoError(t, err)
	require.Equal(t, 12, view.UsedDays)
	require.Equal(t, -2, view.RemainingDays)
}

func TestSummaryUnknownEmployee(t *testing.T) {
	handler, _ := newEnv(t)

	_, err := handler.Summary("ghost@example.com", 2026)
	require.Error(t, err)
	kind, ok := apperrors.KindOf(err)
	require.True(t, ok)
	require.Equal(t, apperrors.KindNotFound, kind)
}

func TestSummaryEmptyYear(t *testing.T) {
	handler, db := newEnv(t)

	employee := dbmodels.Employee{
		Email:               "dave@example.com",
		VacationDaysPerYear: 15,
		IsActive:            true,
	}
	require.NoError(t, db.Create(&employee).Error)

	view, err := handler.Summary(employee.Email, 2026)
	require.NoError(t, err)
	require.Equal(t, 0, view.UsedDays)
	require.Equal(t, 15, view.RemainingDays)
	require.Equal(t, 0, view.PendingDays)
}
