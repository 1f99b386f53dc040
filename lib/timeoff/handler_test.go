package timeoffhandler

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/config"
	"hr-portal-backend/lib/approval"
	calendarclient "hr-portal-backend/lib/calendar"
	employeestore "hr-portal-backend/lib/employee/store"
	xlsexport "hr-portal-backend/lib/export/xls"
	notificationhandler "hr-portal-backend/lib/notification"
	timeoffstore "hr-portal-backend/lib/timeoff/store"
	"hr-portal-backend/lib/utils/helpers"
	"hr-portal-backend/lib/workday"
	workspaceclient "hr-portal-backend/lib/workspace"
	"hr-portal-backend/models"
	timeoffapimodels "hr-portal-backend/models/api/timeoff"
	dbmodels "hr-portal-backend/models/db"
)

type fakeNotifier struct {
	mu       sync.Mutex
	messages []notificationhandler.Message
}

func (f *fakeNotifier) Notify(msg notificationhandler.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
}

func (f *fakeNotifier) Start(ctx context.Context) {}

func (f *fakeNotifier) kinds() []notificationhandler.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]notificationhandler.Kind, 0, len(f.messages))
	for _, m := range f.messages {
		result = append(result, m.Kind)
	}
	return result
}

type fakeCalendar struct {
	mu      sync.Mutex
	created []calendarclient.AbsenceEvent
	fail    bool
}

func (f *fakeCalendar) CreateAbsenceEvent(ctx context.Context, event calendarclient.AbsenceEvent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", context.DeadlineExceeded
	}
	f.created = append(f.created, event)
	return "evt-1", nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, eventID string) error { return nil }

func (f *fakeCalendar) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

type fakeWorkspace struct {
	mu      sync.Mutex
	enabled []string
}

func (f *fakeWorkspace) ListUsers(ctx context.Context) ([]workspaceclient.DirectoryUser, error) {
	return nil, nil
}

func (f *fakeWorkspace) Authenticate(ctx context.Context, email, password string) error {
	return nil
}

func (f *fakeWorkspace) SetAutoresponder(ctx context.Context, email string, settings workspaceclient.AutoresponderSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = append(f.enabled, email)
	return nil
}

func (f *fakeWorkspace) emails() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.enabled...)
}

type testEnv struct {
	handler  *impl
	db       *gorm.DB
	notifier *fakeNotifier
	calendar *fakeCalendar
	ws       *fakeWorkspace
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
	require.Nil(t, gdb.AutoMigrate(&dbmodels.Employee{}, &dbmodels.TimeOffRequest{}))

	xlsexport.NewHandler()
	notifier := &fakeNotifier{}
	cal := &fakeCalendar{}
	ws := &fakeWorkspace{}
	h := &impl{
		store:         timeoffstore.NewInstance(gdb),
		employeeStore: employeestore.NewInstance(gdb),
		notifier:      notifier,
		calendar:      cal,
		workspace:     ws,
		xls:           xlsexport.Instance,
	}
	return testEnv{handler: h, db: gdb, notifier: notifier, calendar: cal, ws: ws}
}

func seedEmployee(t *testing.T, db *gorm.DB, email string, manager *string, region string, vacationDays int) {
	t.Helper()
	rec := dbmodels.Employee{
		Email:               email,
		FullName:            email,
		ManagerEmail:        manager,
		VacationDaysPerYear: vacationDays,
		IsActive:            true,
	}
	if region != "" {
		rec.HolidayRegion = &region
	}
	require.Nil(t, db.Create(&rec).Error)
}

func vacationData(start, end string) timeoffapimodels.TimeOffData {
	return timeoffapimodels.TimeOffData{
		StartDate:   start,
		EndDate:     end,
		TimeOffType: models.TimeOffTypeVacation,
	}
}

func TestCreate(t *testing.T) {
	t.Run("freezes region and working days", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "mexico", 22)

		// Dec 23 2025 .. Jan 1 2026: 6 working days on the Mexican calendar.
		view, err := env.handler.Create("user@example.com", vacationData("2025-12-23", "2026-01-01"))
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusPending, view.Status)
		require.Equal(t, "mexico", view.HolidayRegion)
		require.Equal(t, 6, view.WorkingDaysCount)
		require.Equal(t, 10, view.CalendarDays)
		require.Equal(t, "manager@example.com", view.ManagerEmail)
		require.Equal(t, []notificationhandler.Kind{notificationhandler.KindRequestSubmitted}, env.notifier.kinds())
	})

	t.Run("stored value matches the preview", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "madrid", 22)

		view, err := env.handler.Create("user@example.com", vacationData("2026-04-01", "2026-04-07"))
		require.Nil(t, err)
		start := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, time.April, 7, 0, 0, 0, 0, time.UTC)
		require.Equal(t, previewWorkingDays(start, end, "madrid"), view.WorkingDaysCount)
	})

	t.Run("requires an assigned manager", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", nil, "", 22)

		_, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		requireKind(t, err, apperrors.KindValidation)
	})

	t.Run("unknown employee", func(t *testing.T) {
		env := newEnv(t)
		_, err := env.handler.Create("ghost@example.com", vacationData("2026-06-01", "2026-06-05"))
		requireKind(t, err, apperrors.KindNotFound)
	})

	t.Run("end before start", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
		_, err := env.handler.Create("user@example.com", vacationData("2026-06-05", "2026-06-01"))
		requireKind(t, err, apperrors.KindValidation)
	})
}

func TestEditAndDelete(t *testing.T) {
	t.Run("owner edits pending and days are recomputed", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
		view, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		require.Nil(t, err)
		require.Equal(t, 5, view.WorkingDaysCount)

		actor := approval.Actor{Email: "user@example.com"}
		updated, err := env.handler.Update(actor, view.ID, vacationData("2026-06-01", "2026-06-03"))
		require.Nil(t, err)
		require.Equal(t, 3, updated.WorkingDaysCount)
	})

	t.Run("only the owner may edit", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
		view, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		require.Nil(t, err)

		_, err = env.handler.Update(approval.Actor{Email: "manager@example.com"}, view.ID, vacationData("2026-06-01", "2026-06-02"))
		requireKind(t, err, apperrors.KindPermissionDenied)
	})

	t.Run("no edits after a decision", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
		view, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		require.Nil(t, err)

		_, err = env.handler.Approve(context.Background(), approval.Actor{Email: "manager@example.com"}, view.ID)
		require.Nil(t, err)

		_, err = env.handler.Update(approval.Actor{Email: "user@example.com"}, view.ID, vacationData("2026-06-01", "2026-06-02"))
		requireKind(t, err, apperrors.KindInvalidState)

		err = env.handler.Delete(approval.Actor{Email: "user@example.com"}, view.ID)
		requireKind(t, err, apperrors.KindInvalidState)
	})

	t.Run("owner deletes pending", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
		view, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		require.Nil(t, err)

		require.Nil(t, env.handler.Delete(approval.Actor{Email: "user@example.com"}, view.ID))
		_, err = env.handler.GetByID(approval.Actor{Email: "user@example.com"}, view.ID)
		requireKind(t, err, apperrors.KindNotFound)
	})
}

func TestApprovalFlow(t *testing.T) {
	t.Run("full two-tier approval with side effects", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
		view, err := env.handler.Create("user@example.com", timeoffapimodels.TimeOffData{
			StartDate:            "2026-06-01",
			EndDate:              "2026-06-05",
			TimeOffType:          models.TimeOffTypeVacation,
			AutoresponderEnabled: true,
		})
		require.Nil(t, err)

		manager := approval.Actor{Email: "manager@example.com"}
		admin := approval.Actor{Email: "admin@example.com", IsAdmin: true}

		view, err = env.handler.Approve(context.Background(), manager, view.ID)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusManagerApproved, view.Status)

		view, err = env.handler.Approve(context.Background(), admin, view.ID)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)

		require.Eventually(t, func() bool {
			rec, err := env.handler.store.GetByID(view.ID)
			return err == nil && rec != nil && rec.SyncState == models.SyncStateDone
		}, 2*time.Second, 10*time.Millisecond)

		rec, err := env.handler.store.GetByID(view.ID)
		require.Nil(t, err)
		require.NotNil(t, rec.CalendarEventID)
		require.Equal(t, "evt-1", *rec.CalendarEventID)
		require.Equal(t, []string{"user@example.com"}, env.ws.emails())
		require.Equal(t, []notificationhandler.Kind{
			notificationhandler.KindRequestSubmitted,
			notificationhandler.KindManagerApproved,
			notificationhandler.KindRequestApproved,
		}, env.notifier.kinds())
	})

	t.Run("failed side effect does not revert the approval", func(t *testing.T) {
		env := newEnv(t)
		env.calendar.fail = true
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
		view, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		require.Nil(t, err)

		_, err = env.handler.Approve(context.Background(), approval.Actor{Email: "manager@example.com"}, view.ID)
		require.Nil(t, err)
		view, err = env.handler.Approve(context.Background(), approval.Actor{Email: "admin@example.com", IsAdmin: true}, view.ID)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)

		require.Eventually(t, func() bool {
			rec, err := env.handler.store.GetByID(view.ID)
			return err == nil && rec != nil && rec.SyncState == models.SyncStateFailed
		}, 2*time.Second, 10*time.Millisecond)

		rec, err := env.handler.store.GetByID(view.ID)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusApproved, rec.Status)
		require.NotEmpty(t, rec.SyncError)
	})

	t.Run("retry after a failed sync", func(t *testing.T) {
		env := newEnv(t)
		env.calendar.fail = true
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
		view, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		require.Nil(t, err)

		_, err = env.handler.Approve(context.Background(), approval.Actor{Email: "manager@example.com"}, view.ID)
		require.Nil(t, err)
		_, err = env.handler.Approve(context.Background(), approval.Actor{Email: "admin@example.com", IsAdmin: true}, view.ID)
		require.Nil(t, err)
		require.Eventually(t, func() bool {
			rec, err := env.handler.store.GetByID(view.ID)
			return err == nil && rec != nil && rec.SyncState == models.SyncStateFailed
		}, 2*time.Second, 10*time.Millisecond)

		_, err = env.handler.RetrySync(approval.Actor{Email: "stranger@example.com"}, view.ID)
		requireKind(t, err, apperrors.KindPermissionDenied)

		env.calendar.setFail(false)
		_, err = env.handler.RetrySync(approval.Actor{Email: "user@example.com"}, view.ID)
		require.Nil(t, err)
		require.Eventually(t, func() bool {
			rec, err := env.handler.store.GetByID(view.ID)
			return err == nil && rec != nil && rec.SyncState == models.SyncStateDone
		}, 2*time.Second, 10*time.Millisecond)

		rec, err := env.handler.store.GetByID(view.ID)
		require.Nil(t, err)
		require.Empty(t, rec.SyncError)
		require.NotNil(t, rec.CalendarEventID)

		_, err = env.handler.RetrySync(approval.Actor{Email: "user@example.com"}, view.ID)
		requireKind(t, err, apperrors.KindInvalidState)
	})

	t.Run("admin can not approve past the vacation balance", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 2)
		view, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		require.Nil(t, err)
		require.Equal(t, 5, view.WorkingDaysCount)

		_, err = env.handler.Approve(context.Background(), approval.Actor{Email: "manager@example.com"}, view.ID)
		require.Nil(t, err)

		_, err = env.handler.Approve(context.Background(), approval.Actor{Email: "admin@example.com", IsAdmin: true}, view.ID)
		requireKind(t, err, apperrors.KindValidation)

		rec, err := env.handler.store.GetByID(view.ID)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusManagerApproved, rec.Status)
	})

	t.Run("approved days count against the balance", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 8)
		manager := approval.Actor{Email: "manager@example.com"}
		admin := approval.Actor{Email: "admin@example.com", IsAdmin: true}

		first, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		require.Nil(t, err)
		_, err = env.handler.Approve(context.Background(), manager, first.ID)
		require.Nil(t, err)
		_, err = env.handler.Approve(context.Background(), admin, first.ID)
		require.Nil(t, err)

		// 5 of 8 days are now spent, a second 5-day vacation overdraws.
		second, err := env.handler.Create("user@example.com", vacationData("2026-07-06", "2026-07-10"))
		require.Nil(t, err)
		_, err = env.handler.Approve(context.Background(), manager, second.ID)
		require.Nil(t, err)
		_, err = env.handler.Approve(context.Background(), admin, second.ID)
		requireKind(t, err, apperrors.KindValidation)

		// A 3-day one still fits.
		third, err := env.handler.Create("user@example.com", vacationData("2026-08-03", "2026-08-05"))
		require.Nil(t, err)
		_, err = env.handler.Approve(context.Background(), manager, third.ID)
		require.Nil(t, err)
		view, err := env.handler.Approve(context.Background(), admin, third.ID)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)
	})

	t.Run("manager rejects with a reason", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
		view, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		require.Nil(t, err)

		view, err = env.handler.Reject(context.Background(), approval.Actor{Email: "manager@example.com"}, view.ID, "team offsite that week")
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusRejected, view.Status)
		require.Equal(t, "team offsite that week", view.RejectionReason)
	})

	t.Run("visibility is owner, manager and admin only", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
		view, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		require.Nil(t, err)

		_, err = env.handler.GetByID(approval.Actor{Email: "stranger@example.com"}, view.ID)
		requireKind(t, err, apperrors.KindNotFound)

		_, err = env.handler.GetByID(approval.Actor{Email: "manager@example.com"}, view.ID)
		require.Nil(t, err)
	})

	t.Run("approval lists per role", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
		view, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
		require.Nil(t, err)

		managerList, err := env.handler.ListForApproval(approval.Actor{Email: "manager@example.com"})
		require.Nil(t, err)
		require.Len(t, managerList, 1)

		adminList, err := env.handler.ListForApproval(approval.Actor{Email: "admin@example.com", IsAdmin: true})
		require.Nil(t, err)
		require.Len(t, adminList, 0)

		_, err = env.handler.Approve(context.Background(), approval.Actor{Email: "manager@example.com"}, view.ID)
		require.Nil(t, err)

		adminList, err = env.handler.ListForApproval(approval.Actor{Email: "admin@example.com", IsAdmin: true})
		require.Nil(t, err)
		require.Len(t, adminList, 1)
	})
}

func TestExport(t *testing.T) {
	env := newEnv(t)
	seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"), "", 22)
	_, err := env.handler.Create("user@example.com", vacationData("2026-06-01", "2026-06-05"))
	require.Nil(t, err)

	buf, err := env.handler.ExportXLS(timeoffstore.AdminFilter{})
	require.Nil(t, err)
	require.True(t, buf.Len() > 0)
	require.IsType(t, &bytes.Buffer{}, buf)
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := apperrors.KindOf(err)
	require.True(t, ok)
	require.Equal(t, kind, got)
}

// previewWorkingDays mirrors the standalone preview endpoint.
func previewWorkingDays(start, end time.Time, region string) int {
	return workday.CountWorkingDays(start, end, region)
}
