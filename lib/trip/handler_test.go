package triphandler

import (
	"context"
	"fmt"
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
	employeestore "hr-portal-backend/lib/employee/store"
	notificationhandler "hr-portal-backend/lib/notification"
	tripstore "hr-portal-backend/lib/trip/store"
	"hr-portal-backend/lib/utils/helpers"
	"hr-portal-backend/models"
	tripapimodels "hr-portal-backend/models/api/trip"
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

type fakeDocs struct {
	mu        sync.Mutex
	prepared  []string
	refreshed []string
	fail      bool
}

func (f *fakeDocs) PrepareTripWorkspace(ctx context.Context, trip dbmodels.TripRequest) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", "", fmt.Errorf("storage unavailable")
	}
	f.prepared = append(f.prepared, trip.ID)
	return "http://portal/api/v1/trips/" + trip.ID + "/documents",
		"http://portal/api/v1/trips/" + trip.ID + "/documents/expense_report.xlsx",
		nil
}

func (f *fakeDocs) RefreshExpenseSheet(ctx context.Context, trip dbmodels.TripRequest, justifications []dbmodels.TripJustification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, trip.ID)
	return nil
}

func (f *fakeDocs) UploadReceipt(ctx context.Context, tripID string, submissionNumber int, fileName string, data []byte, contentType string) (string, error) {
	return fmt.Sprintf("trips/%s/receipts/%d/%s", tripID, submissionNumber, fileName), nil
}

func (f *fakeDocs) ReceiptURL(ctx context.Context, key string) (string, error) {
	return "http://s3/" + key, nil
}

func (f *fakeDocs) GetDocument(ctx context.Context, tripID, docName string) ([]byte, error) {
	return []byte("doc"), nil
}

func (f *fakeDocs) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.refreshed)
}

type testEnv struct {
	handler  *impl
	db       *gorm.DB
	notifier *fakeNotifier
	docs     *fakeDocs
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
	require.Nil(t, gdb.AutoMigrate(&dbmodels.Employee{}, &dbmodels.TripRequest{}, &dbmodels.TripJustification{}))

	notifier := &fakeNotifier{}
	docs := &fakeDocs{}
	h := &impl{
		store:         tripstore.NewInstance(gdb),
		employeeStore: employeestore.NewInstance(gdb),
		notifier:      notifier,
		docs:          docs,
	}
	return testEnv{handler: h, db: gdb, notifier: notifier, docs: docs}
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

func tripData() tripapimodels.TripData {
	start := time.Now().AddDate(0, 0, 14)
	return tripapimodels.TripData{
		Destination:     "Bogota",
		StartDate:       start.Format("2006-01-02"),
		EndDate:         start.AddDate(0, 0, 4).Format("2006-01-02"),
		Purpose:         "customer onboarding",
		ExpectedGoal:    "signed support contract",
		EstimatedBudget: 1800,
		Currency:        models.CurrencyUSD,
	}
}

var (
	owner   = approval.Actor{Email: "user@example.com"}
	manager = approval.Actor{Email: "manager@example.com"}
	admin   = approval.Actor{Email: "admin@example.com", IsAdmin: true}
)

// approvedTrip drives a fresh trip through both approval tiers.
func approvedTrip(t *testing.T, env testEnv) tripapimodels.TripView {
	t.Helper()
	seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"))
	view, err := env.handler.Create("user@example.com", tripData())
	require.Nil(t, err)
	_, err = env.handler.Approve(context.Background(), manager, view.ID)
	require.Nil(t, err)
	view, err = env.handler.Approve(context.Background(), admin, view.ID)
	require.Nil(t, err)
	require.Equal(t, models.TripStatusApproved, view.Status)

	require.Eventually(t, func() bool {
		rec, err := env.handler.store.GetByID(view.ID)
		return err == nil && rec != nil && rec.SyncState != models.SyncStatePending
	}, 2*time.Second, 10*time.Millisecond)
	reloaded, err := env.handler.GetByID(owner, view.ID)
	require.Nil(t, err)
	return reloaded
}

func TestCreate(t *testing.T) {
	t.Run("advance funding requires an amount", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"))
		data := tripData()
		data.NeedsAdvanceFunding = true
		_, err := env.handler.Create("user@example.com", data)
		requireKind(t, err, apperrors.KindValidation)

		data.AdvanceAmount = helpers.Float64Ptr(500)
		view, err := env.handler.Create("user@example.com", data)
		require.Nil(t, err)
		require.Equal(t, models.TripStatusPending, view.Status)
		require.Equal(t, 500.0, *view.AdvanceAmount)
	})

	t.Run("advance can not exceed the budget", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"))
		data := tripData()
		data.NeedsAdvanceFunding = true
		data.AdvanceAmount = helpers.Float64Ptr(data.EstimatedBudget + 1)
		_, err := env.handler.Create("user@example.com", data)
		requireKind(t, err, apperrors.KindValidation)
	})
}

func TestApproval(t *testing.T) {
	t.Run("document workspace is prepared on final approval", func(t *testing.T) {
		env := newEnv(t)
		view := approvedTrip(t, env)
		require.Equal(t, models.SyncStateDone, view.SyncState)
		require.Contains(t, view.DriveFolderURL, view.ID)
		require.Contains(t, view.SpreadsheetURL, "expense_report.xlsx")
	})

	t.Run("document failure is recorded, approval stands", func(t *testing.T) {
		env := newEnv(t)
		env.docs.fail = true
		view := approvedTrip(t, env)
		require.Equal(t, models.TripStatusApproved, view.Status)
		require.Equal(t, models.SyncStateFailed, view.SyncState)
		require.Empty(t, view.DriveFolderURL)
	})

	t.Run("admin can not skip the manager tier", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"))
		view, err := env.handler.Create("user@example.com", tripData())
		require.Nil(t, err)
		_, err = env.handler.Approve(context.Background(), admin, view.ID)
		requireKind(t, err, apperrors.KindInvalidState)
	})
}

func TestJustificationFlow(t *testing.T) {
	submit := func(t *testing.T, env testEnv, tripID string, claimed float64) tripapimodels.JustificationView {
		t.Helper()
		key, err := env.handler.UploadReceipt(context.Background(), owner, tripID, "hotel.pdf", []byte("receipt"), "application/pdf")
		require.Nil(t, err)
		just, err := env.handler.SubmitJustification(owner, tripID, tripapimodels.JustificationData{
			TotalClaimed: helpers.Float64Ptr(claimed),
			Notes:        "hotel and taxis",
			ReceiptKeys:  []string{key},
		})
		require.Nil(t, err)
		return just
	}

	t.Run("approve completes the trip", func(t *testing.T) {
		env := newEnv(t)
		trip := approvedTrip(t, env)
		just := submit(t, env, trip.ID, 1650)
		require.Equal(t, 1, just.SubmissionNumber)
		require.Equal(t, models.JustificationStatusPendingReview, just.Status)

		reviewed, err := env.handler.ReviewJustification(context.Background(), admin, trip.ID, just.ID, tripapimodels.JustificationReviewData{
			Approve:       true,
			TotalApproved: helpers.Float64Ptr(1600),
		})
		require.Nil(t, err)
		require.Equal(t, models.JustificationStatusApproved, reviewed.Status)
		require.Equal(t, 1600.0, *reviewed.TotalApproved)

		final, err := env.handler.GetByID(owner, trip.ID)
		require.Nil(t, err)
		require.Equal(t, models.TripStatusCompleted, final.Status)

		require.Eventually(t, func() bool {
			return env.docs.refreshCount() >= 1
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("rejection reopens the flow and resubmission counts up", func(t *testing.T) {
		env := newEnv(t)
		trip := approvedTrip(t, env)
		just := submit(t, env, trip.ID, 2500)

		_, err := env.handler.ReviewJustification(context.Background(), admin, trip.ID, just.ID, tripapimodels.JustificationReviewData{
			Approve:       false,
			AdminFeedback: "missing taxi receipts",
		})
		require.Nil(t, err)

		reopened, err := env.handler.GetByID(owner, trip.ID)
		require.Nil(t, err)
		require.Equal(t, models.TripStatusJustificationRejected, reopened.Status)

		second := submit(t, env, trip.ID, 2100)
		require.Equal(t, 2, second.SubmissionNumber)
	})

	t.Run("no double submission while one is pending", func(t *testing.T) {
		env := newEnv(t)
		trip := approvedTrip(t, env)
		submit(t, env, trip.ID, 1000)

		_, err := env.handler.SubmitJustification(owner, trip.ID, tripapimodels.JustificationData{
			TotalClaimed: helpers.Float64Ptr(900),
			ReceiptKeys:  []string{fmt.Sprintf("trips/%s/receipts/2/x.pdf", trip.ID)},
		})
		requireKind(t, err, apperrors.KindInvalidState)
	})

	t.Run("no justification before final approval", func(t *testing.T) {
		env := newEnv(t)
		seedEmployee(t, env.db, "user@example.com", helpers.StrPtr("manager@example.com"))
		view, err := env.handler.Create("user@example.com", tripData())
		require.Nil(t, err)

		_, err = env.handler.SubmitJustification(owner, view.ID, tripapimodels.JustificationData{
			TotalClaimed: helpers.Float64Ptr(100),
			ReceiptKeys:  []string{fmt.Sprintf("trips/%s/receipts/1/x.pdf", view.ID)},
		})
		requireKind(t, err, apperrors.KindInvalidState)
	})

	t.Run("foreign receipt keys are rejected", func(t *testing.T) {
		env := newEnv(t)
		trip := approvedTrip(t, env)
		_, err := env.handler.SubmitJustification(owner, trip.ID, tripapimodels.JustificationData{
			TotalClaimed: helpers.Float64Ptr(100),
			ReceiptKeys:  []string{"trips/other-trip/receipts/1/x.pdf"},
		})
		requireKind(t, err, apperrors.KindValidation)
	})

	t.Run("lost race rolls the verdict back, retry still works", func(t *testing.T) {
		env := newEnv(t)
		trip := approvedTrip(t, env)
		just := submit(t, env, trip.ID, 1200)

		// A reviewer working from a stale trip status loses the
		// conditional update. The verdict must not stick, otherwise the
		// submission could never be reviewed again.
		err := env.handler.store.FinalizeJustificationReview(
			trip.ID, models.TripStatusInProgress, models.TripStatusCompleted,
			just.ID, map[string]interface{}{
				"status":         string(models.JustificationStatusApproved),
				"total_approved": helpers.Float64Ptr(1200),
				"reviewed_by":    "admin@example.com",
				"reviewed_at":    time.Now(),
			})
		requireKind(t, err, apperrors.KindConflict)

		pending, err := env.handler.store.GetJustification(just.ID)
		require.Nil(t, err)
		require.NotNil(t, pending)
		require.Equal(t, models.JustificationStatusPendingReview, pending.Status)

		reviewed, err := env.handler.ReviewJustification(context.Background(), admin, trip.ID, just.ID, tripapimodels.JustificationReviewData{
			Approve:       true,
			TotalApproved: helpers.Float64Ptr(1200),
		})
		require.Nil(t, err)
		require.Equal(t, models.JustificationStatusApproved, reviewed.Status)

		final, err := env.handler.GetByID(owner, trip.ID)
		require.Nil(t, err)
		require.Equal(t, models.TripStatusCompleted, final.Status)
	})

	t.Run("only admins review, never the trip owner", func(t *testing.T) {
		env := newEnv(t)
		trip := approvedTrip(t, env)
		just := submit(t, env, trip.ID, 100)

		_, err := env.handler.ReviewJustification(context.Background(), manager, trip.ID, just.ID, tripapimodels.JustificationReviewData{
			Approve:       true,
			TotalApproved: helpers.Float64Ptr(100),
		})
		requireKind(t, err, apperrors.KindPermissionDenied)
	})
}

func TestStartDueTrips(t *testing.T) {
	env := newEnv(t)
	trip := approvedTrip(t, env)

	// Start date is in the future, nothing moves yet.
	env.handler.StartDueTrips(context.Background())
	view, err := env.handler.GetByID(owner, trip.ID)
	require.Nil(t, err)
	require.Equal(t, models.TripStatusApproved, view.Status)

	require.Nil(t, env.db.
		Model(&dbmodels.TripRequest{}).
		Where("id = ?", trip.ID).
		Update("start_date", time.Now().AddDate(0, 0, -1)).
		Error)

	env.handler.StartDueTrips(context.Background())
	view, err = env.handler.GetByID(owner, trip.ID)
	require.Nil(t, err)
	require.Equal(t, models.TripStatusInProgress, view.Status)
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := apperrors.KindOf(err)
	require.True(t, ok)
	require.Equal(t, kind, got)
}
