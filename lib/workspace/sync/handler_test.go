package workspacesync

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	employeestore "hr-portal-backend/lib/employee/store"
	"hr-portal-backend/lib/utils/helpers"
	workspaceclient "hr-portal-backend/lib/workspace"
	dbmodels "hr-portal-backend/models/db"
)

type fakeDirectory struct {
	users []workspaceclient.DirectoryUser
	fail  bool
}

func (f *fakeDirectory) ListUsers(ctx context.Context) ([]workspaceclient.DirectoryUser, error) {
	if f.fail {
		return nil, errors.New("directory unavailable")
	}
	return f.users, nil
}

func (f *fakeDirectory) Authenticate(ctx context.Context, email, password string) error { return nil }

func (f *fakeDirectory) SetAutoresponder(ctx context.Context, email string, settings workspaceclient.AutoresponderSettings) error {
	return nil
}

func newEnv(t *testing.T, directory *fakeDirectory) (impl, *gorm.DB) {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gormDB.AutoMigrate(&dbmodels.Employee{}))

	handler := impl{
		store:  employeestore.NewInstance(gormDB),
		client: directory,
	}
	return handler, gormDB
}

func TestSyncDirectory(t *testing.T) {
	directory := &fakeDirectory{users: []workspaceclient.DirectoryUser{
		{ID: "u-1", Email: "Alice@Example.com", FullName: "Alice Black", Department: "Engineering"},
		{ID: "u-2", Email: "bob@example.com", FullName: "Bob White", Suspended: true},
		{ID: "u-3", Email: ""}, // skipped
	}}
	handler, db := newEnv(t, directory)

	synced, err := handler.SyncDirectory(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, synced)

	var alice dbmodels.Employee
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&alice).Error)
	require.True(t, alice.IsActive)
	require.Equal(t, "Engineering", alice.Department)
	require.NotNil(t, alice.LastWorkspaceSync)

	var bob dbmodels.Employee
	require.NoError(t, db.Where("email = ?", "bob@example.com").First(&bob).Error)
	require.False(t, bob.IsActive)
}

func TestSyncKeepsManagedFields(t *testing.T) {
	directory := &fakeDirectory{users: []workspaceclient.DirectoryUser{
		{ID: "u-1", Email: "alice@example.com", FullName: "Alice Black"},
	}}
	handler, db := newEnv(t, directory)

	seeded := dbmodels.Employee{
		Email:               "alice@example.com",
		FullName:            "Old Name",
		ManagerEmail:        helpers.StrPtr("manager@example.com"),
		HolidayRegion:       helpers.StrPtr("mx"),
		VacationDaysPerYear: 25,
		IsActive:            true,
	}
	require.NoError(t, db.Create(&seeded).Error)

	_, err := handler.SyncDirectory(context.Background())
	require.NoError(t, err)

	var alice dbmodels.Employee
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&alice).Error)
	require.Equal(t, "Alice Black", alice.FullName)
	require.Equal(t, "manager@example.com", *alice.ManagerEmail)
	require.Equal(t, "mx", *alice.HolidayRegion)
	require.Equal(t, 25, alice.VacationDaysPerYear)
}

func TestSyncDirectoryUnavailable(t *testing.T) {
	handler, _ := newEnv(t, &fakeDirectory{fail: true})

	_, err := handler.SyncDirectory(context.Background())
	require.Error(t, err)
}
