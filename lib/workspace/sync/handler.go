package workspacesync

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hr-portal-backend/db"
	employeestore "hr-portal-backend/lib/employee/store"
	"hr-portal-backend/lib/utils/helpers"
	workspaceclient "hr-portal-backend/lib/workspace"
	dbmodels "hr-portal-backend/models/db"
)

type Provider interface {
	SyncDirectory(ctx context.Context) (synced int, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:  employeestore.NewInstance(db.DB),
		client: workspaceclient.Instance,
	}
}

type impl struct {
	store  employeestore.Provider
	client workspaceclient.Provider
}

// SyncDirectory refreshes the employee table from the workspace directory.
// Directory-owned columns are overwritten, HR-managed ones (manager,
// vacation allowance, holiday region) are kept.
func (i impl) SyncDirectory(ctx context.Context) (int, error) {
	logger := log.WithField("job", "workspace_sync")
	users, err := i.client.ListUsers(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list directory users")
	}
	now := time.Now()
	synced := 0
	for _, user := range users {
		if helpers.IsContextDone(ctx) {
			return synced, ctx.Err()
		}
		if user.Email == "" {
			continue
		}
		rec := dbmodels.Employee{
			Email:             helpers.NormalizeEmail(user.Email),
			WorkspaceID:       user.ID,
			GivenName:         user.GivenName,
			FamilyName:        user.FamilyName,
			FullName:          user.FullName,
			PhotoURL:          user.PhotoURL,
			Department:        user.Department,
			JobTitle:          user.JobTitle,
			Location:          user.Location,
			IsActive:          !user.Suspended,
			LastWorkspaceSync: &now,
		}
		if err := i.store.Upsert(rec); err != nil {
			logger.WithError(err).
				WithField("employee", rec.Email).
				Error("failed to sync directory entry")
			continue
		}
		synced++
	}
	logger.WithField("synced", synced).Info("directory sync finished")
	return synced, nil
}
