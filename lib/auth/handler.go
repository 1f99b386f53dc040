package authhandler

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/config"
	"hr-portal-backend/db"
	employeestore "hr-portal-backend/lib/employee/store"
	authutils "hr-portal-backend/lib/utils/auth-utils"
	"hr-portal-backend/lib/utils/helpers"
	workspaceclient "hr-portal-backend/lib/workspace"
	authapimodels "hr-portal-backend/models/api/auth"
)

type Provider interface {
	Login(ctx context.Context, data authapimodels.LoginRequest) (authapimodels.LoginResponse, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     employeestore.NewInstance(db.DB),
		workspace: workspaceclient.Instance,
	}
}

type impl struct {
	store     employeestore.Provider
	workspace workspaceclient.Provider
}

// Login checks the credentials against the workspace directory and issues
// a portal token. The admin claim comes from the configured allow-list, so
// revoking admin access only needs a config change and a re-login.
func (i impl) Login(ctx context.Context, data authapimodels.LoginRequest) (authapimodels.LoginResponse, error) {
	empty := authapimodels.LoginResponse{}
	if err := data.Validate(); err != nil {
		return empty, err
	}
	email := helpers.NormalizeEmail(data.Email)
	rec, err := i.store.GetByEmail(email)
	if err != nil {
		return empty, errors.Wrap(err, "failed to load employee")
	}
	if rec == nil || !rec.IsActive {
		return empty, apperrors.PermissionDenied("invalid credentials")
	}
	if err := i.workspace.Authenticate(ctx, email, data.Password); err != nil {
		log.WithField("employee", email).WithError(err).Warn("login rejected")
		if _, ok := apperrors.KindOf(err); ok {
			return empty, err
		}
		return empty, apperrors.PermissionDenied("invalid credentials")
	}
	isAdmin := config.Conf.IsAdminEmail(email)
	token, err := authutils.GetToken(email, rec.FullName, isAdmin)
	if err != nil {
		return empty, errors.Wrap(err, "failed to sign token")
	}
	isManager, err := i.store.HasReports(email)
	if err != nil {
		return empty, errors.Wrap(err, "failed to check reports")
	}
	return authapimodels.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Profile: authapimodels.ProfileView{
			Email:        rec.Email,
			FullName:     rec.FullName,
			PhotoURL:     rec.PhotoURL,
			ManagerEmail: rec.ManagerEmail,
			IsAdmin:      isAdmin,
			IsManager:    isManager,
		},
	}, nil
}
