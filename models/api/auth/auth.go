package authapimodels

import (
	"net/mail"

	"hr-portal-backend/apperrors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return apperrors.Validation("email has an invalid format")
	}
	if r.Password == "" {
		return apperrors.Validation("password is required")
	}
	return nil
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"` // always "bearer"
	Profile     ProfileView `json:"profile"`
}

// ProfileView is the identity block returned by login and by /auth/me.
type ProfileView struct {
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	PhotoURL     string  `json:"photo_url"`
	ManagerEmail *string `json:"manager_email"`
	IsAdmin      bool    `json:"is_admin"`
	IsManager    bool    `json:"is_manager"`
}
