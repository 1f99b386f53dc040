package apimodels

import "hr-portal-backend/apperrors"

// RejectData is the shared body of all reject endpoints.
type RejectData struct {
	Reason string `json:"reason"`
}

func (d RejectData) Validate() error {
	if d.Reason == "" {
		return apperrors.Validation("reason is required")
	}
	return nil
}
