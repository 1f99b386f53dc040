package apimodels

import (
	"time"

	"hr-portal-backend/apperrors"
)

const DateLayout = "2006-01-02"

// ParseDate parses a date-only field of a request payload.
func ParseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperrors.Validation("%s is required", field)
	}
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.Validation("%s must be a date in format %s", field, DateLayout)
	}
	return d, nil
}

func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}
