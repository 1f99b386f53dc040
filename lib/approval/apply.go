package approval

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"hr-portal-backend/apperrors"
)

// ApplyTransition performs the status change as a conditional update. The
// status predicate makes concurrent decisions race-safe: whichever update
// lands first wins, the loser observes zero affected rows and reports a
// conflict.
func ApplyTransition(tx *gorm.DB, model interface{}, tr Transition) error {
	res := tx.Model(model).
		Where("id = ? AND status = ?", tr.RequestID, string(tr.From)).
		Updates(tr.Updates)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to apply status transition")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(model).Where("id = ?", tr.RequestID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to re-check request after empty update")
		}
		if count == 0 {
			return apperrors.NotFound("request", tr.RequestID)
		}
		return apperrors.Conflict("request was changed concurrently, reload and retry")
	}
	return nil
}
