package tripstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"hr-portal-backend/apperrors"
	"hr-portal-backend/lib/approval"
	"hr-portal-backend/lib/utils/helpers"
	"hr-portal-backend/models"
	dbmodels "hr-portal-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TripRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.TripRequest, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	ListByEmployee(email string) (list []dbmodels.TripRequest, err error)
	ListByManager(managerEmail string, statuses []models.TripStatus) (list []dbmodels.TripRequest, err error)
	ListAll(filter AdminFilter) (list []dbmodels.TripRequest, err error)
	Transition(tr approval.Transition) error
	SetStatus(id string, from, to models.TripStatus, updMap map[string]interface{}) error
	ListDueToStart(now time.Time) (list []dbmodels.TripRequest, err error)

	SubmitJustification(tripID, employeeEmail string, from models.TripStatus, rec dbmodels.TripJustification) (id string, err error)
	GetJustification(id string) (rec *dbmodels.TripJustification, err error)
	FinalizeJustificationReview(tripID string, from, to models.TripStatus, justificationID string, justUpdates map[string]interface{}) error
	ListJustifications(tripID string) (list []dbmodels.TripJustification, err error)
}

type AdminFilter struct {
	Status models.TripStatus
	Email  string
	Year   int
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.TripRequest) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.TripRequest, error) {
	rec := dbmodels.TripRequest{}
	err := i.db.
		Preload("Justifications", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("submission_number")
		}).
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.TripRequest{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("record not found")
	}
	return nil
}

func (i impl) Delete(id string) error {
	return i.db.
		Delete(&dbmodels.TripRequest{BaseModel: dbmodels.BaseModel{ID: id}}).
		Error
}

func (i impl) ListByEmployee(email string) (list []dbmodels.TripRequest, err error) {
	list = []dbmodels.TripRequest{}
	err = i.db.
		Where("employee_email = ?", helpers.NormalizeEmail(email)).
		Order("start_date desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByManager(managerEmail string, statuses []models.TripStatus) (list []dbmodels.TripRequest, err error) {
	list = []dbmodels.TripRequest{}
	tx := i.db.
		Where("manager_email = ?", helpers.NormalizeEmail(managerEmail)).
		Order("created_at")
	if len(statuses) != 0 {
		tx = tx.Where("status IN ?", statusStrings(statuses))
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListAll(filter AdminFilter) (list []dbmodels.TripRequest, err error) {
	list = []dbmodels.TripRequest{}
	tx := i.db.Order("created_at desc")
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.Email != "" {
		tx = tx.Where("employee_email = ?", helpers.NormalizeEmail(filter.Email))
	}
	if filter.Year != 0 {
		from := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		tx = tx.Where("start_date >= ? AND start_date < ?", from, from.AddDate(1, 0, 0))
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Transition(tr approval.Transition) error {
	return approval.ApplyTransition(i.db, &dbmodels.TripRequest{}, tr)
}

// SetStatus moves a trip between post-approval statuses. The update only
// lands when the current status still matches, concurrent movers lose.
func (i impl) SetStatus(id string, from, to models.TripStatus, updMap map[string]interface{}) error {
	return setStatus(i.db, id, from, to, updMap)
}

func setStatus(db *gorm.DB, id string, from, to models.TripStatus, updMap map[string]interface{}) error {
	updates := map[string]interface{}{"status": string(to)}
	for k, v := range updMap {
		updates[k] = v
	}
	tx := db.
		Model(&dbmodels.TripRequest{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected != 0 {
		return nil
	}
	var count int64
	err := db.
		Model(&dbmodels.TripRequest{}).
		Where("id = ?", id).
		Count(&count).
		Error
	if err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NotFound("trip request", id)
	}
	return apperrors.Conflict("trip was changed concurrently, reload and retry")
}

func (i impl) ListDueToStart(now time.Time) (list []dbmodels.TripRequest, err error) {
	list = []dbmodels.TripRequest{}
	err = i.db.
		Where("status = ?", string(models.TripStatusApproved)).
		Where("start_date <= ?", now).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// SubmitJustification creates the next numbered submission and moves the
// trip to justification_submitted in one transaction. A lost race on the
// status update rolls the new record back.
func (i impl) SubmitJustification(tripID, employeeEmail string, from models.TripStatus, rec dbmodels.TripJustification) (id string, err error) {
	err = i.db.Transaction(func(tx *gorm.DB) error {
		var maxNumber *int
		err := tx.
			Model(&dbmodels.TripJustification{}).
			Select("MAX(submission_number)").
			Where("trip_request_id = ?", tripID).
			Scan(&maxNumber).
			Error
		if err != nil {
			return err
		}
		rec.TripRequestID = tripID
		rec.EmployeeEmail = helpers.NormalizeEmail(employeeEmail)
		rec.SubmissionNumber = 1
		if maxNumber != nil {
			rec.SubmissionNumber = *maxNumber + 1
		}
		err = tx.Create(&rec).Error
		if err != nil {
			return err
		}
		return setStatus(tx, tripID, from, models.TripStatusJustificationSubmitted, nil)
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetJustification(id string) (*dbmodels.TripJustification, error) {
	rec := dbmodels.TripJustification{}
	err := i.db.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// FinalizeJustificationReview records the verdict and moves the trip out of
// justification_submitted in one transaction. A lost race on the status
// update rolls the verdict back, so the submission stays reviewable.
func (i impl) FinalizeJustificationReview(tripID string, from, to models.TripStatus, justificationID string, justUpdates map[string]interface{}) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&dbmodels.TripJustification{}).
			Where("id = ?", justificationID).
			Updates(justUpdates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("record not found")
		}
		return setStatus(tx, tripID, from, to, nil)
	})
}

func (i impl) ListJustifications(tripID string) (list []dbmodels.TripJustification, err error) {
	list = []dbmodels.TripJustification{}
	err = i.db.
		Where("trip_request_id = ?", tripID).
		Order("submission_number").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func statusStrings(statuses []models.TripStatus) []string {
	result := make([]string, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, string(s))
	}
	return result
}
