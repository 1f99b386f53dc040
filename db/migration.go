package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "hr-portal-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.Employee{}); err != nil {
		return errors.Wrap(err, "failed to migrate Employee")
	}
	if err := DB.AutoMigrate(&dbmodels.TimeOffRequest{}); err != nil {
		return errors.Wrap(err, "failed to migrate TimeOffRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.TripRequest{}); err != nil {
		return errors.Wrap(err, "failed to migrate TripRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.TripJustification{}); err != nil {
		return errors.Wrap(err, "failed to migrate TripJustification")
	}
	if err := DB.AutoMigrate(&dbmodels.AssetRequest{}); err != nil {
		return errors.Wrap(err, "failed to migrate AssetRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.EmployeeAsset{}); err != nil {
		return errors.Wrap(err, "failed to migrate EmployeeAsset")
	}
	if err := DB.AutoMigrate(&dbmodels.AssetAuditLog{}); err != nil {
		return errors.Wrap(err, "failed to migrate AssetAuditLog")
	}
	log.Info("migrations completed")
	return nil
}
