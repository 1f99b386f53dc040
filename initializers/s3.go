package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	"hr-portal-backend/config"
	filestorage "hr-portal-backend/lib/filestorage"
	s3client "hr-portal-backend/s3"
)

func InitS3() {
	minioClient, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("failed to initialize the S3 client")
		return
	}

	if _, err = minioClient.ListBuckets(context.Background()); err != nil {
		log.WithError(err).Error("S3 connection check failed")
	}

	filestorage.NewInstance(minioClient, config.Conf.S3.Bucket)
	log.Info("S3 client initialized")
}
