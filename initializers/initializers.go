package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	"hr-portal-backend/config"
	"hr-portal-backend/fiberlog"
	assethandler "hr-portal-backend/lib/asset"
	authhandler "hr-portal-backend/lib/auth"
	balancehandler "hr-portal-backend/lib/balance"
	calendarclient "hr-portal-backend/lib/calendar"
	employeehandler "hr-portal-backend/lib/employee"
	xlsexport "hr-portal-backend/lib/export/xls"
	notificationhandler "hr-portal-backend/lib/notification"
	timeoffhandler "hr-portal-backend/lib/timeoff"
	triphandler "hr-portal-backend/lib/trip"
	tripdocshandler "hr-portal-backend/lib/tripdocs"
	workspaceclient "hr-portal-backend/lib/workspace"
	workspacesync "hr-portal-backend/lib/workspace/sync"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitSmtp()
	InitS3()

	calendarclient.NewProvider(config.Conf.Calendar.BaseURL, config.Conf.Calendar.APIToken, config.Conf.Calendar.CalendarID)
	workspaceclient.NewProvider(config.Conf.Workspace.BaseURL, config.Conf.Workspace.APIToken, config.Conf.Workspace.Domain)

	xlsexport.NewHandler()
	tripdocshandler.NewHandler()
	notificationhandler.NewHandler()
	notificationhandler.Instance.Start(ctx)

	employeehandler.NewHandler()
	balancehandler.NewHandler()
	authhandler.NewHandler()
	timeoffhandler.NewHandler()
	triphandler.NewHandler()
	assethandler.NewHandler()
	workspacesync.NewHandler()

	if *config.Conf.Workspace.SyncOnStart {
		go syncDirectory(ctx)
	}
	triphandler.StartWorker(ctx)
}

func syncDirectory(ctx context.Context) {
	synced, err := workspacesync.Instance.SyncDirectory(ctx)
	if err != nil {
		log.WithError(err).Error("directory sync on start failed")
		return
	}
	log.WithField("synced", synced).Info("directory sync on start completed")
}
