package services

import (
	"kirayo/config"
	"kirayo/internal/database"
	"kirayo/internal/repositories"
	"kirayo/internal/websockets"
)

type Service struct {
	Transaction  *TransactionService
	Scheduler    *SchedulerService
	Token        *TokenService
	Mail         *MailService
	Upload       *UploadService
	Export       *ExportService
	Notification *NotificationService
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
	hub *websockets.Manager,
) (Service, error) {
	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService()
	tokenService := NewTokenService(config)
	mailService := NewMailService(config)
	exportService := NewExportService()
	notificationService := NewNotificationService(repos.Notification, repos.User, hub, mailService)

	uploadService, err := NewUploadService(config)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Transaction:  transactionService,
		Scheduler:    schedulerService,
		Token:        tokenService,
		Mail:         mailService,
		Upload:       uploadService,
		Export:       exportService,
		Notification: notificationService,
	}, nil
}
