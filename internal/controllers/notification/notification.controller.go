package notificationController

import (
	"context"
	"errors"

	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	"github.com/go-playground/validator/v10"
)

var ErrNotNotificationOwner = errors.New("notification belongs to another user")

const defaultNotificationLimit = 50

type NotificationController struct {
	notifications repositories.NotificationRepository
	service       *services.NotificationService
	validate      *validator.Validate
	log           logger.Logger
}

type NotificationControllerInterface interface {
	GetNotifications(ctx context.Context, userID, limit int) ([]*models.Notification, error)
	GetNotification(ctx context.Context, user *models.User, notificationID int) (*models.Notification, error)
	GetUnreadCount(ctx context.Context, userID int) (int64, error)
	MarkRead(ctx context.Context, user *models.User, notificationID int) (*models.Notification, error)
	SendNotification(ctx context.Context, req models.NotificationCreateRequest) error
	DeleteNotification(ctx context.Context, user *models.User, notificationID int) error
}

func New(
	repos repositories.Repository,
	services services.Service,
) NotificationControllerInterface {
	return &NotificationController{
		notifications: repos.Notification,
		service:       services.Notification,
		validate:      validator.New(),
		log:           logger.New("notificationController"),
	}
}

func (c *NotificationController) GetNotifications(ctx context.Context, userID, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultNotificationLimit
	}
	return c.notifications.GetByUser(ctx, userID, limit)
}

func (c *NotificationController) GetNotification(ctx context.Context, user *models.User, notificationID int) (*models.Notification, error) {
	notification, err := c.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification.UserID != user.ID && !user.IsAdmin() {
		return nil, ErrNotNotificationOwner
	}
	return notification, nil
}

func (c *NotificationController) GetUnreadCount(ctx context.Context, userID int) (int64, error) {
	return c.notifications.CountUnread(ctx, userID)
}

func (c *NotificationController) MarkRead(ctx context.Context, user *models.User, notificationID int) (*models.Notification, error) {
	notification, err := c.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification.UserID != user.ID {
		return nil, ErrNotNotificationOwner
	}

	if err := c.notifications.MarkRead(ctx, notification.ID); err != nil {
		return nil, err
	}
	notification.Read = true

	return notification, nil
}

// SendNotification lets an admin push a message to any user.
func (c *NotificationController) SendNotification(ctx context.Context, req models.NotificationCreateRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return err
	}

	typeTag := req.Type
	if typeTag == "" {
		typeTag = models.NotificationGeneral
	}
	return c.service.Notify(ctx, req.UserID, req.Message, typeTag)
}

func (c *NotificationController) DeleteNotification(ctx context.Context, user *models.User, notificationID int) error {
	notification, err := c.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != user.ID && !user.IsAdmin() {
		return ErrNotNotificationOwner
	}
	return c.notifications.Delete(ctx, notification.ID)
}
