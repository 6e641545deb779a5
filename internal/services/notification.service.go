package services

import (
	"context"

	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/websockets"
)

// NotificationService persists notifications and fans them out over the
// realtime stream. Persistence failures propagate; push and mail are
// best effort.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	hub           *websockets.Manager
	mail          *MailService
	log           logger.Logger
}

func NewNotificationService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	hub *websockets.Manager,
	mail *MailService,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		hub:           hub,
		mail:          mail,
		log:           logger.New("notificationService"),
	}
}

// Notify stores a notification and pushes it to the recipient's open
// websocket sessions.
func (s *NotificationService) Notify(ctx context.Context, userID int, message, typeTag string) error {
	log := s.log.Function("Notify")

	notification := &models.Notification{
		UserID:  userID,
		Message: message,
		Type:    typeTag,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return log.Err("failed to create notification", err, "userID", userID, "type", typeTag)
	}

	s.hub.NotifyUser(userID, map[string]any{
		"id":      notification.ID,
		"message": notification.Message,
		"type":    notification.Type,
	})

	return nil
}

// NotifyWithEmail additionally emails the recipient, used for account
// level events like restrictions and warnings.
func (s *NotificationService) NotifyWithEmail(ctx context.Context, userID int, message, typeTag, subject string) error {
	if err := s.Notify(ctx, userID, message, typeTag); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Function("NotifyWithEmail").Warn("could not load user for email", "userID", userID, "error", err)
		return nil
	}
	s.mail.Send(user.Email, subject, message)

	return nil
}
