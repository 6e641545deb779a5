package repositories

import (
	"context"

	contextutil "kirayo/internal/context"
	"kirayo/internal/database"
	"kirayo/internal/logger"
	. "kirayo/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	GetByUser(ctx context.Context, userID, limit int) ([]*Notification, error)
	GetByID(ctx context.Context, id int) (*Notification, error)
	Create(ctx context.Context, notification *Notification) error
	MarkRead(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	CountUnread(ctx context.Context, userID int) (int64, error)
}

type notificationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewNotificationRepository(db database.DB) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *notificationRepository) GetByUser(ctx context.Context, userID, limit int) ([]*Notification, error) {
	log := r.log.Function("GetByUser")

	query := r.getDB(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notifications []*Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, log.Err("failed to get notifications by user", err, "userID", userID)
	}

	return notifications, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id int) (*Notification, error) {
	log := r.log.Function("GetByID")

	var notification Notification
	if err := r.getDB(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get notification by ID", err, "id", id)
	}

	return &notification, nil
}

func (r *notificationRepository) Create(ctx context.Context, notification *Notification) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(notification).Error; err != nil {
		return log.Err("failed to create notification", err, "userID", notification.UserID)
	}

	return nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int) error {
	log := r.log.Function("MarkRead")

	if err := r.getDB(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Update("read", true).Error; err != nil {
		return log.Err("failed to mark notification read", err, "id", id)
	}

	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&Notification{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete notification", err, "id", id)
	}

	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int) (int64, error) {
	log := r.log.Function("CountUnread")

	var count int64
	if err := r.getDB(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count unread notifications", err, "userID", userID)
	}

	return count, nil
}
