package repositories

import (
	"context"

	contextutil "kirayo/internal/context"
	"kirayo/internal/database"
	"kirayo/internal/logger"
	. "kirayo/internal/models"

	"gorm.io/gorm"
)

type OwnerRequestRepository interface {
	GetAll(ctx context.Context, status OwnerRequestStatus) ([]*OwnerRequest, error)
	GetByID(ctx context.Context, id int) (*OwnerRequest, error)
	GetPendingByUser(ctx context.Context, userID int) (*OwnerRequest, error)
	GetByUser(ctx context.Context, userID int) ([]*OwnerRequest, error)
	Create(ctx context.Context, request *OwnerRequest) error
	Update(ctx context.Context, request *OwnerRequest) error
}

type ownerRequestRepository struct {
	db  database.DB
	log logger.Logger
}

func NewOwnerRequestRepository(db database.DB) OwnerRequestRepository {
	return &ownerRequestRepository{
		db:  db,
		log: logger.New("ownerRequestRepository"),
	}
}

func (r *ownerRequestRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *ownerRequestRepository) GetAll(ctx context.Context, status OwnerRequestStatus) ([]*OwnerRequest, error) {
	log := r.log.Function("GetAll")

	query := r.getDB(ctx).Preload("User")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []*OwnerRequest
	if err := query.Order("submitted_at ASC").Find(&requests).Error; err != nil {
		return nil, log.Err("failed to get owner requests", err, "status", string(status))
	}

	return requests, nil
}

func (r *ownerRequestRepository) GetByID(ctx context.Context, id int) (*OwnerRequest, error) {
	log := r.log.Function("GetByID")

	var request OwnerRequest
	if err := r.getDB(ctx).Preload("User").First(&request, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get owner request by ID", err, "id", id)
	}

	return &request, nil
}

func (r *ownerRequestRepository) GetPendingByUser(ctx context.Context, userID int) (*OwnerRequest, error) {
	var request OwnerRequest
	err := r.getDB(ctx).
		Where("user_id = ? AND status = ?", userID, OwnerRequestPending).
		First(&request).Error
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *ownerRequestRepository) GetByUser(ctx context.Context, userID int) ([]*OwnerRequest, error) {
	log := r.log.Function("GetByUser")

	var requests []*OwnerRequest
	if err := r.getDB(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&requests).Error; err != nil {
		return nil, log.Err("failed to get owner requests by user", err, "userID", userID)
	}

	return requests, nil
}

func (r *ownerRequestRepository) Create(ctx context.Context, request *OwnerRequest) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(request).Error; err != nil {
		return log.Err("failed to create owner request", err, "userID", request.UserID)
	}

	return nil
}

func (r *ownerRequestRepository) Update(ctx context.Context, request *OwnerRequest) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(request).Error; err != nil {
		return log.Err("failed to update owner request", err, "id", request.ID)
	}

	return nil
}
