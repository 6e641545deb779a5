package repositories

import (
	"context"
	"errors"

	contextutil "kirayo/internal/context"
	"kirayo/internal/database"
	"kirayo/internal/logger"
	. "kirayo/internal/models"

	"gorm.io/gorm"
)

type UserRestrictionRepository interface {
	GetAll(ctx context.Context) ([]*UserRestriction, error)
	GetByUser(ctx context.Context, userID int) (*UserRestriction, error)
	GetOrCreateByUser(ctx context.Context, userID int) (*UserRestriction, error)
	Update(ctx context.Context, restriction *UserRestriction) error
}

type userRestrictionRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRestrictionRepository(db database.DB) UserRestrictionRepository {
	return &userRestrictionRepository{
		db:  db,
		log: logger.New("userRestrictionRepository"),
	}
}

func (r *userRestrictionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *userRestrictionRepository) GetAll(ctx context.Context) ([]*UserRestriction, error) {
	log := r.log.Function("GetAll")

	var restrictions []*UserRestriction
	if err := r.getDB(ctx).Preload("User").Order("updated_at DESC").Find(&restrictions).Error; err != nil {
		return nil, log.Err("failed to get all user restrictions", err)
	}

	return restrictions, nil
}

func (r *userRestrictionRepository) GetByUser(ctx context.Context, userID int) (*UserRestriction, error) {
	log := r.log.Function("GetByUser")

	var restriction UserRestriction
	if err := r.getDB(ctx).Preload("User").First(&restriction, "user_id = ?", userID).Error; err != nil {
		return nil, log.Err("failed to get user restriction", err, "userID", userID)
	}

	return &restriction, nil
}

// GetOrCreateByUser lazily creates the restriction row the first time a
// user draws a complaint or warning.
func (r *userRestrictionRepository) GetOrCreateByUser(ctx context.Context, userID int) (*UserRestriction, error) {
	log := r.log.Function("GetOrCreateByUser")

	var restriction UserRestriction
	err := r.getDB(ctx).First(&restriction, "user_id = ?", userID).Error
	if err == nil {
		return &restriction, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, log.Err("failed to get user restriction", err, "userID", userID)
	}

	restriction = UserRestriction{UserID: userID}
	if err := r.getDB(ctx).Create(&restriction).Error; err != nil {
		return nil, log.Err("failed to create user restriction", err, "userID", userID)
	}

	return &restriction, nil
}

func (r *userRestrictionRepository) Update(ctx context.Context, restriction *UserRestriction) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(restriction).Error; err != nil {
		return log.Err("failed to update user restriction", err, "id", restriction.ID)
	}

	return nil
}
