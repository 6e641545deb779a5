package repositories

import (
	"context"

	contextutil "kirayo/internal/context"
	"kirayo/internal/database"
	"kirayo/internal/logger"
	. "kirayo/internal/models"

	"gorm.io/gorm"
)

type OwnerRequirementRepository interface {
	GetAll(ctx context.Context, activeOnly bool) ([]*OwnerRequirement, error)
	GetByID(ctx context.Context, id int) (*OwnerRequirement, error)
	Create(ctx context.Context, requirement *OwnerRequirement) error
	Update(ctx context.Context, requirement *OwnerRequirement) error
	Delete(ctx context.Context, id int) error
	Reorder(ctx context.Context, orderedIDs []int) error
}

type ownerRequirementRepository struct {
	db  database.DB
	log logger.Logger
}

func NewOwnerRequirementRepository(db database.DB) OwnerRequirementRepository {
	return &ownerRequirementRepository{
		db:  db,
		log: logger.New("ownerRequirementRepository"),
	}
}

func (r *ownerRequirementRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *ownerRequirementRepository) GetAll(ctx context.Context, activeOnly bool) ([]*OwnerRequirement, error) {
	log := r.log.Function("GetAll")

	query := r.getDB(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var requirements []*OwnerRequirement
	if err := query.Order("order_index ASC, id ASC").Find(&requirements).Error; err != nil {
		return nil, log.Err("failed to get owner requirements", err)
	}

	return requirements, nil
}

func (r *ownerRequirementRepository) GetByID(ctx context.Context, id int) (*OwnerRequirement, error) {
	log := r.log.Function("GetByID")

	var requirement OwnerRequirement
	if err := r.getDB(ctx).First(&requirement, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get owner requirement by ID", err, "id", id)
	}

	return &requirement, nil
}

func (r *ownerRequirementRepository) Create(ctx context.Context, requirement *OwnerRequirement) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(requirement).Error; err != nil {
		return log.Err("failed to create owner requirement", err, "fieldName", requirement.FieldName)
	}

	return nil
}

func (r *ownerRequirementRepository) Update(ctx context.Context, requirement *OwnerRequirement) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(requirement).Error; err != nil {
		return log.Err("failed to update owner requirement", err, "id", requirement.ID)
	}

	return nil
}

func (r *ownerRequirementRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&OwnerRequirement{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete owner requirement", err, "id", id)
	}

	return nil
}

// Reorder rewrites order_index to match the given ID ordering.
func (r *ownerRequirementRepository) Reorder(ctx context.Context, orderedIDs []int) error {
	log := r.log.Function("Reorder")

	db := r.getDB(ctx)
	for index, id := range orderedIDs {
		if err := db.Model(&OwnerRequirement{}).
			Where("id = ?", id).
			Update("order_index", index).Error; err != nil {
			return log.Err("failed to reorder owner requirement", err, "id", id)
		}
	}

	return nil
}
