package repositories

import (
	"context"

	contextutil "kirayo/internal/context"
	"kirayo/internal/database"
	"kirayo/internal/logger"
	. "kirayo/internal/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	GetAll(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id int) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id int) error
	GetRequirements(ctx context.Context, categoryID int) ([]*CategoryRequirement, error)
	GetRequirementByID(ctx context.Context, id int) (*CategoryRequirement, error)
	CreateRequirement(ctx context.Context, requirement *CategoryRequirement) error
	UpdateRequirement(ctx context.Context, requirement *CategoryRequirement) error
	DeleteRequirement(ctx context.Context, id int) error
}

type categoryRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCategoryRepository(db database.DB) CategoryRepository {
	return &categoryRepository{
		db:  db,
		log: logger.New("categoryRepository"),
	}
}

func (r *categoryRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]*Category, error) {
	log := r.log.Function("GetAll")

	var categories []*Category
	if err := r.getDB(ctx).Preload("Requirements").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, log.Err("failed to get all categories", err)
	}

	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int) (*Category, error) {
	log := r.log.Function("GetByID")

	var category Category
	if err := r.getDB(ctx).Preload("Requirements").First(&category, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get category by ID", err, "id", id)
	}

	return &category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*Category, error) {
	log := r.log.Function("GetByName")

	var category Category
	if err := r.getDB(ctx).First(&category, "name = ?", name).Error; err != nil {
		return nil, log.Err("failed to get category by name", err, "name", name)
	}

	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *Category) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(category).Error; err != nil {
		return log.Err("failed to create category", err, "name", category.Name)
	}

	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *Category) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(category).Error; err != nil {
		return log.Err("failed to update category", err, "id", category.ID)
	}

	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	db := r.getDB(ctx)
	if err := db.Delete(&CategoryRequirement{}, "category_id = ?", id).Error; err != nil {
		return log.Err("failed to delete category requirements", err, "categoryID", id)
	}
	if err := db.Delete(&Category{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete category", err, "id", id)
	}

	return nil
}

func (r *categoryRepository) GetRequirements(ctx context.Context, categoryID int) ([]*CategoryRequirement, error) {
	log := r.log.Function("GetRequirements")

	var requirements []*CategoryRequirement
	if err := r.getDB(ctx).Where("category_id = ?", categoryID).Order("id ASC").Find(&requirements).Error; err != nil {
		return nil, log.Err("failed to get category requirements", err, "categoryID", categoryID)
	}

	return requirements, nil
}

func (r *categoryRepository) GetRequirementByID(ctx context.Context, id int) (*CategoryRequirement, error) {
	log := r.log.Function("GetRequirementByID")

	var requirement CategoryRequirement
	if err := r.getDB(ctx).First(&requirement, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get category requirement", err, "id", id)
	}

	return &requirement, nil
}

func (r *categoryRepository) CreateRequirement(ctx context.Context, requirement *CategoryRequirement) error {
	log := r.log.Function("CreateRequirement")

	if err := r.getDB(ctx).Create(requirement).Error; err != nil {
		return log.Err("failed to create category requirement", err, "name", requirement.Name)
	}

	return nil
}

func (r *categoryRepository) UpdateRequirement(ctx context.Context, requirement *CategoryRequirement) error {
	log := r.log.Function("UpdateRequirement")

	if err := r.getDB(ctx).Save(requirement).Error; err != nil {
		return log.Err("failed to update category requirement", err, "id", requirement.ID)
	}

	return nil
}

func (r *categoryRepository) DeleteRequirement(ctx context.Context, id int) error {
	log := r.log.Function("DeleteRequirement")

	if err := r.getDB(ctx).Delete(&CategoryRequirement{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete category requirement", err, "id", id)
	}

	return nil
}
