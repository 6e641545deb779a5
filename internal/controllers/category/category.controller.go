package categoryController

import (
	"context"
	"errors"

	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var ErrCategoryNameTaken = errors.New("a category with this name already exists")

// CategoryController manages the admin-owned category catalog and its
// per-category requirement schemas.
type CategoryController struct {
	categories   repositories.CategoryRepository
	transactions *services.TransactionService
	validate     *validator.Validate
	log          logger.Logger
}

type CategoryControllerInterface interface {
	GetCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id int) (*models.Category, error)
	CreateCategory(ctx context.Context, req models.CategoryCreateRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int, req models.CategoryCreateRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int) error

	AddRequirement(ctx context.Context, categoryID int, req models.RequirementCreateRequest) (*models.CategoryRequirement, error)
	UpdateRequirement(ctx context.Context, categoryID, requirementID int, req models.RequirementCreateRequest) (*models.CategoryRequirement, error)
	DeleteRequirement(ctx context.Context, categoryID, requirementID int) error
}

func New(
	repos repositories.Repository,
	services services.Service,
) CategoryControllerInterface {
	return &CategoryController{
		categories:   repos.Category,
		transactions: services.Transaction,
		validate:     validator.New(),
		log:          logger.New("categoryController"),
	}
}

func (c *CategoryController) GetCategories(ctx context.Context) ([]*models.Category, error) {
	return c.categories.GetAll(ctx)
}

func (c *CategoryController) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	return c.categories.GetByID(ctx, id)
}

// CreateCategory creates the category and any inline requirements in
// one transaction.
func (c *CategoryController) CreateCategory(ctx context.Context, req models.CategoryCreateRequest) (*models.Category, error) {
	log := c.log.Function("CreateCategory")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	if existing, err := c.categories.GetByName(ctx, req.Name); err == nil && existing != nil {
		return nil, ErrCategoryNameTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	err := c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		if err := c.categories.Create(txCtx, category); err != nil {
			return err
		}
		for _, reqField := range req.Requirements {
			requirement, err := buildRequirement(category.ID, reqField)
			if err != nil {
				return err
			}
			if err := c.categories.CreateRequirement(txCtx, requirement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Category created", "categoryID", category.ID, "name", category.Name)
	return c.categories.GetByID(ctx, category.ID)
}

func (c *CategoryController) UpdateCategory(ctx context.Context, id int, req models.CategoryCreateRequest) (*models.Category, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	category, err := c.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != category.Name {
		if existing, err := c.categories.GetByName(ctx, req.Name); err == nil && existing != nil {
			return nil, ErrCategoryNameTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	category.Name = req.Name
	category.Description = req.Description

	if err := c.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (c *CategoryController) DeleteCategory(ctx context.Context, id int) error {
	if _, err := c.categories.GetByID(ctx, id); err != nil {
		return err
	}
	return c.categories.Delete(ctx, id)
}

func (c *CategoryController) AddRequirement(ctx context.Context, categoryID int, req models.RequirementCreateRequest) (*models.CategoryRequirement, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	if _, err := c.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	requirement, err := buildRequirement(categoryID, req)
	if err != nil {
		return nil, err
	}
	if err := c.categories.CreateRequirement(ctx, requirement); err != nil {
		return nil, err
	}

	return requirement, nil
}

func (c *CategoryController) UpdateRequirement(ctx context.Context, categoryID, requirementID int, req models.RequirementCreateRequest) (*models.CategoryRequirement, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	requirement, err := c.requirementOf(ctx, categoryID, requirementID)
	if err != nil {
		return nil, err
	}

	requirement.Name = req.Name
	requirement.FieldType = req.FieldType
	requirement.IsRequired = req.IsRequired
	if req.MaxImages > 0 {
		requirement.MaxImages = req.MaxImages
	}
	if err := requirement.SetOptions(req.Options); err != nil {
		return nil, err
	}

	if err := c.categories.UpdateRequirement(ctx, requirement); err != nil {
		return nil, err
	}

	return requirement, nil
}

func (c *CategoryController) DeleteRequirement(ctx context.Context, categoryID, requirementID int) error {
	requirement, err := c.requirementOf(ctx, categoryID, requirementID)
	if err != nil {
		return err
	}
	return c.categories.DeleteRequirement(ctx, requirement.ID)
}

func (c *CategoryController) requirementOf(ctx context.Context, categoryID, requirementID int) (*models.CategoryRequirement, error) {
	requirement, err := c.categories.GetRequirementByID(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if requirement.CategoryID != categoryID {
		return nil, gorm.ErrRecordNotFound
	}
	return requirement, nil
}

func buildRequirement(categoryID int, req models.RequirementCreateRequest) (*models.CategoryRequirement, error) {
	requirement := &models.CategoryRequirement{
		CategoryID: categoryID,
		Name:       req.Name,
		FieldType:  req.FieldType,
		IsRequired: req.IsRequired,
	}
	if req.MaxImages > 0 {
		requirement.MaxImages = req.MaxImages
	}
	if err := requirement.SetOptions(req.Options); err != nil {
		return nil, err
	}
	return requirement, nil
}
