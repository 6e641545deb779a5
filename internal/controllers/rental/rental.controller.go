package rentalController

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"

	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotItemOwner   = errors.New("only the owner of this item may perform this action")
	ErrItemOccupied   = errors.New("item has an active booking and cannot be removed")
	ErrUnknownField   = errors.New("renter input field does not belong to this item")
	ErrCategoryNeeded = errors.New("category not found")
)

// RentalController manages owner listings, their renter-facing input
// fields and the public browsing surface.
type RentalController struct {
	items      repositories.RentalItemRepository
	categories repositories.CategoryRepository
	bookings   repositories.BookingRepository
	upload     *services.UploadService
	validate   *validator.Validate
	log        logger.Logger
}

type RentalControllerInterface interface {
	CreateItem(ctx context.Context, owner *models.User, req models.RentalItemCreateRequest) (*models.RentalItem, error)
	GetOwnerItems(ctx context.Context, ownerID int) ([]*models.RentalItem, error)
	GetItem(ctx context.Context, itemID int) (*models.RentalItem, error)
	UpdateItem(ctx context.Context, owner *models.User, itemID int, req models.RentalItemUpdateRequest) (*models.RentalItem, error)
	DeleteItem(ctx context.Context, owner *models.User, itemID int) error
	UploadItemImage(ctx context.Context, file *multipart.FileHeader) (string, error)

	CreateInputField(ctx context.Context, owner *models.User, itemID int, req models.RenterInputFieldRequest) (*models.RenterInputField, error)
	UpdateInputField(ctx context.Context, owner *models.User, itemID, fieldID int, req models.RenterInputFieldRequest) (*models.RenterInputField, error)
	DeleteInputField(ctx context.Context, owner *models.User, itemID, fieldID int) error

	BrowseCategories(ctx context.Context) ([]CategoryListing, error)
	BrowseCategoryItems(ctx context.Context, categoryID int, search string) ([]*models.RentalItem, error)
	GetOwnerStats(ctx context.Context, ownerID int) (*OwnerStats, error)
}

type CategoryListing struct {
	Category       models.Category `json:"category"`
	AvailableItems int64           `json:"availableItems"`
}

type OwnerStats struct {
	TotalItems     int   `json:"totalItems"`
	AvailableItems int   `json:"availableItems"`
	ActiveBookings int64 `json:"activeBookings"`
}

func New(
	repos repositories.Repository,
	services services.Service,
) RentalControllerInterface {
	return &RentalController{
		items:      repos.RentalItem,
		categories: repos.Category,
		bookings:   repos.Booking,
		upload:     services.Upload,
		validate:   validator.New(),
		log:        logger.New("rentalController"),
	}
}

// CreateItem validates the dynamic document against the category's
// requirement schema before listing the item.
func (c *RentalController) CreateItem(ctx context.Context, owner *models.User, req models.RentalItemCreateRequest) (*models.RentalItem, error) {
	log := c.log.Function("CreateItem")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	category, err := c.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, ErrCategoryNeeded
	}

	specs := make([]models.FieldSpec, 0, len(category.Requirements))
	for i := range category.Requirements {
		specs = append(specs, category.Requirements[i].Spec())
	}
	if err := models.ValidateDynamicValues(specs, req.DynamicData); err != nil {
		return nil, err
	}

	dynamicJSON, err := json.Marshal(req.DynamicData)
	if err != nil {
		return nil, log.Err("failed to encode dynamic data", err)
	}

	item := &models.RentalItem{
		OwnerID:     owner.ID,
		CategoryID:  category.ID,
		IsAvailable: true,
		DynamicData: dynamicJSON,
	}
	if err := c.items.Create(ctx, item); err != nil {
		return nil, err
	}

	log.Info("Rental item created", "itemID", item.ID, "ownerID", owner.ID, "categoryID", category.ID)
	return item, nil
}

func (c *RentalController) GetOwnerItems(ctx context.Context, ownerID int) ([]*models.RentalItem, error) {
	return c.items.GetByOwner(ctx, ownerID)
}

func (c *RentalController) GetItem(ctx context.Context, itemID int) (*models.RentalItem, error) {
	return c.items.GetByID(ctx, itemID)
}

func (c *RentalController) UpdateItem(ctx context.Context, owner *models.User, itemID int, req models.RentalItemUpdateRequest) (*models.RentalItem, error) {
	log := c.log.Function("UpdateItem")

	item, err := c.ownedItem(ctx, owner, itemID)
	if err != nil {
		return nil, err
	}

	if req.DynamicData != nil {
		category, err := c.categories.GetByID(ctx, item.CategoryID)
		if err != nil {
			return nil, err
		}
		specs := make([]models.FieldSpec, 0, len(category.Requirements))
		for i := range category.Requirements {
			specs = append(specs, category.Requirements[i].Spec())
		}
		if err := models.ValidateDynamicValues(specs, req.DynamicData); err != nil {
			return nil, err
		}

		dynamicJSON, err := json.Marshal(req.DynamicData)
		if err != nil {
			return nil, log.Err("failed to encode dynamic data", err)
		}
		item.DynamicData = dynamicJSON
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := c.items.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (c *RentalController) DeleteItem(ctx context.Context, owner *models.User, itemID int) error {
	item, err := c.ownedItem(ctx, owner, itemID)
	if err != nil {
		return err
	}

	occupied, err := c.items.HasActiveBooking(ctx, item.ID)
	if err != nil {
		return err
	}
	if occupied {
		return ErrItemOccupied
	}

	return c.items.Delete(ctx, item.ID)
}

func (c *RentalController) UploadItemImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	return c.upload.Save(file)
}

func (c *RentalController) CreateInputField(ctx context.Context, owner *models.User, itemID int, req models.RenterInputFieldRequest) (*models.RenterInputField, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	item, err := c.ownedItem(ctx, owner, itemID)
	if err != nil {
		return nil, err
	}

	field := &models.RenterInputField{
		RentalItemID: item.ID,
		Label:        req.Label,
		FieldKey:     req.FieldKey,
		FieldType:    req.FieldType,
		IsRequired:   req.IsRequired,
		IsFinancial:  req.IsFinancial,
	}
	if len(req.Options) > 0 {
		extra, err := json.Marshal(map[string]any{"options": req.Options})
		if err != nil {
			return nil, err
		}
		field.ExtraConfig = extra
	}

	if err := c.items.CreateInputField(ctx, field); err != nil {
		return nil, err
	}

	return field, nil
}

func (c *RentalController) UpdateInputField(ctx context.Context, owner *models.User, itemID, fieldID int, req models.RenterInputFieldRequest) (*models.RenterInputField, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	if _, err := c.ownedItem(ctx, owner, itemID); err != nil {
		return nil, err
	}

	field, err := c.items.GetInputFieldByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if field.RentalItemID != itemID {
		return nil, ErrUnknownField
	}

	field.Label = req.Label
	field.FieldKey = req.FieldKey
	field.FieldType = req.FieldType
	field.IsRequired = req.IsRequired
	field.IsFinancial = req.IsFinancial
	if len(req.Options) > 0 {
		extra, err := json.Marshal(map[string]any{"options": req.Options})
		if err != nil {
			return nil, err
		}
		field.ExtraConfig = extra
	} else {
		field.ExtraConfig = nil
	}

	if err := c.items.UpdateInputField(ctx, field); err != nil {
		return nil, err
	}

	return field, nil
}

func (c *RentalController) DeleteInputField(ctx context.Context, owner *models.User, itemID, fieldID int) error {
	if _, err := c.ownedItem(ctx, owner, itemID); err != nil {
		return err
	}

	field, err := c.items.GetInputFieldByID(ctx, fieldID)
	if err != nil {
		return err
	}
	if field.RentalItemID != itemID {
		return ErrUnknownField
	}

	return c.items.DeleteInputField(ctx, field.ID)
}

// BrowseCategories lists every category with its count of bookable
// items.
func (c *RentalController) BrowseCategories(ctx context.Context) ([]CategoryListing, error) {
	categories, err := c.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := c.items.CountAvailableByCategory(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]CategoryListing, 0, len(categories))
	for _, category := range categories {
		listings = append(listings, CategoryListing{
			Category:       *category,
			AvailableItems: counts[category.ID],
		})
	}

	return listings, nil
}

func (c *RentalController) BrowseCategoryItems(ctx context.Context, categoryID int, search string) ([]*models.RentalItem, error) {
	if _, err := c.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return c.items.GetAvailableByCategory(ctx, categoryID, search)
}

func (c *RentalController) GetOwnerStats(ctx context.Context, ownerID int) (*OwnerStats, error) {
	items, err := c.items.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &OwnerStats{TotalItems: len(items)}
	for _, item := range items {
		if item.IsAvailable {
			stats.AvailableItems++
		}
	}

	active, err := c.bookings.GetByOwner(ctx, ownerID, repositories.BookingFilter{PaymentStatus: models.PaymentHeld})
	if err != nil {
		return nil, err
	}
	stats.ActiveBookings = int64(len(active))

	return stats, nil
}

func (c *RentalController) ownedItem(ctx context.Context, owner *models.User, itemID int) (*models.RentalItem, error) {
	item, err := c.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != owner.ID && !owner.IsAdmin() {
		return nil, ErrNotItemOwner
	}
	return item, nil
}
