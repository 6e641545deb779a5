package repositories

import (
	"context"

	contextutil "kirayo/internal/context"
	"kirayo/internal/database"
	"kirayo/internal/logger"
	. "kirayo/internal/models"

	"gorm.io/gorm"
)

type RentalItemRepository interface {
	GetByID(ctx context.Context, id int) (*RentalItem, error)
	GetByOwner(ctx context.Context, ownerID int) ([]*RentalItem, error)
	GetAvailableByCategory(ctx context.Context, categoryID int, search string) ([]*RentalItem, error)
	Create(ctx context.Context, item *RentalItem) error
	Update(ctx context.Context, item *RentalItem) error
	Delete(ctx context.Context, id int) error
	SetAvailability(ctx context.Context, id int, available bool) error
	HasActiveBooking(ctx context.Context, id int) (bool, error)
	CountAvailableByCategory(ctx context.Context) (map[int]int64, error)
	GetInputFields(ctx context.Context, itemID int) ([]*RenterInputField, error)
	GetInputFieldByID(ctx context.Context, id int) (*RenterInputField, error)
	CreateInputField(ctx context.Context, field *RenterInputField) error
	UpdateInputField(ctx context.Context, field *RenterInputField) error
	DeleteInputField(ctx context.Context, id int) error
}

type rentalItemRepository struct {
	db  database.DB
	log logger.Logger
}

func NewRentalItemRepository(db database.DB) RentalItemRepository {
	return &rentalItemRepository{
		db:  db,
		log: logger.New("rentalItemRepository"),
	}
}

func (r *rentalItemRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *rentalItemRepository) GetByID(ctx context.Context, id int) (*RentalItem, error) {
	log := r.log.Function("GetByID")

	var item RentalItem
	if err := r.getDB(ctx).
		Preload("Category").
		Preload("Owner").
		Preload("RenterInputFields").
		First(&item, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get rental item by ID", err, "id", id)
	}

	return &item, nil
}

func (r *rentalItemRepository) GetByOwner(ctx context.Context, ownerID int) ([]*RentalItem, error) {
	log := r.log.Function("GetByOwner")

	var items []*RentalItem
	if err := r.getDB(ctx).
		Preload("Category").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, log.Err("failed to get rental items by owner", err, "ownerID", ownerID)
	}

	return items, nil
}

// GetAvailableByCategory returns items in a category that are flagged
// available and have no escrowed or paid booking occupying them.
func (r *rentalItemRepository) GetAvailableByCategory(ctx context.Context, categoryID int, search string) ([]*RentalItem, error) {
	log := r.log.Function("GetAvailableByCategory")

	query := r.getDB(ctx).
		Preload("Owner").
		Preload("RenterInputFields").
		Where("category_id = ? AND is_available = ?", categoryID, true).
		Where("id NOT IN (?)", activeBookingItemIDs(r.getDB(ctx)))
	if search != "" {
		query = query.Where("dynamic_data::text ILIKE ?", "%"+search+"%")
	}

	var items []*RentalItem
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, log.Err("failed to get available rental items", err, "categoryID", categoryID)
	}

	return items, nil
}

func activeBookingItemIDs(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&Booking{}).
		Select("rental_item_id").
		Where("payment_status IN ?", []PaymentStatus{PaymentHeld, PaymentCompleted})
}

func (r *rentalItemRepository) Create(ctx context.Context, item *RentalItem) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(item).Error; err != nil {
		return log.Err("failed to create rental item", err, "ownerID", item.OwnerID)
	}

	return nil
}

func (r *rentalItemRepository) Update(ctx context.Context, item *RentalItem) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(item).Error; err != nil {
		return log.Err("failed to update rental item", err, "id", item.ID)
	}

	return nil
}

func (r *rentalItemRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	db := r.getDB(ctx)
	if err := db.Delete(&RenterInputField{}, "rental_item_id = ?", id).Error; err != nil {
		return log.Err("failed to delete renter input fields", err, "itemID", id)
	}
	if err := db.Delete(&RentalItem{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete rental item", err, "id", id)
	}

	return nil
}

func (r *rentalItemRepository) SetAvailability(ctx context.Context, id int, available bool) error {
	log := r.log.Function("SetAvailability")

	if err := r.getDB(ctx).
		Model(&RentalItem{}).
		Where("id = ?", id).
		Update("is_available", available).Error; err != nil {
		return log.Err("failed to set rental item availability", err, "id", id, "available", available)
	}

	return nil
}

func (r *rentalItemRepository) HasActiveBooking(ctx context.Context, id int) (bool, error) {
	log := r.log.Function("HasActiveBooking")

	var count int64
	if err := r.getDB(ctx).
		Model(&Booking{}).
		Where("rental_item_id = ? AND payment_status IN ?", id, []PaymentStatus{PaymentHeld, PaymentCompleted}).
		Count(&count).Error; err != nil {
		return false, log.Err("failed to count active bookings", err, "itemID", id)
	}

	return count > 0, nil
}

// CountAvailableByCategory returns available item counts keyed by
// category ID, used by the public browsing listing.
func (r *rentalItemRepository) CountAvailableByCategory(ctx context.Context) (map[int]int64, error) {
	log := r.log.Function("CountAvailableByCategory")

	type row struct {
		CategoryID int
		Count      int64
	}
	var rows []row
	if err := r.getDB(ctx).
		Model(&RentalItem{}).
		Select("category_id, COUNT(*) as count").
		Where("is_available = ?", true).
		Where("id NOT IN (?)", activeBookingItemIDs(r.getDB(ctx))).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, log.Err("failed to count available items by category", err)
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}

	return counts, nil
}

func (r *rentalItemRepository) GetInputFields(ctx context.Context, itemID int) ([]*RenterInputField, error) {
	log := r.log.Function("GetInputFields")

	var fields []*RenterInputField
	if err := r.getDB(ctx).Where("rental_item_id = ?", itemID).Order("id ASC").Find(&fields).Error; err != nil {
		return nil, log.Err("failed to get renter input fields", err, "itemID", itemID)
	}

	return fields, nil
}

func (r *rentalItemRepository) GetInputFieldByID(ctx context.Context, id int) (*RenterInputField, error) {
	log := r.log.Function("GetInputFieldByID")

	var field RenterInputField
	if err := r.getDB(ctx).First(&field, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get renter input field", err, "id", id)
	}

	return &field, nil
}

func (r *rentalItemRepository) CreateInputField(ctx context.Context, field *RenterInputField) error {
	log := r.log.Function("CreateInputField")

	if err := r.getDB(ctx).Create(field).Error; err != nil {
		return log.Err("failed to create renter input field", err, "itemID", field.RentalItemID)
	}

	return nil
}

func (r *rentalItemRepository) UpdateInputField(ctx context.Context, field *RenterInputField) error {
	log := r.log.Function("UpdateInputField")

	if err := r.getDB(ctx).Save(field).Error; err != nil {
		return log.Err("failed to update renter input field", err, "id", field.ID)
	}

	return nil
}

func (r *rentalItemRepository) DeleteInputField(ctx context.Context, id int) error {
	log := r.log.Function("DeleteInputField")

	if err := r.getDB(ctx).Delete(&RenterInputField{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete renter input field", err, "id", id)
	}

	return nil
}
