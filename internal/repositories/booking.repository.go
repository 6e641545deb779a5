package repositories

import (
	"context"
	"time"

	contextutil "kirayo/internal/context"
	"kirayo/internal/database"
	"kirayo/internal/logger"
	. "kirayo/internal/models"

	"gorm.io/gorm"
)

// BookingFilter narrows booking listings. Zero values are ignored.
type BookingFilter struct {
	Status        string
	PaymentStatus PaymentStatus
	PaymentMethod string
	Search        string
	From          *time.Time
	To            *time.Time
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int) (*Booking, error)
	GetPendingByItemAndRenter(ctx context.Context, itemID, renterID int) (*Booking, error)
	HasActiveByItemAndRenter(ctx context.Context, itemID, renterID int) (bool, error)
	GetByRenter(ctx context.Context, renterID int, filter BookingFilter) ([]*Booking, error)
	GetByOwner(ctx context.Context, ownerID int, filter BookingFilter) ([]*Booking, error)
	GetHeld(ctx context.Context) ([]*Booking, error)
	GetCompleted(ctx context.Context, from, to *time.Time) ([]*Booking, error)
	GetStalePending(ctx context.Context, olderThan time.Time) ([]*Booking, error)
	GetRecent(ctx context.Context, limit int) ([]*Booking, error)
	Create(ctx context.Context, booking *Booking) error
	UpdateTransition(ctx context.Context, booking *Booking) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type bookingRepository struct {
	db  database.DB
	log logger.Logger
}

func NewBookingRepository(db database.DB) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: logger.New("bookingRepository"),
	}
}

func (r *bookingRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int) (*Booking, error) {
	log := r.log.Function("GetByID")

	var booking Booking
	if err := r.getDB(ctx).
		Preload("RentalItem").
		Preload("RentalItem.Owner").
		Preload("RentalItem.Category").
		Preload("User").
		First(&booking, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get booking by ID", err, "id", id)
	}

	return &booking, nil
}

// GetPendingByItemAndRenter finds an unpaid booking for the pair, used
// to make requirements submission idempotent.
func (r *bookingRepository) GetPendingByItemAndRenter(ctx context.Context, itemID, renterID int) (*Booking, error) {
	var booking Booking
	err := r.getDB(ctx).
		Where("rental_item_id = ? AND user_id = ? AND payment_status = ?", itemID, renterID, PaymentPending).
		First(&booking).Error
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *bookingRepository) HasActiveByItemAndRenter(ctx context.Context, itemID, renterID int) (bool, error) {
	log := r.log.Function("HasActiveByItemAndRenter")

	var count int64
	if err := r.getDB(ctx).
		Model(&Booking{}).
		Where("rental_item_id = ? AND user_id = ? AND payment_status IN ?",
			itemID, renterID, []PaymentStatus{PaymentHeld, PaymentCompleted}).
		Count(&count).Error; err != nil {
		return false, log.Err("failed to count active bookings", err, "itemID", itemID, "renterID", renterID)
	}

	return count > 0, nil
}

func (r *bookingRepository) GetByRenter(ctx context.Context, renterID int, filter BookingFilter) ([]*Booking, error) {
	log := r.log.Function("GetByRenter")

	query := r.getDB(ctx).
		Preload("RentalItem").
		Preload("RentalItem.Owner").
		Preload("RentalItem.Category").
		Where("user_id = ?", renterID)
	query = applyBookingFilter(query, filter)

	var bookings []*Booking
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to get bookings by renter", err, "renterID", renterID)
	}

	return bookings, nil
}

func (r *bookingRepository) GetByOwner(ctx context.Context, ownerID int, filter BookingFilter) ([]*Booking, error) {
	log := r.log.Function("GetByOwner")

	query := r.getDB(ctx).
		Preload("RentalItem").
		Preload("RentalItem.Category").
		Preload("User").
		Joins("JOIN rental_items ON rental_items.id = bookings.rental_item_id").
		Where("rental_items.owner_id = ?", ownerID)
	query = applyBookingFilter(query, filter)

	var bookings []*Booking
	if err := query.Order("bookings.created_at DESC").Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to get bookings by owner", err, "ownerID", ownerID)
	}

	return bookings, nil
}

func (r *bookingRepository) GetHeld(ctx context.Context) ([]*Booking, error) {
	log := r.log.Function("GetHeld")

	var bookings []*Booking
	if err := r.getDB(ctx).
		Preload("RentalItem").
		Preload("RentalItem.Owner").
		Preload("User").
		Where("payment_status = ?", PaymentHeld).
		Order("payment_held_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to get held bookings", err)
	}

	return bookings, nil
}

func (r *bookingRepository) GetRecent(ctx context.Context, limit int) ([]*Booking, error) {
	log := r.log.Function("GetRecent")

	var bookings []*Booking
	if err := r.getDB(ctx).
		Preload("RentalItem").
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to get recent bookings", err)
	}

	return bookings, nil
}

func (r *bookingRepository) GetCompleted(ctx context.Context, from, to *time.Time) ([]*Booking, error) {
	log := r.log.Function("GetCompleted")

	query := r.getDB(ctx).
		Preload("RentalItem").
		Preload("RentalItem.Owner").
		Preload("User").
		Where("payment_status = ?", PaymentCompleted)
	if from != nil {
		query = query.Where("payment_released_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("payment_released_at <= ?", *to)
	}

	var bookings []*Booking
	if err := query.Order("payment_released_at DESC").Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to get completed bookings", err)
	}

	return bookings, nil
}

func (r *bookingRepository) GetStalePending(ctx context.Context, olderThan time.Time) ([]*Booking, error) {
	log := r.log.Function("GetStalePending")

	var bookings []*Booking
	if err := r.getDB(ctx).
		Where("payment_status = ? AND created_at < ?", PaymentPending, olderThan).
		Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to get stale pending bookings", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *Booking) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(booking).Error; err != nil {
		return log.Err("failed to create booking", err, "itemID", booking.RentalItemID, "renterID", booking.UserID)
	}

	return nil
}

// UpdateTransition persists a state transition with an optimistic
// version check. At most one of any concurrent transitions wins; the
// losers get ErrStaleBookingVersion.
func (r *bookingRepository) UpdateTransition(ctx context.Context, booking *Booking) error {
	log := r.log.Function("UpdateTransition")

	previousVersion := booking.Version
	booking.Version = previousVersion + 1

	result := r.getDB(ctx).
		Model(&Booking{}).
		Where("id = ? AND version = ?", booking.ID, previousVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(booking)
	if result.Error != nil {
		booking.Version = previousVersion
		return log.Err("failed to update booking", result.Error, "id", booking.ID)
	}
	if result.RowsAffected == 0 {
		booking.Version = previousVersion
		return ErrStaleBookingVersion
	}

	return nil
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	log := r.log.Function("CountByStatus")

	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := r.getDB(ctx).
		Model(&Booking{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, log.Err("failed to count bookings by status", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func applyBookingFilter(query *gorm.DB, filter BookingFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("bookings.status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("bookings.payment_status = ?", filter.PaymentStatus)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("bookings.payment_method = ?", filter.PaymentMethod)
	}
	if filter.From != nil {
		query = query.Where("bookings.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("bookings.created_at <= ?", *filter.To)
	}
	if filter.Search != "" {
		matchingItems := query.Session(&gorm.Session{NewDB: true}).
			Model(&RentalItem{}).
			Select("id").
			Where("dynamic_data::text ILIKE ?", "%"+filter.Search+"%")
		query = query.Where("bookings.rental_item_id IN (?)", matchingItems)
	}
	return query
}
