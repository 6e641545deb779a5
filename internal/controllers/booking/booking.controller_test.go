package bookingController

import (
	"context"
	"testing"
	"time"

	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBookingRepo struct {
	bookings map[int]*models.Booking
	active   map[[2]int]bool
	nextID   int
	created  int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: map[int]*models.Booking{},
		active:   map[[2]int]bool{},
	}
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int) (*models.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return booking, nil
}

func (r *fakeBookingRepo) GetPendingByItemAndRenter(ctx context.Context, itemID, renterID int) (*models.Booking, error) {
	for _, booking := range r.bookings {
		if booking.RentalItemID == itemID && booking.UserID == renterID && booking.PaymentStatus == models.PaymentPending {
			return booking, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBookingRepo) HasActiveByItemAndRenter(ctx context.Context, itemID, renterID int) (bool, error) {
	return r.active[[2]int{itemID, renterID}], nil
}

func (r *fakeBookingRepo) GetByRenter(ctx context.Context, renterID int, filter repositories.BookingFilter) ([]*models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) GetByOwner(ctx context.Context, ownerID int, filter repositories.BookingFilter) ([]*models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) GetHeld(ctx context.Context) ([]*models.Booking, error) { return nil, nil }

func (r *fakeBookingRepo) GetCompleted(ctx context.Context, from, to *time.Time) ([]*models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) GetStalePending(ctx context.Context, olderThan time.Time) ([]*models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) GetRecent(ctx context.Context, limit int) ([]*models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	r.nextID++
	r.created++
	booking.ID = r.nextID
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) UpdateTransition(ctx context.Context, booking *models.Booking) error {
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

type fakeItemRepo struct {
	items map[int]*models.RentalItem
}

func newFakeItemRepo(items ...*models.RentalItem) *fakeItemRepo {
	repo := &fakeItemRepo{items: map[int]*models.RentalItem{}}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id int) (*models.RentalItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *fakeItemRepo) GetByOwner(ctx context.Context, ownerID int) ([]*models.RentalItem, error) {
	return nil, nil
}

func (r *fakeItemRepo) GetAvailableByCategory(ctx context.Context, categoryID int, search string) ([]*models.RentalItem, error) {
	return nil, nil
}

func (r *fakeItemRepo) Create(ctx context.Context, item *models.RentalItem) error { return nil }

func (r *fakeItemRepo) Update(ctx context.Context, item *models.RentalItem) error { return nil }

func (r *fakeItemRepo) Delete(ctx context.Context, id int) error { return nil }

func (r *fakeItemRepo) SetAvailability(ctx context.Context, id int, available bool) error {
	r.items[id].IsAvailable = available
	return nil
}

func (r *fakeItemRepo) HasActiveBooking(ctx context.Context, id int) (bool, error) {
	return false, nil
}

func (r *fakeItemRepo) CountAvailableByCategory(ctx context.Context) (map[int]int64, error) {
	return nil, nil
}

func (r *fakeItemRepo) GetInputFields(ctx context.Context, itemID int) ([]*models.RenterInputField, error) {
	return nil, nil
}

func (r *fakeItemRepo) GetInputFieldByID(ctx context.Context, id int) (*models.RenterInputField, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeItemRepo) CreateInputField(ctx context.Context, field *models.RenterInputField) error {
	return nil
}

func (r *fakeItemRepo) UpdateInputField(ctx context.Context, field *models.RenterInputField) error {
	return nil
}

func (r *fakeItemRepo) DeleteInputField(ctx context.Context, id int) error { return nil }

func testBookingController(bookings *fakeBookingRepo, items *fakeItemRepo) *BookingController {
	return &BookingController{
		bookings:   bookings,
		items:      items,
		feePercent: decimal.NewFromInt(5),
		validate:   validator.New(),
		log:        logger.New("bookingController"),
	}
}

func availableItem(id, ownerID int) *models.RentalItem {
	return &models.RentalItem{
		BaseModel:   models.BaseModel{ID: id},
		OwnerID:     ownerID,
		CategoryID:  1,
		IsAvailable: true,
		RenterInputFields: []models.RenterInputField{
			{RentalItemID: id, FieldKey: "pickup_time", Label: "Pickup Time", FieldType: models.FieldTypeText, IsRequired: true},
		},
	}
}

func submitRequest(itemID int) models.SubmitRequirementsRequest {
	return models.SubmitRequirementsRequest{
		RentalItemID:     itemID,
		RequirementsData: map[string]any{"pickup_time": "morning"},
		ContractAccepted: true,
		TotalPrice:       "100",
	}
}

func TestBookingController_SubmitRequirements(t *testing.T) {
	renter := &models.User{BaseModel: models.BaseModel{ID: 2}, Role: models.RoleUser}
	ctx := context.Background()

	t.Run("Creates a pending booking", func(t *testing.T) {
		bookings := newFakeBookingRepo()
		controller := testBookingController(bookings, newFakeItemRepo(availableItem(1, 9)))

		booking, created, err := controller.SubmitRequirements(ctx, renter, submitRequest(1))

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
		assert.Equal(t, models.StatusRequirementsSubmitted, booking.Status)
		assert.Equal(t, "100", booking.PaymentAmount.String())
		assert.True(t, booking.ContractAccepted)
	})

	t.Run("Resubmitting returns the existing booking", func(t *testing.T) {
		bookings := newFakeBookingRepo()
		controller := testBookingController(bookings, newFakeItemRepo(availableItem(1, 9)))

		first, created, err := controller.SubmitRequirements(ctx, renter, submitRequest(1))
		require.NoError(t, err)
		require.True(t, created)

		second, created, err := controller.SubmitRequirements(ctx, renter, submitRequest(1))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, bookings.created)
	})

	t.Run("Rejects an unavailable item", func(t *testing.T) {
		item := availableItem(1, 9)
		item.IsAvailable = false
		controller := testBookingController(newFakeBookingRepo(), newFakeItemRepo(item))

		_, _, err := controller.SubmitRequirements(ctx, renter, submitRequest(1))

		assert.ErrorIs(t, err, ErrItemUnavailable)
	})

	t.Run("Rejects a renter with an active booking", func(t *testing.T) {
		bookings := newFakeBookingRepo()
		bookings.active[[2]int{1, renter.ID}] = true
		controller := testBookingController(bookings, newFakeItemRepo(availableItem(1, 9)))

		_, _, err := controller.SubmitRequirements(ctx, renter, submitRequest(1))

		assert.ErrorIs(t, err, ErrDuplicateBooking)
	})

	t.Run("Requires the contract", func(t *testing.T) {
		controller := testBookingController(newFakeBookingRepo(), newFakeItemRepo(availableItem(1, 9)))
		req := submitRequest(1)
		req.ContractAccepted = false

		_, _, err := controller.SubmitRequirements(ctx, renter, req)

		assert.ErrorIs(t, err, ErrContractRequired)
	})

	t.Run("Requires the renter fields", func(t *testing.T) {
		controller := testBookingController(newFakeBookingRepo(), newFakeItemRepo(availableItem(1, 9)))
		req := submitRequest(1)
		req.RequirementsData = map[string]any{"other": "value"}

		_, _, err := controller.SubmitRequirements(ctx, renter, req)

		assert.ErrorIs(t, err, models.ErrDynamicValue)
	})

	t.Run("Rejects a non positive price", func(t *testing.T) {
		controller := testBookingController(newFakeBookingRepo(), newFakeItemRepo(availableItem(1, 9)))

		for _, price := range []string{"0", "-10", "abc"} {
			req := submitRequest(1)
			req.TotalPrice = price

			_, _, err := controller.SubmitRequirements(ctx, renter, req)
			assert.ErrorIs(t, err, ErrInvalidAmount, price)
		}
	})
}
