package bookingController

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kirayo/config"
	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrItemUnavailable  = errors.New("rental item is not available")
	ErrDuplicateBooking = errors.New("you already have an active booking for this item")
	ErrContractRequired = errors.New("the rental contract must be accepted")
	ErrInvalidAmount    = errors.New("total price must be a positive amount")
	ErrNotBookingRenter = errors.New("only the renter of this booking may perform this action")
	ErrNotItemOwner     = errors.New("only the owner of this item may perform this action")
	ErrNotBookingParty  = errors.New("you are not a party of this booking")
)

// BookingController drives the rental workflow from requirements
// submission through delivery confirmation.
type BookingController struct {
	bookings      repositories.BookingRepository
	items         repositories.RentalItemRepository
	transactions  *services.TransactionService
	notifications *services.NotificationService
	feePercent    decimal.Decimal
	validate      *validator.Validate
	log           logger.Logger
}

type BookingControllerInterface interface {
	GetRenterFields(ctx context.Context, itemID int) ([]*models.RenterInputField, error)
	SubmitRequirements(ctx context.Context, renter *models.User, req models.SubmitRequirementsRequest) (*models.Booking, bool, error)
	CompletePayment(ctx context.Context, renter *models.User, bookingID int, req models.CompletePaymentRequest) (*models.Booking, error)
	RenterConfirmDelivery(ctx context.Context, renter *models.User, bookingID int, req models.ConfirmDeliveryRequest) (*models.Booking, error)
	OwnerAccept(ctx context.Context, owner *models.User, bookingID int) (*models.Booking, error)
	OwnerReject(ctx context.Context, owner *models.User, bookingID int, req models.RejectBookingRequest) (*models.Booking, error)
	OwnerConfirmDelivery(ctx context.Context, owner *models.User, bookingID int, req models.ConfirmDeliveryRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, user *models.User, bookingID int) (*models.Booking, error)
	GetRenterBookings(ctx context.Context, renterID int, filter repositories.BookingFilter) ([]*models.Booking, error)
	GetOwnerBookings(ctx context.Context, ownerID int, filter repositories.BookingFilter) ([]*models.Booking, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
) BookingControllerInterface {
	return &BookingController{
		bookings:      repos.Booking,
		items:         repos.RentalItem,
		transactions:  services.Transaction,
		notifications: services.Notification,
		feePercent:    decimal.NewFromFloat(config.ServiceFeePercent),
		validate:      validator.New(),
		log:           logger.New("bookingController"),
	}
}

func (c *BookingController) GetRenterFields(ctx context.Context, itemID int) ([]*models.RenterInputField, error) {
	if _, err := c.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	return c.items.GetInputFields(ctx, itemID)
}

// SubmitRequirements opens a booking for an item. Resubmitting while an
// unpaid booking exists returns that booking instead of creating
// another; the second return value reports whether a new booking was
// created.
func (c *BookingController) SubmitRequirements(
	ctx context.Context,
	renter *models.User,
	req models.SubmitRequirementsRequest,
) (*models.Booking, bool, error) {
	log := c.log.Function("SubmitRequirements")

	if err := c.validate.Struct(req); err != nil {
		return nil, false, err
	}

	item, err := c.items.GetByID(ctx, req.RentalItemID)
	if err != nil {
		return nil, false, err
	}

	if !item.IsAvailable {
		return nil, false, ErrItemUnavailable
	}
	occupied, err := c.items.HasActiveBooking(ctx, item.ID)
	if err != nil {
		return nil, false, err
	}
	if occupied {
		return nil, false, ErrItemUnavailable
	}

	active, err := c.bookings.HasActiveByItemAndRenter(ctx, item.ID, renter.ID)
	if err != nil {
		return nil, false, err
	}
	if active {
		return nil, false, ErrDuplicateBooking
	}

	if existing, err := c.bookings.GetPendingByItemAndRenter(ctx, item.ID, renter.ID); err == nil {
		log.Info("Returning existing pending booking", "bookingID", existing.ID, "renterID", renter.ID)
		return existing, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, log.Err("failed to look up pending booking", err, "itemID", item.ID)
	}

	if !req.ContractAccepted {
		return nil, false, ErrContractRequired
	}

	specs := make([]models.FieldSpec, 0, len(item.RenterInputFields))
	for i := range item.RenterInputFields {
		specs = append(specs, item.RenterInputFields[i].Spec())
	}
	if err := models.ValidateDynamicValues(specs, req.RequirementsData); err != nil {
		return nil, false, err
	}

	amount, err := decimal.NewFromString(req.TotalPrice)
	if err != nil || !amount.IsPositive() {
		return nil, false, ErrInvalidAmount
	}

	requirementsJSON, err := json.Marshal(req.RequirementsData)
	if err != nil {
		return nil, false, log.Err("failed to encode requirements data", err)
	}

	booking := &models.Booking{
		RentalItemID:     item.ID,
		UserID:           renter.ID,
		Status:           models.StatusRequirementsSubmitted,
		PaymentStatus:    models.PaymentPending,
		PaymentAmount:    amount,
		ContractAccepted: true,
		RequirementsData: requirementsJSON,
	}
	if err := c.bookings.Create(ctx, booking); err != nil {
		return nil, false, err
	}

	log.Info("Booking created", "bookingID", booking.ID, "itemID", item.ID, "renterID", renter.ID)
	return booking, true, nil
}

// CompletePayment moves the renter's payment into escrow and takes the
// item off the market.
func (c *BookingController) CompletePayment(
	ctx context.Context,
	renter *models.User,
	bookingID int,
	req models.CompletePaymentRequest,
) (*models.Booking, error) {
	log := c.log.Function("CompletePayment")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != renter.ID {
		return nil, ErrNotBookingRenter
	}

	err = c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		if err := booking.SubmitPayment(req.PaymentMethod, req.PaymentAccount, c.feePercent, time.Now().UTC()); err != nil {
			return err
		}
		if err := c.bookings.UpdateTransition(txCtx, booking); err != nil {
			return err
		}
		if err := c.items.SetAvailability(txCtx, booking.RentalItemID, false); err != nil {
			return err
		}

		return c.notifications.Notify(txCtx, booking.RentalItem.OwnerID,
			fmt.Sprintf("New booking received for %s from %s.", booking.RentalItem.DisplayName(), renter.FullName),
			models.NotificationNewBooking)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Payment held in escrow", "bookingID", booking.ID, "amount", booking.PaymentAmount.String(), "fee", booking.ServiceFee.String())
	return booking, nil
}

// OwnerAccept issues the delivery confirmation code and opens the
// delivery window.
func (c *BookingController) OwnerAccept(ctx context.Context, owner *models.User, bookingID int) (*models.Booking, error) {
	log := c.log.Function("OwnerAccept")

	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RentalItem == nil || booking.RentalItem.OwnerID != owner.ID {
		return nil, ErrNotItemOwner
	}

	err = c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		if err := booking.OwnerAccept(time.Now().UTC()); err != nil {
			return err
		}
		if err := c.bookings.UpdateTransition(txCtx, booking); err != nil {
			return err
		}

		if err := c.notifications.Notify(txCtx, booking.UserID,
			fmt.Sprintf("Your booking for %s was accepted by the owner.", booking.RentalItem.DisplayName()),
			models.NotificationBookingAccepted); err != nil {
			return err
		}
		return c.notifications.Notify(txCtx, booking.UserID,
			fmt.Sprintf("Your delivery confirmation code is %s. It expires in 24 hours.", booking.ConfirmationCode),
			models.NotificationConfirmationCode)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Booking accepted by owner", "bookingID", booking.ID, "ownerID", owner.ID)
	return booking, nil
}

// OwnerReject is terminal; the escrow fails and the admin refund path
// takes over.
func (c *BookingController) OwnerReject(
	ctx context.Context,
	owner *models.User,
	bookingID int,
	req models.RejectBookingRequest,
) (*models.Booking, error) {
	log := c.log.Function("OwnerReject")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RentalItem == nil || booking.RentalItem.OwnerID != owner.ID {
		return nil, ErrNotItemOwner
	}

	err = c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		if err := booking.OwnerReject(req.Reason); err != nil {
			return err
		}
		if err := c.bookings.UpdateTransition(txCtx, booking); err != nil {
			return err
		}

		if err := c.notifications.Notify(txCtx, booking.UserID,
			fmt.Sprintf("Your booking for %s was rejected by the owner.", booking.RentalItem.DisplayName()),
			models.NotificationBookingRejected); err != nil {
			return err
		}
		return c.notifications.Notify(txCtx, booking.UserID,
			fmt.Sprintf("Rejection reason: %s. Your payment will be refunded.", req.Reason),
			models.NotificationRejectionDetails)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Booking rejected by owner", "bookingID", booking.ID, "ownerID", owner.ID)
	return booking, nil
}

// RenterConfirmDelivery records the renter side of the delivery
// handshake. When both sides have confirmed the escrow pays out.
func (c *BookingController) RenterConfirmDelivery(
	ctx context.Context,
	renter *models.User,
	bookingID int,
	req models.ConfirmDeliveryRequest,
) (*models.Booking, error) {
	log := c.log.Function("RenterConfirmDelivery")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != renter.ID {
		return nil, ErrNotBookingRenter
	}

	err = c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		now := time.Now().UTC()
		if err := booking.RenterConfirmDelivery(req.ConfirmationCode, now); err != nil {
			return err
		}
		released := booking.AutoReleasePayment(now)
		if err := c.bookings.UpdateTransition(txCtx, booking); err != nil {
			return err
		}
		if released {
			return c.notifyPaymentReleased(txCtx, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Renter confirmed delivery", "bookingID", booking.ID, "released", booking.PaymentStatus == models.PaymentCompleted)
	return booking, nil
}

// OwnerConfirmDelivery records the owner side of the handshake, gated
// behind the renter confirming or their 24 hour window lapsing.
func (c *BookingController) OwnerConfirmDelivery(
	ctx context.Context,
	owner *models.User,
	bookingID int,
	req models.ConfirmDeliveryRequest,
) (*models.Booking, error) {
	log := c.log.Function("OwnerConfirmDelivery")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RentalItem == nil || booking.RentalItem.OwnerID != owner.ID {
		return nil, ErrNotItemOwner
	}

	err = c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		now := time.Now().UTC()
		if err := booking.OwnerConfirmDelivery(req.ConfirmationCode, now); err != nil {
			return err
		}
		released := booking.AutoReleasePayment(now)
		if err := c.bookings.UpdateTransition(txCtx, booking); err != nil {
			return err
		}
		if released {
			return c.notifyPaymentReleased(txCtx, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Owner confirmed delivery", "bookingID", booking.ID, "released", booking.PaymentStatus == models.PaymentCompleted)
	return booking, nil
}

func (c *BookingController) notifyPaymentReleased(ctx context.Context, booking *models.Booking) error {
	itemName := booking.RentalItem.DisplayName()

	if err := c.notifications.Notify(ctx, booking.UserID,
		fmt.Sprintf("Delivery of %s is complete. Thank you for renting with us.", itemName),
		models.NotificationDeliveryCompleted); err != nil {
		return err
	}
	return c.notifications.Notify(ctx, booking.RentalItem.OwnerID,
		fmt.Sprintf("Payment of %s for %s has been released to you.", booking.PaymentAmount.StringFixed(2), itemName),
		models.NotificationPaymentReleased)
}

// GetBooking returns one booking, visible to its renter, the item
// owner and admins only.
func (c *BookingController) GetBooking(ctx context.Context, user *models.User, bookingID int) (*models.Booking, error) {
	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !IsBookingParty(user, booking) {
		return nil, ErrNotBookingParty
	}

	return booking, nil
}

func (c *BookingController) GetRenterBookings(ctx context.Context, renterID int, filter repositories.BookingFilter) ([]*models.Booking, error) {
	return c.bookings.GetByRenter(ctx, renterID, filter)
}

func (c *BookingController) GetOwnerBookings(ctx context.Context, ownerID int, filter repositories.BookingFilter) ([]*models.Booking, error) {
	return c.bookings.GetByOwner(ctx, ownerID, filter)
}

// IsBookingParty reports whether the user is the renter, the item
// owner or an admin.
func IsBookingParty(user *models.User, booking *models.Booking) bool {
	if user.IsAdmin() {
		return true
	}
	if booking.UserID == user.ID {
		return true
	}
	return booking.RentalItem != nil && booking.RentalItem.OwnerID == user.ID
}
