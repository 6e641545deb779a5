package paymentController

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingController "kirayo/internal/controllers/booking"
	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotBookingParty = errors.New("you are not a party of this booking")
	ErrRejectionReason = errors.New("a reason is required when rejecting a payment")
)

// PaymentController exposes escrow state and the admin release path.
type PaymentController struct {
	bookings      repositories.BookingRepository
	items         repositories.RentalItemRepository
	transactions  *services.TransactionService
	notifications *services.NotificationService
	log           logger.Logger
}

type PaymentControllerInterface interface {
	GetPaymentStatus(ctx context.Context, user *models.User, bookingID int) (*PaymentStatusResponse, error)
	Release(ctx context.Context, bookingID int, req models.ReleasePaymentRequest) (*models.Booking, error)
	GetMyPayments(ctx context.Context, user *models.User, filter repositories.BookingFilter) ([]*models.Booking, error)
	GetHeldPayments(ctx context.Context) ([]*models.Booking, error)
}

type PaymentStatusResponse struct {
	BookingID     int                  `json:"bookingId"`
	Status        string               `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaymentMethod string               `json:"paymentMethod"`
	Amount        decimal.Decimal      `json:"amount"`
	ServiceFee    decimal.Decimal      `json:"serviceFee"`
	Total         decimal.Decimal      `json:"total"`
	HeldAt        *time.Time           `json:"heldAt,omitempty"`
	ReleasedAt    *time.Time           `json:"releasedAt,omitempty"`
}

func New(
	repos repositories.Repository,
	services services.Service,
) PaymentControllerInterface {
	return &PaymentController{
		bookings:      repos.Booking,
		items:         repos.RentalItem,
		transactions:  services.Transaction,
		notifications: services.Notification,
		log:           logger.New("paymentController"),
	}
}

func (c *PaymentController) GetPaymentStatus(ctx context.Context, user *models.User, bookingID int) (*PaymentStatusResponse, error) {
	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bookingController.IsBookingParty(user, booking) {
		return nil, ErrNotBookingParty
	}

	return &PaymentStatusResponse{
		BookingID:     booking.ID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		PaymentMethod: booking.PaymentMethod,
		Amount:        booking.PaymentAmount,
		ServiceFee:    booking.ServiceFee,
		Total:         booking.TotalAmount(),
		HeldAt:        booking.PaymentHeldAt,
		ReleasedAt:    booking.PaymentReleasedAt,
	}, nil
}

// Release is the admin override for a held escrow: approve pays the
// owner, reject refunds the renter and puts the item back on the
// market.
func (c *PaymentController) Release(ctx context.Context, bookingID int, req models.ReleasePaymentRequest) (*models.Booking, error) {
	log := c.log.Function("Release")

	if !req.Approved && req.Reason == "" {
		return nil, ErrRejectionReason
	}

	booking, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	err = c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		if err := booking.ReleasePayment(req.Approved, req.Reason, time.Now().UTC()); err != nil {
			return err
		}
		if err := c.bookings.UpdateTransition(txCtx, booking); err != nil {
			return err
		}

		itemName := booking.RentalItem.DisplayName()
		if req.Approved {
			if err := c.notifications.Notify(txCtx, booking.RentalItem.OwnerID,
				fmt.Sprintf("Payment of %s for %s was approved and released by an administrator.",
					booking.PaymentAmount.StringFixed(2), itemName),
				models.NotificationAdminApproved); err != nil {
				return err
			}
			return c.notifications.Notify(txCtx, booking.UserID,
				fmt.Sprintf("Your payment for %s was confirmed by an administrator.", itemName),
				models.NotificationAdminApproved)
		}

		// Refund path frees the item for rebooking
		if err := c.items.SetAvailability(txCtx, booking.RentalItemID, true); err != nil {
			return err
		}
		if err := c.notifications.Notify(txCtx, booking.UserID,
			fmt.Sprintf("Your payment for %s was refunded: %s", itemName, req.Reason),
			models.NotificationAdminRejected); err != nil {
			return err
		}
		return c.notifications.Notify(txCtx, booking.RentalItem.OwnerID,
			fmt.Sprintf("The held payment for %s was rejected by an administrator: %s", itemName, req.Reason),
			models.NotificationAdminRejected)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Payment release decided", "bookingID", booking.ID, "approved", req.Approved)
	return booking, nil
}

// GetMyPayments lists payments the user is involved in, as renter or
// as owner depending on their role.
func (c *PaymentController) GetMyPayments(ctx context.Context, user *models.User, filter repositories.BookingFilter) ([]*models.Booking, error) {
	if user.IsOwner() {
		return c.bookings.GetByOwner(ctx, user.ID, filter)
	}
	return c.bookings.GetByRenter(ctx, user.ID, filter)
}

func (c *PaymentController) GetHeldPayments(ctx context.Context) ([]*models.Booking, error) {
	return c.bookings.GetHeld(ctx)
}
