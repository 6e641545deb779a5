package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentHeld      PaymentStatus = "HELD"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type OwnerConfirmationStatus string

const (
	OwnerConfirmationPending  OwnerConfirmationStatus = "PENDING"
	OwnerConfirmationAccepted OwnerConfirmationStatus = "ACCEPTED"
	OwnerConfirmationRejected OwnerConfirmationStatus = "REJECTED"
)

const (
	StatusRequirementsSubmitted = "Requirements_Submitted"
	StatusPaymentHeld           = "Payment_Held"
	StatusOwnerAccepted         = "Owner_Accepted"
	StatusOwnerRejected         = "Owner_Rejected"
	StatusDelivered             = "Delivered"
	StatusCompleted             = "Completed"
	StatusConfirmed             = "Confirmed"
	StatusRejected              = "Rejected"
	StatusRefunded              = "Refunded"
	StatusExpired               = "Expired"
)

const (
	// ConfirmationCodeTTL is how long a delivery code stays valid after
	// the owner accepts.
	ConfirmationCodeTTL = 24 * time.Hour
	// OwnerConfirmWaitHours is how long an owner must wait before
	// confirming delivery unilaterally.
	OwnerConfirmWaitHours = 24.0
)

var (
	ErrPaymentNotPending     = errors.New("payment is not pending")
	ErrPaymentNotHeld        = errors.New("payment is not held")
	ErrBookingNotPending     = errors.New("booking has already been accepted or rejected")
	ErrBookingNotAccepted    = errors.New("booking has not been accepted by the owner")
	ErrAlreadyConfirmed      = errors.New("delivery already confirmed")
	ErrConfirmationCode      = errors.New("invalid confirmation code")
	ErrConfirmationExpired   = errors.New("confirmation code has expired")
	ErrOwnerConfirmTooEarly  = errors.New("owner cannot confirm delivery yet")
	ErrStaleBookingVersion   = errors.New("booking was modified concurrently")
	ErrUnsupportedPayMethod  = errors.New("unsupported payment method")
	ErrInvalidPaymentAccount = errors.New("invalid payment account number")
)

// Booking tracks a rental request from requirements submission through
// escrow, owner acceptance, delivery confirmation and payment release.
// Every state change goes through a method on this type so the status
// label, payment status and timestamps can never drift apart. Version
// backs optimistic locking on transition updates.
type Booking struct {
	BaseModel
	RentalItemID int    `gorm:"type:int;not null;index" json:"rentalItemId"`
	UserID       int    `gorm:"type:int;not null;index" json:"userId"`
	Status       string `gorm:"type:text;default:'Requirements_Submitted'" json:"status"`
	Version      int    `gorm:"type:int;default:0"      json:"-"`

	RequirementsData datatypes.JSON `gorm:"type:jsonb"              json:"requirementsData"`
	ContractAccepted bool           `gorm:"type:bool;default:false" json:"contractAccepted"`

	PaymentStatus  PaymentStatus   `gorm:"type:text;default:'PENDING'" json:"paymentStatus"`
	PaymentMethod  string          `gorm:"type:text"                   json:"paymentMethod"`
	PaymentAccount string          `gorm:"type:text"                   json:"paymentAccount"`
	PaymentAmount  decimal.Decimal `gorm:"type:numeric(10,2)"          json:"paymentAmount"`
	ServiceFee     decimal.Decimal `gorm:"type:numeric(10,2)"          json:"serviceFee"`

	PaymentHeldAt     *time.Time `gorm:"type:timestamp"          json:"paymentHeldAt,omitempty"`
	PaymentReleasedAt *time.Time `gorm:"type:timestamp"          json:"paymentReleasedAt,omitempty"`
	AdminApproved     bool       `gorm:"type:bool;default:false" json:"adminApproved"`
	RejectionReason   string     `gorm:"type:text"               json:"rejectionReason,omitempty"`

	ConfirmationCode       string     `gorm:"type:text"      json:"-"`
	ConfirmationCodeExpiry *time.Time `gorm:"type:timestamp" json:"confirmationCodeExpiry,omitempty"`

	OwnerConfirmationStatus OwnerConfirmationStatus `gorm:"type:text;default:'PENDING'" json:"ownerConfirmationStatus"`
	OwnerRejectionReason    string                  `gorm:"type:text"                   json:"ownerRejectionReason,omitempty"`
	OwnerAcceptanceTime     *time.Time              `gorm:"type:timestamp"              json:"ownerAcceptanceTime,omitempty"`
	UserConfirmDeadline     *time.Time              `gorm:"type:timestamp"              json:"userConfirmDeadline,omitempty"`

	RenterConfirmed   bool       `gorm:"type:bool;default:false" json:"renterConfirmed"`
	RenterConfirmedAt *time.Time `gorm:"type:timestamp"          json:"renterConfirmedAt,omitempty"`
	OwnerConfirmed    bool       `gorm:"type:bool;default:false" json:"ownerConfirmed"`
	OwnerConfirmedAt  *time.Time `gorm:"type:timestamp"          json:"ownerConfirmedAt,omitempty"`

	RentalItem *RentalItem `gorm:"foreignKey:RentalItemID" json:"rentalItem,omitempty"`
	User       *User       `gorm:"foreignKey:UserID"       json:"user,omitempty"`
}

// IsActive reports whether this booking should block further bookings of
// the item. Only an escrowed or paid-out booking occupies the item.
func (b *Booking) IsActive() bool {
	return b.PaymentStatus == PaymentHeld || b.PaymentStatus == PaymentCompleted
}

// TotalAmount is what the renter pays: the rental amount plus the
// service fee. The owner nets PaymentAmount.
func (b *Booking) TotalAmount() decimal.Decimal {
	return b.PaymentAmount.Add(b.ServiceFee)
}

// SubmitPayment records the payment details and moves the escrow to
// HELD. The service fee is computed once here and never recalculated.
func (b *Booking) SubmitPayment(method, account string, feePercent decimal.Decimal, now time.Time) error {
	if b.PaymentStatus != PaymentPending {
		return ErrPaymentNotPending
	}
	if err := ValidatePaymentMethod(method, account); err != nil {
		return err
	}
	b.PaymentMethod = method
	b.PaymentAccount = account
	b.ServiceFee = b.PaymentAmount.Mul(feePercent).Div(decimal.NewFromInt(100)).Round(2)
	b.PaymentStatus = PaymentHeld
	b.PaymentHeldAt = &now
	b.Status = StatusPaymentHeld
	return nil
}

// OwnerAccept moves a held booking into the delivery phase: a six digit
// confirmation code is issued with a 24 hour expiry, and the renter gets
// the same window to confirm before the owner may confirm alone.
func (b *Booking) OwnerAccept(now time.Time) error {
	if b.OwnerConfirmationStatus != OwnerConfirmationPending {
		return ErrBookingNotPending
	}
	if b.PaymentStatus != PaymentHeld {
		return ErrPaymentNotHeld
	}
	code, err := generateConfirmationCode()
	if err != nil {
		return err
	}
	expiry := now.Add(ConfirmationCodeTTL)
	deadline := now.Add(ConfirmationCodeTTL)

	b.ConfirmationCode = code
	b.ConfirmationCodeExpiry = &expiry
	b.OwnerConfirmationStatus = OwnerConfirmationAccepted
	b.OwnerAcceptanceTime = &now
	b.UserConfirmDeadline = &deadline
	b.Status = StatusOwnerAccepted
	return nil
}

// OwnerReject is terminal: the escrow fails and the renter is owed a
// refund. Item availability is restored by the admin refund path, not
// here.
func (b *Booking) OwnerReject(reason string) error {
	if b.OwnerConfirmationStatus != OwnerConfirmationPending {
		return ErrBookingNotPending
	}
	b.OwnerConfirmationStatus = OwnerConfirmationRejected
	b.OwnerRejectionReason = reason
	b.Status = StatusOwnerRejected
	b.PaymentStatus = PaymentFailed
	return nil
}

// RenterConfirmDelivery validates the code the owner handed over and
// records the renter side of the delivery handshake.
func (b *Booking) RenterConfirmDelivery(code string, now time.Time) error {
	if b.OwnerConfirmationStatus != OwnerConfirmationAccepted {
		return ErrBookingNotAccepted
	}
	if b.RenterConfirmed {
		return ErrAlreadyConfirmed
	}
	if err := b.checkConfirmationCode(code, now); err != nil {
		return err
	}
	b.RenterConfirmed = true
	b.RenterConfirmedAt = &now
	return nil
}

// OwnerConfirmDelivery records the owner side of the handshake. The
// owner may only confirm after the renter has, or once the renter's 24
// hour window has lapsed.
func (b *Booking) OwnerConfirmDelivery(code string, now time.Time) error {
	if b.OwnerConfirmationStatus != OwnerConfirmationAccepted {
		return ErrBookingNotAccepted
	}
	if b.OwnerConfirmed {
		return ErrAlreadyConfirmed
	}
	if !b.CanOwnerConfirmNow(now) {
		return fmt.Errorf("%w: %.1f hours remaining", ErrOwnerConfirmTooEarly, b.hoursUntilOwnerCanConfirm(now))
	}
	if err := b.checkConfirmationCode(code, now); err != nil {
		return err
	}
	b.OwnerConfirmed = true
	b.OwnerConfirmedAt = &now
	return nil
}

// CanOwnerConfirmNow reports whether the owner is allowed to confirm
// delivery at the given time.
func (b *Booking) CanOwnerConfirmNow(now time.Time) bool {
	if b.RenterConfirmed {
		return true
	}
	if b.OwnerAcceptanceTime == nil {
		return false
	}
	return now.Sub(*b.OwnerAcceptanceTime).Hours() >= OwnerConfirmWaitHours
}

func (b *Booking) hoursUntilOwnerCanConfirm(now time.Time) float64 {
	if b.OwnerAcceptanceTime == nil {
		return OwnerConfirmWaitHours
	}
	remaining := OwnerConfirmWaitHours - now.Sub(*b.OwnerAcceptanceTime).Hours()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsDeliveryComplete reports whether both parties have confirmed.
func (b *Booking) IsDeliveryComplete() bool {
	return b.RenterConfirmed && b.OwnerConfirmed
}

// ShouldAutoReleasePayment reports whether the escrow can be paid out
// without admin involvement.
func (b *Booking) ShouldAutoReleasePayment() bool {
	return b.IsDeliveryComplete() && b.PaymentStatus == PaymentHeld
}

// AutoReleasePayment pays out the escrow after a completed delivery
// handshake. No-op unless both sides have confirmed and funds are held.
func (b *Booking) AutoReleasePayment(now time.Time) bool {
	if !b.ShouldAutoReleasePayment() {
		return false
	}
	b.PaymentStatus = PaymentCompleted
	b.Status = StatusDelivered
	b.PaymentReleasedAt = &now
	return true
}

// ReleasePayment is the admin override: approve pays the owner out,
// reject fails the escrow and frees the item for rebooking.
func (b *Booking) ReleasePayment(approved bool, reason string, now time.Time) error {
	if b.PaymentStatus != PaymentHeld {
		return ErrPaymentNotHeld
	}
	if approved {
		b.PaymentStatus = PaymentCompleted
		b.Status = StatusConfirmed
		b.AdminApproved = true
		b.PaymentReleasedAt = &now
	} else {
		b.PaymentStatus = PaymentFailed
		b.Status = StatusRejected
		b.RejectionReason = reason
	}
	return nil
}

// Expire fails a booking whose payment never arrived.
func (b *Booking) Expire() error {
	if b.PaymentStatus != PaymentPending {
		return ErrPaymentNotPending
	}
	b.PaymentStatus = PaymentFailed
	b.Status = StatusExpired
	return nil
}

func (b *Booking) checkConfirmationCode(code string, now time.Time) error {
	if b.ConfirmationCode == "" || code != b.ConfirmationCode {
		return ErrConfirmationCode
	}
	if b.ConfirmationCodeExpiry != nil && now.After(b.ConfirmationCodeExpiry.UTC()) {
		return ErrConfirmationExpired
	}
	return nil
}

// ValidatePaymentMethod checks the account number shape for the
// supported payment rails.
func ValidatePaymentMethod(method, account string) error {
	digits := 0
	for _, r := range account {
		if r < '0' || r > '9' {
			return ErrInvalidPaymentAccount
		}
		digits++
	}
	switch method {
	case "EVC_PLUS":
		if digits < 9 || digits > 10 {
			return ErrInvalidPaymentAccount
		}
	case "BANK":
		if digits < 10 {
			return ErrInvalidPaymentAccount
		}
	default:
		return ErrUnsupportedPayMethod
	}
	return nil
}

func generateConfirmationCode() (string, error) {
	// 6-digit code in [100000, 999999]
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// BookingReceipt is the line item breakdown rendered on receipts.
type BookingReceipt struct {
	BookingID     int             `json:"bookingId"`
	ItemName      string          `json:"itemName"`
	RenterName    string          `json:"renterName"`
	OwnerName     string          `json:"ownerName"`
	PaymentMethod string          `json:"paymentMethod"`
	Amount        decimal.Decimal `json:"amount"`
	ServiceFee    decimal.Decimal `json:"serviceFee"`
	Total         decimal.Decimal `json:"total"`
	OwnerNet      decimal.Decimal `json:"ownerNet"`
	ReleasedAt    *time.Time      `json:"releasedAt,omitempty"`
}

// Receipt builds the payment breakdown for this booking. Associations
// must be preloaded for the names to resolve.
func (b *Booking) Receipt() BookingReceipt {
	receipt := BookingReceipt{
		BookingID:     b.ID,
		PaymentMethod: b.PaymentMethod,
		Amount:        b.PaymentAmount,
		ServiceFee:    b.ServiceFee,
		Total:         b.TotalAmount(),
		OwnerNet:      b.PaymentAmount,
		ReleasedAt:    b.PaymentReleasedAt,
	}
	if b.RentalItem != nil {
		receipt.ItemName = b.RentalItem.DisplayName()
		if b.RentalItem.Owner != nil {
			receipt.OwnerName = b.RentalItem.Owner.FullName
		}
	}
	if b.User != nil {
		receipt.RenterName = b.User.FullName
	}
	return receipt
}

type SubmitRequirementsRequest struct {
	RentalItemID     int            `json:"rentalItemId" validate:"required,gt=0"`
	RequirementsData map[string]any `json:"requirementsData" validate:"required"`
	ContractAccepted bool           `json:"contractAccepted"`
	TotalPrice       string         `json:"totalPrice" validate:"required"`
}

type CompletePaymentRequest struct {
	PaymentMethod  string `json:"paymentMethod"  validate:"required"`
	PaymentAccount string `json:"paymentAccount" validate:"required"`
}

type ConfirmDeliveryRequest struct {
	ConfirmationCode string `json:"confirmationCode" validate:"required,len=6"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type ReleasePaymentRequest struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}
