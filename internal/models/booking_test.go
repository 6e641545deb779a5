package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func heldBooking(now time.Time) *Booking {
	booking := &Booking{
		PaymentAmount:           decimal.NewFromInt(100),
		PaymentStatus:           PaymentPending,
		Status:                  StatusRequirementsSubmitted,
		OwnerConfirmationStatus: OwnerConfirmationPending,
	}
	err := booking.SubmitPayment("EVC_PLUS", "612345678", decimal.NewFromInt(5), now)
	if err != nil {
		panic(err)
	}
	return booking
}

func acceptedBooking(t *testing.T, now time.Time) *Booking {
	t.Helper()
	booking := heldBooking(now)
	require.NoError(t, booking.OwnerAccept(now))
	return booking
}

func TestBooking_SubmitPayment(t *testing.T) {
	now := time.Now()

	t.Run("Holds payment and computes fee", func(t *testing.T) {
		booking := &Booking{
			PaymentAmount: decimal.NewFromFloat(149.99),
			PaymentStatus: PaymentPending,
		}

		err := booking.SubmitPayment("EVC_PLUS", "612345678", decimal.NewFromInt(5), now)

		assert.NoError(t, err)
		assert.Equal(t, PaymentHeld, booking.PaymentStatus)
		assert.Equal(t, StatusPaymentHeld, booking.Status)
		assert.Equal(t, "7.5", booking.ServiceFee.String())
		assert.Equal(t, "157.49", booking.TotalAmount().String())
		require.NotNil(t, booking.PaymentHeldAt)
		assert.Equal(t, now, *booking.PaymentHeldAt)
	})

	t.Run("Rejects a second submission", func(t *testing.T) {
		booking := heldBooking(now)

		err := booking.SubmitPayment("EVC_PLUS", "612345678", decimal.NewFromInt(5), now)

		assert.ErrorIs(t, err, ErrPaymentNotPending)
	})

	t.Run("Rejects a bad account without changing state", func(t *testing.T) {
		booking := &Booking{
			PaymentAmount: decimal.NewFromInt(100),
			PaymentStatus: PaymentPending,
		}

		err := booking.SubmitPayment("EVC_PLUS", "12345", decimal.NewFromInt(5), now)

		assert.ErrorIs(t, err, ErrInvalidPaymentAccount)
		assert.Equal(t, PaymentPending, booking.PaymentStatus)
		assert.True(t, booking.ServiceFee.IsZero())
	})
}

func TestValidatePaymentMethod(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		account  string
		expected error
	}{
		{name: "EVC nine digits", method: "EVC_PLUS", account: "612345678"},
		{name: "EVC ten digits", method: "EVC_PLUS", account: "6123456789"},
		{name: "EVC too short", method: "EVC_PLUS", account: "61234567", expected: ErrInvalidPaymentAccount},
		{name: "EVC too long", method: "EVC_PLUS", account: "61234567890", expected: ErrInvalidPaymentAccount},
		{name: "Bank ten digits", method: "BANK", account: "1234567890"},
		{name: "Bank fourteen digits", method: "BANK", account: "12345678901234"},
		{name: "Bank too short", method: "BANK", account: "123456789", expected: ErrInvalidPaymentAccount},
		{name: "Non digit characters", method: "BANK", account: "12345abcde", expected: ErrInvalidPaymentAccount},
		{name: "Unknown method", method: "PAYPAL", account: "1234567890", expected: ErrUnsupportedPayMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaymentMethod(tt.method, tt.account)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBooking_OwnerAccept(t *testing.T) {
	now := time.Now()

	t.Run("Issues a six digit code with expiry", func(t *testing.T) {
		booking := heldBooking(now)

		err := booking.OwnerAccept(now)

		assert.NoError(t, err)
		assert.Equal(t, StatusOwnerAccepted, booking.Status)
		assert.Equal(t, OwnerConfirmationAccepted, booking.OwnerConfirmationStatus)
		assert.Len(t, booking.ConfirmationCode, 6)
		require.NotNil(t, booking.ConfirmationCodeExpiry)
		assert.Equal(t, now.Add(ConfirmationCodeTTL), *booking.ConfirmationCodeExpiry)
		require.NotNil(t, booking.UserConfirmDeadline)
		require.NotNil(t, booking.OwnerAcceptanceTime)
	})

	t.Run("Requires held payment", func(t *testing.T) {
		booking := &Booking{
			PaymentStatus:           PaymentPending,
			OwnerConfirmationStatus: OwnerConfirmationPending,
		}

		assert.ErrorIs(t, booking.OwnerAccept(now), ErrPaymentNotHeld)
	})

	t.Run("Cannot accept twice", func(t *testing.T) {
		booking := acceptedBooking(t, now)

		assert.ErrorIs(t, booking.OwnerAccept(now), ErrBookingNotPending)
	})
}

func TestBooking_OwnerReject(t *testing.T) {
	now := time.Now()

	t.Run("Fails the escrow", func(t *testing.T) {
		booking := heldBooking(now)

		err := booking.OwnerReject("item no longer available")

		assert.NoError(t, err)
		assert.Equal(t, StatusOwnerRejected, booking.Status)
		assert.Equal(t, PaymentFailed, booking.PaymentStatus)
		assert.Equal(t, OwnerConfirmationRejected, booking.OwnerConfirmationStatus)
		assert.Equal(t, "item no longer available", booking.OwnerRejectionReason)
	})

	t.Run("Cannot reject after accepting", func(t *testing.T) {
		booking := acceptedBooking(t, now)

		assert.ErrorIs(t, booking.OwnerReject("too late"), ErrBookingNotPending)
	})
}

func TestBooking_RenterConfirmDelivery(t *testing.T) {
	now := time.Now()

	t.Run("Accepts the issued code", func(t *testing.T) {
		booking := acceptedBooking(t, now)

		err := booking.RenterConfirmDelivery(booking.ConfirmationCode, now)

		assert.NoError(t, err)
		assert.True(t, booking.RenterConfirmed)
		require.NotNil(t, booking.RenterConfirmedAt)
	})

	t.Run("Rejects a wrong code", func(t *testing.T) {
		booking := acceptedBooking(t, now)

		err := booking.RenterConfirmDelivery("000000", now)

		assert.ErrorIs(t, err, ErrConfirmationCode)
		assert.False(t, booking.RenterConfirmed)
	})

	t.Run("Rejects an expired code", func(t *testing.T) {
		booking := acceptedBooking(t, now)
		late := now.Add(ConfirmationCodeTTL + time.Minute)

		err := booking.RenterConfirmDelivery(booking.ConfirmationCode, late)

		assert.ErrorIs(t, err, ErrConfirmationExpired)
	})

	t.Run("Cannot confirm twice", func(t *testing.T) {
		booking := acceptedBooking(t, now)
		require.NoError(t, booking.RenterConfirmDelivery(booking.ConfirmationCode, now))

		err := booking.RenterConfirmDelivery(booking.ConfirmationCode, now)

		assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	})

	t.Run("Requires owner acceptance first", func(t *testing.T) {
		booking := heldBooking(now)

		err := booking.RenterConfirmDelivery("123456", now)

		assert.ErrorIs(t, err, ErrBookingNotAccepted)
	})
}

func TestBooking_OwnerConfirmDelivery(t *testing.T) {
	now := time.Now()

	t.Run("Allowed once the renter confirmed", func(t *testing.T) {
		booking := acceptedBooking(t, now)
		require.NoError(t, booking.RenterConfirmDelivery(booking.ConfirmationCode, now))

		err := booking.OwnerConfirmDelivery(booking.ConfirmationCode, now)

		assert.NoError(t, err)
		assert.True(t, booking.OwnerConfirmed)
		assert.True(t, booking.IsDeliveryComplete())
	})

	t.Run("Blocked inside the renter window", func(t *testing.T) {
		booking := acceptedBooking(t, now)

		err := booking.OwnerConfirmDelivery(booking.ConfirmationCode, now.Add(time.Hour))

		assert.ErrorIs(t, err, ErrOwnerConfirmTooEarly)
		assert.False(t, booking.OwnerConfirmed)
	})

	t.Run("Allowed after the window lapses but code expired", func(t *testing.T) {
		booking := acceptedBooking(t, now)
		late := now.Add(25 * time.Hour)

		assert.True(t, booking.CanOwnerConfirmNow(late))
		err := booking.OwnerConfirmDelivery(booking.ConfirmationCode, late)
		assert.ErrorIs(t, err, ErrConfirmationExpired)
	})
}

func TestBooking_CanOwnerConfirmNow(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		setup    func() *Booking
		at       time.Time
		expected bool
	}{
		{
			name: "Renter already confirmed",
			setup: func() *Booking {
				booking := acceptedBooking(t, now)
				booking.RenterConfirmed = true
				return booking
			},
			at:       now,
			expected: true,
		},
		{
			name:     "No acceptance time",
			setup:    func() *Booking { return &Booking{} },
			at:       now,
			expected: false,
		},
		{
			name:     "Inside the wait window",
			setup:    func() *Booking { return acceptedBooking(t, now) },
			at:       now.Add(23 * time.Hour),
			expected: false,
		},
		{
			name:     "After the wait window",
			setup:    func() *Booking { return acceptedBooking(t, now) },
			at:       now.Add(24 * time.Hour),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.setup().CanOwnerConfirmNow(tt.at))
		})
	}
}

func TestBooking_AutoReleasePayment(t *testing.T) {
	now := time.Now()

	t.Run("Releases after both confirmations", func(t *testing.T) {
		booking := acceptedBooking(t, now)
		require.NoError(t, booking.RenterConfirmDelivery(booking.ConfirmationCode, now))
		booking.OwnerConfirmed = true

		released := booking.AutoReleasePayment(now)

		assert.True(t, released)
		assert.Equal(t, PaymentCompleted, booking.PaymentStatus)
		assert.Equal(t, StatusDelivered, booking.Status)
		require.NotNil(t, booking.PaymentReleasedAt)
	})

	t.Run("No-op when only one side confirmed", func(t *testing.T) {
		booking := acceptedBooking(t, now)
		require.NoError(t, booking.RenterConfirmDelivery(booking.ConfirmationCode, now))

		assert.False(t, booking.AutoReleasePayment(now))
		assert.Equal(t, PaymentHeld, booking.PaymentStatus)
	})

	t.Run("No-op once already released", func(t *testing.T) {
		booking := acceptedBooking(t, now)
		require.NoError(t, booking.RenterConfirmDelivery(booking.ConfirmationCode, now))
		booking.OwnerConfirmed = true
		require.True(t, booking.AutoReleasePayment(now))
		firstReleasedAt := booking.PaymentReleasedAt

		assert.False(t, booking.AutoReleasePayment(now.Add(time.Hour)))
		assert.Equal(t, PaymentCompleted, booking.PaymentStatus)
		assert.Equal(t, StatusDelivered, booking.Status)
		assert.Equal(t, firstReleasedAt, booking.PaymentReleasedAt)
	})
}

func TestBooking_ReleasePayment(t *testing.T) {
	now := time.Now()

	t.Run("Approval pays the owner out", func(t *testing.T) {
		booking := heldBooking(now)

		err := booking.ReleasePayment(true, "", now)

		assert.NoError(t, err)
		assert.Equal(t, PaymentCompleted, booking.PaymentStatus)
		assert.Equal(t, StatusConfirmed, booking.Status)
		assert.True(t, booking.AdminApproved)
		require.NotNil(t, booking.PaymentReleasedAt)
	})

	t.Run("Rejection fails the escrow", func(t *testing.T) {
		booking := heldBooking(now)

		err := booking.ReleasePayment(false, "delivery dispute", now)

		assert.NoError(t, err)
		assert.Equal(t, PaymentFailed, booking.PaymentStatus)
		assert.Equal(t, StatusRejected, booking.Status)
		assert.Equal(t, "delivery dispute", booking.RejectionReason)
		assert.Nil(t, booking.PaymentReleasedAt)
	})

	t.Run("Requires held payment", func(t *testing.T) {
		booking := &Booking{PaymentStatus: PaymentPending}

		assert.ErrorIs(t, booking.ReleasePayment(true, "", now), ErrPaymentNotHeld)
	})
}

func TestBooking_Expire(t *testing.T) {
	t.Run("Expires a pending payment", func(t *testing.T) {
		booking := &Booking{PaymentStatus: PaymentPending, Status: StatusRequirementsSubmitted}

		assert.NoError(t, booking.Expire())
		assert.Equal(t, PaymentFailed, booking.PaymentStatus)
		assert.Equal(t, StatusExpired, booking.Status)
	})

	t.Run("Leaves a held payment alone", func(t *testing.T) {
		booking := heldBooking(time.Now())

		assert.ErrorIs(t, booking.Expire(), ErrPaymentNotPending)
		assert.Equal(t, PaymentHeld, booking.PaymentStatus)
	})
}

func TestBooking_IsActive(t *testing.T) {
	tests := []struct {
		name     string
		status   PaymentStatus
		expected bool
	}{
		{name: "Held", status: PaymentHeld, expected: true},
		{name: "Completed", status: PaymentCompleted, expected: true},
		{name: "Pending", status: PaymentPending, expected: false},
		{name: "Failed", status: PaymentFailed, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := &Booking{PaymentStatus: tt.status}
			assert.Equal(t, tt.expected, booking.IsActive())
		})
	}
}

func TestBooking_Receipt(t *testing.T) {
	now := time.Now()
	booking := heldBooking(now)
	booking.ID = 42
	booking.RentalItem = &RentalItem{
		DynamicData: datatypes.JSON(`{"name":"City Apartment"}`),
		Owner:       &User{FullName: "Owner One"},
	}
	booking.User = &User{FullName: "Renter One"}
	booking.PaymentReleasedAt = &now

	receipt := booking.Receipt()

	assert.Equal(t, 42, receipt.BookingID)
	assert.Equal(t, "City Apartment", receipt.ItemName)
	assert.Equal(t, "Renter One", receipt.RenterName)
	assert.Equal(t, "Owner One", receipt.OwnerName)
	assert.Equal(t, "EVC_PLUS", receipt.PaymentMethod)
	assert.Equal(t, "105", receipt.Total.String())
	assert.Equal(t, "100", receipt.OwnerNet.String())
	assert.Equal(t, &now, receipt.ReleasedAt)
}
