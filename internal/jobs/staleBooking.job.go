package jobs

import (
	"context"
	"errors"
	"time"

	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	"gorm.io/gorm"
)

// staleBookingAge is how long a booking may sit with pending payment
// before it is expired and stops reserving the item.
const staleBookingAge = 24 * time.Hour

// StaleBookingJob expires bookings whose renter never completed
// payment, so items cannot be wedged by abandoned requests.
type StaleBookingJob struct {
	bookings     repositories.BookingRepository
	transactions *services.TransactionService
	schedule     services.Schedule
	log          logger.Logger
}

func NewStaleBookingJob(
	bookings repositories.BookingRepository,
	transactions *services.TransactionService,
	schedule services.Schedule,
) *StaleBookingJob {
	return &StaleBookingJob{
		bookings:     bookings,
		transactions: transactions,
		schedule:     schedule,
		log:          logger.New("jobs").File("staleBooking"),
	}
}

func (j *StaleBookingJob) Name() string {
	return "stale-booking-expiry"
}

func (j *StaleBookingJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *StaleBookingJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	cutoff := time.Now().Add(-staleBookingAge)
	stale, err := j.bookings.GetStalePending(ctx, cutoff)
	if err != nil {
		return log.Err("failed to load stale bookings", err)
	}
	if len(stale) == 0 {
		return nil
	}

	expired := 0
	for _, booking := range stale {
		err := j.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
			if err := booking.Expire(); err != nil {
				return err
			}
			return j.bookings.UpdateTransition(txCtx, booking)
		})
		if err != nil {
			// Lost the race with a renter completing payment. Skip it.
			if errors.Is(err, models.ErrStaleBookingVersion) ||
				errors.Is(err, models.ErrPaymentNotPending) {
				continue
			}
			log.Er("failed to expire booking", err, "bookingID", booking.ID)
			continue
		}
		expired++
	}

	log.Info("Expired stale bookings", "candidates", len(stale), "expired", expired)
	return nil
}
