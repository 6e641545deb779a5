package jobs

import (
	"kirayo/internal/logger"
	"kirayo/internal/repositories"
	"kirayo/internal/services"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	services services.Service,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	staleBookingJob := NewStaleBookingJob(
		repos.Booking,
		services.Transaction,
		Daily,
	)
	if err := schedulerService.AddJob(staleBookingJob); err != nil {
		return log.Err("failed to register stale booking job", err)
	}
	log.Info("Registered stale booking job", "schedule", "daily")

	return nil
}
