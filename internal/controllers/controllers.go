package controllers

import (
	"kirayo/config"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	adminController "kirayo/internal/controllers/admin"
	authController "kirayo/internal/controllers/auth"
	bookingController "kirayo/internal/controllers/booking"
	categoryController "kirayo/internal/controllers/category"
	complaintController "kirayo/internal/controllers/complaint"
	notificationController "kirayo/internal/controllers/notification"
	ownerController "kirayo/internal/controllers/owner"
	paymentController "kirayo/internal/controllers/payment"
	rentalController "kirayo/internal/controllers/rental"
	reportController "kirayo/internal/controllers/report"
)

type Controllers struct {
	Auth         authController.AuthControllerInterface
	Booking      bookingController.BookingControllerInterface
	Payment      paymentController.PaymentControllerInterface
	Rental       rentalController.RentalControllerInterface
	Category     categoryController.CategoryControllerInterface
	Owner        ownerController.OwnerControllerInterface
	Complaint    complaintController.ComplaintControllerInterface
	Notification notificationController.NotificationControllerInterface
	Report       reportController.ReportControllerInterface
	Admin        adminController.AdminControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	config config.Config,
) Controllers {
	return Controllers{
		Auth:         authController.New(repos, services),
		Booking:      bookingController.New(repos, services, config),
		Payment:      paymentController.New(repos, services),
		Rental:       rentalController.New(repos, services),
		Category:     categoryController.New(repos, services),
		Owner:        ownerController.New(repos, services),
		Complaint:    complaintController.New(repos, services),
		Notification: notificationController.New(repos, services),
		Report:       reportController.New(repos, services),
		Admin:        adminController.New(repos, services),
	}
}
