package repositories

import (
	"kirayo/internal/database"
)

type Repository struct {
	User             UserRepository
	Category         CategoryRepository
	RentalItem       RentalItemRepository
	Booking          BookingRepository
	Notification     NotificationRepository
	Complaint        ComplaintRepository
	UserRestriction  UserRestrictionRepository
	OwnerRequest     OwnerRequestRepository
	OwnerRequirement OwnerRequirementRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:             NewUserRepository(db),
		Category:         NewCategoryRepository(db),
		RentalItem:       NewRentalItemRepository(db),
		Booking:          NewBookingRepository(db),
		Notification:     NewNotificationRepository(db),
		Complaint:        NewComplaintRepository(db),
		UserRestriction:  NewUserRestrictionRepository(db),
		OwnerRequest:     NewOwnerRequestRepository(db),
		OwnerRequirement: NewOwnerRequirementRepository(db),
	}
}
