package complaintController

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kirayo/internal/logger"
	"kirayo/internal/models"
	"kirayo/internal/repositories"
	"kirayo/internal/services"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var (
	ErrNotBookingParty    = errors.New("user is not a party to this booking")
	ErrComplaintPending   = errors.New("a complaint for this booking is already pending")
	ErrNotComplainant     = errors.New("only the complainant may modify this complaint")
	ErrComplaintDecided   = errors.New("complaint has already been decided")
	ErrSelfComplaint      = errors.New("cannot file a complaint against yourself")
	ErrRestrictionMissing = errors.New("user has no restriction record")
)

// ComplaintController handles the complaint lifecycle and the
// user restriction counters it feeds.
type ComplaintController struct {
	complaints    repositories.ComplaintRepository
	bookings      repositories.BookingRepository
	restrictions  repositories.UserRestrictionRepository
	users         repositories.UserRepository
	transactions  *services.TransactionService
	notifications *services.NotificationService
	validate      *validator.Validate
	log           logger.Logger
}

type ComplaintControllerInterface interface {
	SubmitComplaint(ctx context.Context, user *models.User, req models.ComplaintCreateRequest) (*models.Complaint, error)
	GetMyComplaints(ctx context.Context, userID int) ([]*models.Complaint, error)
	GetComplaint(ctx context.Context, user *models.User, complaintID int) (*models.Complaint, error)
	UpdateComplaint(ctx context.Context, user *models.User, complaintID int, req models.ComplaintUpdateRequest) (*models.Complaint, error)
	WithdrawComplaint(ctx context.Context, user *models.User, complaintID int) error

	GetPendingComplaints(ctx context.Context) ([]*models.Complaint, error)
	ResolveComplaint(ctx context.Context, complaintID int, req models.ComplaintResolveRequest) (*models.Complaint, error)

	GetRestrictions(ctx context.Context) ([]*models.UserRestriction, error)
	GetUserRestriction(ctx context.Context, userID int) (*models.UserRestriction, error)
	WarnUser(ctx context.Context, userID int, message string) (*models.UserRestriction, error)
	UnblockUser(ctx context.Context, userID int) (*models.UserRestriction, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
) ComplaintControllerInterface {
	return &ComplaintController{
		complaints:    repos.Complaint,
		bookings:      repos.Booking,
		restrictions:  repos.UserRestriction,
		users:         repos.User,
		transactions:  services.Transaction,
		notifications: services.Notification,
		validate:      validator.New(),
		log:           logger.New("complaintController"),
	}
}

// SubmitComplaint files a complaint against the other party of a
// booking. One pending complaint per booking per complainant.
func (c *ComplaintController) SubmitComplaint(ctx context.Context, user *models.User, req models.ComplaintCreateRequest) (*models.Complaint, error) {
	log := c.log.Function("SubmitComplaint")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	bookingRecord, err := c.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !isDirectParty(user, bookingRecord) {
		return nil, ErrNotBookingParty
	}

	defendantID := bookingRecord.UserID
	if user.ID == bookingRecord.UserID {
		if bookingRecord.RentalItem == nil {
			return nil, ErrNotBookingParty
		}
		defendantID = bookingRecord.RentalItem.OwnerID
	}
	if defendantID == user.ID {
		return nil, ErrSelfComplaint
	}

	if _, err := c.complaints.GetPendingByBookingAndComplainant(ctx, bookingRecord.ID, user.ID); err == nil {
		return nil, ErrComplaintPending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	complaint := &models.Complaint{
		BookingID:     bookingRecord.ID,
		ComplainantID: user.ID,
		DefendantID:   defendantID,
		Type:          req.Type,
		Description:   req.Description,
	}
	if err := c.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	log.Info("Complaint filed", "complaintID", complaint.ID, "bookingID", bookingRecord.ID, "complainantID", user.ID)
	return complaint, nil
}

func (c *ComplaintController) GetMyComplaints(ctx context.Context, userID int) ([]*models.Complaint, error) {
	return c.complaints.GetByComplainant(ctx, userID)
}

func (c *ComplaintController) GetComplaint(ctx context.Context, user *models.User, complaintID int) (*models.Complaint, error) {
	complaint, err := c.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && complaint.ComplainantID != user.ID {
		return nil, ErrNotComplainant
	}
	return complaint, nil
}

// UpdateComplaint lets the complainant amend a complaint while it is
// still pending.
func (c *ComplaintController) UpdateComplaint(ctx context.Context, user *models.User, complaintID int, req models.ComplaintUpdateRequest) (*models.Complaint, error) {
	complaint, err := c.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.ComplainantID != user.ID {
		return nil, ErrNotComplainant
	}
	if !complaint.IsPending() {
		return nil, ErrComplaintDecided
	}

	if req.Type != "" {
		complaint.Type = req.Type
	}
	if req.Description != "" {
		complaint.Description = req.Description
	}

	if err := c.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}

	return complaint, nil
}

func (c *ComplaintController) WithdrawComplaint(ctx context.Context, user *models.User, complaintID int) error {
	complaint, err := c.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return err
	}
	if complaint.ComplainantID != user.ID {
		return ErrNotComplainant
	}
	if !complaint.IsPending() {
		return ErrComplaintDecided
	}
	return c.complaints.Delete(ctx, complaint.ID)
}

func (c *ComplaintController) GetPendingComplaints(ctx context.Context) ([]*models.Complaint, error) {
	return c.complaints.GetPending(ctx)
}

// ResolveComplaint records the admin decision. Resolving against a
// defendant bumps their complaint counter and may trigger an automatic
// block, which also flags the user record and emails them.
func (c *ComplaintController) ResolveComplaint(ctx context.Context, complaintID int, req models.ComplaintResolveRequest) (*models.Complaint, error) {
	log := c.log.Function("ResolveComplaint")

	if err := c.validate.Struct(req); err != nil {
		return nil, err
	}

	complaint, err := c.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !complaint.IsPending() {
		return nil, ErrComplaintDecided
	}

	err = c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		complaint.Status = req.Status
		complaint.AdminNotes = req.AdminNotes
		if err := c.complaints.Update(txCtx, complaint); err != nil {
			return err
		}

		if req.Status != models.ComplaintResolved {
			return c.notifications.Notify(txCtx, complaint.ComplainantID,
				"Your complaint was reviewed and rejected by an administrator.",
				models.NotificationGeneral)
		}

		if err := c.notifications.Notify(txCtx, complaint.ComplainantID,
			"Your complaint was reviewed and resolved in your favor.",
			models.NotificationGeneral); err != nil {
			return err
		}

		return c.applyResolvedComplaint(txCtx, complaint.DefendantID)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Complaint decided", "complaintID", complaint.ID, "status", complaint.Status)
	return complaint, nil
}

// applyResolvedComplaint bumps the defendant's counter and blocks the
// account when the limit is crossed.
func (c *ComplaintController) applyResolvedComplaint(ctx context.Context, defendantID int) error {
	restriction, err := c.restrictions.GetOrCreateByUser(ctx, defendantID)
	if err != nil {
		return err
	}

	blocked := restriction.AddComplaint(time.Now().UTC())
	if err := c.restrictions.Update(ctx, restriction); err != nil {
		return err
	}

	if !blocked {
		return c.notifications.Notify(ctx, defendantID,
			fmt.Sprintf("A complaint against you was upheld. You have %d of %d strikes.",
				restriction.ComplaintsCount, models.RestrictionComplaintLimit),
			models.NotificationWarning)
	}

	defendant, err := c.users.GetByID(ctx, defendantID)
	if err != nil {
		return err
	}
	defendant.IsRestricted = true
	if err := c.users.Update(ctx, defendant); err != nil {
		return err
	}

	return c.notifications.NotifyWithEmail(ctx, defendantID,
		fmt.Sprintf("Your account has been restricted for %d days after repeated upheld complaints.",
			int(models.RestrictionBlockDuration.Hours()/24)),
		models.NotificationRestriction,
		"Your Kirayo account has been restricted")
}

func (c *ComplaintController) GetRestrictions(ctx context.Context) ([]*models.UserRestriction, error) {
	return c.restrictions.GetAll(ctx)
}

func (c *ComplaintController) GetUserRestriction(ctx context.Context, userID int) (*models.UserRestriction, error) {
	restriction, err := c.restrictions.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestrictionMissing
		}
		return nil, err
	}
	return restriction, nil
}

func (c *ComplaintController) WarnUser(ctx context.Context, userID int, message string) (*models.UserRestriction, error) {
	if message == "" {
		message = "You have received a warning from the administrators."
	}

	var restriction *models.UserRestriction
	err := c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		var err error
		restriction, err = c.restrictions.GetOrCreateByUser(txCtx, userID)
		if err != nil {
			return err
		}
		restriction.AddWarning()
		if err := c.restrictions.Update(txCtx, restriction); err != nil {
			return err
		}
		return c.notifications.Notify(txCtx, userID, message, models.NotificationWarning)
	})
	if err != nil {
		return nil, err
	}

	return restriction, nil
}

func (c *ComplaintController) UnblockUser(ctx context.Context, userID int) (*models.UserRestriction, error) {
	restriction, err := c.restrictions.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestrictionMissing
		}
		return nil, err
	}

	err = c.transactions.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		restriction.Unblock()
		if err := c.restrictions.Update(txCtx, restriction); err != nil {
			return err
		}

		user, err := c.users.GetByID(txCtx, userID)
		if err != nil {
			return err
		}
		user.IsRestricted = false
		if err := c.users.Update(txCtx, user); err != nil {
			return err
		}

		return c.notifications.Notify(txCtx, userID,
			"Your account restriction has been lifted.", models.NotificationGeneral)
	})
	if err != nil {
		return nil, err
	}

	return restriction, nil
}

func isDirectParty(user *models.User, booking *models.Booking) bool {
	if booking.UserID == user.ID {
		return true
	}
	return booking.RentalItem != nil && booking.RentalItem.OwnerID == user.ID
}
