package repositories

import (
	"context"

	contextutil "kirayo/internal/context"
	"kirayo/internal/database"
	"kirayo/internal/logger"
	. "kirayo/internal/models"

	"gorm.io/gorm"
)

type ComplaintRepository interface {
	GetByID(ctx context.Context, id int) (*Complaint, error)
	GetByComplainant(ctx context.Context, complainantID int) ([]*Complaint, error)
	GetPending(ctx context.Context) ([]*Complaint, error)
	GetPendingByBookingAndComplainant(ctx context.Context, bookingID, complainantID int) (*Complaint, error)
	CountResolvedAgainst(ctx context.Context, defendantID int) (int64, error)
	Create(ctx context.Context, complaint *Complaint) error
	Update(ctx context.Context, complaint *Complaint) error
	Delete(ctx context.Context, id int) error
}

type complaintRepository struct {
	db  database.DB
	log logger.Logger
}

func NewComplaintRepository(db database.DB) ComplaintRepository {
	return &complaintRepository{
		db:  db,
		log: logger.New("complaintRepository"),
	}
}

func (r *complaintRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *complaintRepository) GetByID(ctx context.Context, id int) (*Complaint, error) {
	log := r.log.Function("GetByID")

	var complaint Complaint
	if err := r.getDB(ctx).
		Preload("Booking").
		Preload("Complainant").
		Preload("Defendant").
		First(&complaint, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get complaint by ID", err, "id", id)
	}

	return &complaint, nil
}

func (r *complaintRepository) GetByComplainant(ctx context.Context, complainantID int) ([]*Complaint, error) {
	log := r.log.Function("GetByComplainant")

	var complaints []*Complaint
	if err := r.getDB(ctx).
		Preload("Defendant").
		Where("complainant_id = ?", complainantID).
		Order("created_at DESC").
		Find(&complaints).Error; err != nil {
		return nil, log.Err("failed to get complaints by complainant", err, "complainantID", complainantID)
	}

	return complaints, nil
}

func (r *complaintRepository) GetPending(ctx context.Context) ([]*Complaint, error) {
	log := r.log.Function("GetPending")

	var complaints []*Complaint
	if err := r.getDB(ctx).
		Preload("Complainant").
		Preload("Defendant").
		Where("status = ?", ComplaintPending).
		Order("created_at ASC").
		Find(&complaints).Error; err != nil {
		return nil, log.Err("failed to get pending complaints", err)
	}

	return complaints, nil
}

func (r *complaintRepository) GetPendingByBookingAndComplainant(ctx context.Context, bookingID, complainantID int) (*Complaint, error) {
	var complaint Complaint
	err := r.getDB(ctx).
		Where("booking_id = ? AND complainant_id = ? AND status = ?", bookingID, complainantID, ComplaintPending).
		First(&complaint).Error
	if err != nil {
		return nil, err
	}

	return &complaint, nil
}

func (r *complaintRepository) CountResolvedAgainst(ctx context.Context, defendantID int) (int64, error) {
	log := r.log.Function("CountResolvedAgainst")

	var count int64
	if err := r.getDB(ctx).
		Model(&Complaint{}).
		Where("defendant_id = ? AND status = ?", defendantID, ComplaintResolved).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count resolved complaints", err, "defendantID", defendantID)
	}

	return count, nil
}

func (r *complaintRepository) Create(ctx context.Context, complaint *Complaint) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(complaint).Error; err != nil {
		return log.Err("failed to create complaint", err, "bookingID", complaint.BookingID)
	}

	return nil
}

func (r *complaintRepository) Update(ctx context.Context, complaint *Complaint) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(complaint).Error; err != nil {
		return log.Err("failed to update complaint", err, "id", complaint.ID)
	}

	return nil
}

func (r *complaintRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&Complaint{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete complaint", err, "id", id)
	}

	return nil
}
