package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OwnerRequestStatus string

const (
	OwnerRequestPending  OwnerRequestStatus = "Pending"
	OwnerRequestApproved OwnerRequestStatus = "Approved"
	OwnerRequestRejected OwnerRequestStatus = "Rejected"
)

// OwnerRequest is a user's application to become an owner. The answers
// follow the OwnerRequirement schema active at submission time.
type OwnerRequest struct {
	BaseModel
	UserID           int                `gorm:"type:int;not null;index"     json:"userId"`
	Status           OwnerRequestStatus `gorm:"type:text;default:'Pending'" json:"status"`
	RequirementsData datatypes.JSON     `gorm:"type:jsonb"                  json:"requirementsData"`
	SubmittedAt      time.Time          `gorm:"type:timestamp"              json:"submittedAt"`
	DecidedAt        *time.Time         `gorm:"type:timestamp"              json:"decidedAt,omitempty"`
	RejectionReason  string             `gorm:"type:text"                   json:"rejectionReason,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (o *OwnerRequest) BeforeCreate(tx *gorm.DB) error {
	if o.UserID == 0 {
		return gorm.ErrInvalidValue
	}
	if o.Status == "" {
		o.Status = OwnerRequestPending
	}
	if o.SubmittedAt.IsZero() {
		o.SubmittedAt = time.Now()
	}
	return nil
}

func (o *OwnerRequest) IsPending() bool {
	return o.Status == OwnerRequestPending
}

// Approve marks the request approved. The caller promotes the user's
// role in the same transaction.
func (o *OwnerRequest) Approve(now time.Time) {
	o.Status = OwnerRequestApproved
	o.DecidedAt = &now
}

func (o *OwnerRequest) Reject(reason string, now time.Time) {
	o.Status = OwnerRequestRejected
	o.RejectionReason = reason
	o.DecidedAt = &now
}

type OwnerRequestSubmission struct {
	RequirementsData map[string]any `json:"requirementsData" validate:"required"`
}

type OwnerRequestDecision struct {
	Reason string `json:"reason"`
}
