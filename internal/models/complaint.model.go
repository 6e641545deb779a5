package models

import "gorm.io/gorm"

type ComplaintStatus string

const (
	ComplaintPending  ComplaintStatus = "Pending"
	ComplaintResolved ComplaintStatus = "Resolved"
	ComplaintRejected ComplaintStatus = "Rejected"
)

// Complaint is filed by one party of a booking against the other.
type Complaint struct {
	BaseModel
	BookingID     int             `gorm:"type:int;not null;index"     json:"bookingId"`
	ComplainantID int             `gorm:"type:int;not null;index"     json:"complainantId"`
	DefendantID   int             `gorm:"type:int;not null;index"     json:"defendantId"`
	Type          string          `gorm:"type:text;not null"          json:"type"`
	Description   string          `gorm:"type:text;not null"          json:"description"`
	Status        ComplaintStatus `gorm:"type:text;default:'Pending'" json:"status"`
	AdminNotes    string          `gorm:"type:text"                   json:"adminNotes,omitempty"`

	Booking     *Booking `gorm:"foreignKey:BookingID"     json:"booking,omitempty"`
	Complainant *User    `gorm:"foreignKey:ComplainantID" json:"complainant,omitempty"`
	Defendant   *User    `gorm:"foreignKey:DefendantID"   json:"defendant,omitempty"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.BookingID == 0 || c.ComplainantID == 0 || c.DefendantID == 0 {
		return gorm.ErrInvalidValue
	}
	if c.ComplainantID == c.DefendantID {
		return gorm.ErrInvalidValue
	}
	if c.Status == "" {
		c.Status = ComplaintPending
	}
	return nil
}

func (c *Complaint) IsPending() bool {
	return c.Status == ComplaintPending
}

type ComplaintCreateRequest struct {
	BookingID   int    `json:"bookingId"   validate:"required,gt=0"`
	Type        string `json:"type"        validate:"required"`
	Description string `json:"description" validate:"required"`
}

type ComplaintUpdateRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type ComplaintResolveRequest struct {
	Status     ComplaintStatus `json:"status" validate:"required,oneof=Resolved Rejected"`
	AdminNotes string          `json:"adminNotes"`
}
