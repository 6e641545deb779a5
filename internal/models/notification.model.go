package models

import "gorm.io/gorm"

// Notification type tags, matched by the frontend to pick icons and
// routing.
const (
	NotificationNewBooking        = "new_booking"
	NotificationBookingAccepted   = "booking_accepted"
	NotificationConfirmationCode  = "confirmation_code"
	NotificationBookingRejected   = "booking_rejected"
	NotificationRejectionDetails  = "rejection_details"
	NotificationDeliveryCompleted = "delivery_completed"
	NotificationPaymentReleased   = "payment_released"
	NotificationAdminApproved     = "admin_approved"
	NotificationAdminRejected     = "admin_rejected"
	NotificationWarning           = "warning"
	NotificationRestriction       = "restriction"
	NotificationGeneral           = "general"
)

type Notification struct {
	BaseModel
	UserID  int    `gorm:"type:int;not null;index"  json:"userId"`
	Message string `gorm:"type:text;not null"       json:"message"`
	Type    string `gorm:"type:text;default:'general'" json:"type"`
	Read    bool   `gorm:"type:bool;default:false"  json:"read"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.UserID == 0 || n.Message == "" {
		return gorm.ErrInvalidValue
	}
	if n.Type == "" {
		n.Type = NotificationGeneral
	}
	return nil
}

type NotificationCreateRequest struct {
	UserID  int    `json:"userId"  validate:"required,gt=0"`
	Message string `json:"message" validate:"required"`
	Type    string `json:"type"`
}
