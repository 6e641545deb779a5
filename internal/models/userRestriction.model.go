package models

import "time"

const (
	// RestrictionComplaintLimit is how many resolved complaints against a
	// user trigger an automatic block.
	RestrictionComplaintLimit = 3
	// RestrictionBlockDuration is how long an automatic block lasts.
	RestrictionBlockDuration = 30 * 24 * time.Hour
)

// UserRestriction tracks disciplinary counters for a user. One row per
// user, created lazily on the first complaint or warning.
type UserRestriction struct {
	BaseModel
	UserID          int        `gorm:"type:int;not null;uniqueIndex" json:"userId"`
	ComplaintsCount int        `gorm:"type:int;default:0"            json:"complaintsCount"`
	WarningCount    int        `gorm:"type:int;default:0"            json:"warningCount"`
	Restricted      bool       `gorm:"type:bool;default:false"       json:"restricted"`
	BlockedUntil    *time.Time `gorm:"type:timestamp"                json:"blockedUntil,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// AddComplaint bumps the resolved complaint counter and reports whether
// the limit was crossed, blocking the user if so.
func (r *UserRestriction) AddComplaint(now time.Time) bool {
	r.ComplaintsCount++
	if r.ComplaintsCount >= RestrictionComplaintLimit && !r.Restricted {
		until := now.Add(RestrictionBlockDuration)
		r.Restricted = true
		r.BlockedUntil = &until
		return true
	}
	return false
}

func (r *UserRestriction) AddWarning() {
	r.WarningCount++
}

// Unblock clears the block and resets the complaint counter.
func (r *UserRestriction) Unblock() {
	r.Restricted = false
	r.BlockedUntil = nil
	r.ComplaintsCount = 0
}

// IsBlocked reports whether the user is blocked at the given time.
func (r *UserRestriction) IsBlocked(now time.Time) bool {
	if !r.Restricted {
		return false
	}
	if r.BlockedUntil != nil && now.After(*r.BlockedUntil) {
		return false
	}
	return true
}
