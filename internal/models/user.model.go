package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleOwner UserRole = "owner"
	RoleAdmin UserRole = "admin"
)

type User struct {
	BaseModel
	FullName     string     `gorm:"type:text;not null"       json:"fullName"`
	Username     string     `gorm:"type:text;uniqueIndex"    json:"username"`
	Email        string     `gorm:"type:text;uniqueIndex"    json:"email"`
	Phone        string     `gorm:"type:text"                json:"phone"`
	Address      string     `gorm:"type:text"                json:"address"`
	Birthdate    *time.Time `gorm:"type:date"                json:"birthdate,omitempty"`
	PasswordHash string     `gorm:"type:text;not null"       json:"-"`
	Role         UserRole   `gorm:"type:text;default:'user'" json:"role"`
	IsActive     bool       `gorm:"type:bool;default:true"   json:"isActive"`
	IsRestricted bool       `gorm:"type:bool;default:false"  json:"isRestricted"`

	RentalItems []RentalItem `gorm:"foreignKey:OwnerID" json:"rentalItems,omitempty"`
	Bookings    []Booking    `gorm:"foreignKey:UserID"  json:"bookings,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Username == "" || u.Email == "" {
		return gorm.ErrInvalidValue
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	FullName  string `json:"fullName"  validate:"required"`
	Username  string `json:"username"  validate:"required,min=3"`
	Email     string `json:"email"     validate:"required,email"`
	Phone     string `json:"phone"     validate:"required"`
	Address   string `json:"address"`
	Birthdate string `json:"birthdate"`
	Password  string `json:"password"  validate:"required,min=6"`
}

// UserProfile represents public user information
type UserProfile struct {
	ID           int      `json:"id"`
	FullName     string   `json:"fullName"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	Role         UserRole `json:"role"`
	IsActive     bool     `json:"isActive"`
	IsRestricted bool     `json:"isRestricted"`
}

// ToProfile converts a User to a UserProfile (public information only)
func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:           u.ID,
		FullName:     u.FullName,
		Username:     u.Username,
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		Role:         u.Role,
		IsActive:     u.IsActive,
		IsRestricted: u.IsRestricted,
	}
}
