package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type VipLevel string

const (
	VipLevelNone   VipLevel = "none"
	VipLevelMonth  VipLevel = "month"
	VipLevelSeason VipLevel = "season"
	VipLevelYear   VipLevel = "year"
)

// User holds identity, credential and entitlement state. An empty
// PasswordHash means the row is a pending registration that only exists to
// carry a verification challenge.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex;uniqueIndex:idx_users_email_device"`
	PasswordHash string     `gorm:"type:text;not null;default:''"`
	Nickname     string     `gorm:"type:varchar(100);not null"`
	Verified     bool       `gorm:"default:false"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`

	// At most one code is ever bound; IsAdmin/IsRoot are monotonic and are
	// never cleared once raised.
	DeveloperCodeID *uuid.UUID `gorm:"type:uuid"`
	IsAdmin         bool       `gorm:"default:false"`
	IsRoot          bool       `gorm:"default:false"`

	VipLevel  VipLevel `gorm:"type:varchar(10);not null;default:'none'"`
	VipExpiry *time.Time

	VerificationCode    *string `gorm:"type:varchar(6)"`
	VerificationExpires *time.Time
	ResetToken          *string `gorm:"type:varchar(6)"`
	ResetExpires        *time.Time

	DeviceFingerprint *string `gorm:"type:varchar(255);uniqueIndex:idx_users_email_device"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Registered reports whether the credential has been activated.
func (u *User) Registered() bool {
	return u.PasswordHash != ""
}
