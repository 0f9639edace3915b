package entity

import (
	"time"

	"github.com/google/uuid"
)

type CodeLevel string

const (
	CodeLevelDeveloper CodeLevel = "developer"
	CodeLevelAdmin     CodeLevel = "admin"
	CodeLevelRoot      CodeLevel = "root"
)

// ValidCodeLevel reports whether level is one of the three issuable tiers.
func ValidCodeLevel(level CodeLevel) bool {
	return level == CodeLevelDeveloper || level == CodeLevelAdmin || level == CodeLevelRoot
}

// RoleForLevel maps a code level to the role it grants on binding.
func RoleForLevel(level CodeLevel) Role {
	switch level {
	case CodeLevelRoot:
		return RoleRoot
	case CodeLevelAdmin:
		return RoleAdmin
	default:
		return RoleDeveloper
	}
}

// DeveloperCode is a single-use privilege grant. BoundUserID is set exactly
// once and never cleared; revocation flips IsActive and only blocks future
// binds. Codes are never deleted.
type DeveloperCode struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code string    `gorm:"type:varchar(64);not null;uniqueIndex"`

	Level       CodeLevel  `gorm:"type:varchar(16);not null"`
	GeneratedBy *uuid.UUID `gorm:"type:uuid"`

	BoundUserID *uuid.UUID `gorm:"type:uuid"`
	BoundAt     *time.Time

	IsActive bool `gorm:"default:true"`

	// Null means unlimited. Reserved for generation-chain logic; no current
	// operation consumes it.
	MaxGenerations *int

	Note *string `gorm:"type:text"`

	CreatedAt time.Time
}
