package entity

import (
	"time"

	"github.com/google/uuid"
)

type CouponType string

const (
	CouponTypeDiscount CouponType = "discount"
	CouponTypeFree     CouponType = "free"
)

// Coupon is created by an admin and only ever mutated by decrementing
// UsesRemaining on redemption. A null UsesRemaining means unlimited.
type Coupon struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code string    `gorm:"type:varchar(64);not null;uniqueIndex"`

	Type  CouponType `gorm:"type:varchar(16);not null"`
	Value int        `gorm:"not null"`

	DurationDays  *int
	UsesRemaining *int

	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}

// CouponUses spells out the redemption budget so exhaustion checks do not
// have to reason about a nullable column.
type CouponUses struct {
	Unlimited bool
	Remaining int
}

func (u CouponUses) Exhausted() bool {
	return !u.Unlimited && u.Remaining <= 0
}

func (c *Coupon) Uses() CouponUses {
	if c.UsesRemaining == nil {
		return CouponUses{Unlimited: true}
	}
	return CouponUses{Remaining: *c.UsesRemaining}
}
