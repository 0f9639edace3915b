package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// VipOrder records a purchase attempt. Amount is the final payable after any
// coupon; a zero-amount order is created already paid. Paid is terminal.
type VipOrder struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	Plan    VipLevel    `gorm:"type:varchar(10);not null"`
	Amount  int         `gorm:"not null"`
	Channel string      `gorm:"type:varchar(32);not null"`
	Status  OrderStatus `gorm:"type:varchar(16);not null"`

	CouponID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
