package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditRegister      AuditAction = "register"
	AuditBindCode      AuditAction = "bind_code"
	AuditGenerateCodes AuditAction = "generate_codes"
	AuditRevokeCode    AuditAction = "revoke_code"
	AuditCreateCoupon  AuditAction = "create_coupon"
	AuditPurchase      AuditAction = "vip_purchase"
	AuditConfirmOrder  AuditAction = "vip_confirm"
	AuditPasswordReset AuditAction = "password_reset"
	AuditStatusChange  AuditAction = "status_change"
)

// AuditLog entries are append-only; nothing updates or deletes them.
type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	ActorID *uuid.UUID  `gorm:"type:uuid;index"`
	Action  AuditAction `gorm:"type:varchar(32);not null"`
	Target  string      `gorm:"type:varchar(255)"`
	Detail  string      `gorm:"type:text"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
