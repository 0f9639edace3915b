package service

import (
	"time"

	"vespernexus/internal/entity"
)

type RegisterInput struct {
	Email             string
	Password          string
	Nickname          string
	VerificationCode  string
	DeveloperCode     string
	DeviceFingerprint *string
}

type AuthResult struct {
	Token string
	Role  entity.Role
}

type LoginResult struct {
	Token     string
	Role      entity.Role
	Nickname  string
	VipLevel  entity.VipLevel
	VipExpiry *time.Time
}

type GenerateInput struct {
	Level      entity.CodeLevel
	Quantity   int
	CustomCode string
	Unlimited  bool
	Note       string
}

type CouponInput struct {
	Code         string
	Type         entity.CouponType
	Value        int
	DurationDays *int
	Uses         *int
	Unlimited    bool
}

type PurchaseResult struct {
	OrderID string
	Payable int
}
