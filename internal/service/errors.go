package service

import (
	"errors"

	"vespernexus/internal/repository"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidChallenge      = errors.New("invalid verification code")
	ErrAlreadyRegistered     = errors.New("account already exists")
	ErrUnknownAccount        = errors.New("unknown account")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountSuspended      = errors.New("account suspended")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrInsufficientPrivilege = errors.New("insufficient role")
	ErrCodeNotFound          = errors.New("code not available")
	ErrCodeAlreadyBound      = errors.New("code already bound")
	ErrCodeUnavailable       = errors.New("developer code unavailable")
	ErrUnknownPlan           = errors.New("unknown plan")
	ErrOrderNotFound         = errors.New("order not found")
	ErrUserNotFound          = errors.New("user not found")

	// Raised by the storage layer when a caller-supplied code value collides.
	ErrDuplicateCode = repository.ErrDuplicateCode
)
