package service

import (
	"context"
	"time"

	"vespernexus/internal/entity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	ChallengeTTL time.Duration
	// ExposeCodes echoes freshly issued challenge codes in API responses.
	// Development convenience only.
	ExposeCodes bool
}

type EmailSender interface {
	SendVerificationCode(ctx context.Context, email string, code string) error
	SendResetCode(ctx context.Context, email string, code string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type SessionTokenIssuer interface {
	IssueSessionToken(userID uuid.UUID, email string, role entity.Role) (string, time.Duration, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
