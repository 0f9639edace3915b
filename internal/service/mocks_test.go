package service

import (
	"context"
	"time"

	"vespernexus/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) SetVerificationChallenge(ctx context.Context, userID uuid.UUID, code string, expires time.Time) error {
	args := m.Called(ctx, userID, code, expires)
	return args.Error(0)
}

func (m *MockUserRepository) SetResetChallenge(ctx context.Context, userID uuid.UUID, code string, expires time.Time) error {
	args := m.Called(ctx, userID, code, expires)
	return args.Error(0)
}

func (m *MockUserRepository) ActivateCredential(ctx context.Context, userID uuid.UUID, passwordHash, nickname string, deviceFingerprint *string) error {
	args := m.Called(ctx, userID, passwordHash, nickname, deviceFingerprint)
	return args.Error(0)
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) ApplyBinding(ctx context.Context, userID uuid.UUID, codeID uuid.UUID, level entity.CodeLevel) error {
	args := m.Called(ctx, userID, codeID, level)
	return args.Error(0)
}

func (m *MockUserRepository) GrantVip(ctx context.Context, userID uuid.UUID, level entity.VipLevel, expiry time.Time) error {
	args := m.Called(ctx, userID, level, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) SetStatus(ctx context.Context, userID uuid.UUID, status entity.UserStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

type MockCodeRepository struct {
	mock.Mock
}

func (m *MockCodeRepository) Create(ctx context.Context, code *entity.DeveloperCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockCodeRepository) FindByCode(ctx context.Context, code string) (*entity.DeveloperCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DeveloperCode), args.Error(1)
}

func (m *MockCodeRepository) Bind(ctx context.Context, codeID uuid.UUID, userID uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, codeID, userID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockCodeRepository) Revoke(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCodeRepository) List(ctx context.Context) ([]entity.DeveloperCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DeveloperCode), args.Error(1)
}

func (m *MockCodeRepository) EnsureGenesis(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Redeem(ctx context.Context, code string) (*entity.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Coupon), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.VipOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.VipOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VipOrder), args.Error(1)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

// fixedClock pins service time so expiry assertions are exact.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

// stubHasher avoids paying bcrypt cost in tests that only care about
// match/mismatch.
type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) Verify(hash string, password string) bool {
	return hash == "hashed:"+password
}

// stubIssuer encodes the issued role into the token string.
type stubIssuer struct{}

func (stubIssuer) IssueSessionToken(userID uuid.UUID, email string, role entity.Role) (string, time.Duration, error) {
	return "token:" + string(role), 12 * time.Hour, nil
}
