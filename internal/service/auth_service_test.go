package service

import (
	"context"
	"testing"
	"time"

	"vespernexus/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAuthService(users *MockUserRepository, codes *MockCodeRepository) *AuthService {
	codeService := NewDeveloperCodeService(codes, users, nil, fixedClock{t: testNow}, "")
	return NewAuthService(
		users,
		codeService,
		nil,
		nil,
		stubHasher{},
		stubIssuer{},
		fixedClock{t: testNow},
		AuthConfig{ChallengeTTL: 10 * time.Minute, ExposeCodes: true},
	)
}

func pendingUser(email, code string, expires time.Time) *entity.User {
	return &entity.User{
		ID:                  uuid.New(),
		Email:               email,
		Nickname:            defaultNickname,
		Status:              entity.UserStatusActive,
		VerificationCode:    &code,
		VerificationExpires: &expires,
	}
}

func TestAuthService_SendVerificationCode(t *testing.T) {
	t.Run("creates a pending placeholder for a new email", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, nil)
		var placeholder *entity.User
		users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
			Run(func(args mock.Arguments) {
				placeholder = args.Get(1).(*entity.User)
			}).
			Return(nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		code, err := svc.SendVerificationCode(context.Background(), "  New@Example.COM ")

		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
		require.NotNil(t, placeholder)
		assert.Equal(t, "new@example.com", placeholder.Email)
		assert.False(t, placeholder.Registered())
		assert.Equal(t, defaultNickname, placeholder.Nickname)
		require.NotNil(t, placeholder.VerificationCode)
		assert.Equal(t, code, *placeholder.VerificationCode)
		require.NotNil(t, placeholder.VerificationExpires)
		assert.Equal(t, testNow.Add(10*time.Minute), *placeholder.VerificationExpires)
	})

	t.Run("overwrites the challenge for an existing email", func(t *testing.T) {
		users := new(MockUserRepository)
		user := pendingUser("old@example.com", "111111", testNow.Add(-time.Hour))
		users.On("FindByEmail", mock.Anything, "old@example.com").Return(user, nil)
		users.On("SetVerificationChallenge", mock.Anything, user.ID, mock.AnythingOfType("string"), testNow.Add(10*time.Minute)).Return(nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		_, err := svc.SendVerificationCode(context.Background(), "old@example.com")

		require.NoError(t, err)
		users.AssertExpectations(t)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Register(t *testing.T) {
	input := RegisterInput{
		Email:            "dev@example.com",
		Password:         "s3cret",
		Nickname:         "dev",
		VerificationCode: "123456",
	}

	t.Run("rejects a wrong challenge", func(t *testing.T) {
		users := new(MockUserRepository)
		user := pendingUser(input.Email, "654321", testNow.Add(5*time.Minute))
		users.On("FindByEmail", mock.Anything, input.Email).Return(user, nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		_, err := svc.Register(context.Background(), input)

		assert.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("rejects an expired challenge even when the code matches", func(t *testing.T) {
		users := new(MockUserRepository)
		user := pendingUser(input.Email, input.VerificationCode, testNow.Add(-time.Second))
		users.On("FindByEmail", mock.Anything, input.Email).Return(user, nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		_, err := svc.Register(context.Background(), input)

		assert.ErrorIs(t, err, ErrInvalidChallenge)
		users.AssertNotCalled(t, "ActivateCredential", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("registration is one-shot", func(t *testing.T) {
		users := new(MockUserRepository)
		user := pendingUser(input.Email, input.VerificationCode, testNow.Add(5*time.Minute))
		user.PasswordHash = "hashed:earlier"
		users.On("FindByEmail", mock.Anything, input.Email).Return(user, nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		_, err := svc.Register(context.Background(), input)

		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("plain registration yields the user role", func(t *testing.T) {
		users := new(MockUserRepository)
		user := pendingUser(input.Email, input.VerificationCode, testNow.Add(5*time.Minute))
		users.On("FindByEmail", mock.Anything, input.Email).Return(user, nil)
		users.On("ActivateCredential", mock.Anything, user.ID, "hashed:s3cret", "dev", (*string)(nil)).Return(nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		result, err := svc.Register(context.Background(), input)

		require.NoError(t, err)
		assert.Equal(t, entity.RoleUser, result.Role)
		assert.Equal(t, "token:user", result.Token)
	})

	t.Run("registration with a developer code binds it", func(t *testing.T) {
		users := new(MockUserRepository)
		codes := new(MockCodeRepository)
		user := pendingUser(input.Email, input.VerificationCode, testNow.Add(5*time.Minute))
		row := &entity.DeveloperCode{ID: uuid.New(), Code: "DEV-admin-deadbeef", Level: entity.CodeLevelAdmin, IsActive: true}
		users.On("FindByEmail", mock.Anything, input.Email).Return(user, nil)
		users.On("ActivateCredential", mock.Anything, user.ID, "hashed:s3cret", "dev", (*string)(nil)).Return(nil)
		codes.On("FindByCode", mock.Anything, row.Code).Return(row, nil)
		codes.On("Bind", mock.Anything, row.ID, user.ID, testNow).Return(true, nil)
		users.On("ApplyBinding", mock.Anything, user.ID, row.ID, entity.CodeLevelAdmin).Return(nil)
		svc := newTestAuthService(users, codes)

		withCode := input
		withCode.DeveloperCode = row.Code
		result, err := svc.Register(context.Background(), withCode)

		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, result.Role)
		assert.Equal(t, "token:admin", result.Token)
	})

	t.Run("a taken code fails fast before activation", func(t *testing.T) {
		users := new(MockUserRepository)
		codes := new(MockCodeRepository)
		user := pendingUser(input.Email, input.VerificationCode, testNow.Add(5*time.Minute))
		bound := uuid.New()
		row := &entity.DeveloperCode{ID: uuid.New(), Code: "DEV-admin-deadbeef", Level: entity.CodeLevelAdmin, IsActive: true, BoundUserID: &bound}
		users.On("FindByEmail", mock.Anything, input.Email).Return(user, nil)
		codes.On("FindByCode", mock.Anything, row.Code).Return(row, nil)
		svc := newTestAuthService(users, codes)

		withCode := input
		withCode.DeveloperCode = row.Code
		_, err := svc.Register(context.Background(), withCode)

		assert.ErrorIs(t, err, ErrCodeUnavailable)
		users.AssertNotCalled(t, "ActivateCredential", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	activeUser := func() *entity.User {
		return &entity.User{
			ID:           uuid.New(),
			Email:        "dev@example.com",
			PasswordHash: "hashed:s3cret",
			Nickname:     "dev",
			Status:       entity.UserStatusActive,
			VipLevel:     entity.VipLevelNone,
		}
	}

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
		users.On("FindByEmail", mock.Anything, "dev@example.com").Return(activeUser(), nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		_, errUnknown := svc.Login(context.Background(), "ghost@example.com", "whatever")
		_, errWrong := svc.Login(context.Background(), "dev@example.com", "wrong")

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	})

	t.Run("pending registration cannot log in", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, "dev@example.com").
			Return(pendingUser("dev@example.com", "123456", testNow.Add(5*time.Minute)), nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		_, err := svc.Login(context.Background(), "dev@example.com", "s3cret")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("suspended account is refused after password check", func(t *testing.T) {
		users := new(MockUserRepository)
		user := activeUser()
		user.Status = entity.UserStatusSuspended
		users.On("FindByEmail", mock.Anything, "dev@example.com").Return(user, nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		_, err := svc.Login(context.Background(), "dev@example.com", "s3cret")

		assert.ErrorIs(t, err, ErrAccountSuspended)
	})

	t.Run("role is derived from flags at login", func(t *testing.T) {
		users := new(MockUserRepository)
		user := activeUser()
		user.IsRoot = true
		users.On("FindByEmail", mock.Anything, "dev@example.com").Return(user, nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		result, err := svc.Login(context.Background(), "dev@example.com", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, entity.RoleRoot, result.Role)
		assert.Equal(t, "token:root", result.Token)
		assert.Equal(t, "dev", result.Nickname)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	code := "987654"

	t.Run("rejects an expired reset code", func(t *testing.T) {
		users := new(MockUserRepository)
		expired := testNow.Add(-time.Minute)
		user := &entity.User{ID: uuid.New(), Email: "dev@example.com", PasswordHash: "hashed:old", ResetToken: &code, ResetExpires: &expired}
		users.On("FindByEmail", mock.Anything, "dev@example.com").Return(user, nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		err := svc.ResetPassword(context.Background(), "dev@example.com", code, "newpass")

		assert.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("installs the new hash", func(t *testing.T) {
		users := new(MockUserRepository)
		valid := testNow.Add(5 * time.Minute)
		user := &entity.User{ID: uuid.New(), Email: "dev@example.com", PasswordHash: "hashed:old", ResetToken: &code, ResetExpires: &valid}
		users.On("FindByEmail", mock.Anything, "dev@example.com").Return(user, nil)
		users.On("ResetPassword", mock.Anything, user.ID, "hashed:newpass").Return(nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		err := svc.ResetPassword(context.Background(), "dev@example.com", code, "newpass")

		require.NoError(t, err)
		users.AssertExpectations(t)
	})
}

func TestAuthService_BindCode(t *testing.T) {
	userID := uuid.New()

	t.Run("unknown user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, userID).Return(nil, nil)
		svc := newTestAuthService(users, new(MockCodeRepository))

		_, err := svc.BindCode(context.Background(), userID, "DEV-developer-cafe0001")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("re-issues a token with the new role", func(t *testing.T) {
		users := new(MockUserRepository)
		codes := new(MockCodeRepository)
		user := &entity.User{ID: userID, Email: "dev@example.com", PasswordHash: "hashed:s3cret"}
		row := &entity.DeveloperCode{ID: uuid.New(), Code: "DEV-developer-cafe0001", Level: entity.CodeLevelDeveloper, IsActive: true}
		users.On("FindByID", mock.Anything, userID).Return(user, nil)
		codes.On("FindByCode", mock.Anything, row.Code).Return(row, nil)
		codes.On("Bind", mock.Anything, row.ID, userID, testNow).Return(true, nil)
		users.On("ApplyBinding", mock.Anything, userID, row.ID, entity.CodeLevelDeveloper).Return(nil)
		svc := newTestAuthService(users, codes)

		result, err := svc.BindCode(context.Background(), userID, row.Code)

		require.NoError(t, err)
		assert.Equal(t, entity.RoleDeveloper, result.Role)
		assert.Equal(t, "token:developer", result.Token)
	})
}
