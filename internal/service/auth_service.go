package service

import (
	"context"
	"strings"
	"time"

	"vespernexus/internal/entity"
	"vespernexus/internal/repository"
	"vespernexus/internal/utils"

	"github.com/google/uuid"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

const defaultNickname = "guest"

// AuthService runs the credential and challenge state machines:
// Unregistered -> Pending(verification code) -> Active, and orthogonally
// Active -> ResetPending -> Active. Challenge expiry is enforced purely by
// timestamp comparison at use time; nothing cleans up stale codes.
type AuthService struct {
	users repository.UserRepository
	codes *DeveloperCodeService
	audit repository.AuditLogRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	tokens       SessionTokenIssuer
	clock        Clock
	config       AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	codes *DeveloperCodeService,
	audit repository.AuditLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	tokens SessionTokenIssuer,
	clock Clock,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		users:        users,
		codes:        codes,
		audit:        audit,
		emailSender:  emailSender,
		passwordHash: passwordHash,
		tokens:       tokens,
		clock:        clock,
		config:       config,
	}
}

// SendVerificationCode issues a fresh challenge for email. Idempotent: a
// missing user becomes a pending placeholder row, an existing one gets its
// challenge overwritten. Returns the code when ExposeCodes is on.
func (s *AuthService) SendVerificationCode(ctx context.Context, email string) (string, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return "", ErrInvalidInput
	}

	code, err := utils.NumericCode(6)
	if err != nil {
		return "", err
	}
	expires := s.now().Add(s.challengeTTL())

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		placeholder := &entity.User{
			Email:               email,
			PasswordHash:        "",
			Nickname:            defaultNickname,
			Status:              entity.UserStatusActive,
			VipLevel:            entity.VipLevelNone,
			VerificationCode:    &code,
			VerificationExpires: &expires,
		}
		if err := s.users.Create(ctx, placeholder); err != nil {
			return "", err
		}
	} else if err := s.users.SetVerificationChallenge(ctx, user.ID, code, expires); err != nil {
		return "", err
	}

	if s.emailSender != nil {
		if err := s.emailSender.SendVerificationCode(ctx, email, code); err != nil {
			return "", err
		}
	}

	if s.config.ExposeCodes {
		return code, nil
	}
	return "", nil
}

// Register activates a pending credential. One-shot: a user with a password
// hash already set is rejected. When a developer code is supplied its
// availability is checked before anything is persisted; if a concurrent bind
// wins afterwards, the plain registration stands and ErrCodeUnavailable is
// reported to the caller.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := utils.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" || strings.TrimSpace(input.Nickname) == "" || input.VerificationCode == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.challengeMatches(user.VerificationCode, user.VerificationExpires, input.VerificationCode) {
		return nil, ErrInvalidChallenge
	}
	if user.Registered() {
		return nil, ErrAlreadyRegistered
	}

	developerCode := strings.TrimSpace(input.DeveloperCode)
	if developerCode != "" {
		if err := s.codes.Bindable(ctx, developerCode); err != nil {
			return nil, ErrCodeUnavailable
		}
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.users.ActivateCredential(ctx, user.ID, hash, input.Nickname, input.DeviceFingerprint); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if developerCode != "" {
		role, err = s.codes.Bind(ctx, developerCode, user.ID)
		if err != nil {
			return nil, ErrCodeUnavailable
		}
	}

	_ = appendAudit(ctx, s.audit, &user.ID, entity.AuditRegister,
		email, "User registration completed", nil)

	token, _, err := s.tokens.IssueSessionToken(user.ID, email, role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Role: role}, nil
}

// Login answers one indistinguishable ErrInvalidCredentials for unknown
// emails, pending registrations and wrong passwords. The dummy compare keeps
// the unknown-email path as slow as the mismatch path.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Registered() {
		_ = s.passwordHash.Verify(dummyPasswordHash, password)
		return nil, ErrInvalidCredentials
	}
	if !s.passwordHash.Verify(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if user.Status == entity.UserStatusSuspended {
		return nil, ErrAccountSuspended
	}

	role := entity.ResolveRole(user)
	token, _, err := s.tokens.IssueSessionToken(user.ID, user.Email, role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:     token,
		Role:      role,
		Nickname:  user.Nickname,
		VipLevel:  user.VipLevel,
		VipExpiry: user.VipExpiry,
	}, nil
}

// RequestReset issues a reset challenge for a known account.
func (s *AuthService) RequestReset(ctx context.Context, email string) (string, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return "", ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUnknownAccount
	}

	code, err := utils.NumericCode(6)
	if err != nil {
		return "", err
	}
	expires := s.now().Add(s.challengeTTL())
	if err := s.users.SetResetChallenge(ctx, user.ID, code, expires); err != nil {
		return "", err
	}

	if s.emailSender != nil {
		if err := s.emailSender.SendResetCode(ctx, email, code); err != nil {
			return "", err
		}
	}

	if s.config.ExposeCodes {
		return code, nil
	}
	return "", nil
}

// ResetPassword completes the recovery state machine and clears the
// challenge so the code cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, password string) error {
	email = utils.NormalizeEmail(email)
	if email == "" || code == "" || password == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || !s.challengeMatches(user.ResetToken, user.ResetExpires, code) {
		return ErrInvalidChallenge
	}

	hash, err := s.passwordHash.Hash(password)
	if err != nil {
		return err
	}
	if err := s.users.ResetPassword(ctx, user.ID, hash); err != nil {
		return err
	}

	_ = appendAudit(ctx, s.audit, &user.ID, entity.AuditPasswordReset,
		email, "Password reset completed", nil)
	return nil
}

// BindCode upgrades an already-authenticated user and returns a fresh token
// carrying the new role.
func (s *AuthService) BindCode(ctx context.Context, userID uuid.UUID, codeValue string) (*AuthResult, error) {
	if strings.TrimSpace(codeValue) == "" {
		return nil, ErrInvalidInput
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	role, err := s.codes.Bind(ctx, codeValue, user.ID)
	if err != nil {
		return nil, err
	}

	token, _, err := s.tokens.IssueSessionToken(user.ID, user.Email, role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Role: role}, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *AuthService) SetUserStatus(ctx context.Context, actorID uuid.UUID, userID uuid.UUID, status entity.UserStatus) error {
	if status != entity.UserStatusActive && status != entity.UserStatusSuspended {
		return ErrInvalidInput
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.users.SetStatus(ctx, userID, status); err != nil {
		return err
	}
	_ = appendAudit(ctx, s.audit, &actorID, entity.AuditStatusChange,
		userID.String(), string(status), nil)
	return nil
}

func (s *AuthService) ListAudit(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	return s.audit.ListRecent(ctx, limit)
}

// challengeMatches applies the strict expiry rule: a matching code that has
// expired is as invalid as a wrong one.
func (s *AuthService) challengeMatches(stored *string, expires *time.Time, presented string) bool {
	if stored == nil || expires == nil {
		return false
	}
	if *stored != presented {
		return false
	}
	return !s.now().After(*expires)
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) challengeTTL() time.Duration {
	if s.config.ChallengeTTL > 0 {
		return s.config.ChallengeTTL
	}
	return 10 * time.Minute
}
