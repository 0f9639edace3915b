package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"vespernexus/internal/entity"
	"vespernexus/internal/repository"

	"github.com/google/uuid"
)

// DeveloperCodeService is the ledger of privilege-granting codes: issuance,
// one-time binding and revocation. Codes are never deleted.
type DeveloperCodeService struct {
	codes repository.DeveloperCodeRepository
	users repository.UserRepository
	audit repository.AuditLogRepository
	clock Clock

	genesisCode string
}

func NewDeveloperCodeService(
	codes repository.DeveloperCodeRepository,
	users repository.UserRepository,
	audit repository.AuditLogRepository,
	clock Clock,
	genesisCode string,
) *DeveloperCodeService {
	if genesisCode == "" {
		genesisCode = "Vesper"
	}
	return &DeveloperCodeService{
		codes:       codes,
		users:       users,
		audit:       audit,
		clock:       clock,
		genesisCode: genesisCode,
	}
}

// Bootstrap makes sure the genesis root code exists. Idempotent; called once
// at startup.
func (s *DeveloperCodeService) Bootstrap(ctx context.Context) error {
	return s.codes.EnsureGenesis(ctx, s.genesisCode)
}

// Generate emits a batch of active codes. The first code may carry a
// caller-supplied value; its uniqueness is only enforced by the storage
// layer, which reports ErrDuplicateCode on collision.
func (s *DeveloperCodeService) Generate(ctx context.Context, issuerID uuid.UUID, issuerRole entity.Role, input GenerateInput) ([]string, error) {
	if !issuerRole.AtLeast(entity.RoleDeveloper) {
		return nil, ErrInsufficientPrivilege
	}

	level := input.Level
	if level == "" {
		level = entity.CodeLevelDeveloper
	}
	if !entity.ValidCodeLevel(level) {
		return nil, ErrInvalidInput
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	var maxGenerations *int
	if !input.Unlimited {
		one := 1
		maxGenerations = &one
	}
	var note *string
	if input.Note != "" {
		note = &input.Note
	}

	values := make([]string, 0, quantity)
	for i := 0; i < quantity; i++ {
		value := fmt.Sprintf("DEV-%s-%s", level, uuid.NewString()[:8])
		if i == 0 && input.CustomCode != "" {
			value = input.CustomCode
		}
		code := &entity.DeveloperCode{
			Code:           value,
			Level:          level,
			GeneratedBy:    &issuerID,
			IsActive:       true,
			MaxGenerations: maxGenerations,
			Note:           note,
		}
		if err := s.codes.Create(ctx, code); err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	_ = appendAudit(ctx, s.audit, &issuerID, entity.AuditGenerateCodes,
		strconv.Itoa(quantity), fmt.Sprintf("Level %s", level), nil)
	return values, nil
}

// Bind associates a code with a user, once and forever. The storage layer
// guarantees a single winner under concurrent binds; the losing caller sees
// ErrCodeAlreadyBound. The raised privilege flags are monotonic.
func (s *DeveloperCodeService) Bind(ctx context.Context, codeValue string, userID uuid.UUID) (entity.Role, error) {
	row, err := s.codes.FindByCode(ctx, codeValue)
	if err != nil {
		return "", err
	}
	if row == nil || !row.IsActive {
		return "", ErrCodeNotFound
	}
	if row.BoundUserID != nil {
		return "", ErrCodeAlreadyBound
	}

	bound, err := s.codes.Bind(ctx, row.ID, userID, s.now())
	if err != nil {
		return "", err
	}
	if !bound {
		return "", ErrCodeAlreadyBound
	}

	if err := s.users.ApplyBinding(ctx, userID, row.ID, row.Level); err != nil {
		return "", err
	}

	_ = appendAudit(ctx, s.audit, &userID, entity.AuditBindCode,
		row.Code, "Developer identity bound", nil)
	return entity.RoleForLevel(row.Level), nil
}

// Bindable reports whether a bind of codeValue could currently succeed.
// Registration uses it to fail fast before activating a credential.
func (s *DeveloperCodeService) Bindable(ctx context.Context, codeValue string) error {
	row, err := s.codes.FindByCode(ctx, codeValue)
	if err != nil {
		return err
	}
	if row == nil || !row.IsActive {
		return ErrCodeNotFound
	}
	if row.BoundUserID != nil {
		return ErrCodeAlreadyBound
	}
	return nil
}

// Revoke deactivates a code. Existing bindings and already-raised role flags
// are untouched; only future binds are blocked.
func (s *DeveloperCodeService) Revoke(ctx context.Context, actorID uuid.UUID, codeValue string) error {
	revoked, err := s.codes.Revoke(ctx, codeValue)
	if err != nil {
		return err
	}
	if !revoked {
		return ErrCodeNotFound
	}
	_ = appendAudit(ctx, s.audit, &actorID, entity.AuditRevokeCode,
		codeValue, "Code revoked", nil)
	return nil
}

func (s *DeveloperCodeService) List(ctx context.Context) ([]entity.DeveloperCode, error) {
	return s.codes.List(ctx)
}

func (s *DeveloperCodeService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
