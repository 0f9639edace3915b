package repository

import (
	"context"
	"errors"
	"time"

	"vespernexus/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateCode is returned when a caller-supplied code value collides
// with an existing one. Uniqueness is enforced only here, at the storage
// layer.
var ErrDuplicateCode = errors.New("code value already exists")

type DeveloperCodeRepository interface {
	Create(ctx context.Context, code *entity.DeveloperCode) error
	FindByCode(ctx context.Context, code string) (*entity.DeveloperCode, error)
	// Bind marks the code bound to userID only if it is still active and
	// unbound. Returns false when another bind won or the code is gone.
	Bind(ctx context.Context, codeID uuid.UUID, userID uuid.UUID, at time.Time) (bool, error)
	Revoke(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]entity.DeveloperCode, error)
	EnsureGenesis(ctx context.Context, code string) error
}

type developerCodeRepository struct {
	db *gorm.DB
}

func NewDeveloperCodeRepository(db *gorm.DB) DeveloperCodeRepository {
	return &developerCodeRepository{db: db}
}

func (r *developerCodeRepository) Create(ctx context.Context, code *entity.DeveloperCode) error {
	err := r.db.WithContext(ctx).Create(code).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCode
	}
	return err
}

func (r *developerCodeRepository) FindByCode(ctx context.Context, code string) (*entity.DeveloperCode, error) {
	var row entity.DeveloperCode
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &row, err
}

// The WHERE clause is the race guard: two concurrent binds of the same code
// can both pass an application-level availability check, but only one update
// matches a row here.
func (r *developerCodeRepository) Bind(ctx context.Context, codeID uuid.UUID, userID uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.DeveloperCode{}).
		Where("id = ? AND bound_user_id IS NULL AND is_active = true", codeID).
		Updates(map[string]any{
			"bound_user_id": userID,
			"bound_at":      at,
		})
	return result.RowsAffected == 1, result.Error
}

func (r *developerCodeRepository) Revoke(ctx context.Context, code string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.DeveloperCode{}).
		Where("code = ?", code).
		Update("is_active", false)
	return result.RowsAffected == 1, result.Error
}

func (r *developerCodeRepository) List(ctx context.Context) ([]entity.DeveloperCode, error) {
	var codes []entity.DeveloperCode
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// EnsureGenesis inserts the root bootstrap code if it is not present yet.
// Check-then-insert is enough: startup is the only caller and the unique
// index on code catches a lost race across replicas.
func (r *developerCodeRepository) EnsureGenesis(ctx context.Context, code string) error {
	existing, err := r.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	note := "Genesis code with unlimited control"
	err = r.Create(ctx, &entity.DeveloperCode{
		Code:     code,
		Level:    entity.CodeLevelRoot,
		IsActive: true,
		Note:     &note,
	})
	if errors.Is(err, ErrDuplicateCode) {
		return nil
	}
	return err
}
