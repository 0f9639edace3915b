package repository

import (
	"context"
	"errors"
	"time"

	"vespernexus/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	SetVerificationChallenge(ctx context.Context, userID uuid.UUID, code string, expires time.Time) error
	SetResetChallenge(ctx context.Context, userID uuid.UUID, code string, expires time.Time) error
	ActivateCredential(ctx context.Context, userID uuid.UUID, passwordHash, nickname string, deviceFingerprint *string) error
	ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	ApplyBinding(ctx context.Context, userID uuid.UUID, codeID uuid.UUID, level entity.CodeLevel) error
	GrantVip(ctx context.Context, userID uuid.UUID, level entity.VipLevel, expiry time.Time) error
	SetStatus(ctx context.Context, userID uuid.UUID, status entity.UserStatus) error
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) SetVerificationChallenge(ctx context.Context, userID uuid.UUID, code string, expires time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"verification_code":    code,
			"verification_expires": expires,
		}).Error
}

func (r *userRepository) SetResetChallenge(ctx context.Context, userID uuid.UUID, code string, expires time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_token":   code,
			"reset_expires": expires,
		}).Error
}

func (r *userRepository) ActivateCredential(ctx context.Context, userID uuid.UUID, passwordHash, nickname string, deviceFingerprint *string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_hash":      passwordHash,
			"nickname":           nickname,
			"verified":           true,
			"device_fingerprint": gorm.Expr("COALESCE(device_fingerprint, ?)", deviceFingerprint),
		}).Error
}

// ResetPassword installs the new hash and clears the challenge so a reset
// code cannot be replayed.
func (r *userRepository) ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"reset_token":   nil,
			"reset_expires": nil,
		}).Error
}

// ApplyBinding records the bound code and raises the privilege flags. The
// flags only ever go from false to true; the CASE keeps existing values.
func (r *userRepository) ApplyBinding(ctx context.Context, userID uuid.UUID, codeID uuid.UUID, level entity.CodeLevel) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"developer_code_id": codeID,
			"is_admin":          gorm.Expr("CASE WHEN ? IN ('admin','root') THEN true ELSE is_admin END", string(level)),
			"is_root":           gorm.Expr("CASE WHEN ? = 'root' THEN true ELSE is_root END", string(level)),
		}).Error
}

func (r *userRepository) GrantVip(ctx context.Context, userID uuid.UUID, level entity.VipLevel, expiry time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"vip_level":  level,
			"vip_expiry": expiry,
		}).Error
}

func (r *userRepository) SetStatus(ctx context.Context, userID uuid.UUID, status entity.UserStatus) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Update("status", status).Error
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	var users []entity.User
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
