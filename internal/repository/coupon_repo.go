package repository

import (
	"context"
	"errors"

	"vespernexus/internal/entity"

	"gorm.io/gorm"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.Coupon) error
	// Redeem consumes one use of the coupon and returns it, or (nil, nil)
	// when the code is unknown, exhausted, or lost a concurrent redemption.
	Redeem(ctx context.Context, code string) (*entity.Coupon, error)
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	err := r.db.WithContext(ctx).Create(coupon).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCode
	}
	return err
}

func (r *couponRepository) Redeem(ctx context.Context, code string) (*entity.Coupon, error) {
	var coupon entity.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// The conditional decrement is the only gate against over-redemption:
	// it matches no row once the remaining uses hit zero, and leaves
	// unlimited (null) coupons untouched.
	result := r.db.WithContext(ctx).
		Model(&entity.Coupon{}).
		Where("id = ? AND (uses_remaining IS NULL OR uses_remaining > 0)", coupon.ID).
		Update("uses_remaining", gorm.Expr(
			"CASE WHEN uses_remaining IS NULL THEN NULL ELSE uses_remaining - 1 END",
		))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &coupon, nil
}
