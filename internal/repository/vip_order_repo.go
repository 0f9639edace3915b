package repository

import (
	"context"
	"errors"
	"time"

	"vespernexus/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VipOrderRepository interface {
	Create(ctx context.Context, order *entity.VipOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.VipOrder, error)
	// MarkPaid flips a pending order to paid. Returns false when the order
	// was already paid, which makes duplicate confirmation callbacks no-ops.
	MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type vipOrderRepository struct {
	db *gorm.DB
}

func NewVipOrderRepository(db *gorm.DB) VipOrderRepository {
	return &vipOrderRepository{db: db}
}

func (r *vipOrderRepository) Create(ctx context.Context, order *entity.VipOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *vipOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.VipOrder, error) {
	var order entity.VipOrder
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *vipOrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.VipOrder{}).
		Where("id = ? AND status = ?", id, entity.OrderStatusPending).
		Updates(map[string]any{
			"status":     entity.OrderStatusPaid,
			"updated_at": at,
		})
	return result.RowsAffected == 1, result.Error
}
