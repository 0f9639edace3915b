package repository

import (
	"context"

	"vespernexus/internal/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Append(ctx context.Context, entry *entity.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]entity.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Append(ctx context.Context, entry *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepository) ListRecent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	if limit <= 0 {
		limit = 200
	}
	var entries []entity.AuditLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
