package repository

import (
	"context"

	"gorm.io/gorm"

	"weld-oee/backend/internal/model"
)

// AuditRepository append-only audit log access
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditEntry) error
	ListByRecord(ctx context.Context, table, recordID string) ([]model.AuditEntry, error)
}

type auditRepo struct {
	db *gorm.DB
}

// NewAuditRepo creates an AuditRepository
func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, entry *model.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) ListByRecord(ctx context.Context, table, recordID string) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	err := r.db.WithContext(ctx).
		Where("affected_table = ? AND record_id = ?", table, recordID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}
