package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Repository aggregate entry for every repository
type Repository struct {
	db *gorm.DB

	User     UserRepository
	Worker   WorkerRepository
	Shift    ShiftRepository
	Catalog  CatalogRepository
	Order    OrderRepository
	WorkItem WorkItemRepository
	Stoppage StoppageRepository
	Defect   DefectRepository
	Audit    AuditRepository
}

// NewRepository builds the aggregate over one connection
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		User:     NewUserRepo(db),
		Worker:   NewWorkerRepo(db),
		Shift:    NewShiftRepo(db),
		Catalog:  NewCatalogRepo(db),
		Order:    NewOrderRepo(db),
		WorkItem: NewWorkItemRepo(db),
		Stoppage: NewStoppageRepo(db),
		Defect:   NewDefectRepo(db),
		Audit:    NewAuditRepo(db),
	}
}

// Transaction runs fn inside one transaction, committing when fn returns
// nil. Inside fn only txRepo may be used: SQLite runs with a single
// connection and a second handle would block.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// IsDuplicateKey reports a unique constraint violation on either driver
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
