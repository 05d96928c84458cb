package repository

import (
	"time"

	"gorm.io/gorm"
)

// WorkItemFilter narrows work-item queries. From is inclusive and To is
// exclusive; both are instants, already converted from calendar days.
type WorkItemFilter struct {
	WorkerID    *uint
	ModuleID    *uint
	ComponentID *uint
	From        *time.Time
	To          *time.Time
	Limit       int
}

func (f WorkItemFilter) apply(db *gorm.DB) *gorm.DB {
	if f.WorkerID != nil {
		db = db.Where("work_item_events.worker_id = ?", *f.WorkerID)
	}
	if f.ModuleID != nil {
		db = db.Where("work_item_events.module_id = ?", *f.ModuleID)
	}
	if f.ComponentID != nil {
		db = db.Where("work_item_events.component_id = ?", *f.ComponentID)
	}
	if f.From != nil {
		db = db.Where("work_item_events.started_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		db = db.Where("work_item_events.started_at < ?", f.To.UTC())
	}
	if f.Limit > 0 {
		db = db.Limit(f.Limit)
	}
	return db
}

// StoppageFilter narrows stoppage queries over [From, To)
type StoppageFilter struct {
	WorkerID *uint
	From     time.Time
	To       time.Time
}

func (f StoppageFilter) apply(db *gorm.DB) *gorm.DB {
	db = db.Where("stoppage_events.started_at >= ? AND stoppage_events.started_at < ?", f.From.UTC(), f.To.UTC())
	if f.WorkerID != nil {
		db = db.Where("stoppage_events.worker_id = ?", *f.WorkerID)
	}
	return db
}
