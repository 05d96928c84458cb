package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"weld-oee/backend/internal/model"
)

// WorkItemRepository work-item event data access
type WorkItemRepository interface {
	Create(ctx context.Context, event *model.WorkItemEvent) error
	GetByID(ctx context.Context, id uint) (*model.WorkItemEvent, error)
	GetOpenByWorker(ctx context.Context, workerID uint) (*model.WorkItemEvent, error)
	GetOpenByIDAndWorker(ctx context.Context, id, workerID uint) (*model.WorkItemEvent, error)
	// Finish writes the end of an open work item. Returns rows affected;
	// zero means it was already finished.
	Finish(ctx context.Context, id uint, endedAt time.Time, actual, efficiency float64) (int64, error)
	// ListFinished returns finished work items, newest start first, with
	// worker, module, component and order loaded.
	ListFinished(ctx context.Context, filter WorkItemFilter) ([]model.WorkItemEvent, error)
	CountStarted(ctx context.Context, from, to time.Time) (int64, error)
}

type workItemRepo struct {
	db *gorm.DB
}

// NewWorkItemRepo creates a WorkItemRepository
func NewWorkItemRepo(db *gorm.DB) WorkItemRepository {
	return &workItemRepo{db: db}
}

func (r *workItemRepo) Create(ctx context.Context, event *model.WorkItemEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *workItemRepo) GetByID(ctx context.Context, id uint) (*model.WorkItemEvent, error) {
	var event model.WorkItemEvent
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *workItemRepo) GetOpenByWorker(ctx context.Context, workerID uint) (*model.WorkItemEvent, error) {
	var event model.WorkItemEvent
	err := r.db.WithContext(ctx).
		Preload("Component").
		Preload("Module").
		Where("worker_id = ? AND ended_at IS NULL", workerID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *workItemRepo) GetOpenByIDAndWorker(ctx context.Context, id, workerID uint) (*model.WorkItemEvent, error) {
	var event model.WorkItemEvent
	err := r.db.WithContext(ctx).
		Where("id = ? AND worker_id = ? AND ended_at IS NULL", id, workerID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *workItemRepo) Finish(ctx context.Context, id uint, endedAt time.Time, actual, efficiency float64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.WorkItemEvent{}).
		Where("id = ? AND ended_at IS NULL", id).
		Updates(map[string]interface{}{
			"ended_at":    endedAt.UTC(),
			"actual_time": actual,
			"efficiency":  efficiency,
		})
	return result.RowsAffected, result.Error
}

func (r *workItemRepo) ListFinished(ctx context.Context, filter WorkItemFilter) ([]model.WorkItemEvent, error) {
	var events []model.WorkItemEvent
	db := r.db.WithContext(ctx).
		Preload("Worker.User").
		Preload("Module").
		Preload("Component").
		Preload("Order").
		Where("work_item_events.ended_at IS NOT NULL")
	err := filter.apply(db).
		Order("work_item_events.started_at DESC, work_item_events.id DESC").
		Find(&events).Error
	return events, err
}

func (r *workItemRepo) CountStarted(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WorkItemEvent{}).
		Where("started_at >= ? AND started_at < ?", from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}
