package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"weld-oee/backend/internal/model"
)

// CategoryTotal finished stoppages aggregated by category
type CategoryTotal struct {
	Category     string  `json:"category"`
	Count        int64   `json:"count"`
	TotalMinutes float64 `json:"total_minutes"`
}

// StoppageRepository stoppage event data access
type StoppageRepository interface {
	Create(ctx context.Context, event *model.StoppageEvent) error
	GetByID(ctx context.Context, id uint) (*model.StoppageEvent, error)
	GetOpenByWorker(ctx context.Context, workerID uint) (*model.StoppageEvent, error)
	GetOpenByIDAndWorker(ctx context.Context, id, workerID uint) (*model.StoppageEvent, error)
	Finish(ctx context.Context, id uint, endedAt time.Time, durationMinutes float64) (int64, error)
	// SumCountingMinutes totals durations of finished stoppages whose type
	// counts against availability.
	SumCountingMinutes(ctx context.Context, filter StoppageFilter) (float64, error)
	SummarizeByCategory(ctx context.Context, filter StoppageFilter) ([]CategoryTotal, error)
	ListFinished(ctx context.Context, filter StoppageFilter) ([]model.StoppageEvent, error)
	CountFinished(ctx context.Context, filter StoppageFilter) (int64, error)
}

type stoppageRepo struct {
	db *gorm.DB
}

// NewStoppageRepo creates a StoppageRepository
func NewStoppageRepo(db *gorm.DB) StoppageRepository {
	return &stoppageRepo{db: db}
}

func (r *stoppageRepo) Create(ctx context.Context, event *model.StoppageEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *stoppageRepo) GetByID(ctx context.Context, id uint) (*model.StoppageEvent, error) {
	var event model.StoppageEvent
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *stoppageRepo) GetOpenByWorker(ctx context.Context, workerID uint) (*model.StoppageEvent, error) {
	var event model.StoppageEvent
	err := r.db.WithContext(ctx).
		Preload("StoppageType").
		Where("worker_id = ? AND ended_at IS NULL", workerID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *stoppageRepo) GetOpenByIDAndWorker(ctx context.Context, id, workerID uint) (*model.StoppageEvent, error) {
	var event model.StoppageEvent
	err := r.db.WithContext(ctx).
		Where("id = ? AND worker_id = ? AND ended_at IS NULL", id, workerID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *stoppageRepo) Finish(ctx context.Context, id uint, endedAt time.Time, durationMinutes float64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.StoppageEvent{}).
		Where("id = ? AND ended_at IS NULL", id).
		Updates(map[string]interface{}{
			"ended_at":         endedAt.UTC(),
			"duration_minutes": durationMinutes,
		})
	return result.RowsAffected, result.Error
}

func (r *stoppageRepo) SumCountingMinutes(ctx context.Context, filter StoppageFilter) (float64, error) {
	var total float64
	db := r.db.WithContext(ctx).
		Table("stoppage_events").
		Select("COALESCE(SUM(stoppage_events.duration_minutes), 0)").
		Joins("JOIN stoppage_types ON stoppage_types.id = stoppage_events.stoppage_type_id").
		Where("stoppage_events.ended_at IS NOT NULL").
		Where("stoppage_types.counts_against_availability = ?", true)
	err := filter.apply(db).Scan(&total).Error
	return total, err
}

func (r *stoppageRepo) SummarizeByCategory(ctx context.Context, filter StoppageFilter) ([]CategoryTotal, error) {
	var totals []CategoryTotal
	db := r.db.WithContext(ctx).
		Table("stoppage_events").
		Select("stoppage_types.category AS category, COUNT(*) AS count, " +
			"COALESCE(SUM(stoppage_events.duration_minutes), 0) AS total_minutes").
		Joins("JOIN stoppage_types ON stoppage_types.id = stoppage_events.stoppage_type_id").
		Where("stoppage_events.ended_at IS NOT NULL")
	err := filter.apply(db).
		Group("stoppage_types.category").
		Order("stoppage_types.category ASC").
		Scan(&totals).Error
	return totals, err
}

func (r *stoppageRepo) ListFinished(ctx context.Context, filter StoppageFilter) ([]model.StoppageEvent, error) {
	var events []model.StoppageEvent
	db := r.db.WithContext(ctx).
		Preload("StoppageType").
		Where("stoppage_events.ended_at IS NOT NULL")
	err := filter.apply(db).
		Order("stoppage_events.started_at DESC, stoppage_events.id DESC").
		Find(&events).Error
	return events, err
}

func (r *stoppageRepo) CountFinished(ctx context.Context, filter StoppageFilter) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.StoppageEvent{}).
		Where("stoppage_events.ended_at IS NOT NULL")
	err := filter.apply(db).Count(&count).Error
	return count, err
}
