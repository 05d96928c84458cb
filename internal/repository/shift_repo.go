package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"weld-oee/backend/internal/model"
)

// ShiftRepository shift data access
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.Shift) error
	GetByID(ctx context.Context, id uint) (*model.Shift, error)
	GetActiveByWorker(ctx context.Context, workerID uint) (*model.Shift, error)
	// Finish closes an active shift. Returns the rows affected; zero means
	// the shift was not active any more.
	Finish(ctx context.Context, id uint, endedAt time.Time) (int64, error)
	// SumAvailableHours totals available hours of shifts dated within
	// [fromDate, toDate]. A nil workerID sums every worker.
	SumAvailableHours(ctx context.Context, workerID *uint, fromDate, toDate time.Time) (float64, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo creates a ShiftRepository
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) Create(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepo) GetByID(ctx context.Context, id uint) (*model.Shift, error) {
	var shift model.Shift
	if err := r.db.WithContext(ctx).First(&shift, id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) GetActiveByWorker(ctx context.Context, workerID uint) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND status = ?", workerID, model.ShiftActive).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) Finish(ctx context.Context, id uint, endedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("id = ? AND status = ?", id, model.ShiftActive).
		Updates(map[string]interface{}{
			"ended_at": endedAt.UTC(),
			"status":   model.ShiftFinished,
		})
	return result.RowsAffected, result.Error
}

func (r *shiftRepo) SumAvailableHours(ctx context.Context, workerID *uint, fromDate, toDate time.Time) (float64, error) {
	var total float64
	db := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Select("COALESCE(SUM(available_hours), 0)").
		Where("shift_date >= ? AND shift_date <= ?", fromDate.UTC(), toDate.UTC())
	if workerID != nil {
		db = db.Where("worker_id = ?", *workerID)
	}
	err := db.Scan(&total).Error
	return total, err
}

func (r *shiftRepo) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_date = ?", date.UTC()).
		Count(&count).Error
	return count, err
}
