package repository

import (
	"context"

	"gorm.io/gorm"

	"weld-oee/backend/internal/model"
)

// WorkerRepository worker data access
type WorkerRepository interface {
	Create(ctx context.Context, worker *model.Worker) error
	GetByID(ctx context.Context, id uint) (*model.Worker, error)
	ListActive(ctx context.Context) ([]model.Worker, error)
	CountActive(ctx context.Context) (int64, error)
	SetActive(ctx context.Context, id uint, active bool) error
	ListByUserIDs(ctx context.Context, userIDs []uint) ([]model.Worker, error)
}

type workerRepo struct {
	db *gorm.DB
}

// NewWorkerRepo creates a WorkerRepository
func NewWorkerRepo(db *gorm.DB) WorkerRepository {
	return &workerRepo{db: db}
}

func (r *workerRepo) Create(ctx context.Context, worker *model.Worker) error {
	return r.db.WithContext(ctx).Create(worker).Error
}

func (r *workerRepo) GetByID(ctx context.Context, id uint) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&worker, id).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *workerRepo) ListActive(ctx context.Context) ([]model.Worker, error) {
	var workers []model.Worker
	err := r.db.WithContext(ctx).
		Select("workers.*").
		Preload("User").
		Joins("JOIN users ON users.id = workers.user_id").
		Where("workers.is_active = ?", true).
		Order("users.full_name ASC").
		Find(&workers).Error
	return workers, err
}

func (r *workerRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Worker{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *workerRepo) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Worker{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *workerRepo) ListByUserIDs(ctx context.Context, userIDs []uint) ([]model.Worker, error) {
	var workers []model.Worker
	if len(userIDs) == 0 {
		return workers, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&workers).Error
	return workers, err
}
