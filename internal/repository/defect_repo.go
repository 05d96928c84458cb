package repository

import (
	"context"

	"gorm.io/gorm"

	"weld-oee/backend/internal/model"
)

// DefectRepository defect data access
type DefectRepository interface {
	Create(ctx context.Context, defect *model.Defect) error
	// SumAreaByWorkItems totals defect area recorded against the given
	// work items.
	SumAreaByWorkItems(ctx context.Context, workItemIDs []uint) (float64, error)
}

type defectRepo struct {
	db *gorm.DB
}

// NewDefectRepo creates a DefectRepository
func NewDefectRepo(db *gorm.DB) DefectRepository {
	return &defectRepo{db: db}
}

func (r *defectRepo) Create(ctx context.Context, defect *model.Defect) error {
	return r.db.WithContext(ctx).Create(defect).Error
}

func (r *defectRepo) SumAreaByWorkItems(ctx context.Context, workItemIDs []uint) (float64, error) {
	if len(workItemIDs) == 0 {
		return 0, nil
	}
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.Defect{}).
		Select("COALESCE(SUM(defect_area), 0)").
		Where("work_item_event_id IN ?", workItemIDs).
		Scan(&total).Error
	return total, err
}
