package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"weld-oee/backend/internal/model"
)

// OrderRepository production order data access
type OrderRepository interface {
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	// Resolve returns the order with this number, creating it when absent.
	// Concurrent callers converge on the first inserted row.
	Resolve(ctx context.Context, number string) (*model.Order, error)
}

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepo creates an OrderRepository
func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) Resolve(ctx context.Context, number string) (*model.Order, error) {
	candidate := &model.Order{
		Number:      number,
		Description: "Order " + number,
		Status:      "active",
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "number"}},
			DoNothing: true,
		}).
		Create(candidate).Error
	if err != nil {
		return nil, err
	}
	// re-select: on conflict the candidate was not written
	return r.GetByNumber(ctx, number)
}
