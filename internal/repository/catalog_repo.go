package repository

import (
	"context"

	"gorm.io/gorm"

	"weld-oee/backend/internal/model"
)

// CatalogRepository reference data: modules, components, stoppage types
type CatalogRepository interface {
	CreateModule(ctx context.Context, module *model.Module) error
	GetModule(ctx context.Context, id uint) (*model.Module, error)
	ListActiveModules(ctx context.Context) ([]model.Module, error)

	CreateComponent(ctx context.Context, component *model.Component) error
	GetComponent(ctx context.Context, id uint) (*model.Component, error)
	ListActiveComponents(ctx context.Context) ([]model.Component, error)

	CreateStoppageType(ctx context.Context, st *model.StoppageType) error
	GetStoppageType(ctx context.Context, id uint) (*model.StoppageType, error)
	// ListActiveStoppageTypes returns active types; an empty category
	// returns all of them.
	ListActiveStoppageTypes(ctx context.Context, category string) ([]model.StoppageType, error)
}

type catalogRepo struct {
	db *gorm.DB
}

// NewCatalogRepo creates a CatalogRepository
func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

// ── Modules ──

func (r *catalogRepo) CreateModule(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *catalogRepo) GetModule(ctx context.Context, id uint) (*model.Module, error) {
	var module model.Module
	if err := r.db.WithContext(ctx).First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *catalogRepo) ListActiveModules(ctx context.Context) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, name ASC").
		Find(&modules).Error
	return modules, err
}

// ── Components ──

func (r *catalogRepo) CreateComponent(ctx context.Context, component *model.Component) error {
	return r.db.WithContext(ctx).Create(component).Error
}

func (r *catalogRepo) GetComponent(ctx context.Context, id uint) (*model.Component, error) {
	var component model.Component
	if err := r.db.WithContext(ctx).First(&component, id).Error; err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *catalogRepo) ListActiveComponents(ctx context.Context) ([]model.Component, error) {
	var components []model.Component
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&components).Error
	return components, err
}

// ── Stoppage types ──

func (r *catalogRepo) CreateStoppageType(ctx context.Context, st *model.StoppageType) error {
	return r.db.WithContext(ctx).Create(st).Error
}

func (r *catalogRepo) GetStoppageType(ctx context.Context, id uint) (*model.StoppageType, error) {
	var st model.StoppageType
	if err := r.db.WithContext(ctx).First(&st, id).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *catalogRepo) ListActiveStoppageTypes(ctx context.Context, category string) ([]model.StoppageType, error) {
	var types []model.StoppageType
	db := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		db = db.Where("category = ?", category)
	}
	err := db.Order("category ASC, name ASC").Find(&types).Error
	return types, err
}
