package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"weld-oee/backend/internal/model"
)

// UserRepository user data access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	// List every user, optionally restricted to one role, by full name
	List(ctx context.Context, role string) ([]model.User, error)
}

// userRepo GORM implementation of UserRepository
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login_at", at.UTC()).Error
}

func (r *userRepo) List(ctx context.Context, role string) ([]model.User, error) {
	var users []model.User
	db := r.db.WithContext(ctx).Model(&model.User{})
	if role != "" {
		db = db.Where("role = ?", role)
	}
	err := db.Order("full_name ASC").Order("id ASC").Find(&users).Error
	return users, err
}
