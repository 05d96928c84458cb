package service

import (
	"context"

	"go.uber.org/zap"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/repository"
	pkgerrors "weld-oee/backend/pkg/errors"
)

// UserService read-only view of logins for administrators
type UserService interface {
	// List users joined with their welder status. role "" lists everyone.
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserListItem, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserListItem, error) {
	users, err := s.repo.User.List(ctx, req.Role)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, pkgerrors.Storage("list users", err)
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	workers, err := s.repo.Worker.ListByUserIDs(ctx, ids)
	if err != nil {
		s.logger.Error("list workers of users failed", zap.Error(err))
		return nil, pkgerrors.Storage("list workers", err)
	}
	byUser := make(map[uint]int, len(workers))
	for i, w := range workers {
		byUser[w.UserID] = i
	}

	result := make([]dto.UserListItem, 0, len(users))
	for _, u := range users {
		item := dto.UserListItem{
			ID:          u.ID,
			Username:    u.Username,
			FullName:    u.FullName,
			Role:        u.Role,
			IsActive:    u.IsActive,
			LastLoginAt: u.LastLoginAt,
		}
		if i, ok := byUser[u.ID]; ok {
			w := workers[i]
			item.WorkerID = &w.ID
			item.WorkerActive = &w.IsActive
		}
		result = append(result, item)
	}
	return result, nil
}
