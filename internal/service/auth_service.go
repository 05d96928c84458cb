package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"weld-oee/backend/config"
	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
	pkgerrors "weld-oee/backend/pkg/errors"
	"weld-oee/backend/pkg/jwt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenBlacklist revokes tokens before they expire
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService authentication
type AuthService interface {
	// WorkerLogin checks the PIN, opens today's shift and issues a token
	// bound to that shift
	WorkerLogin(ctx context.Context, req *dto.WorkerLoginRequest, meta dto.RequestMeta, now time.Time) (*dto.TokenResponse, error)
	// Login staff (admin, quality) username/password login
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	ListWorkers(ctx context.Context) ([]dto.WorkerOption, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	shifts    ShiftService
	blacklist TokenBlacklist
	audit     AuditSink
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil when Redis
// is disabled; logout then only discards the token client-side.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	shifts ShiftService,
	blacklist TokenBlacklist,
	audit AuditSink,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		shifts:    shifts,
		blacklist: blacklist,
		audit:     audit,
		logger:    logger,
	}
}

func (s *authService) WorkerLogin(ctx context.Context, req *dto.WorkerLoginRequest, meta dto.RequestMeta, now time.Time) (*dto.TokenResponse, error) {
	// 1. worker and linked user
	worker, err := s.repo.Worker.GetByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("get worker failed", zap.Error(err))
		return nil, pkgerrors.Storage("get worker", err)
	}
	if worker.User == nil || !worker.User.IsActive {
		return nil, ErrInvalidCredentials
	}

	// 2. PIN (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(worker.PinHash), []byte(req.PIN)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. shift
	shift, err := s.shifts.Open(ctx, worker.ID, now, meta)
	if err != nil {
		return nil, err
	}

	// 4. token
	token, err := s.jwtMgr.GenerateAccessToken(jwt.Identity{
		UserID:   worker.UserID,
		WorkerID: worker.ID,
		ShiftID:  shift.ID,
		Role:     model.RoleWelder,
	})
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}

	if err := s.repo.User.UpdateLastLogin(ctx, worker.UserID, normalize(now)); err != nil {
		s.logger.Warn("update last login failed", zap.Uint("user_id", worker.UserID), zap.Error(err))
	}

	userID := worker.UserID
	s.audit.Append(ctx, AuditRecord{
		ActorID:   &userID,
		Action:    ActionWorkerLogin,
		Table:     worker.TableName(),
		RecordID:  worker.ID,
		After:     map[string]interface{}{"shift_id": shift.ID},
		Origin:    model.OriginOnline,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	})

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.TTL().Seconds()),
		User: dto.UserResponse{
			ID:       worker.User.ID,
			Username: worker.User.Username,
			FullName: worker.User.FullName,
			Role:     model.RoleWelder,
			WorkerID: worker.ID,
		},
		Shift: toShiftResponse(shift),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("get user failed", zap.Error(err))
		return nil, pkgerrors.Storage("get user", err)
	}
	// welders sign in with their PIN on the shop floor
	if !user.IsActive || user.Role == model.RoleWelder {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtMgr.GenerateAccessToken(jwt.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	if err := s.repo.User.UpdateLastLogin(ctx, user.ID, normalize(time.Now())); err != nil {
		s.logger.Warn("update last login failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.TTL().Seconds()),
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			FullName: user.FullName,
			Role:     user.Role,
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("blacklist token failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) ListWorkers(ctx context.Context) ([]dto.WorkerOption, error) {
	workers, err := s.repo.Worker.ListActive(ctx)
	if err != nil {
		s.logger.Error("list workers failed", zap.Error(err))
		return nil, pkgerrors.Storage("list workers", err)
	}
	options := make([]dto.WorkerOption, 0, len(workers))
	for i := range workers {
		options = append(options, dto.WorkerOption{ID: workers[i].ID, Name: workers[i].DisplayName()})
	}
	return options, nil
}

func toShiftResponse(shift *model.Shift) *dto.ShiftResponse {
	return &dto.ShiftResponse{
		ID:             shift.ID,
		WorkerID:       shift.WorkerID,
		ShiftDate:      shift.ShiftDate.Format(dateLayout),
		StartedAt:      shift.StartedAt,
		EndedAt:        shift.EndedAt,
		AvailableHours: shift.AvailableHours,
		Status:         shift.Status,
	}
}
