package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
	pkgerrors "weld-oee/backend/pkg/errors"
	"weld-oee/backend/pkg/formula"
)

// CatalogService reference data used by the shop-floor screens
type CatalogService interface {
	ListModules(ctx context.Context) ([]model.Module, error)
	ListComponents(ctx context.Context) ([]dto.ComponentResponse, error)
	ListStoppageTypes(ctx context.Context, category string) ([]model.StoppageType, error)
	// CreateComponent rejects formulas that do not compile
	CreateComponent(ctx context.Context, actorID uint, req *dto.CreateComponentRequest) (*model.Component, error)
	// PrepareModule checks the module, resolves the order and lists the
	// components the worker can pick from
	PrepareModule(ctx context.Context, req *dto.PrepareModuleRequest) (*dto.PrepareModuleResult, error)
}

type catalogService struct {
	repo   *repository.Repository
	audit  AuditSink
	logger *zap.Logger
}

// NewCatalogService creates a CatalogService
func NewCatalogService(repo *repository.Repository, audit AuditSink, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, audit: audit, logger: logger}
}

func (s *catalogService) ListModules(ctx context.Context) ([]model.Module, error) {
	modules, err := s.repo.Catalog.ListActiveModules(ctx)
	if err != nil {
		s.logger.Error("list modules failed", zap.Error(err))
		return nil, pkgerrors.Storage("list modules", err)
	}
	return modules, nil
}

func (s *catalogService) ListComponents(ctx context.Context) ([]dto.ComponentResponse, error) {
	components, err := s.repo.Catalog.ListActiveComponents(ctx)
	if err != nil {
		s.logger.Error("list components failed", zap.Error(err))
		return nil, pkgerrors.Storage("list components", err)
	}
	return toComponentResponses(components), nil
}

func (s *catalogService) ListStoppageTypes(ctx context.Context, category string) ([]model.StoppageType, error) {
	types, err := s.repo.Catalog.ListActiveStoppageTypes(ctx, strings.TrimSpace(category))
	if err != nil {
		s.logger.Error("list stoppage types failed", zap.Error(err))
		return nil, pkgerrors.Storage("list stoppage types", err)
	}
	return types, nil
}

func (s *catalogService) CreateComponent(ctx context.Context, actorID uint, req *dto.CreateComponentRequest) (*model.Component, error) {
	component := &model.Component{
		Name:         strings.TrimSpace(req.Name),
		StandardTime: req.StandardTime,
		Formula:      strings.TrimSpace(req.Formula),
		IsActive:     true,
	}
	if component.Formula != "" {
		if _, err := formula.Compile(component.Formula); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Catalog.CreateComponent(ctx, component); err != nil {
		s.logger.Error("create component failed", zap.Error(err))
		return nil, pkgerrors.Storage("create component", err)
	}

	s.audit.Append(ctx, AuditRecord{
		ActorID:  &actorID,
		Action:   ActionComponentAdd,
		Table:    component.TableName(),
		RecordID: component.ID,
		After:    component,
		Origin:   model.OriginOnline,
	})
	return component, nil
}

func (s *catalogService) PrepareModule(ctx context.Context, req *dto.PrepareModuleRequest) (*dto.PrepareModuleResult, error) {
	number := strings.TrimSpace(req.OrderNumber)
	if number == "" {
		return nil, ErrInvalidInput
	}

	module, err := s.repo.Catalog.GetModule(ctx, req.ModuleID)
	if err != nil {
		return nil, lookup(err, notFoundf("module %d", req.ModuleID), "get module")
	}
	if !module.IsActive {
		return nil, notFoundf("module %d", req.ModuleID)
	}

	order, err := s.repo.Order.Resolve(ctx, number)
	if err != nil {
		s.logger.Error("resolve order failed", zap.String("order", number), zap.Error(err))
		return nil, pkgerrors.Storage("resolve order", err)
	}

	components, err := s.ListComponents(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.PrepareModuleResult{
		ModuleID:    module.ID,
		ModuleName:  module.Name,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Components:  components,
	}, nil
}

func toComponentResponses(components []model.Component) []dto.ComponentResponse {
	out := make([]dto.ComponentResponse, 0, len(components))
	for _, c := range components {
		resp := dto.ComponentResponse{
			ID:           c.ID,
			Name:         c.Name,
			StandardTime: c.StandardTime,
			Formula:      c.Formula,
		}
		if c.Formula != "" {
			if e, err := formula.Compile(c.Formula); err == nil {
				resp.Variable = e.Variable()
			}
		}
		out = append(out, resp)
	}
	return out
}
