package handler

import (
	"github.com/gin-gonic/gin"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/service"
	"weld-oee/backend/pkg/response"
)

// CatalogHandler modules, components and stoppage types
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler creates a CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListModules GET /api/v1/modules
func (h *CatalogHandler) ListModules(c *gin.Context) {
	modules, err := h.catalogSvc.ListModules(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, modules)
}

// ListComponents GET /api/v1/components
func (h *CatalogHandler) ListComponents(c *gin.Context) {
	components, err := h.catalogSvc.ListComponents(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, components)
}

// ListStoppageTypes GET /api/v1/stoppage-types?category=
func (h *CatalogHandler) ListStoppageTypes(c *gin.Context) {
	types, err := h.catalogSvc.ListStoppageTypes(c.Request.Context(), c.Query("category"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, types)
}

// CreateComponent POST /api/v1/components
func (h *CatalogHandler) CreateComponent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	component, err := h.catalogSvc.CreateComponent(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, component)
}

// PrepareModule POST /api/v1/modules/prepare
func (h *CatalogHandler) PrepareModule(c *gin.Context) {
	var req dto.PrepareModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.catalogSvc.PrepareModule(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}
