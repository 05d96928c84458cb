package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"weld-oee/backend/internal/api/middleware"
	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/service"
	"weld-oee/backend/pkg/response"
)

// AuthHandler authentication endpoints
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// WorkerLogin PIN login that also opens today's shift
// POST /api/v1/auth/worker-login
func (h *AuthHandler) WorkerLogin(c *gin.Context) {
	var req dto.WorkerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.WorkerLogin(c.Request.Context(), &req, requestMeta(c), time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Login staff login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Logout revokes the current token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.CtxTokenJTI)
	if err := h.authSvc.Logout(c.Request.Context(), jti, tokenExpiry(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListWorkers active workers for the login picker
// GET /api/v1/auth/workers
func (h *AuthHandler) ListWorkers(c *gin.Context) {
	workers, err := h.authSvc.ListWorkers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, workers)
}
