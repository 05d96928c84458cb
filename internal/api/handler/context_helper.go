package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"weld-oee/backend/internal/api/middleware"
	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/pkg/response"
)

// MustGetUserID reads user_id set by JWTAuth. On failure it writes a 401
// and the caller should return.
func MustGetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, 10002, "not authenticated")
		return 0, false
	}
	return id, true
}

// MustGetWorkerSession builds the session of a shop-floor token. Staff
// tokens carry no worker or shift and are refused.
func MustGetWorkerSession(c *gin.Context) (dto.WorkerSession, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return dto.WorkerSession{}, false
	}
	workerID, _ := c.Get(middleware.CtxWorkerID)
	shiftID, _ := c.Get(middleware.CtxShiftID)
	wid, _ := workerID.(uint)
	sid, _ := shiftID.(uint)
	if wid == 0 || sid == 0 {
		response.Forbidden(c, 10003, "a worker session is required")
		return dto.WorkerSession{}, false
	}
	return dto.WorkerSession{
		UserID:    userID,
		WorkerID:  wid,
		ShiftID:   sid,
		Origin:    model.OriginOnline,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}, true
}

// requestMeta client details for the audit log
func requestMeta(c *gin.Context) dto.RequestMeta {
	return dto.RequestMeta{ClientIP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

// tokenExpiry exp claim of the current token, zero when absent
func tokenExpiry(c *gin.Context) time.Time {
	v, _ := c.Get(middleware.CtxTokenExp)
	exp, _ := v.(time.Time)
	return exp
}
