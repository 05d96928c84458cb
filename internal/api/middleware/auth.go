package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"weld-oee/backend/pkg/jwt"
	"weld-oee/backend/pkg/response"
)

// Context keys set by JWTAuth
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxWorkerID = "worker_id"
	CtxShiftID  = "shift_id"
	CtxTokenJTI = "token_jti"
	CtxTokenExp = "token_exp"
)

// TokenChecker reports revoked tokens. pkg/redis.Client satisfies it.
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth validates the Bearer access token and injects the identity.
// blacklist may be nil when Redis is disabled.
func JWTAuth(jwtMgr *jwt.Manager, blacklist TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token invalid or expired")
			c.Abort()
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			// Redis errors fail open, like a disabled Redis
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "token revoked")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxWorkerID, claims.WorkerID)
		c.Set(CtxShiftID, claims.ShiftID)
		c.Set(CtxTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleAuth allows the request only for one of the given roles
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "access denied")
		c.Abort()
	}
}
