package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weld-oee/backend/config"
	"weld-oee/backend/internal/api/handler"
	"weld-oee/backend/internal/api/middleware"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/pkg/jwt"
)

// Setup builds the Gin engine. checker and limiter may be nil when Redis is
// disabled.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	checker middleware.TokenChecker,
	limiter middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	welder := middleware.RoleAuth(model.RoleWelder)
	staff := middleware.RoleAuth(model.RoleQuality, model.RoleAdmin)
	admin := middleware.RoleAuth(model.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		loginLimit := middleware.RateLimit(limiter, cfg.Server.LoginLimit.Attempts, cfg.Server.LoginLimit.Window)

		auth := v1.Group("/auth")
		{
			auth.GET("/workers", h.Auth.ListWorkers)
			auth.POST("/worker-login", loginLimit, h.Auth.WorkerLogin)
			auth.POST("/login", loginLimit, h.Auth.Login)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, checker))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// catalog, readable by every role
			authorized.GET("/modules", h.Catalog.ListModules)
			authorized.GET("/components", h.Catalog.ListComponents)
			authorized.GET("/stoppage-types", h.Catalog.ListStoppageTypes)
			authorized.POST("/components", admin, h.Catalog.CreateComponent)
			authorized.GET("/users", admin, h.User.ListUsers)

			// shop floor
			floor := authorized.Group("", welder)
			{
				floor.POST("/modules/prepare", h.Catalog.PrepareModule)
				floor.POST("/shifts/current/close", h.Shift.CloseCurrent)
				floor.POST("/work-items/start", h.Tracking.StartWorkItem)
				floor.POST("/work-items/finish", h.Tracking.FinishWorkItem)
				floor.POST("/stoppages/start", h.Tracking.StartStoppage)
				floor.POST("/stoppages/finish", h.Tracking.FinishStoppage)
				floor.GET("/tracking/active", h.Tracking.Active)
				floor.POST("/sync", h.Sync.Upload)
			}

			// welders may read their own figures; the handler pins worker_id
			authorized.GET("/reports/oee", h.Report.WorkerOEE)

			reports := authorized.Group("", staff)
			{
				reports.POST("/defects", h.Defect.Record)
				reports.GET("/reports", h.Report.Generate)
				reports.GET("/reports/top-workers", h.Report.TopWorkers)
				reports.GET("/reports/trend", h.Report.Trend)
				reports.GET("/reports/export", h.Export.ExportReport)
				reports.GET("/dashboard", h.Report.Dashboard)
			}
		}
	}

	return r
}
