package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pet-cafe/backend/config"
	"pet-cafe/backend/internal/api/handler"
	"pet-cafe/backend/internal/api/middleware"
	"pet-cafe/backend/pkg/jwt"
	"pet-cafe/backend/pkg/redis"
)

const (
	maxBodyBytes = 1 << 20

	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
//
// gatherer 为 nil 时不挂载 /metrics；rdb 为 nil 时不启用黑名单与登录限流。
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := rdb.Ping(c.Request.Context()); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", middleware.RateLimit(rdb, loginRateLimit, loginRateWindow, logger), h.Auth.Login)

		// 需要认证的路由；写操作的能力校验在 Service 层
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 团队模块
			teams := authorized.Group("/teams")
			{
				teams.GET("", h.Team.ListTeams)
				teams.POST("", h.Team.CreateTeam)
				teams.GET("/:id", h.Team.GetTeam)
				teams.PUT("/:id", h.Team.UpdateTeam)
				teams.DELETE("/:id", h.Team.DeleteTeam)

				teams.GET("/:id/members", h.Team.ListMembers)
				teams.POST("/:id/members", h.Team.AddMembers)
				teams.DELETE("/:id/members/:employee_id", h.Team.RemoveMember)
				teams.PUT("/:id/members/:employee_id/active", h.Team.SetMemberActive)

				teams.GET("/:id/work-types", h.Team.ListWorkTypes)
				teams.GET("/:id/work-shifts", h.Team.ListWorkShifts)
				teams.POST("/:id/work-shifts", h.Team.AssignWorkShifts)
				teams.DELETE("/:id/work-shifts/:shift_id", h.Team.UnassignWorkShift)

				teams.GET("/:id/shifts.ics", h.Team.ShiftsCalendar)
			}

			// 员工模块
			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Employee.ListEmployees)
				employees.POST("", h.Employee.CreateEmployee)
				employees.GET("/:id", h.Employee.GetEmployee)
				employees.PUT("/:id", h.Employee.UpdateEmployee)
				employees.DELETE("/:id", h.Employee.DeleteEmployee)
			}

			// 工作类型模块
			workTypes := authorized.Group("/work-types")
			{
				workTypes.GET("", h.WorkType.ListWorkTypes)
				workTypes.POST("", h.WorkType.CreateWorkType)
				workTypes.GET("/:id", h.WorkType.GetWorkType)
				workTypes.PUT("/:id", h.WorkType.UpdateWorkType)
				workTypes.DELETE("/:id", h.WorkType.DeleteWorkType)
			}

			// 班次模块
			workShifts := authorized.Group("/work-shifts")
			{
				workShifts.GET("", h.WorkShift.ListWorkShifts)
				workShifts.POST("", h.WorkShift.CreateWorkShift)
				workShifts.GET("/:id", h.WorkShift.GetWorkShift)
				workShifts.PUT("/:id", h.WorkShift.UpdateWorkShift)
				workShifts.DELETE("/:id", h.WorkShift.DeleteWorkShift)
			}

			// 时段模块
			slots := authorized.Group("/slots")
			{
				slots.GET("", h.Slot.ListSlots)
				slots.POST("", h.Slot.CreateSlot)
				slots.GET("/:id", h.Slot.GetSlot)
				slots.PUT("/:id", h.Slot.UpdateSlot)
				slots.DELETE("/:id", h.Slot.DeleteSlot)
			}

			// 可用性匹配
			availability := authorized.Group("/availability")
			{
				availability.POST("/match", h.Availability.Match)
				availability.POST("/export", h.Availability.Export)
			}
		}
	}

	return r
}
