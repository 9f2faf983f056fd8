package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"enrollment-api/config"
	"enrollment-api/internal/api/handler"
	"enrollment-api/internal/api/middleware"
	"enrollment-api/internal/dto"
	"enrollment-api/internal/service"
	"enrollment-api/pkg/response"
)

const apiVersion = "1.0.0"

// resourceHandler 路由表对单个资源处理器的要求，由 handler.ResourceHandler[T] 实现
type resourceHandler interface {
	Resource() service.Resource
	Bind(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// Deps 路由装配依赖
// Limiter 为 nil 时不限流；Registry 为 nil 时使用独立的新注册表
type Deps struct {
	Authn    middleware.Authenticator
	Limiter  middleware.Limiter
	Registry *prometheus.Registry
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps, logger *zap.Logger) *gin.Engine {
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(reg)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("请求处理 panic", zap.Any("panic", recovered))
		response.InternalError(c, "")
		c.Abort()
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Handler())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, 20002, "Route not found")
	})

	gate := middleware.SessionAuth(deps.Authn)
	optional := middleware.OptionalSession(deps.Authn)
	var routes []dto.RouteDoc

	// ── 会话与 GitHub 登录 ──
	r.GET("/", optional, h.Auth.Home)
	r.GET("/login", middleware.RateLimit(deps.Limiter, cfg.Auth.LoginRateLimit, time.Minute, logger), h.Auth.Login)
	r.GET("/github/callback", h.Auth.Callback)
	r.GET("/logout", optional, h.Auth.Logout)
	r.GET("/me", gate, h.Auth.Me)
	routes = append(routes,
		dto.RouteDoc{Method: http.MethodGet, Path: "/", Description: "Session status"},
		dto.RouteDoc{Method: http.MethodGet, Path: "/login", Description: "Redirect to GitHub login"},
		dto.RouteDoc{Method: http.MethodGet, Path: "/github/callback", Description: "GitHub OAuth callback"},
		dto.RouteDoc{Method: http.MethodGet, Path: "/logout", Description: "End the current session"},
		dto.RouteDoc{Method: http.MethodGet, Path: "/me", Auth: true, Description: "Current user"},
	)

	// ── 资源路由表 ──
	// 每个资源注册五条路由，写操作依次经过会话门禁、请求体校验、处理器
	table := []resourceHandler{
		h.CourseInstances,
		h.Courses,
		h.Enrollments,
		h.Students,
		h.Teachers,
	}
	schemas := make(map[string][]string, len(table))
	for _, rh := range table {
		res := rh.Resource()
		base := "/" + res.Name
		item := base + "/:id"

		g := r.Group(base)
		{
			g.GET("", rh.List)
			g.GET("/:id", rh.Get)
			g.POST("", gate, rh.Bind, rh.Create)
			g.PUT("/:id", gate, rh.Bind, rh.Update)
			g.DELETE("/:id", gate, rh.Delete)
		}

		routes = append(routes,
			dto.RouteDoc{Method: http.MethodGet, Path: base, Description: "List " + res.Name},
			dto.RouteDoc{Method: http.MethodGet, Path: item, Description: "Get " + res.Label + " by id"},
			dto.RouteDoc{Method: http.MethodPost, Path: base, Auth: true, Description: "Create " + res.Label},
			dto.RouteDoc{Method: http.MethodPut, Path: item, Auth: true, Description: "Replace " + res.Label},
			dto.RouteDoc{Method: http.MethodDelete, Path: item, Auth: true, Description: "Delete " + res.Label},
		)
		schemas[res.Name] = res.Schema.Names()
	}

	// ── 运维 ──
	r.GET("/health", h.System.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/api-docs", h.System.Docs)
	routes = append(routes,
		dto.RouteDoc{Method: http.MethodGet, Path: "/health", Description: "Liveness and dependency checks"},
		dto.RouteDoc{Method: http.MethodGet, Path: "/metrics", Description: "Prometheus metrics"},
		dto.RouteDoc{Method: http.MethodGet, Path: "/api-docs", Description: "This document"},
	)

	h.System.SetDoc(dto.APIDoc{
		Title:   "Enrollment API",
		Version: apiVersion,
		Routes:  routes,
		Schemas: schemas,
	})

	return r
}
