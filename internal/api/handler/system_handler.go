package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"enrollment-api/internal/dto"
	"enrollment-api/pkg/response"
)

// Pinger 可探活的外部依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler 健康检查与接口文档
type SystemHandler struct {
	deps map[string]Pinger
	doc  dto.APIDoc
}

// NewSystemHandler 创建 SystemHandler，deps 为依赖名到探活对象的映射
func NewSystemHandler(deps map[string]Pinger) *SystemHandler {
	return &SystemHandler{deps: deps}
}

// SetDoc 由路由装配完成后写入路由表
func (h *SystemHandler) SetDoc(doc dto.APIDoc) {
	h.doc = doc
}

// Health 健康检查
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	result := dto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			result.Status = "degraded"
			result.Checks[name] = err.Error()
			continue
		}
		result.Checks[name] = "ok"
	}

	if result.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Code:    50001,
			Message: "Service degraded",
			Data:    result,
		})
		return
	}
	response.OK(c, result)
}

// Docs 接口文档
// GET /api-docs
func (h *SystemHandler) Docs(c *gin.Context) {
	response.OK(c, h.doc)
}
