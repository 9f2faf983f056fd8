package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"enrollment-api/internal/dto"
	"enrollment-api/internal/service"
	"enrollment-api/internal/validation"
	pkgerrors "enrollment-api/pkg/errors"
	"enrollment-api/pkg/response"
)

// ResourceHandler 单个实体的 HTTP 处理器，五类实体共用
type ResourceHandler[T any] struct {
	svc    service.ResourceService[T]
	res    service.Resource
	logger *zap.Logger
}

// NewResourceHandler 创建 ResourceHandler
func NewResourceHandler[T any](svc service.ResourceService[T], logger *zap.Logger) *ResourceHandler[T] {
	res := svc.Resource()
	return &ResourceHandler[T]{
		svc:    svc,
		res:    res,
		logger: logger.With(zap.String("resource", res.Name)),
	}
}

// Resource 资源定义
func (h *ResourceHandler[T]) Resource() service.Resource {
	return h.res
}

// Bind 请求体解码、归一化与字段校验，通过后写入上下文
// 挂在 Create / Update 之前，失败时中止链路，Service 不会被调用
// 单条记录路由先检查 id 形态，非法 id 优先于字段错误返回
func (h *ResourceHandler[T]) Bind(c *gin.Context) {
	if id, ok := c.Params.Get("id"); ok && !primitive.IsValidObjectID(id) {
		response.BadRequest(c, 20001, "Invalid id")
		c.Abort()
		return
	}

	raw, err := validation.Decode(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Request body too large")
		} else {
			response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "Validation failed", err.Error())
		}
		c.Abort()
		return
	}

	p, errs := h.res.Prepare(raw)
	if errs != nil {
		response.ValidationFailed(c, errs)
		c.Abort()
		return
	}

	c.Set(ctxPayload, p)
	c.Next()
}

// List 列出全部记录
// GET /{resource}
func (h *ResourceHandler[T]) List(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, docs)
}

// Get 按 ID 获取记录
// GET /{resource}/:id
func (h *ResourceHandler[T]) Get(c *gin.Context) {
	doc, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, doc)
}

// Create 创建记录
// POST /{resource}
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	p, ok := MustGetPayload(c)
	if !ok {
		return
	}

	id, err := h.svc.Create(c.Request.Context(), p)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.Created(c, dto.IDResponse{ID: id})
}

// Update 整体替换记录
// PUT /{resource}/:id
func (h *ResourceHandler[T]) Update(c *gin.Context) {
	p, ok := MustGetPayload(c)
	if !ok {
		return
	}

	doc, err := h.svc.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, doc)
}

// Delete 删除记录，目标不存在同样返回成功
// DELETE /{resource}/:id
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleResourceError 统一处理资源模块业务错误
func (h *ResourceHandler[T]) handleResourceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidID):
		response.BadRequest(c, 20001, "Invalid id")
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, 20002, h.res.Label+" not found")
	case errors.Is(err, pkgerrors.ErrConflict):
		response.BadRequest(c, 20003, h.res.Label+" already exists")
	default:
		h.logger.Error("请求处理失败", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c, err.Error())
	}
}
