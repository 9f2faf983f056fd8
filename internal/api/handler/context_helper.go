package handler

import (
	"github.com/gin-gonic/gin"

	"enrollment-api/internal/api/middleware"
	"enrollment-api/internal/dto"
	"enrollment-api/internal/validation"
	"enrollment-api/pkg/response"
)

// 会话键由 middleware 写入
const (
	ctxCurrentUser  = middleware.CtxCurrentUser
	ctxSessionToken = middleware.CtxSessionToken
	ctxPayload      = "payload"
)

// CurrentUser 读取会话中间件注入的当前用户，匿名请求返回 false
func CurrentUser(c *gin.Context) (*dto.CurrentUser, bool) {
	v, exists := c.Get(ctxCurrentUser)
	if !exists {
		return nil, false
	}
	u, ok := v.(*dto.CurrentUser)
	return u, ok && u != nil
}

// MustGetCurrentUser 从 Gin 上下文中安全提取当前用户。
// 未注入时写入 401 响应，调用方应在 ok=false 时直接 return。
func MustGetCurrentUser(c *gin.Context) (*dto.CurrentUser, bool) {
	u, ok := CurrentUser(c)
	if !ok {
		response.Unauthorized(c, 10002, "Authentication required")
		return nil, false
	}
	return u, true
}

// MustGetPayload 提取校验步骤写入的 Payload。
// 路由未挂载 Bind 时属于装配错误，返回 500。
func MustGetPayload(c *gin.Context) (validation.Payload, bool) {
	v, exists := c.Get(ctxPayload)
	if !exists {
		response.InternalError(c, "payload not bound")
		return nil, false
	}
	p, ok := v.(validation.Payload)
	if !ok {
		response.InternalError(c, "payload not bound")
		return nil, false
	}
	return p, true
}

func sessionToken(c *gin.Context) string {
	return c.GetString(ctxSessionToken)
}
