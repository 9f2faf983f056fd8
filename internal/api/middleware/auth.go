package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"enrollment-api/internal/dto"
	"enrollment-api/pkg/response"
)

// 会话相关的上下文键与 Cookie 名，handler 包共用
const (
	CtxCurrentUser  = "current_user"
	CtxSessionToken = "session_token"
	SessionCookie   = "session"
)

// Authenticator 会话 Token 校验，由 service.AuthService 实现
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*dto.CurrentUser, error)
}

// SessionAuth 会话认证中间件（写操作门禁）
// 从 session Cookie 或 Authorization: Bearer <token> 中提取会话 Token
// 校验失败直接 401，后续的字段校验与业务处理不会执行
func SessionAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, 10002, "Authentication required")
			c.Abort()
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, 10002, "Session invalid or expired")
			c.Abort()
			return
		}

		setSession(c, user, token)
		c.Next()
	}
}

// OptionalSession 可选会话中间件
// 携带有效会话时注入当前用户，否则按匿名请求放行
func OptionalSession(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			c.Set(CtxSessionToken, token)
			if user, err := authn.Authenticate(c.Request.Context(), token); err == nil {
				setSession(c, user, token)
			}
		}
		c.Next()
	}
}

func setSession(c *gin.Context, user *dto.CurrentUser, token string) {
	c.Set(CtxCurrentUser, user)
	c.Set(CtxSessionToken, token)
}

func currentLogin(c *gin.Context) string {
	v, ok := c.Get(CtxCurrentUser)
	if !ok {
		return ""
	}
	if u, ok := v.(*dto.CurrentUser); ok && u != nil {
		return u.Login
	}
	return ""
}

func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return v
	}
	return ""
}
