package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"enrollment-api/config"
	"enrollment-api/internal/api/middleware"
	"enrollment-api/internal/service"
	"enrollment-api/pkg/response"
)

const (
	// SessionCookie 会话 Cookie 名
	SessionCookie = middleware.SessionCookie
	stateCookie   = "oauth_state"
	stateTTL      = 10 * time.Minute
)

// AuthHandler GitHub 登录模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	cookie  config.CookieConfig
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, cfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		cookie:  cfg.Cookie,
	}
}

// Home 登录状态
// GET /
func (h *AuthHandler) Home(c *gin.Context) {
	if u, ok := CurrentUser(c); ok {
		c.String(http.StatusOK, "Logged in as %s", u.Login)
		return
	}
	c.String(http.StatusOK, "Logged Out")
}

// Login 跳转 GitHub 授权页
// GET /login
func (h *AuthHandler) Login(c *gin.Context) {
	state := uuid.New().String()

	url, err := h.authSvc.LoginURL(state)
	if err != nil {
		if errors.Is(err, service.ErrOAuthDisabled) {
			response.Error(c, http.StatusServiceUnavailable, 10003, "GitHub login is not configured")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	h.setCookie(c, stateCookie, state, int(stateTTL.Seconds()))
	c.Redirect(http.StatusFound, url)
}

// Callback GitHub 授权回调
// GET /github/callback
func (h *AuthHandler) Callback(c *gin.Context) {
	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		response.Unauthorized(c, 10002, "Invalid OAuth state")
		return
	}
	h.setCookie(c, stateCookie, "", -1)

	code := c.Query("code")
	if code == "" {
		response.Unauthorized(c, 10002, "Missing authorization code")
		return
	}

	sess, err := h.authSvc.CompleteLogin(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOAuthExchange):
			response.Unauthorized(c, 10002, "GitHub authorization failed")
		case errors.Is(err, service.ErrOAuthDisabled):
			response.Error(c, http.StatusServiceUnavailable, 10003, "GitHub login is not configured")
		default:
			response.InternalError(c, err.Error())
		}
		return
	}

	h.setCookie(c, SessionCookie, sess.Token, sess.ExpiresIn)
	c.Redirect(http.StatusFound, "/")
}

// Logout 注销会话
// GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context(), sessionToken(c)); err != nil {
		// 会话存储失败不阻断登出，Cookie 仍然清除
		_ = c.Error(err)
	}

	h.setCookie(c, SessionCookie, "", -1)
	c.Redirect(http.StatusFound, "/")
}

// Me 当前登录用户
// GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := MustGetCurrentUser(c)
	if !ok {
		return
	}

	response.OK(c, u)
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(parseSameSite(h.cookie.SameSite))
	c.SetCookie(name, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

// parseSameSite 大小写不敏感，未知取值按 Lax 处理（Config.Validate 已拒绝）
func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
