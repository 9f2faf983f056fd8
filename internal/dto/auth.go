package dto

// ── 认证模块 DTO ──

// CurrentUser 当前登录用户
type CurrentUser struct {
	ID        string `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name,omitempty"`
	SessionID string `json:"-"`
}

// SessionResponse GitHub 回调成功后签发的会话
type SessionResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expires_in"` // 会话有效期（秒）
	User      CurrentUser `json:"user"`
}
