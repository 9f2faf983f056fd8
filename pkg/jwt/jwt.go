package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"enrollment-api/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

const issuer = "enrollment-api"

// Claims 会话 Token 声明，ID(jti) 即会话 ID
type Claims struct {
	UserID string `json:"user_id"` // GitHub 用户 ID
	Login  string `json:"login"`   // GitHub 登录名
	jwtv5.RegisteredClaims
}

// Manager 会话 Token 管理器
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager 创建会话 Token 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.SessionSecret),
		ttl:    cfg.SessionTTL,
	}
}

// TTL 会话有效期
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// GenerateSessionToken 签发会话 Token，返回 Token 与会话 ID
func (m *Manager) GenerateSessionToken(userID, login string) (string, string, error) {
	now := time.Now()
	sessionID := uuid.New().String()
	claims := Claims{
		UserID: userID,
		Login:  login,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
			Issuer:    issuer,
		},
	}

	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", err
	}
	return token, sessionID, nil
}

// ParseToken 解析并验证 Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
