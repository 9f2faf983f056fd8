package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"enrollment-api/internal/dto"
	"enrollment-api/internal/oauth"
	pkgerrors "enrollment-api/pkg/errors"
	"enrollment-api/pkg/jwt"
)

var (
	// ErrOAuthDisabled 未配置 GitHub OAuth 凭据
	ErrOAuthDisabled = errors.New("oauth login is not configured")
	// ErrOAuthExchange 授权码交换或用户信息获取失败
	ErrOAuthExchange = errors.New("oauth exchange failed")
)

// SessionStore 服务端会话存储
// 由 pkg/redis.Client 实现；为 nil 时会话仅由签名 Token 自证
type SessionStore interface {
	SaveSession(ctx context.Context, sessionID, login string, ttl time.Duration) error
	SessionExists(ctx context.Context, sessionID string) (bool, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// AuthService GitHub 登录会话业务接口
type AuthService interface {
	// LoginURL 生成 GitHub 授权跳转地址
	LoginURL(state string) (string, error)
	// CompleteLogin 处理回调授权码，签发会话 Token
	CompleteLogin(ctx context.Context, code string) (*dto.SessionResponse, error)
	// Authenticate 校验会话 Token，返回当前用户
	Authenticate(ctx context.Context, token string) (*dto.CurrentUser, error)
	// Logout 注销会话，Token 无效时视为已注销
	Logout(ctx context.Context, token string) error
}

type authService struct {
	provider oauth.Provider
	jwtMgr   *jwt.Manager
	sessions SessionStore
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
// provider 为 nil 表示未启用 GitHub 登录，sessions 为 nil 表示无服务端会话存储
func NewAuthService(
	provider oauth.Provider,
	jwtMgr *jwt.Manager,
	sessions SessionStore,
	logger *zap.Logger,
) AuthService {
	return &authService{
		provider: provider,
		jwtMgr:   jwtMgr,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *authService) LoginURL(state string) (string, error) {
	if s.provider == nil {
		return "", ErrOAuthDisabled
	}
	return s.provider.AuthCodeURL(state), nil
}

func (s *authService) CompleteLogin(ctx context.Context, code string) (*dto.SessionResponse, error) {
	if s.provider == nil {
		return nil, ErrOAuthDisabled
	}

	// 1. 授权码换取 GitHub 身份
	id, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("GitHub 授权失败", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrOAuthExchange, err)
	}

	// 2. 签发会话 Token
	token, sessionID, err := s.jwtMgr.GenerateSessionToken(id.ID, id.Login)
	if err != nil {
		s.logger.Error("签发会话 Token 失败", zap.Error(err))
		return nil, err
	}

	// 3. 记录服务端会话
	if s.sessions != nil {
		if err := s.sessions.SaveSession(ctx, sessionID, id.Login, s.jwtMgr.TTL()); err != nil {
			s.logger.Error("保存会话失败", zap.Error(err))
			return nil, fmt.Errorf("%w: %w", pkgerrors.ErrStore, err)
		}
	}

	s.logger.Info("用户登录", zap.String("login", id.Login))

	return &dto.SessionResponse{
		Token:     token,
		ExpiresIn: int(s.jwtMgr.TTL().Seconds()),
		User: dto.CurrentUser{
			ID:    id.ID,
			Login: id.Login,
			Name:  id.Name,
		},
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*dto.CurrentUser, error) {
	if token == "" {
		return nil, pkgerrors.ErrUnauthenticated
	}

	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrUnauthenticated, err)
	}

	if s.sessions != nil {
		ok, err := s.sessions.SessionExists(ctx, claims.ID)
		if err != nil {
			// 会话存储不可用时降级为仅校验签名
			s.logger.Warn("会话存储查询失败，降级为 Token 校验", zap.Error(err))
		} else if !ok {
			return nil, pkgerrors.ErrUnauthenticated
		}
	}

	return &dto.CurrentUser{
		ID:        claims.UserID,
		Login:     claims.Login,
		SessionID: claims.ID,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil
	}

	if s.sessions != nil {
		if err := s.sessions.DeleteSession(ctx, claims.ID); err != nil {
			s.logger.Error("删除会话失败", zap.Error(err))
			return fmt.Errorf("%w: %w", pkgerrors.ErrStore, err)
		}
	}

	s.logger.Info("用户登出", zap.String("login", claims.Login))
	return nil
}
