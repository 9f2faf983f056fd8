// Package oauth 封装 GitHub OAuth 授权码流程。
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"enrollment-api/config"
)

const githubUserURL = "https://api.github.com/user"

// Identity GitHub 用户身份
type Identity struct {
	ID    string
	Login string
	Name  string
}

// Provider OAuth 提供方
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// GitHub GitHub OAuth 提供方
type GitHub struct {
	cfg     *oauth2.Config
	userURL string
}

// NewGitHub 创建 GitHub OAuth 提供方
func NewGitHub(c *config.GitHubConfig) *GitHub {
	return newGitHub(c, github.Endpoint, githubUserURL)
}

func newGitHub(c *config.GitHubConfig, endpoint oauth2.Endpoint, userURL string) *GitHub {
	return &GitHub{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.CallbackURL,
			Endpoint:     endpoint,
			Scopes:       []string{"read:user"},
		},
		userURL: userURL,
	}
}

// AuthCodeURL 生成授权跳转地址
func (g *GitHub) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange 用授权码换取 Token 并读取用户信息
func (g *GitHub) Exchange(ctx context.Context, code string) (*Identity, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("交换授权码失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("获取 GitHub 用户失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("获取 GitHub 用户失败: status %d", resp.StatusCode)
	}

	var user struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("解析 GitHub 用户失败: %w", err)
	}
	if user.ID == 0 || user.Login == "" {
		return nil, fmt.Errorf("GitHub 用户信息不完整")
	}

	return &Identity{
		ID:    strconv.FormatInt(user.ID, 10),
		Login: user.Login,
		Name:  user.Name,
	}, nil
}
