package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"enrollment-api/config"
)

// Client Redis 客户端封装
// 用于登录会话存储与登录接口限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 登录会话 ──

const sessionPrefix = "session:"

// SaveSession 保存会话，value 为 GitHub 登录名，TTL 与会话 Token 一致
func (c *Client) SaveSession(ctx context.Context, sessionID, login string, ttl time.Duration) error {
	return c.rdb.Set(ctx, sessionPrefix+sessionID, login, ttl).Err()
}

// SessionExists 检查会话是否仍然有效
func (c *Client) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, sessionPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteSession 注销会话
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, sessionPrefix+sessionID).Err()
}

// ── 限流 ──

// CheckRateLimit 固定窗口计数限流，窗口内第一次请求设置过期时间
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
