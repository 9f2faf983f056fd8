package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"enrollment-api/config"
)

// Store MongoDB 连接句柄
// 进程启动时创建一次，通过依赖注入传给各 Repository，关闭时调用 Close
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewStore 建立 MongoDB 连接并执行 Ping 健康检查
func NewStore(ctx context.Context, cfg *config.MongoConfig, logger *zap.Logger) (*Store, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.OpTimeout > 0 {
		opts.SetTimeout(cfg.OpTimeout)
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = cfg.OpTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("连接 MongoDB 失败: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB ping 失败: %w", err)
	}

	logger.Info("MongoDB 连接成功", zap.String("database", cfg.Database))

	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// Client 底层驱动客户端（迁移使用）
func (s *Store) Client() *mongo.Client {
	return s.client
}

// Database 当前业务库
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Ping 健康检查
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close 断开连接
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("断开 MongoDB 失败: %w", err)
	}
	s.logger.Info("MongoDB 连接已关闭")
	return nil
}
