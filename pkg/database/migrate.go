package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.json
var migrationsFS embed.FS

// RunMigrations 执行索引迁移
// 自动检测当前版本并应用所有未执行的迁移（唯一邮箱索引等）
func RunMigrations(s *Store, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}

	driver, err := mongodb.WithInstance(s.Client(), &mongodb.Config{
		DatabaseName: s.Database().Name(),
	})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "mongodb", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("索引迁移处于 dirty 状态", zap.Uint("version", version))
	} else {
		logger.Info("索引迁移完成", zap.Uint("version", version))
	}

	return nil
}
