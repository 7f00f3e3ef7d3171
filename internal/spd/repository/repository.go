// Package repository 提供数据持久化层实现
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // 纯 Go SQLite 驱动，不需要 CGO

	"github.com/jimyag/spd/internal/spd/repository/model"
)

// Repository 数据库仓库
type Repository struct {
	db *gorm.DB
}

// New 创建新的 Repository 实例
func New(dbPath string) (*Repository, error) {
	// 确保数据库目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// 连接数据库（使用纯 Go SQLite 驱动，不需要 CGO）
	// 直接使用 database/sql + modernc.org/sqlite 创建连接，然后传递给 GORM
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// 使用 GORM 的 Dialector 包装已创建的 sql.DB 连接
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	// 自动迁移
	if err := db.AutoMigrate(
		&model.Pool{},
		&model.Filesystem{},
		&model.BlockDevice{},
		&model.Mdv{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	// 创建索引（GORM 的 AutoMigrate 可能不会创建所有索引，手动确保）
	if err := createIndexes(db); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	return &Repository{db: db}, nil
}

// DB 返回 GORM 数据库实例（用于 Repository 实现）
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithContext 返回带上下文的数据库实例
func (r *Repository) WithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Close 关闭数据库连接
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// createIndexes 创建额外的索引和唯一约束
func createIndexes(db *gorm.DB) error {
	// block_devices 表的唯一约束（一个设备路径只能属于一个池）
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_block_devices_path_unique
		ON block_devices(path)
		WHERE deleted_at IS NULL
	`).Error; err != nil {
		return fmt.Errorf("create unique index on block_devices: %w", err)
	}

	// mdvs 表的唯一约束（一个池只能拥有一个元数据卷）
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_mdvs_pool_unique
		ON mdvs(pool_id)
		WHERE deleted_at IS NULL
	`).Error; err != nil {
		return fmt.Errorf("create unique index on mdvs: %w", err)
	}

	// filesystems 表的唯一约束（池内文件系统名称唯一）
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_filesystems_pool_name_unique
		ON filesystems(pool_id, name)
		WHERE deleted_at IS NULL
	`).Error; err != nil {
		return fmt.Errorf("create unique index on filesystems: %w", err)
	}

	return nil
}
