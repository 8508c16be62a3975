package db

import (
	"fmt"
	"leanfeed/internal/config"
	"leanfeed/internal/models"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 打开数据库、设置连接池并迁移表结构
func Init(cfg *config.Config) error {
	gdb, err := Open(cfg.DBDriver, cfg.DatabaseURL, logger.Warn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// 连接池是请求之间唯一共享的可变资源
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logrus.WithField("driver", cfg.DBDriver).Info("Database connection established")

	if err := Migrate(gdb); err != nil {
		return err
	}
	logrus.Info("Database migration completed")

	DB = gdb
	return nil
}

// Open 按驱动名选择方言。TranslateError 让唯一约束冲突统一成 gorm.ErrDuplicatedKey。
func Open(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
}

// Migrate 自动迁移所有表
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
