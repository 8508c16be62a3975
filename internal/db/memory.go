package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenMemory 打开一个迁移好的 SQLite 内存库，同名共享，用于测试和本地演示
func OpenMemory(name string) (*gorm.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	gdb, err := Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name), logger.Silent)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	// 单连接避免共享缓存下的表锁冲突
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}
