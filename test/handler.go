package test

import (
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/global/pictureBed"
	"club-management-system/internal/global/workflow"
	"club-management-system/internal/governance"
	"testing"

	"gorm.io/gorm"
)

// Setup 处理器测试的公共准备：测试配置、内存数据库、本地图床和工作流引擎，结束后全部恢复
func Setup(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := UseTestConfig(t)
	db := NewDB(t)

	oldDB, oldStore, oldEngine := database.DB, pictureBed.Default, workflow.Engine
	t.Cleanup(func() {
		database.DB, pictureBed.Default, workflow.Engine = oldDB, oldStore, oldEngine
		middleware.SetRoleResolver(nil)
	})

	store := pictureBed.NewPictureBed(cfg.Storage.Home, cfg.Storage.BaseURL)
	database.DB = db
	pictureBed.Default = store
	// sqlite 不支持只读事务选项
	workflow.Engine = governance.NewEngine(
		governance.WithSnapshotOptions(nil),
		governance.WithAssets(store),
	)
	middleware.SetRoleResolver(nil)
	return db
}
