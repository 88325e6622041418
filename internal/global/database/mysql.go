package database

import (
	"club-management-system/config"
	"club-management-system/internal/global/logger"
	"club-management-system/internal/global/sentry/tracing"
	"club-management-system/internal/model"
	"club-management-system/tools"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// Config gorm 公共配置，测试中的 sqlite 也使用它以保持表名一致
func Config(mode config.Mode) *gorm.Config {
	c := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true}, // 还是单数表名好
		TranslateError: true,
	}
	switch mode {
	case config.ModeDebug:
		c.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	default:
		c.Logger = gormlogger.Discard
	}
	return c
}

// Migrate 按 model.Migrations 建表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.Migrations...)
}

func Init() {
	cfg := config.Get()
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Mysql.Username,
		cfg.Mysql.Password,
		cfg.Mysql.Host,
		cfg.Mysql.Port,
		cfg.Mysql.DBName,
	)

	db, err := gorm.Open(mysql.Open(dsn), Config(cfg.Mode))
	tools.PanicOnErr(err)

	sqlDB, err := db.DB()
	tools.PanicOnErr(err)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if tracing.IsEnabled() {
		tools.PanicOnErr(db.Use(tracing.NewGormTracingPlugin()))
	}
	tools.PanicOnErr(Migrate(db))

	DB = db
	logger.New("Database").Info("MySQL 已连接", "host", cfg.Mysql.Host, "db", cfg.Mysql.DBName)
}
