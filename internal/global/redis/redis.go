package redis

import (
	"club-management-system/config"
	"club-management-system/internal/global/logger"
	"club-management-system/internal/global/sentry/tracing"
	"club-management-system/tools"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient 未配置 Redis 地址时为 nil，调用方需要降级处理
var RedisClient *redis.Client

func Init() {
	cfg := config.Get().Redis
	log := logger.New("Redis")
	if cfg.Host == "" {
		log.Warn("未配置 Redis，角色缓存直接读取数据库")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if tracing.IsEnabled() {
		client.AddHook(tracing.NewRedisSentryHook())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tools.PanicOnErr(client.Ping(ctx).Err())

	RedisClient = client
	log.Info("Redis 已连接", "addr", client.Options().Addr)
}
