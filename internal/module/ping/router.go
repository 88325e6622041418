package ping

import (
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/redis"
	"club-management-system/internal/global/response"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"version": version,
		})
	})
	r.GET("/health", Health)
}

// Health 检查数据库和 Redis；Redis 未配置时记为 disabled
func Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "disabled"}
	healthy := true

	if database.DB == nil {
		checks["database"], healthy = "not initialized", false
	} else if sqlDB, err := database.DB.DB(); err != nil {
		checks["database"], healthy = err.Error(), false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		log.Warn("数据库健康检查失败", "error", err)
		checks["database"], healthy = err.Error(), false
	}

	if redis.RedisClient != nil {
		checks["redis"] = "ok"
		if err := redis.RedisClient.Ping(ctx).Err(); err != nil {
			// Redis 不可用时角色缓存会退回数据库，不影响整体状态
			log.Warn("Redis 健康检查失败", "error", err)
			checks["redis"] = err.Error()
		}
	}

	if !healthy {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.ResponseBody{
			Code:    http.StatusServiceUnavailable,
			Message: "service unavailable",
			Data:    checks,
		})
		return
	}
	response.Success(c, checks)
}
