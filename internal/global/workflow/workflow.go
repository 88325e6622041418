// Package workflow 把 governance.Engine 接到 gin 上：全局 Engine、调用者身份与错误响应
package workflow

import (
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/logger"
	"club-management-system/internal/global/pictureBed"
	"club-management-system/internal/global/response"
	"club-management-system/internal/global/rolecache"
	"club-management-system/internal/governance"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var Engine *governance.Engine

// Init 在 database、pictureBed、rolecache 之后调用
func Init() {
	opts := []governance.Option{governance.WithLogger(logger.New("Governance"))}
	if pictureBed.Default != nil {
		opts = append(opts, governance.WithAssets(pictureBed.Default))
	}
	if rolecache.Default != nil {
		opts = append(opts, governance.WithRoleInvalidator(rolecache.Default))
	}
	Engine = governance.NewEngine(opts...)
}

// DB 绑定请求 context 的会话
func DB(c *gin.Context) *gorm.DB {
	return database.DB.WithContext(c.Request.Context())
}

// Actor Auth 中间件之后调用；角色已经按角色缓存刷新过
func Actor(c *gin.Context) governance.Actor {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		return governance.Actor{}
	}
	return governance.Actor{ID: payload.UserID, Role: payload.Role}
}

// PathID 解析路径中的 id，失败时已写入 400 响应
func PathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("无效的 "+name))
		return 0, false
	}
	return uint(id), true
}

// PageQuery 列表接口通用的查询参数
type PageQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Search   string `form:"search"`
}

func (q PageQuery) ToPage() governance.Page {
	return governance.NewPage(q.Page, q.PageSize)
}

// Fail 记录并返回工作流错误，服务器错误记 Error，业务错误记 Warn
func Fail(c *gin.Context, log *slog.Logger, msg string, err error, attrs ...any) {
	e := response.Domain(err)
	attrs = append(attrs, "error", err)
	if e.Code >= http.StatusInternalServerError {
		log.Error(msg, attrs...)
	} else {
		log.Warn(msg, attrs...)
	}
	response.Fail(c, e)
}
