package middleware

import (
	"club-management-system/internal/global/jwt"
	"club-management-system/internal/global/logger"
	"club-management-system/internal/global/response"
	"club-management-system/internal/global/rolecache"
	"club-management-system/internal/model"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// RoleResolver 返回用户当前角色。token 中的角色在签发后可能已经过期
type RoleResolver interface {
	Resolve(ctx context.Context, userID uint) (model.Role, error)
}

var resolver RoleResolver

// SetRoleResolver 启动时注入，不设置时直接信任 token 中的角色
func SetRoleResolver(r RoleResolver) {
	resolver = r
}

func Auth(minRole model.Role) gin.HandlerFunc {
	log := logger.New("Auth")
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			return
		}

		claims, valid := jwt.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			return
		}

		if resolver != nil {
			role, err := resolver.Resolve(c.Request.Context(), claims.UserID)
			switch {
			case errors.Is(err, rolecache.ErrUserGone):
				response.Fail(c, response.ErrTokenInvalid)
				return
			case err != nil:
				// 缓存和数据库都不可用时退回 token 中的角色
				log.Warn("解析用户角色失败", "user_id", claims.UserID, "error", err)
			default:
				claims.Role = role
			}
		}

		if !claims.Role.AtLeast(minRole) {
			response.Fail(c, response.ErrForbidden)
			return
		}
		c.Set(jwt.PayloadKey, claims)
		c.Next()
	}
}
