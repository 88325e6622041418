package user

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

// InitRouter 挂载 /users 下的端点
func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	userGroup := r.Group("/users")

	userGroup.GET("/me", middleware.Auth(model.RoleUser), Me)
	userGroup.PUT("/me", middleware.Auth(model.RoleUser), UpdateMe)
	userGroup.POST("/me/avatar", middleware.Auth(model.RoleUser), UploadAvatar)
	userGroup.PUT("/:id/role", middleware.Auth(model.RoleAdmin), SetRole)
}
