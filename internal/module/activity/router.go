package activity

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/global/pictureBed"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleActivity) InitRouter(r *gin.RouterGroup) {
	activityGroup := r.Group("/activities")

	user := activityGroup.Group("", middleware.Auth(model.RoleUser))
	{
		user.GET("", ListActivities)
		user.GET("/:id", GetActivity)
		user.POST("/cover", pictureBed.UploadHandler(pictureBed.CategoryActivityCover))
	}

	activityGroup.POST("", middleware.Auth(model.RoleLeader), PublishActivity)

	admin := activityGroup.Group("", middleware.Auth(model.RoleAdmin))
	{
		admin.GET("/pending", ListPendingActivities)
		admin.PUT("/:id/audit", AuditActivity)
	}
}
