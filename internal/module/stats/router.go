package stats

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (*ModuleStats) InitRouter(r *gin.RouterGroup) {
	adminGroup := r.Group("/stats", middleware.Auth(model.RoleAdmin))
	{
		adminGroup.GET("/overview", Overview)
		adminGroup.GET("/clubs", Clubs)
		adminGroup.GET("/clubs/export", ExportClubs)
	}
}
