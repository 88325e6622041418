package club

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/global/pictureBed"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleClub) InitRouter(r *gin.RouterGroup) {
	clubGroup := r.Group("/clubs")

	// 所有登录用户
	user := clubGroup.Group("", middleware.Auth(model.RoleUser))
	{
		user.POST("", ApplyClub)
		user.GET("", ListClubs)
		user.GET("/user/:userId/led", ListLedClubs)
		user.GET("/user/:userId/joined", ListJoinedClubs)
		user.POST("/cover", pictureBed.UploadHandler(pictureBed.CategoryClubCover))
		user.POST("/materials", pictureBed.UploadHandler(pictureBed.CategoryClubMaterials))
		user.GET("/:id", GetClub)
		user.POST("/:id/join", JoinClub)
		user.POST("/:id/leave", LeaveClub)
	}

	// 社团负责人，具体是否负责该社团由工作流判断
	leader := clubGroup.Group("", middleware.Auth(model.RoleLeader))
	{
		leader.PUT("/:id", UpdateClub)
		leader.GET("/:id/members", ListMembers)
		leader.GET("/:id/members/export", ExportMembers)
		leader.DELETE("/:id/members/:memberId", RemoveMember)
		leader.GET("/:id/applications", ListApplications)
		leader.PUT("/:id/applications/:memberId", AuditApplication)
	}

	admin := clubGroup.Group("", middleware.Auth(model.RoleAdmin))
	{
		admin.GET("/pending", ListPendingClubs)
		admin.PUT("/:id/audit", AuditClub)
		admin.PUT("/:id/transfer", TransferClub)
	}
}
