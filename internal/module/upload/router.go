package upload

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/global/pictureBed"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

// InitRouter 预签名上传只在 S3 存储下可用，本地存储返回 ErrStorageDisabled
func (u *ModuleUpload) InitRouter(r *gin.RouterGroup) {
	r.POST("/upload/presign", middleware.Auth(model.RoleUser), func(c *gin.Context) {
		log.Debug("申请预签名上传", "ip", c.ClientIP())
		pictureBed.PresignHandler(c)
	})
}
