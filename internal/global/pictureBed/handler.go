package pictureBed

import (
	"club-management-system/internal/global/logger"
	"club-management-system/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// UploadHandler 接收表单字段 file，保存到 category 下并返回访问地址
func UploadHandler(category string) gin.HandlerFunc {
	log := logger.New("PictureBed")
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			response.Fail(c, response.ErrInvalidRequest.WithTips("请选择要上传的文件"))
			return
		}
		if Default == nil {
			response.Fail(c, response.ErrStorageDisabled)
			return
		}
		url, err := Default.Save(c.Request.Context(), category, fh)
		switch {
		case errors.Is(err, ErrTooLarge):
			response.Fail(c, response.ErrFileTooLarge)
		case errors.Is(err, ErrNotImage):
			response.Fail(c, response.ErrInvalidRequest.WithTips("只能上传图片文件"))
		case err != nil:
			log.Error("保存上传文件失败", "category", category, "error", err)
			response.Fail(c, response.ErrStorage.WithOrigin(err))
		default:
			log.Info("文件已上传", "category", category, "url", url, "size", fh.Size)
			response.SuccessMsg(c, "上传成功", gin.H{"url": url})
		}
	}
}

type PresignReq struct {
	Category    string `json:"category" binding:"required,oneof=clubs/covers clubs/materials activities/covers users/avatars"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// PresignHandler 仅 S3 存储可用
func PresignHandler(c *gin.Context) {
	var req PresignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	p, ok := Default.(Presigner)
	if !ok {
		response.Fail(c, response.ErrStorageDisabled)
		return
	}
	resp, err := p.PresignUpload(c.Request.Context(), PresignedUploadRequest{
		Category:    req.Category,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if errors.Is(err, ErrNotImage) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("只能上传图片文件"))
		return
	}
	if err != nil {
		response.Fail(c, response.ErrStorage.WithOrigin(err))
		return
	}
	response.Success(c, resp)
}
