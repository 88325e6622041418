package user

import (
	"club-management-system/internal/global/pictureBed"
	"club-management-system/internal/global/response"
	"club-management-system/internal/global/workflow"
	"club-management-system/internal/governance"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Me 返回调用者当前的资料，角色以数据库为准
func Me(c *gin.Context) {
	actor := workflow.Actor(c)
	var user model.User
	err := workflow.DB(c).First(&user, actor.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrTokenInvalid)
		return
	case err != nil:
		log.Error("查询用户失败", "error", err, "user_id", actor.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, user)
}

type ProfileReq struct {
	Username *string `json:"username"`
	RealName *string `json:"realName"`
	Avatar   *string `json:"avatar"`
}

// UpdateMe 修改自己的用户名、姓名或头像地址
func UpdateMe(c *gin.Context) {
	var req ProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	actor := workflow.Actor(c)
	user, err := workflow.Engine.UpdateProfile(workflow.DB(c), actor, governance.ProfileInput{
		Username: req.Username,
		RealName: req.RealName,
		Avatar:   req.Avatar,
	})
	if err != nil {
		workflow.Fail(c, log, "修改资料失败", err, "user_id", actor.ID)
		return
	}
	response.SuccessMsg(c, "更新成功", user)
}

// UploadAvatar 上传并替换头像，旧头像在保存成功后删除
func UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("请选择要上传的图片"))
		return
	}
	if pictureBed.Default == nil {
		response.Fail(c, response.ErrStorageDisabled)
		return
	}
	ctx := c.Request.Context()
	url, err := pictureBed.Default.Save(ctx, pictureBed.CategoryAvatar, fh)
	switch {
	case errors.Is(err, pictureBed.ErrTooLarge):
		response.Fail(c, response.ErrFileTooLarge)
		return
	case errors.Is(err, pictureBed.ErrNotImage):
		response.Fail(c, response.ErrInvalidRequest.WithTips("只能上传图片文件"))
		return
	case err != nil:
		log.Error("保存头像失败", "error", err)
		response.Fail(c, response.ErrStorage.WithOrigin(err))
		return
	}

	actor := workflow.Actor(c)
	user, err := workflow.Engine.UpdateProfile(workflow.DB(c), actor, governance.ProfileInput{Avatar: &url})
	if err != nil {
		if derr := pictureBed.Default.Delete(ctx, url); derr != nil {
			log.Warn("删除未使用的头像失败", "url", url, "error", derr)
		}
		workflow.Fail(c, log, "更新头像失败", err, "user_id", actor.ID)
		return
	}
	log.Info("头像已更新", "user_id", actor.ID, "url", url)
	response.SuccessMsg(c, "头像上传成功", gin.H{"avatar": user.Avatar})
}

type RoleReq struct {
	Role model.Role `json:"role" binding:"required"`
}

// SetRole 管理员直接指定用户角色
func SetRole(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	var req RoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	actor := workflow.Actor(c)
	user, err := workflow.Engine.OverrideRole(workflow.DB(c), actor, id, req.Role)
	if err != nil {
		workflow.Fail(c, log, "修改角色失败", err, "user_id", id, "role", req.Role)
		return
	}
	log.Info("用户角色已修改", "user_id", id, "role", user.Role, "operator", actor.ID)
	response.Success(c, user)
}
