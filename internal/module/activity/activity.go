package activity

import (
	"club-management-system/internal/global/response"
	"club-management-system/internal/global/workflow"
	"club-management-system/internal/governance"
	"club-management-system/internal/model"
	"time"

	"github.com/gin-gonic/gin"
)

// PublishReq 时间使用 RFC 3339，例如 2026-05-01T14:00:00+08:00
type PublishReq struct {
	ClubID      uint      `json:"clubId" binding:"required"`
	Name        string    `json:"name" binding:"required,max=100"`
	Description string    `json:"description"`
	Location    string    `json:"location" binding:"max=255"`
	CoverImage  string    `json:"coverImage"`
	Date        time.Time `json:"date" binding:"required"`
	EndAt       time.Time `json:"endAt" binding:"required"`
}

func PublishActivity(c *gin.Context) {
	var req PublishReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	actor := workflow.Actor(c)
	activity, err := workflow.Engine.PublishActivity(workflow.DB(c), actor, governance.PublishActivityInput{
		ClubID:      req.ClubID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		CoverImage:  req.CoverImage,
		Date:        req.Date,
		EndAt:       req.EndAt,
	})
	if err != nil {
		workflow.Fail(c, log, "发布活动失败", err, "club_id", req.ClubID, "user_id", actor.ID)
		return
	}
	log.Info("活动已提交审核", "activity_id", activity.ID, "club_id", req.ClubID)
	response.Created(c, "活动已提交，等待审核", activity)
}

// ListQuery 在通用分页参数之外可以按社团筛选
type ListQuery struct {
	workflow.PageQuery
	ClubID uint `form:"clubId"`
}

func ListActivities(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := workflow.Engine.AllActivities(workflow.DB(c), q.ToPage(), q.Search, q.ClubID)
	if err != nil {
		workflow.Fail(c, log, "查询活动列表失败", err)
		return
	}
	response.Success(c, page)
}

func ListPendingActivities(c *gin.Context) {
	var q workflow.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := workflow.Engine.PendingActivities(workflow.DB(c), q.ToPage())
	if err != nil {
		workflow.Fail(c, log, "查询待审核活动失败", err)
		return
	}
	response.Success(c, page)
}

func GetActivity(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	activity, err := workflow.Engine.GetActivity(workflow.DB(c), workflow.Actor(c), id)
	if err != nil {
		workflow.Fail(c, log, "查询活动失败", err, "activity_id", id)
		return
	}
	response.Success(c, activity)
}

type AuditReq struct {
	Status model.Status `json:"status" binding:"required"`
}

func AuditActivity(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	var req AuditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	activity, err := workflow.Engine.AuditActivity(workflow.DB(c), workflow.Actor(c), id, req.Status)
	if err != nil {
		workflow.Fail(c, log, "活动审核失败", err, "activity_id", id, "status", req.Status)
		return
	}
	msg := "活动已通过审核"
	if activity.Status == model.StatusRejected {
		msg = "活动已驳回"
	}
	response.SuccessMsg(c, msg, activity)
}
