package club

import (
	"club-management-system/internal/global/response"
	"club-management-system/internal/global/workflow"
	"club-management-system/internal/governance"
	"club-management-system/internal/model"

	"github.com/gin-gonic/gin"
)

// ApplyClubReq 建社申请，封面与材料先通过上传接口取得地址
type ApplyClubReq struct {
	Name        string         `json:"name" binding:"required"`
	Type        model.ClubType `json:"type" binding:"required"`
	Description string         `json:"description" binding:"required"`
	CoverImage  string         `json:"coverImage"`
	Materials   string         `json:"materials"`
}

func ApplyClub(c *gin.Context) {
	var req ApplyClubReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	actor := workflow.Actor(c)
	club, err := workflow.Engine.ApplyClub(workflow.DB(c), actor, governance.ApplyClubInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Materials:   req.Materials,
	})
	if err != nil {
		workflow.Fail(c, log, "建社申请失败", err, "user_id", actor.ID, "name", req.Name)
		return
	}
	response.Created(c, "社团申请已提交，等待审核", club)
}

func ListClubs(c *gin.Context) {
	var q workflow.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := workflow.Engine.AllClubs(workflow.DB(c), q.ToPage(), q.Search)
	if err != nil {
		workflow.Fail(c, log, "查询社团列表失败", err)
		return
	}
	response.Success(c, page)
}

func ListPendingClubs(c *gin.Context) {
	var q workflow.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := workflow.Engine.PendingClubs(workflow.DB(c), q.ToPage())
	if err != nil {
		workflow.Fail(c, log, "查询待审核社团失败", err)
		return
	}
	response.Success(c, page)
}

func ListLedClubs(c *gin.Context) {
	userID, ok := workflow.PathID(c, "userId")
	if !ok {
		return
	}
	clubs, err := workflow.Engine.LedClubs(workflow.DB(c), userID)
	if err != nil {
		workflow.Fail(c, log, "查询负责的社团失败", err, "user_id", userID)
		return
	}
	response.Success(c, clubs)
}

func ListJoinedClubs(c *gin.Context) {
	userID, ok := workflow.PathID(c, "userId")
	if !ok {
		return
	}
	var q workflow.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := workflow.Engine.JoinedClubs(workflow.DB(c), userID, q.ToPage())
	if err != nil {
		workflow.Fail(c, log, "查询加入的社团失败", err, "user_id", userID)
		return
	}
	response.Success(c, page)
}

func GetClub(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	detail, err := workflow.Engine.GetClub(workflow.DB(c), workflow.Actor(c), id)
	if err != nil {
		workflow.Fail(c, log, "查询社团详情失败", err, "club_id", id)
		return
	}
	response.Success(c, detail)
}

// UpdateClubReq 只更新传入的字段
type UpdateClubReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImage"`
	Materials   *string `json:"materials"`
}

func UpdateClub(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	var req UpdateClubReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	club, err := workflow.Engine.UpdateClub(workflow.DB(c), workflow.Actor(c), id, governance.UpdateClubInput{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Materials:   req.Materials,
	})
	if err != nil {
		workflow.Fail(c, log, "更新社团失败", err, "club_id", id)
		return
	}
	response.SuccessMsg(c, "社团信息已更新", club)
}

// AuditReq 审批结果，只能是 APPROVED 或 REJECTED
type AuditReq struct {
	Status model.Status `json:"status" binding:"required"`
}

func AuditClub(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	var req AuditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	club, err := workflow.Engine.AuditClub(workflow.DB(c), workflow.Actor(c), id, req.Status)
	if err != nil {
		workflow.Fail(c, log, "社团审核失败", err, "club_id", id, "status", req.Status)
		return
	}
	msg := "社团已通过审核"
	if club.Status == model.StatusRejected {
		msg = "社团申请已驳回"
	}
	response.SuccessMsg(c, msg, club)
}

type TransferReq struct {
	NewLeaderID uint `json:"newLeaderId" binding:"required"`
}

func TransferClub(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	var req TransferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	result, err := workflow.Engine.TransferLeadership(workflow.DB(c), workflow.Actor(c), id, req.NewLeaderID)
	if err != nil {
		workflow.Fail(c, log, "转让社团失败", err, "club_id", id, "new_leader_id", req.NewLeaderID)
		return
	}
	response.SuccessMsg(c, "社团负责人已变更", result)
}
