package club

import (
	"club-management-system/internal/global/response"
	"club-management-system/internal/global/workflow"
	"club-management-system/internal/model"
	"club-management-system/tools"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type JoinReq struct {
	Notes string `json:"notes" binding:"max=255"`
}

func JoinClub(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	var req JoinReq
	// 申请备注可省略
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
			return
		}
	}
	actor := workflow.Actor(c)
	m, err := workflow.Engine.Join(workflow.DB(c), actor.ID, id, req.Notes)
	if err != nil {
		workflow.Fail(c, log, "申请加入社团失败", err, "club_id", id, "user_id", actor.ID)
		return
	}
	response.Created(c, "申请已提交，等待社团负责人审核", m)
}

func LeaveClub(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	actor := workflow.Actor(c)
	if err := workflow.Engine.Leave(workflow.DB(c), actor.ID, id); err != nil {
		workflow.Fail(c, log, "退出社团失败", err, "club_id", id, "user_id", actor.ID)
		return
	}
	response.SuccessMsg(c, "已退出社团")
}

func ListMembers(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	var q workflow.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := workflow.Engine.Members(workflow.DB(c), workflow.Actor(c), id, q.ToPage())
	if err != nil {
		workflow.Fail(c, log, "查询社团成员失败", err, "club_id", id)
		return
	}
	response.Success(c, page)
}

func ListApplications(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	var q workflow.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, err := workflow.Engine.PendingApplications(workflow.DB(c), workflow.Actor(c), id, q.ToPage())
	if err != nil {
		workflow.Fail(c, log, "查询入社申请失败", err, "club_id", id)
		return
	}
	response.Success(c, page)
}

func AuditApplication(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := workflow.PathID(c, "memberId")
	if !ok {
		return
	}
	var req AuditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	m, err := workflow.Engine.AuditApplication(workflow.DB(c), workflow.Actor(c), id, memberID, req.Status)
	if err != nil {
		workflow.Fail(c, log, "审核入社申请失败", err, "club_id", id, "member_id", memberID)
		return
	}
	msg := "已同意入社申请"
	if m.Status == model.StatusRejected {
		msg = "已拒绝入社申请"
	}
	response.SuccessMsg(c, msg, m)
}

func RemoveMember(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := workflow.PathID(c, "memberId")
	if !ok {
		return
	}
	if err := workflow.Engine.RemoveMember(workflow.DB(c), workflow.Actor(c), id, memberID); err != nil {
		workflow.Fail(c, log, "移除成员失败", err, "club_id", id, "member_id", memberID)
		return
	}
	response.SuccessMsg(c, "成员已移除")
}

// memberRow 导出表格的一行
type memberRow struct {
	Username   string         `excel:"用户名"`
	RealName   string         `excel:"姓名"`
	Email      string         `excel:"邮箱"`
	RoleInClub model.ClubRole `excel:"社团角色"`
	JoinedAt   time.Time      `excel:"加入时间"`
	Notes      string         `excel:"备注"`
}

// ExportMembers 导出全部已通过成员为 xlsx
func ExportMembers(c *gin.Context) {
	id, ok := workflow.PathID(c, "id")
	if !ok {
		return
	}
	club, members, err := workflow.Engine.AllMembers(workflow.DB(c), workflow.Actor(c), id)
	if err != nil {
		workflow.Fail(c, log, "导出社团成员失败", err, "club_id", id)
		return
	}

	rows := make([]memberRow, 0, len(members))
	for _, m := range members {
		row := memberRow{RoleInClub: m.RoleInClub, JoinedAt: m.JoinedAt, Notes: m.Notes}
		if m.User != nil {
			row.Username, row.RealName, row.Email = m.User.Username, m.User.RealName, m.User.Email
		}
		rows = append(rows, row)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := tools.WriteSheet(f, "成员", rows); err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	// 默认的 Sheet1 没有内容
	_ = f.DeleteSheet("Sheet1")

	name := fmt.Sprintf("%s-成员-%s.xlsx", club.Name, time.Now().Format("20060102"))
	if err := tools.SendExcel(c, f, name); err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	log.Info("导出社团成员", "club_id", id, "count", len(rows))
}
