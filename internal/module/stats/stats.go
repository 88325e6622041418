package stats

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

func Overview(c *gin.Context) {
	o, err := workflow.Engine.Overview(workflow.DB(c))
	if err != nil {
		workflow.Fail(c, log, "统计概况失败", err)
		return
	}
	response.Success(c, o)
}

func Clubs(c *gin.Context) {
	stats, err := workflow.Engine.ClubStats(workflow.DB(c))
	if err != nil {
		workflow.Fail(c, log, "统计社团失败", err)
		return
	}
	response.Success(c, stats)
}

type clubRow struct {
	ID         uint           `excel:"编号"`
	Name       string         `excel:"社团名称"`
	Type       model.ClubType `excel:"类型"`
	LeaderName string         `excel:"负责人"`
	Members    int64          `excel:"成员数"`
	Activities int64          `excel:"活动数"`
}

// ExportClubs 导出社团规模统计
func ExportClubs(c *gin.Context) {
	stats, err := workflow.Engine.ClubStats(workflow.DB(c))
	if err != nil {
		workflow.Fail(c, log, "导出社团统计失败", err)
		return
	}
	rows := make([]clubRow, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, clubRow(s))
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := tools.WriteSheet(f, "社团统计", rows); err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	_ = f.DeleteSheet("Sheet1")

	if err := tools.SendExcel(c, f, fmt.Sprintf("社团统计-%s.xlsx", time.Now().Format("20060102"))); err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	log.Info("导出社团统计", "count", len(rows))
}
