package governance

import (
	"club-management-system/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Overview 管理端首页的汇总数字。已删除的记录不计入
type Overview struct {
	ClubsByStatus      map[model.Status]int64   `json:"clubsByStatus"`
	ClubsByType        map[model.ClubType]int64 `json:"clubsByType"` // 仅已通过的社团
	ActivitiesByStatus map[model.Status]int64   `json:"activitiesByStatus"`
	UsersByRole        map[model.Role]int64     `json:"usersByRole"`
	Members            int64                    `json:"members"` // 已通过的成员关系数，含负责人
}

type groupCount struct {
	K string
	N int64
}

func countBy(q *gorm.DB, column string) (map[string]int64, error) {
	var rows []groupCount
	if err := q.Select(column + " AS k, COUNT(*) AS n").Group(column).Scan(&rows).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		m[r.K] = r.N
	}
	return m, nil
}

func fill[K ~string](src map[string]int64, keys ...K) map[K]int64 {
	dst := make(map[K]int64, len(keys))
	for _, k := range keys {
		dst[k] = src[string(k)]
	}
	return dst
}

var (
	allStatuses  = []model.Status{model.StatusPending, model.StatusApproved, model.StatusRejected}
	allRoles     = []model.Role{model.RoleUser, model.RoleLeader, model.RoleAdmin}
	allClubTypes = []model.ClubType{
		model.ClubAcademic, model.ClubSports, model.ClubArts, model.ClubVolunteer,
		model.ClubTech, model.ClubEntertainment, model.ClubOther,
	}
)

func (e *Engine) Overview(db *gorm.DB) (*Overview, error) {
	o := &Overview{}
	err := inSnapshot(db, e.snapshot, func(tx *gorm.DB) error {
		clubs, err := countBy(tx.Model(&model.Club{}), "status")
		if err != nil {
			return err
		}
		types, err := countBy(tx.Model(&model.Club{}).Where("status = ?", model.StatusApproved), "type")
		if err != nil {
			return err
		}
		activities, err := countBy(tx.Model(&model.Activity{}), "status")
		if err != nil {
			return err
		}
		roles, err := countBy(tx.Model(&model.User{}), "role")
		if err != nil {
			return err
		}
		o.ClubsByStatus = fill(clubs, allStatuses...)
		o.ClubsByType = fill(types, allClubTypes...)
		o.ActivitiesByStatus = fill(activities, allStatuses...)
		o.UsersByRole = fill(roles, allRoles...)
		return errors.WithStack(tx.Model(&model.Membership{}).
			Where("status = ?", model.StatusApproved).
			Count(&o.Members).Error)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ClubStat 一个已通过社团的规模
type ClubStat struct {
	ID         uint           `json:"id"`
	Name       string         `json:"name"`
	Type       model.ClubType `json:"type"`
	LeaderName string         `json:"leaderName"`
	Members    int64          `json:"members"`
	Activities int64          `json:"activities"` // 已通过的活动
}

// ClubStats 所有已通过的社团，按成员数降序
func (e *Engine) ClubStats(db *gorm.DB) ([]ClubStat, error) {
	stats := make([]ClubStat, 0)
	err := inSnapshot(db, e.snapshot, func(tx *gorm.DB) error {
		members := tx.Model(&model.Membership{}).
			Select("club_id, COUNT(*) AS n").
			Where("status = ?", model.StatusApproved).
			Group("club_id")
		activities := tx.Model(&model.Activity{}).
			Select("club_id, COUNT(*) AS n").
			Where("status = ?", model.StatusApproved).
			Group("club_id")
		return tx.Model(&model.Club{}).
			Select("club.id, club.name, club.type, `user`.real_name AS leader_name, "+
				"COALESCE(m.n, 0) AS members, COALESCE(a.n, 0) AS activities").
			Joins("LEFT JOIN `user` ON `user`.id = club.leader_id").
			Joins("LEFT JOIN (?) AS m ON m.club_id = club.id", members).
			Joins("LEFT JOIN (?) AS a ON a.club_id = club.id", activities).
			Where("club.status = ?", model.StatusApproved).
			Order("members DESC").Order("club.id ASC").
			Scan(&stats).Error
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return stats, nil
}
