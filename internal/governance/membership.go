package governance

import (
	"club-management-system/internal/global/metrics"
	"club-management-system/internal/model"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Join 申请加入已通过审核的社团。已有任何状态的记录都视为重复申请
func (e *Engine) Join(db *gorm.DB, userID, clubID uint, notes string) (*model.Membership, error) {
	m := &model.Membership{
		UserID:     userID,
		ClubID:     clubID,
		Status:     model.StatusPending,
		RoleInClub: model.ClubRoleMember,
		JoinedAt:   e.now(),
		Notes:      strings.TrimSpace(notes),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var club model.Club
		if err := tx.Select("id", "status").First(&club, clubID).Error; err != nil {
			return notFound(err, ErrClubNotFound)
		}
		if club.Status != model.StatusApproved {
			return ErrClubNotOpen
		}
		var existing int64
		err := tx.Model(&model.Membership{}).
			Where("user_id = ? AND club_id = ?", userID, clubID).
			Count(&existing).Error
		if err != nil {
			return errors.WithStack(err)
		}
		if existing > 0 {
			return ErrAlreadyMember
		}
		if err := tx.Create(m).Error; err != nil {
			// 并发的重复申请由主键兜底
			if isDuplicateKey(err) {
				return ErrAlreadyMember
			}
			return errors.WithStack(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Leave 退出社团或撤回申请。负责人不能退出自己的社团
func (e *Engine) Leave(db *gorm.DB, userID, clubID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var club model.Club
		if err := tx.Select("id", "leader_id").First(&club, clubID).Error; err != nil {
			return notFound(err, ErrClubNotFound)
		}
		if club.LeaderID == userID {
			return ErrLeaderCannotLeave
		}
		res := tx.Where("user_id = ? AND club_id = ?", userID, clubID).Delete(&model.Membership{})
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotAMember
		}
		return nil
	})
}

// leadClub 读取社团并确认 actor 是负责人；allowAdmin 时管理员也可以
func leadClub(tx *gorm.DB, actor Actor, clubID uint, allowAdmin bool) (*model.Club, error) {
	var club model.Club
	if err := tx.Select("id", "leader_id", "status", "name").First(&club, clubID).Error; err != nil {
		return nil, notFound(err, ErrClubNotFound)
	}
	if club.LeaderID == actor.ID || (allowAdmin && actor.IsAdmin()) {
		return &club, nil
	}
	return nil, ErrNotClubLeader
}

// AuditApplication 负责人审批入社申请，只处理仍为 PENDING 的申请
func (e *Engine) AuditApplication(db *gorm.DB, actor Actor, clubID, applicantID uint, decision model.Status) (*model.Membership, error) {
	if !decision.IsDecision() {
		return nil, ErrInvalidDecision
	}
	var m model.Membership
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := leadClub(tx, actor, clubID, false); err != nil {
			return err
		}
		updates := map[string]any{"status": decision}
		if decision == model.StatusApproved {
			updates["role_in_club"] = model.ClubRoleMember
			updates["joined_at"] = e.now()
		}
		res := tx.Model(&model.Membership{}).
			Where("user_id = ? AND club_id = ? AND status = ?", applicantID, clubID, model.StatusPending).
			Updates(updates)
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrApplicationNotFound
		}
		return errors.WithStack(tx.Where("user_id = ? AND club_id = ?", applicantID, clubID).Take(&m).Error)
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordDecision("application", string(decision))
	return &m, nil
}

// PendingApplications 待审批的入社申请，先提交的在前
func (e *Engine) PendingApplications(db *gorm.DB, actor Actor, clubID uint, p Page) (*PageResult[model.Membership], error) {
	if _, err := leadClub(db, actor, clubID, true); err != nil {
		return nil, err
	}
	return listPage[model.Membership](db, e.snapshot, p,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.Membership{}).Where("club_id = ? AND status = ?", clubID, model.StatusPending)
		},
		func(q *gorm.DB) *gorm.DB {
			return q.Preload("User").Order("created_at ASC").Order("user_id ASC")
		},
	)
}

// memberOrder 负责人排在最前，其余按加入时间倒序
func memberOrder(q *gorm.DB) *gorm.DB {
	return q.Preload("User").
		Order("CASE WHEN role_in_club = 'LEADER' THEN 0 ELSE 1 END").
		Order("joined_at DESC").
		Order("user_id ASC")
}

// Members 已通过的成员
func (e *Engine) Members(db *gorm.DB, actor Actor, clubID uint, p Page) (*PageResult[model.Membership], error) {
	if _, err := leadClub(db, actor, clubID, true); err != nil {
		return nil, err
	}
	return listPage[model.Membership](db, e.snapshot, p,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.Membership{}).Where("club_id = ? AND status = ?", clubID, model.StatusApproved)
		},
		memberOrder,
	)
}

// AllMembers 导出用，不分页
func (e *Engine) AllMembers(db *gorm.DB, actor Actor, clubID uint) (*model.Club, []model.Membership, error) {
	club, err := leadClub(db, actor, clubID, true)
	if err != nil {
		return nil, nil, err
	}
	members := make([]model.Membership, 0)
	err = memberOrder(db.Where("club_id = ? AND status = ?", clubID, model.StatusApproved)).Find(&members).Error
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	return club, members, nil
}

// RemoveMember 负责人或管理员移除成员，负责人本人不能被移除
func (e *Engine) RemoveMember(db *gorm.DB, actor Actor, clubID, memberID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		club, err := leadClub(tx, actor, clubID, true)
		if err != nil {
			return err
		}
		if memberID == club.LeaderID {
			return ErrLeaderCannotLeave
		}
		res := tx.Where("user_id = ? AND club_id = ?", memberID, clubID).Delete(&model.Membership{})
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotAMember
		}
		return nil
	})
}

// JoinedClubs 用户已加入（APPROVED）的社团
func (e *Engine) JoinedClubs(db *gorm.DB, userID uint, p Page) (*PageResult[model.Membership], error) {
	return listPage[model.Membership](db, e.snapshot, p,
		func(tx *gorm.DB) *gorm.DB {
			clubs := tx.Model(&model.Club{}).Select("id")
			return tx.Model(&model.Membership{}).
				Where("user_id = ? AND status = ? AND club_id IN (?)", userID, model.StatusApproved, clubs)
		},
		func(q *gorm.DB) *gorm.DB {
			return q.Preload("Club").Preload("Club.Leader").Order("joined_at DESC").Order("club_id ASC")
		},
	)
}
