package governance

import (
	"club-management-system/internal/global/metrics"
	"club-management-system/internal/model"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type PublishActivityInput struct {
	ClubID      uint
	Name        string
	Description string
	Location    string
	CoverImage  string
	Date        time.Time
	EndAt       time.Time
}

// PublishActivity 负责人（或管理员）为已通过的社团提交活动，等待审批
func (e *Engine) PublishActivity(db *gorm.DB, actor Actor, in PublishActivityInput) (*model.Activity, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.ClubID == 0 || in.Name == "" || in.Date.IsZero() || in.EndAt.IsZero() {
		return nil, ErrInvalidInput
	}
	if !in.Date.Before(in.EndAt) {
		return nil, ErrInvalidWindow
	}
	if err := e.checkAssets(model.AssetActivityCover, in.CoverImage); err != nil {
		return nil, err
	}

	activity := &model.Activity{
		ClubID:      in.ClubID,
		Name:        in.Name,
		Description: in.Description,
		Location:    strings.TrimSpace(in.Location),
		CoverImage:  in.CoverImage,
		Date:        in.Date,
		EndAt:       in.EndAt,
		Status:      model.StatusPending,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		club, err := leadClub(tx, actor, in.ClubID, true)
		if err != nil {
			return err
		}
		if club.Status != model.StatusApproved {
			return ErrClubNotOpen
		}
		if err := claimAssets(tx, in.CoverImage); err != nil {
			return err
		}
		return errors.WithStack(tx.Create(activity).Error)
	})
	if err != nil {
		return nil, err
	}
	return activity, nil
}

// AuditActivity 与社团审批相同的规则，驳回时提交后删除封面
func (e *Engine) AuditActivity(db *gorm.DB, actor Actor, activityID uint, decision model.Status) (*model.Activity, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if !decision.IsDecision() {
		return nil, ErrInvalidDecision
	}

	var activity model.Activity
	f := &effects{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&activity, activityID).Error; err != nil {
			return notFound(err, ErrActivityNotFound)
		}
		if activity.Status != model.StatusPending {
			return ErrAlreadyProcessed
		}
		res := tx.Model(&model.Activity{}).
			Where("id = ? AND status = ?", activityID, model.StatusPending).
			Update("status", decision)
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}
		activity.Status = decision
		if decision == model.StatusRejected {
			f.discard(activity.CoverImage)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.apply(contextOf(db), f)
	metrics.RecordDecision("activity", string(decision))
	return &activity, nil
}

func activityOrder(q *gorm.DB) *gorm.DB {
	return q.Preload("Club").Order("created_at DESC").Order("id DESC")
}

// PendingActivities 待审批的活动，最新的在前
func (e *Engine) PendingActivities(db *gorm.DB, p Page) (*PageResult[model.Activity], error) {
	return listPage[model.Activity](db, e.snapshot, p,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.Activity{}).Where("status = ?", model.StatusPending)
		},
		activityOrder,
	)
}

// AllActivities 已处理的活动，search 匹配活动名或所属社团名；clubID 非 0 时只看该社团
func (e *Engine) AllActivities(db *gorm.DB, p Page, search string, clubID uint) (*PageResult[model.Activity], error) {
	search = strings.TrimSpace(search)
	return listPage[model.Activity](db, e.snapshot, p,
		func(tx *gorm.DB) *gorm.DB {
			q := tx.Model(&model.Activity{}).Where("status <> ?", model.StatusPending)
			if clubID != 0 {
				q = q.Where("club_id = ?", clubID)
			}
			if search != "" {
				like := likePattern(search)
				clubs := tx.Model(&model.Club{}).Select("id").Where("name LIKE ? "+likeEscape, like)
				q = q.Where("name LIKE ? "+likeEscape+" OR club_id IN (?)", like, clubs)
			}
			return q
		},
		activityOrder,
	)
}

// GetActivity 未通过的活动只有所属社团负责人和管理员可见
func (e *Engine) GetActivity(db *gorm.DB, viewer Actor, activityID uint) (*model.Activity, error) {
	var activity model.Activity
	if err := db.Preload("Club").First(&activity, activityID).Error; err != nil {
		return nil, notFound(err, ErrActivityNotFound)
	}
	if activity.Status == model.StatusApproved || viewer.IsAdmin() {
		return &activity, nil
	}
	if activity.Club != nil && activity.Club.LeaderID == viewer.ID {
		return &activity, nil
	}
	return nil, ErrActivityNotFound
}
