package governance

import (
	"club-management-system/internal/global/metrics"
	"club-management-system/internal/model"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplyClubInput struct {
	Name        string
	Type        model.ClubType
	Description string
	CoverImage  string
	Materials   string
}

// ApplyClub 提交建社申请，申请人即负责人，状态为 PENDING
func (e *Engine) ApplyClub(db *gorm.DB, actor Actor, in ApplyClubInput) (*model.Club, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || strings.TrimSpace(in.Description) == "" || in.Type == "" {
		return nil, ErrInvalidInput
	}
	if !in.Type.Valid() {
		return nil, ErrInvalidClubType
	}
	if err := e.checkAssets(model.AssetClubCover, in.CoverImage); err != nil {
		return nil, err
	}
	if err := e.checkAssets(model.AssetClubMaterials, in.Materials); err != nil {
		return nil, err
	}

	club := &model.Club{
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		CoverImage:  in.CoverImage,
		Materials:   in.Materials,
		LeaderID:    actor.ID,
		Status:      model.StatusPending,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.User{}, actor.ID).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}
		taken, err := nameTaken(tx, in.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}
		if err := claimAssets(tx, in.CoverImage, in.Materials); err != nil {
			return err
		}
		return errors.WithStack(tx.Create(club).Error)
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("收到建社申请", "club_id", club.ID, "leader_id", actor.ID)
	return club, nil
}

// nameTaken 未被驳回的社团名称不能重复；被驳回的名称可以重新申请，
// 因此 name 列没有唯一索引，改为在事务中加锁检查。
// MySQL 默认排序规则不区分大小写，这里取回后再精确比较
func nameTaken(tx *gorm.DB, name string, exceptID uint) (bool, error) {
	var clubs []model.Club
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "name").
		Where("name = ? AND status <> ?", name, model.StatusRejected)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Find(&clubs).Error; err != nil {
		return false, errors.WithStack(err)
	}
	for _, c := range clubs {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// AuditClub 审批建社申请。通过时负责人升为 LEADER 并写入负责人成员关系；
// 驳回时提交后删除封面与材料
func (e *Engine) AuditClub(db *gorm.DB, actor Actor, clubID uint, decision model.Status) (*model.Club, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if !decision.IsDecision() {
		return nil, ErrInvalidDecision
	}

	var club model.Club
	f := &effects{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&club, clubID).Error; err != nil {
			return notFound(err, ErrClubNotFound)
		}
		if club.Status != model.StatusPending {
			return ErrAlreadyProcessed
		}
		res := tx.Model(&model.Club{}).
			Where("id = ? AND status = ?", clubID, model.StatusPending).
			Update("status", decision)
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}
		club.Status = decision

		if decision == model.StatusRejected {
			f.discard(club.CoverImage, club.Materials)
			return nil
		}
		changed, err := promoteIfNeeded(tx, club.LeaderID)
		if err != nil {
			return err
		}
		f.promote(changed, club.LeaderID)
		return ensureLeaderMembership(tx, club.ID, club.LeaderID, e.now())
	})
	if err != nil {
		return nil, err
	}

	e.apply(contextOf(db), f)
	metrics.RecordDecision("club", string(decision))
	e.log.Info("社团审批完成", "club_id", clubID, "decision", decision, "admin_id", actor.ID)
	return &club, nil
}

// ensureLeaderMembership 负责人在已通过的社团中始终有一条 APPROVED/LEADER 成员记录
func ensureLeaderMembership(tx *gorm.DB, clubID, userID uint, now time.Time) error {
	m := model.Membership{
		UserID:     userID,
		ClubID:     clubID,
		Status:     model.StatusApproved,
		RoleInClub: model.ClubRoleLeader,
		JoinedAt:   now,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "club_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "role_in_club", "updated_at"}),
	}).Create(&m).Error
	return errors.WithStack(err)
}

// PendingClubs 待审批的建社申请，最新的在前
func (e *Engine) PendingClubs(db *gorm.DB, p Page) (*PageResult[model.Club], error) {
	return listPage[model.Club](db, e.snapshot, p,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.Club{}).Where("status = ?", model.StatusPending)
		},
		clubOrder,
	)
}

// AllClubs 已处理（通过或驳回）的社团，search 匹配社团名或负责人姓名
func (e *Engine) AllClubs(db *gorm.DB, p Page, search string) (*PageResult[model.Club], error) {
	search = strings.TrimSpace(search)
	return listPage[model.Club](db, e.snapshot, p,
		func(tx *gorm.DB) *gorm.DB {
			q := tx.Model(&model.Club{}).Where("status <> ?", model.StatusPending)
			if search != "" {
				like := likePattern(search)
				leaders := tx.Model(&model.User{}).Select("id").Where("real_name LIKE ? "+likeEscape, like)
				q = q.Where("name LIKE ? "+likeEscape+" OR leader_id IN (?)", like, leaders)
			}
			return q
		},
		clubOrder,
	)
}

func clubOrder(q *gorm.DB) *gorm.DB {
	return q.Preload("Leader").Order("created_at DESC").Order("id DESC")
}

// LedClubs 用户负责的所有社团（含待审批与驳回）
func (e *Engine) LedClubs(db *gorm.DB, userID uint) ([]model.Club, error) {
	clubs := make([]model.Club, 0)
	err := clubOrder(db.Where("leader_id = ?", userID)).Find(&clubs).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return clubs, nil
}

// ClubDetail 社团详情，附带成员数与查看者自己的成员状态
type ClubDetail struct {
	model.Club
	MemberCount      int64          `json:"memberCount"`
	IsMember         bool           `json:"isMember"`
	MembershipStatus model.Status   `json:"membershipStatus,omitempty"`
	RoleInClub       model.ClubRole `json:"roleInClub,omitempty"`
}

// GetClub 未通过的社团只有负责人和管理员可见
func (e *Engine) GetClub(db *gorm.DB, viewer Actor, clubID uint) (*ClubDetail, error) {
	detail := &ClubDetail{}
	err := inSnapshot(db, e.snapshot, func(tx *gorm.DB) error {
		if err := tx.Preload("Leader").First(&detail.Club, clubID).Error; err != nil {
			return notFound(err, ErrClubNotFound)
		}
		if detail.Status != model.StatusApproved && !viewer.IsAdmin() && detail.LeaderID != viewer.ID {
			return ErrClubNotFound
		}
		err := tx.Model(&model.Membership{}).
			Where("club_id = ? AND status = ?", clubID, model.StatusApproved).
			Count(&detail.MemberCount).Error
		if err != nil {
			return errors.WithStack(err)
		}

		var m model.Membership
		err = tx.Where("user_id = ? AND club_id = ?", viewer.ID, clubID).Take(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return errors.WithStack(err)
		}
		detail.IsMember = m.Status == model.StatusApproved
		detail.MembershipStatus = m.Status
		detail.RoleInClub = m.RoleInClub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

type UpdateClubInput struct {
	Name        *string
	Description *string
	CoverImage  *string
	Materials   *string
}

// UpdateClub 负责人或管理员修改社团资料；改名同样受名称唯一约束。
// 被替换掉的旧文件在提交后删除
func (e *Engine) UpdateClub(db *gorm.DB, actor Actor, clubID uint, in UpdateClubInput) (*model.Club, error) {
	if in.CoverImage != nil {
		if err := e.checkAssets(model.AssetClubCover, *in.CoverImage); err != nil {
			return nil, err
		}
	}
	if in.Materials != nil {
		if err := e.checkAssets(model.AssetClubMaterials, *in.Materials); err != nil {
			return nil, err
		}
	}
	var club model.Club
	f := &effects{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&club, clubID).Error; err != nil {
			return notFound(err, ErrClubNotFound)
		}
		if !actor.IsAdmin() && club.LeaderID != actor.ID {
			return ErrNotClubLeader
		}

		updates := map[string]any{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return ErrInvalidInput
			}
			if name != club.Name {
				taken, err := nameTaken(tx, name, club.ID)
				if err != nil {
					return err
				}
				if taken {
					return ErrDuplicateName
				}
				updates["name"] = name
				club.Name = name
			}
		}
		if in.Description != nil {
			if strings.TrimSpace(*in.Description) == "" {
				return ErrInvalidInput
			}
			updates["description"] = *in.Description
			club.Description = *in.Description
		}
		if in.CoverImage != nil && *in.CoverImage != club.CoverImage {
			if err := claimAssets(tx, *in.CoverImage); err != nil {
				return err
			}
			f.discard(club.CoverImage)
			updates["cover_image"] = *in.CoverImage
			club.CoverImage = *in.CoverImage
		}
		if in.Materials != nil && *in.Materials != club.Materials {
			if err := claimAssets(tx, *in.Materials); err != nil {
				return err
			}
			f.discard(club.Materials)
			updates["materials"] = *in.Materials
			club.Materials = *in.Materials
		}
		if len(updates) == 0 {
			return nil
		}
		return errors.WithStack(tx.Model(&model.Club{}).Where("id = ?", club.ID).Updates(updates).Error)
	})
	if err != nil {
		return nil, err
	}
	e.apply(contextOf(db), f)
	return &club, nil
}
