package governance

import (
	"club-management-system/internal/global/metrics"
	"club-management-system/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// promoteIfNeeded 只把 USER 升为 LEADER，ADMIN 不受影响
func promoteIfNeeded(tx *gorm.DB, userID uint) (bool, error) {
	res := tx.Model(&model.User{}).
		Where("id = ? AND role = ?", userID, model.RoleUser).
		Update("role", model.RoleLeader)
	if res.Error != nil {
		return false, errors.WithStack(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// demoteIfNoLeadership 用户不再领导任何已通过的社团时降为 USER。
// exceptClubID 是当前事务中正在失去领导权的社团，0 表示不排除
func demoteIfNoLeadership(tx *gorm.DB, userID, exceptClubID uint) (bool, error) {
	var user model.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "role").
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.WithStack(err)
	}
	if user.Role != model.RoleLeader {
		return false, nil
	}

	q := tx.Model(&model.Club{}).Where("leader_id = ? AND status = ?", userID, model.StatusApproved)
	if exceptClubID != 0 {
		q = q.Where("id <> ?", exceptClubID)
	}
	var led int64
	if err := q.Count(&led).Error; err != nil {
		return false, errors.WithStack(err)
	}
	if led > 0 {
		return false, nil
	}

	res := tx.Model(&model.User{}).
		Where("id = ? AND role = ?", userID, model.RoleLeader).
		Update("role", model.RoleUser)
	if res.Error != nil {
		return false, errors.WithStack(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// PromoteIfNeeded 返回角色是否发生变化
func (e *Engine) PromoteIfNeeded(db *gorm.DB, userID uint) (bool, error) {
	var changed bool
	err := db.Transaction(func(tx *gorm.DB) (err error) {
		changed, err = promoteIfNeeded(tx, userID)
		return err
	})
	if err != nil {
		return false, err
	}
	f := &effects{}
	f.promote(changed, userID)
	e.apply(contextOf(db), f)
	return changed, nil
}

// DemoteIfNoLeadership 返回角色是否发生变化
func (e *Engine) DemoteIfNoLeadership(db *gorm.DB, userID uint) (bool, error) {
	var changed bool
	err := db.Transaction(func(tx *gorm.DB) (err error) {
		changed, err = demoteIfNoLeadership(tx, userID, 0)
		return err
	})
	if err != nil {
		return false, err
	}
	f := &effects{}
	f.demote(changed, userID)
	e.apply(contextOf(db), f)
	return changed, nil
}

// OverrideRole 管理员直接设置角色
func (e *Engine) OverrideRole(db *gorm.DB, actor Actor, userID uint, role model.Role) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	var (
		user    model.User
		changed bool
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}
		if user.Role == role {
			return nil
		}
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Update("role", role).Error; err != nil {
			return errors.WithStack(err)
		}
		user.Role, changed = role, true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return &user, nil
	}
	if e.roles != nil {
		if err := e.roles.Invalidate(contextOf(db), userID); err != nil {
			e.log.Warn("清理角色缓存失败", "user_id", userID, "error", err)
		}
	}
	metrics.RecordRoleChange(metrics.RoleOverridden, 1)
	return &user, nil
}
