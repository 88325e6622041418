package governance

import (
	"club-management-system/internal/global/metrics"
	"club-management-system/internal/model"
	"sort"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransferResult struct {
	Club              *model.Club `json:"club"`
	OldLeaderID       uint        `json:"oldLeaderId"`
	NewLeaderPromoted bool        `json:"newLeaderPromoted"`
	OldLeaderDemoted  bool        `json:"oldLeaderDemoted"`
}

// TransferLeadership 管理员把社团转给另一位用户。
// 锁顺序固定为先社团后用户（按 id 升序），两个并发转让不会互相等待成环
func (e *Engine) TransferLeadership(db *gorm.DB, actor Actor, clubID, newLeaderID uint) (*TransferResult, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if newLeaderID == 0 {
		return nil, ErrInvalidInput
	}

	var club model.Club
	result := &TransferResult{Club: &club}
	f := &effects{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&club, clubID).Error; err != nil {
			return notFound(err, ErrClubNotFound)
		}
		oldLeaderID := club.LeaderID
		result.OldLeaderID = oldLeaderID

		users, err := lockUsers(tx, oldLeaderID, newLeaderID)
		if err != nil {
			return err
		}
		if _, ok := users[newLeaderID]; !ok {
			return ErrUserNotFound
		}

		if oldLeaderID == newLeaderID {
			if club.Status == model.StatusApproved {
				return ensureLeaderMembership(tx, club.ID, newLeaderID, e.now())
			}
			return nil
		}

		res := tx.Model(&model.Club{}).
			Where("id = ? AND leader_id = ?", clubID, oldLeaderID).
			Update("leader_id", newLeaderID)
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}
		club.LeaderID = newLeaderID
		club.Leader = nil

		if result.NewLeaderPromoted, err = promoteIfNeeded(tx, newLeaderID); err != nil {
			return err
		}
		f.promote(result.NewLeaderPromoted, newLeaderID)

		if club.Status == model.StatusApproved {
			err := tx.Model(&model.Membership{}).
				Where("user_id = ? AND club_id = ? AND role_in_club = ?", oldLeaderID, clubID, model.ClubRoleLeader).
				Update("role_in_club", model.ClubRoleMember).Error
			if err != nil {
				return errors.WithStack(err)
			}
			if err := ensureLeaderMembership(tx, club.ID, newLeaderID, e.now()); err != nil {
				return err
			}
		}

		if result.OldLeaderDemoted, err = demoteIfNoLeadership(tx, oldLeaderID, clubID); err != nil {
			return err
		}
		f.demote(result.OldLeaderDemoted, oldLeaderID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.apply(contextOf(db), f)
	if result.OldLeaderID != newLeaderID {
		metrics.RecordTransfer()
		e.log.Info("社团负责人已转让", "club_id", clubID, "from", result.OldLeaderID, "to", newLeaderID, "admin_id", actor.ID)
	}
	return result, nil
}

// lockUsers 按 id 升序加锁，返回存在的用户
func lockUsers(tx *gorm.DB, ids ...uint) (map[uint]model.User, error) {
	uniq := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	var users []model.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "role").
		Where("id IN ?", uniq).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}
	found := make(map[uint]model.User, len(users))
	for _, u := range users {
		found[u.ID] = u
	}
	return found, nil
}
