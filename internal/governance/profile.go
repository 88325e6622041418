package governance

import (
	"club-management-system/internal/model"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileInput nil 字段保持不变
type ProfileInput struct {
	Username *string
	RealName *string
	Avatar   *string
}

// UpdateProfile 用户修改自己的资料。用户名唯一，头像必须是头像分类下的上传文件，
// 被替换的旧头像在提交后删除
func (e *Engine) UpdateProfile(db *gorm.DB, actor Actor, in ProfileInput) (*model.User, error) {
	if in.Avatar != nil {
		if err := e.checkAssets(model.AssetAvatar, *in.Avatar); err != nil {
			return nil, err
		}
	}

	var user model.User
	f := &effects{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, actor.ID).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}

		updates := map[string]any{}
		if in.Username != nil {
			username := strings.TrimSpace(*in.Username)
			if username == "" {
				return ErrInvalidInput
			}
			if username != user.Username {
				var n int64
				err := tx.Model(&model.User{}).
					Where("username = ? AND id <> ?", username, user.ID).
					Count(&n).Error
				if err != nil {
					return errors.WithStack(err)
				}
				if n > 0 {
					return ErrDuplicateUsername
				}
				updates["username"] = username
				user.Username = username
			}
		}
		if in.RealName != nil {
			realName := strings.TrimSpace(*in.RealName)
			updates["real_name"] = realName
			user.RealName = realName
		}
		if in.Avatar != nil && *in.Avatar != user.Avatar {
			if err := claimAssets(tx, *in.Avatar); err != nil {
				return err
			}
			f.discard(user.Avatar)
			updates["avatar"] = *in.Avatar
			user.Avatar = *in.Avatar
		}
		if len(updates) == 0 {
			return nil
		}
		err := tx.Model(&model.User{}).Where("id = ?", user.ID).Updates(updates).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}
	e.apply(contextOf(db), f)
	return &user, nil
}
