// Package governance 社团审批、成员与负责人转让的工作流。
// 每个操作在一个数据库事务中完成；角色缓存失效、上传文件清理等副作用只在提交后执行。
package governance

import (
	"club-management-system/internal/global/logger"
	"club-management-system/internal/global/metrics"
	"club-management-system/internal/model"
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AssetRemover 删除上传的封面、材料等文件
type AssetRemover interface {
	Delete(ctx context.Context, path string) error
	InCategory(path, category string) bool
}

// RoleInvalidator 角色变化提交后清理缓存
type RoleInvalidator interface {
	Invalidate(ctx context.Context, userIDs ...uint) error
}

// Actor 发起操作的用户
type Actor struct {
	ID   uint
	Role model.Role
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

type Engine struct {
	assets   AssetRemover
	roles    RoleInvalidator
	snapshot *sql.TxOptions
	now      func() time.Time
	log      *slog.Logger
}

type Option func(*Engine)

func WithAssets(a AssetRemover) Option { return func(e *Engine) { e.assets = a } }

func WithRoleInvalidator(r RoleInvalidator) Option { return func(e *Engine) { e.roles = r } }

// WithSnapshotOptions 分页读取使用的事务选项，nil 表示驱动默认
func WithSnapshotOptions(opts *sql.TxOptions) Option { return func(e *Engine) { e.snapshot = opts } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		snapshot: &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.New("Governance")
	}
	return e
}

// effects 事务提交后才执行的副作用
type effects struct {
	promoted []uint
	demoted  []uint
	assets   []string
}

func (f *effects) promote(changed bool, userID uint) {
	if changed {
		f.promoted = append(f.promoted, userID)
	}
}

func (f *effects) demote(changed bool, userID uint) {
	if changed {
		f.demoted = append(f.demoted, userID)
	}
}

func (f *effects) discard(paths ...string) {
	for _, p := range paths {
		if p != "" {
			f.assets = append(f.assets, p)
		}
	}
}

func (e *Engine) apply(ctx context.Context, f *effects) {
	if n := len(f.promoted); n > 0 {
		metrics.RecordRoleChange(metrics.RolePromoted, n)
	}
	if n := len(f.demoted); n > 0 {
		metrics.RecordRoleChange(metrics.RoleDemoted, n)
	}
	if changed := append(append([]uint{}, f.promoted...), f.demoted...); len(changed) > 0 && e.roles != nil {
		if err := e.roles.Invalidate(ctx, changed...); err != nil {
			// 缓存有 TTL，最迟过期后恢复
			e.log.Warn("清理角色缓存失败", "user_ids", changed, "error", err)
		}
	}
	if e.assets == nil {
		return
	}
	for _, p := range f.assets {
		if err := e.assets.Delete(ctx, p); err != nil {
			metrics.RecordAssetCleanupFailure()
			e.log.Warn("删除上传文件失败", "path", p, "error", err)
		}
	}
}

// checkAssets 提交的地址必须是对应分类下上传的文件，空地址表示不设置。
// 驳回或替换时会删除这些文件，不能指向其他记录的文件
func (e *Engine) checkAssets(category string, paths ...string) error {
	if e.assets == nil {
		return nil
	}
	for _, p := range paths {
		if p != "" && !e.assets.InCategory(p, category) {
			return ErrInvalidAsset
		}
	}
	return nil
}

// claimAssets 新设置的地址不能已被社团、活动或用户引用
func claimAssets(tx *gorm.DB, paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		for _, q := range []*gorm.DB{
			tx.Model(&model.Club{}).Where("cover_image = ? OR materials = ?", p, p),
			tx.Model(&model.Activity{}).Where("cover_image = ?", p),
			tx.Model(&model.User{}).Where("avatar = ?", p),
		} {
			var n int64
			if err := q.Count(&n).Error; err != nil {
				return errors.WithStack(err)
			}
			if n > 0 {
				return ErrInvalidAsset
			}
		}
	}
	return nil
}

func contextOf(db *gorm.DB) context.Context {
	if db.Statement != nil && db.Statement.Context != nil {
		return db.Statement.Context
	}
	return context.Background()
}
