package governance_test

import (
	"club-management-system/internal/governance"
	"club-management-system/internal/model"
	"club-management-system/test"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"
)

type fakeAssets struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeAssets) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, path)
	return f.err
}

// InCategory 与本地图床一致：/uploads/<category>/<文件名>
func (f *fakeAssets) InCategory(path, category string) bool {
	rest, ok := strings.CutPrefix(path, "/uploads/"+category+"/")
	return ok && rest != "" && !strings.Contains(rest, "/")
}

type fakeRoles struct {
	mu          sync.Mutex
	invalidated []uint
}

func (f *fakeRoles) Invalidate(_ context.Context, ids ...uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, ids...)
	return nil
}

type fixture struct {
	db     *gorm.DB
	engine *governance.Engine
	assets *fakeAssets
	roles  *fakeRoles
	admin  governance.Actor
}

func setup(t *testing.T) *fixture {
	db := test.NewDB(t)
	f := &fixture{db: db, assets: &fakeAssets{}, roles: &fakeRoles{}}
	f.engine = governance.NewEngine(
		governance.WithAssets(f.assets),
		governance.WithRoleInvalidator(f.roles),
		governance.WithSnapshotOptions(nil),
	)
	admin := test.CreateUser(t, db, "admin", model.RoleAdmin)
	f.admin = actor(admin)
	return f
}

func actor(u model.User) governance.Actor {
	return governance.Actor{ID: u.ID, Role: u.Role}
}

var errBoom = errors.New("boom")
