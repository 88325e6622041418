package test

import (
	"club-management-system/config"
	"club-management-system/internal/global/database"
	"club-management-system/internal/model"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB 每个测试一个内存 sqlite。只开一个连接，事务内的查询必须使用 tx
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), database.Config(config.ModeRelease))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string, role model.Role) model.User {
	t.Helper()
	u := model.User{
		Username: username,
		Email:    username + "@example.com",
		RealName: username,
		Role:     role,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreateClub 直接写入一个社团；APPROVED 时同时写入负责人成员记录
func CreateClub(t *testing.T, db *gorm.DB, leader model.User, name string, status model.Status) model.Club {
	t.Helper()
	c := model.Club{
		Name:        name,
		Type:        model.ClubTech,
		Description: name + " description",
		LeaderID:    leader.ID,
		Status:      status,
	}
	require.NoError(t, db.Create(&c).Error)
	if status == model.StatusApproved {
		AddMember(t, db, c, leader, model.StatusApproved, model.ClubRoleLeader)
	}
	return c
}

func AddMember(t *testing.T, db *gorm.DB, club model.Club, user model.User, status model.Status, role model.ClubRole) model.Membership {
	t.Helper()
	m := model.Membership{
		UserID:     user.ID,
		ClubID:     club.ID,
		Status:     status,
		RoleInClub: role,
		JoinedAt:   time.Now(),
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

// Reload 重新读取用户，用于检查角色变化
func Reload(t *testing.T, db *gorm.DB, u model.User) model.User {
	t.Helper()
	var fresh model.User
	require.NoError(t, db.First(&fresh, u.ID).Error)
	return fresh
}

// Users 批量创建 USER，用户名为 prefix-序号
func Users(t *testing.T, db *gorm.DB, prefix string, n int) []model.User {
	t.Helper()
	users := make([]model.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, CreateUser(t, db, fmt.Sprintf("%s-%d", prefix, i), model.RoleUser))
	}
	return users
}
