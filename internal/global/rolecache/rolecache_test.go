package rolecache_test

import (
	"club-management-system/internal/global/rolecache"
	"club-management-system/internal/model"
	"club-management-system/test"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestResolveCachesAndInvalidates(t *testing.T) {
	db := test.NewDB(t)
	user := test.CreateUser(t, db, "alice", model.RoleUser)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := rolecache.New(rdb, db, time.Minute)
	ctx := context.Background()

	role, err := cache.Resolve(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, role)
	require.True(t, mr.Exists("club:role:1"))

	// 数据库变了但缓存还在
	require.NoError(t, db.Model(&user).Update("role", model.RoleLeader).Error)
	role, err = cache.Resolve(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, role)

	require.NoError(t, cache.Invalidate(ctx, user.ID))
	require.False(t, mr.Exists("club:role:1"))
	role, err = cache.Resolve(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, model.RoleLeader, role)
}

func TestResolveWithoutRedis(t *testing.T) {
	db := test.NewDB(t)
	admin := test.CreateUser(t, db, "root", model.RoleAdmin)
	cache := rolecache.New(nil, db, time.Minute)

	role, err := cache.Resolve(context.Background(), admin.ID)
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, role)
	require.NoError(t, cache.Invalidate(context.Background(), admin.ID))

	_, err = cache.Resolve(context.Background(), 999)
	require.ErrorIs(t, err, rolecache.ErrUserGone)
}

func TestResolveFallsBackWhenRedisDown(t *testing.T) {
	db := test.NewDB(t)
	user := test.CreateUser(t, db, "bob", model.RoleLeader)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	role, err := rolecache.New(rdb, db, time.Minute).Resolve(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, model.RoleLeader, role)
}

func TestInvalidateDuringFill(t *testing.T) {
	db := test.NewDB(t)
	admin := test.CreateUser(t, db, "root", model.RoleAdmin)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := rolecache.New(rdb, db, time.Hour)
	ctx := context.Background()

	// 第一次读库之后、回填之前撤销管理员并失效缓存
	var revoked atomic.Bool
	err := db.Callback().Query().After("gorm:query").Register("revoke_admin", func(tx *gorm.DB) {
		if tx.Statement.Table != "user" || !revoked.CompareAndSwap(false, true) {
			return
		}
		require.NoError(t, db.Session(&gorm.Session{NewDB: true}).Model(&model.User{}).
			Where("id = ?", admin.ID).Update("role", model.RoleUser).Error)
		require.NoError(t, cache.Invalidate(ctx, admin.ID))
	})
	require.NoError(t, err)

	role, err := cache.Resolve(ctx, admin.ID)
	require.NoError(t, err)
	require.True(t, revoked.Load())
	require.Equal(t, model.RoleUser, role)

	cached, err := mr.Get("club:role:1")
	require.NoError(t, err)
	require.Equal(t, string(model.RoleUser), cached)

	role, err = cache.Resolve(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, role)
}
