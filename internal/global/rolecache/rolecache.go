// Package rolecache 缓存用户的全局角色。
// 角色变化由工作流在事务提交后调用 Invalidate，下一次请求重新读取数据库
package rolecache

import (
	"club-management-system/config"
	"club-management-system/internal/global/database"
	globalredis "club-management-system/internal/global/redis"
	"club-management-system/internal/global/sentry/tracing"
	"club-management-system/internal/model"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrUserGone 用户不存在或已被删除
var ErrUserGone = errors.New("user not found")

const (
	keyPattern    = "club:role:%d"
	genKeyPattern = "club:role:gen:%d" // Invalidate 每次自增，回填前用 WATCH 检查
	maxFillRetry  = 3
)

type Cache struct {
	rdb *redis.Client // nil 时每次都查数据库
	db  *gorm.DB
	ttl time.Duration
}

func New(rdb *redis.Client, db *gorm.DB, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, db: db, ttl: ttl}
}

func key(userID uint) string {
	return fmt.Sprintf(keyPattern, userID)
}

func genKey(userID uint) string {
	return fmt.Sprintf(genKeyPattern, userID)
}

// Resolve 先查缓存，未命中时读库并回填
func (c *Cache) Resolve(ctx context.Context, userID uint) (role model.Role, err error) {
	span := tracing.StartSpan(ctx, "cache.role", strconv.FormatUint(uint64(userID), 10))
	defer func() { tracing.Finish(span, err) }()

	if c.rdb == nil {
		return c.read(ctx, userID)
	}
	cached, err := c.rdb.Get(ctx, key(userID)).Result()
	if err == nil && model.Role(cached).Valid() {
		return model.Role(cached), nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		// Redis 故障不影响鉴权，直接读库
		return c.read(ctx, userID)
	}
	return c.fill(ctx, userID)
}

// fill 在 WATCH 代数键的事务里读库并回填。
// 读库期间发生 Invalidate 时 EXEC 失败，重新读取，不会把旧角色写回缓存
func (c *Cache) fill(ctx context.Context, userID uint) (model.Role, error) {
	for i := 0; i < maxFillRetry; i++ {
		var role model.Role
		var readErr error
		err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
			if role, readErr = c.read(ctx, userID); readErr != nil {
				return readErr
			}
			_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key(userID), string(role), c.ttl)
				return nil
			})
			return err
		}, genKey(userID))
		switch {
		case err == nil:
			return role, nil
		case readErr != nil:
			return "", readErr
		case errors.Is(err, redis.TxFailedErr):
			continue
		case role == "":
			// WATCH 本身失败，按 Redis 故障处理
			return c.read(ctx, userID)
		default:
			// 只是回填失败
			return role, nil
		}
	}
	// 角色一直在变，本次结果不缓存
	return c.read(ctx, userID)
}

func (c *Cache) read(ctx context.Context, userID uint) (model.Role, error) {
	var user model.User
	err := c.db.WithContext(ctx).Select("id", "role").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrUserGone
	}
	if err != nil {
		return "", errors.WithStack(err)
	}
	return user.Role, nil
}

// Invalidate 删除这些用户的缓存角色，并让正在回填的读取作废
func (c *Cache) Invalidate(ctx context.Context, userIDs ...uint) error {
	if c.rdb == nil || len(userIDs) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, genKey(id))
			if c.ttl > 0 {
				pipe.Expire(ctx, genKey(id), c.ttl)
			}
			pipe.Del(ctx, key(id))
		}
		return nil
	})
	return errors.WithStack(err)
}

// Default 由 Init 创建，Redis 未配置时只查数据库
var Default *Cache

func Init() {
	ttl := time.Duration(config.Get().RoleCache.TTLSeconds) * time.Second
	Default = New(globalredis.RedisClient, database.DB, ttl)
}
