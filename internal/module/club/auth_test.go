package club

import (
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/global/response"
	"club-management-system/internal/global/rolecache"
	"club-management-system/internal/model"
	"club-management-system/test"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type brokenResolver struct{}

func (brokenResolver) Resolve(context.Context, uint) (model.Role, error) {
	return "", errors.New("redis and database unavailable")
}

func TestAuthUsesCurrentRole(t *testing.T) {
	db := test.Setup(t)
	r := newRouter()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	middleware.SetRoleResolver(rolecache.New(rdb, db, time.Minute))

	// token 签发时是 ADMIN，之后被降为 USER
	alice := test.CreateUser(t, db, "alice", model.RoleUser)
	stale := alice
	stale.Role = model.RoleAdmin
	code, resp := test.DoRequest(t, r, http.MethodGet, "/api/clubs/pending", test.Token(t, stale), nil, nil)
	test.ErrorEqual(t, code, resp, response.ErrForbidden)

	// 反过来 token 中是 USER，数据库里已是 ADMIN
	bob := test.CreateUser(t, db, "bob", model.RoleAdmin)
	old := bob
	old.Role = model.RoleUser
	code, resp = test.DoRequest(t, r, http.MethodGet, "/api/clubs/pending", test.Token(t, old), nil, nil)
	test.NoError(t, code, resp)

	// 已删除的用户 token 失效
	require.NoError(t, db.Delete(&bob).Error)
	require.NoError(t, rolecache.New(rdb, db, time.Minute).Invalidate(context.Background(), bob.ID))
	code, resp = test.DoRequest(t, r, http.MethodGet, "/api/clubs/pending", test.Token(t, bob), nil, nil)
	test.ErrorEqual(t, code, resp, response.ErrTokenInvalid)
}

func TestAuthFallsBackToTokenRole(t *testing.T) {
	db := test.Setup(t)
	r := newRouter()
	middleware.SetRoleResolver(brokenResolver{})

	admin := test.CreateUser(t, db, "admin", model.RoleAdmin)
	code, resp := test.DoRequest(t, r, http.MethodGet, "/api/clubs/pending", test.Token(t, admin), nil, nil)
	test.NoError(t, code, resp)

	user := test.CreateUser(t, db, "alice", model.RoleUser)
	code, resp = test.DoRequest(t, r, http.MethodGet, "/api/clubs/pending", test.Token(t, user), nil, nil)
	test.ErrorEqual(t, code, resp, response.ErrForbidden)
}
