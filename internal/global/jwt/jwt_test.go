package jwt

import (
	"club-management-system/config"
	"club-management-system/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
)

func withSecret(t *testing.T, secret string, expire int64) {
	old := config.Get()
	c := *old
	c.JWT = config.JWT{AccessSecret: secret, AccessExpire: expire}
	config.Set(&c)
	t.Cleanup(func() { config.Set(old) })
}

func TestCreateAndParseToken(t *testing.T) {
	withSecret(t, "secret", 3600)

	token, err := CreateToken(Payload{UserID: 7, Role: model.RoleLeader})
	require.NoError(t, err)

	claims, ok := ParseToken(token)
	require.True(t, ok)
	require.Equal(t, uint(7), claims.UserID)
	require.Equal(t, model.RoleLeader, claims.Role)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	withSecret(t, "secret", -10)
	expired, err := CreateToken(Payload{UserID: 1, Role: model.RoleUser})
	require.NoError(t, err)
	_, ok := ParseToken(expired)
	require.False(t, ok)

	withSecret(t, "other", 3600)
	foreign, err := CreateToken(Payload{UserID: 1, Role: model.RoleUser})
	require.NoError(t, err)
	withSecret(t, "secret", 3600)
	_, ok = ParseToken(foreign)
	require.False(t, ok)

	_, ok = ParseToken("not-a-token")
	require.False(t, ok)
}
