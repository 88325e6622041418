package jwt

import (
	"club-management-system/config"
	"club-management-system/internal/model"
	"time"

	jwtlib "github.com/golang-jwt/jwt"
)

// Payload token 中携带的身份信息
type Payload struct {
	UserID uint       `json:"userId"`
	Role   model.Role `json:"role"`
}

type Claims struct {
	Payload
	jwtlib.StandardClaims
}

// CreateToken 签发访问 token，有效期取配置 JWT.AccessExpire（秒）
func CreateToken(p Payload) (string, error) {
	cfg := config.Get().JWT
	now := time.Now()
	claims := Claims{
		Payload: p,
		StandardClaims: jwtlib.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(cfg.AccessExpire) * time.Second).Unix(),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
}

// ParseToken 校验签名与有效期
func ParseToken(token string) (*Claims, bool) {
	claims := &Claims{}
	t, err := jwtlib.ParseWithClaims(token, claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, jwtlib.ErrSignatureInvalid
		}
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !t.Valid || claims.UserID == 0 {
		return nil, false
	}
	return claims, true
}
