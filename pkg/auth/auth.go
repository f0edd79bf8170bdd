package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"
)

// JWTKey signs and verifies access tokens. Overridden from config at startup.
var JWTKey = []byte("library-dev-key")

func SetJWTKey(key string) {
	if key != "" {
		JWTKey = []byte(key)
	}
}

type Claims struct {
	Profile struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"profile"`
	jwt.RegisteredClaims
}

// BuildToken issues a signed HS256 token for the given identity.
func BuildToken(username, role string, ttl time.Duration) (token string, expiresAt time.Time, err error) {
	expiresAt = time.Now().Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	claims.Profile.Username = username
	claims.Profile.Role = role

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JWTKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

type ctxKey uint8

const (
	userNameKey ctxKey = iota
	userRoleKey
)

func SetAuthContext(ctx context.Context, username, role string) context.Context {
	ctx = context.WithValue(ctx, userNameKey, username)
	return context.WithValue(ctx, userRoleKey, role)
}

func GetUserName(ctx context.Context) (string, error) {
	name, ok := ctx.Value(userNameKey).(string)
	if !ok || name == "" {
		return "", errors.New("no username in context")
	}
	return name, nil
}

func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return GetRole(ctx) == RoleAdmin
}
