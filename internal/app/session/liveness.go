package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenChecker decides whether a bearer token is still usable.
type TokenChecker interface {
	Live(token string) bool
}

// TokenCheckerFunc adapts a function to TokenChecker.
type TokenCheckerFunc func(token string) bool

func (f TokenCheckerFunc) Live(token string) bool { return f(token) }

// JWTLiveness treats tokens as JWTs. Without a SecretKey the token is only
// decoded, as a client cannot verify the backend's signature; the time
// claims are still enforced. With a SecretKey the HMAC signature is verified
// as well.
type JWTLiveness struct {
	SecretKey string
	Leeway    time.Duration
	Now       func() time.Time
}

var _ TokenChecker = JWTLiveness{}

// Live never panics; anything it cannot decode is not live.
func (l JWTLiveness) Live(token string) (live bool) {
	defer func() {
		if recover() != nil {
			live = false
		}
	}()

	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}

	opts := []jwt.ParserOption{jwt.WithLeeway(l.Leeway)}
	if l.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(l.Now))
	}

	claims := jwt.MapClaims{}
	if l.SecretKey != "" {
		opts = append(opts, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
		parsed, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(l.SecretKey), nil
		})
		return err == nil && parsed.Valid
	}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return jwt.NewValidator(opts...).Validate(claims) == nil
}
