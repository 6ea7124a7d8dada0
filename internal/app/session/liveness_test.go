package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTLiveness_Live(t *testing.T) {
	checker := JWTLiveness{Now: func() time.Time { return fixedNow }}

	valid := signToken(t, "backend-secret", jwt.MapClaims{
		"sub": "u1",
		"exp": fixedNow.Add(time.Hour).Unix(),
	})
	expired := signToken(t, "backend-secret", jwt.MapClaims{
		"sub": "u1",
		"exp": fixedNow.Add(-time.Minute).Unix(),
	})
	notYet := signToken(t, "backend-secret", jwt.MapClaims{
		"sub": "u1",
		"nbf": fixedNow.Add(time.Hour).Unix(),
		"exp": fixedNow.Add(2 * time.Hour).Unix(),
	})
	noExp := signToken(t, "backend-secret", jwt.MapClaims{"sub": "u1"})

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid token", valid, true},
		{"token without expiry", noExp, true},
		{"expired token", expired, false},
		{"not yet valid", notYet, false},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"garbage", "not-a-jwt", false},
		{"three garbage segments", "a.b.c", false},
		{"opaque string with dots", "....", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checker.Live(tt.token))
		})
	}
}

func TestJWTLiveness_Leeway(t *testing.T) {
	token := signToken(t, "k", jwt.MapClaims{"exp": fixedNow.Add(-30 * time.Second).Unix()})

	strict := JWTLiveness{Now: func() time.Time { return fixedNow }}
	lenient := JWTLiveness{Now: func() time.Time { return fixedNow }, Leeway: time.Minute}

	assert.False(t, strict.Live(token))
	assert.True(t, lenient.Live(token))
}

func TestJWTLiveness_VerifiesSignatureWhenSecretSet(t *testing.T) {
	checker := JWTLiveness{SecretKey: "shared", Now: func() time.Time { return fixedNow }}
	claims := jwt.MapClaims{"exp": fixedNow.Add(time.Hour).Unix()}

	assert.True(t, checker.Live(signToken(t, "shared", claims)))
	assert.False(t, checker.Live(signToken(t, "someone-else", claims)))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.False(t, checker.Live(unsigned), "alg none must be rejected")
}

func TestTokenCheckerFunc(t *testing.T) {
	var c TokenChecker = TokenCheckerFunc(func(token string) bool { return token == "ok" })
	assert.True(t, c.Live("ok"))
	assert.False(t, c.Live("nope"))
}
