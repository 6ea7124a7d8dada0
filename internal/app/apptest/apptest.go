// Package apptest wires the pieces handler tests need: a session store in a
// chosen state and a gin engine with the route table mounted.
package apptest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/authz"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/middleware"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/routing"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/session"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/storage"
)

// LiveToken is the only token Checker accepts.
const LiveToken = "live-token"

// Checker treats LiveToken as the one live token.
var Checker = session.TokenCheckerFunc(func(token string) bool { return token == LiveToken })

// AuthFunc adapts a function to session.Authenticator.
type AuthFunc func(ctx context.Context, identifier, secret string) (*session.AuthResult, error)

func (f AuthFunc) Authenticate(ctx context.Context, identifier, secret string) (*session.AuthResult, error) {
	return f(ctx, identifier, secret)
}

// Store returns a restored store, signed in as user with LiveToken when user
// is non-nil. auth may be nil.
func Store(t *testing.T, auth session.Authenticator, user *models.User) *session.Store {
	t.Helper()
	ctx := context.Background()

	mem := storage.NewMemory()
	if user != nil {
		bootstrap := session.NewStore(mem, AuthFunc(func(context.Context, string, string) (*session.AuthResult, error) {
			return &session.AuthResult{Token: LiveToken, User: user}, nil
		}), zap.NewNop())
		bootstrap.Restore(ctx)
		_, err := bootstrap.SignIn(ctx, "seed", "seed")
		require.NoError(t, err)
	}
	if auth == nil {
		auth = AuthFunc(func(context.Context, string, string) (*session.AuthResult, error) {
			return nil, &session.AuthenticationError{Reason: "invalid credentials"}
		})
	}

	st := session.NewStore(mem, auth, zap.NewNop())
	st.Restore(ctx)
	return st
}

// Engine mounts units behind the authorizer with st attached to every
// request.
func Engine(t *testing.T, st *session.Store, units ...[]routing.Definition) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	table, err := routing.Assemble(units...)
	require.NoError(t, err)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(middleware.StoreContextKey), st)
		c.Next()
	})
	routing.Mount(r, table, authz.New(Checker, authz.Config{}, zap.NewNop()), zap.NewNop())
	return r
}

// Get performs a GET against r.
func Get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

// PostForm submits form values to path.
func PostForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Doc parses a recorded HTML response.
func Doc(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}
