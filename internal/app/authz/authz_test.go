package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/middleware"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/session"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/storage"
)

var liveOnly = session.TokenCheckerFunc(func(token string) bool { return token == "live" })

func user(tag roles.RoleTag) *models.User {
	return &models.User{ID: "u-" + string(tag), Email: "x@example.org", Role: tag}
}

func TestDecide(t *testing.T) {
	a := New(liveOnly, Config{}, zap.NewNop())

	volunteerOnly := roles.MustResolve(roles.VolunteerOnly)
	orgOnly := roles.MustResolve(roles.OrganizationOnly)
	anyUser := roles.MustResolve(roles.Authenticated)
	guest := roles.MustResolve(roles.Guest)

	tests := []struct {
		name string
		snap session.Snapshot
		req  roles.Requirement
		want Decision
	}{
		{
			name: "visitor on volunteer-only route",
			snap: session.Snapshot{},
			req:  volunteerOnly,
			want: Decision{Outcome: RedirectSignIn, Location: "/signin", ReplaceHistory: true},
		},
		{
			name: "organization on volunteer-only route",
			snap: session.Snapshot{User: user(roles.Organization), Token: "live"},
			req:  volunteerOnly,
			want: Decision{Outcome: RedirectForbidden, Location: "/401", ReplaceHistory: true},
		},
		{
			name: "volunteer on authenticated route",
			snap: session.Snapshot{User: user(roles.Volunteer), Token: "live"},
			req:  anyUser,
			want: Decision{Outcome: Allowed},
		},
		{
			name: "expired token redirects to sign-in",
			snap: session.Snapshot{User: user(roles.Volunteer), Token: "expired"},
			req:  volunteerOnly,
			want: Decision{Outcome: RedirectSignIn, Location: "/signin", ReplaceHistory: true},
		},
		{
			name: "user without token",
			snap: session.Snapshot{User: user(roles.Volunteer)},
			req:  anyUser,
			want: Decision{Outcome: RedirectSignIn, Location: "/signin", ReplaceHistory: true},
		},
		{
			name: "token without user",
			snap: session.Snapshot{Token: "live"},
			req:  anyUser,
			want: Decision{Outcome: RedirectSignIn, Location: "/signin", ReplaceHistory: true},
		},
		{
			name: "unauthenticated beats wrong role",
			snap: session.Snapshot{User: user(roles.Volunteer), Token: "expired"},
			req:  orgOnly,
			want: Decision{Outcome: RedirectSignIn, Location: "/signin", ReplaceHistory: true},
		},
		{
			name: "organization on organization-only route",
			snap: session.Snapshot{User: user(roles.Organization), Token: "live"},
			req:  orgOnly,
			want: Decision{Outcome: Allowed},
		},
		{
			name: "loading on gated route",
			snap: session.Snapshot{Loading: true},
			req:  volunteerOnly,
			want: Decision{Outcome: Pending},
		},
		{
			name: "loading with a stale session still waits",
			snap: session.Snapshot{Loading: true, User: user(roles.Organization), Token: "expired"},
			req:  volunteerOnly,
			want: Decision{Outcome: Pending},
		},
		{
			name: "guest route for visitor",
			snap: session.Snapshot{},
			req:  guest,
			want: Decision{Outcome: Allowed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Decide(tt.snap, tt.req))
		})
	}
}

func TestDecide_UnrestrictedRoutesVersusLoading(t *testing.T) {
	a := New(liveOnly, Config{}, zap.NewNop())
	guest := roles.MustResolve(roles.Guest)

	snaps := []session.Snapshot{
		{},
		{User: user(roles.Volunteer), Token: "live"},
		{User: user(roles.Organization), Token: "expired"},
		{Token: "live"},
		{User: user(roles.Volunteer)},
	}

	for _, snap := range snaps {
		assert.Equal(t, Allowed, a.Decide(snap, guest).Outcome, "unrestricted routes allow any settled session")

		snap.Loading = true
		assert.Equal(t, Pending, a.Decide(snap, guest).Outcome, "loading wins over unrestricted")
	}
}

func TestDecide_EveryGatedRouteRedirectsVisitors(t *testing.T) {
	a := New(liveOnly, Config{}, zap.NewNop())
	for _, g := range []roles.RoleGroup{roles.VolunteerOnly, roles.OrganizationOnly, roles.Authenticated} {
		d := a.Decide(session.Snapshot{}, roles.MustResolve(g))
		assert.Equal(t, RedirectSignIn, d.Outcome, g.String())
	}
}

func TestDecide_CustomPaths(t *testing.T) {
	a := New(liveOnly, Config{SignInPath: "/entrar", ForbiddenPath: "/proibido"}, nil)
	req := roles.MustResolve(roles.OrganizationOnly)

	assert.Equal(t, "/entrar", a.Decide(session.Snapshot{}, req).Location)
	assert.Equal(t, "/proibido", a.Decide(session.Snapshot{User: user(roles.Volunteer), Token: "live"}, req).Location)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "allowed", Allowed.String())
	assert.Equal(t, "redirect_signin", RedirectSignIn.String())
	assert.Equal(t, "redirect_forbidden", RedirectForbidden.String())
	assert.Equal(t, "Outcome(9)", Outcome(9).String())
}

// newRouter mounts a gated handler with st attached to every request.
func newRouter(a *Authorizer, st *session.Store, group roles.RoleGroup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if st != nil {
			c.Set(string(middleware.StoreContextKey), st)
		}
		c.Next()
	})
	r.GET("/home", a.Middleware(roles.MustResolve(group)), func(c *gin.Context) {
		snap := middleware.GetSnapshotFromContext(c)
		name := "anonymous"
		if snap.User != nil {
			name = snap.User.ID
		}
		c.String(http.StatusOK, "home for "+name)
	})
	return r
}

type stubAuth struct{ res *session.AuthResult }

func (s stubAuth) Authenticate(context.Context, string, string) (*session.AuthResult, error) {
	return s.res, nil
}

func signedIn(t *testing.T, u *models.User, token string) *session.Store {
	t.Helper()
	st := session.NewStore(storage.NewMemory(), stubAuth{res: &session.AuthResult{Token: token, User: u}}, zap.NewNop())
	st.Restore(context.Background())
	_, err := st.SignIn(context.Background(), "id", "secret")
	require.NoError(t, err)
	return st
}

func TestMiddleware_RedirectsVisitorWithSeeOther(t *testing.T) {
	st := session.NewStore(storage.NewMemory(), stubAuth{}, zap.NewNop())
	st.Restore(context.Background())
	r := newRouter(New(liveOnly, Config{}, zap.NewNop()), st, roles.VolunteerOnly)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/signin", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "home for")
}

func TestMiddleware_HTMXRedirectReplacesURL(t *testing.T) {
	st := signedIn(t, user(roles.Organization), "live")
	r := newRouter(New(liveOnly, Config{}, zap.NewNop()), st, roles.VolunteerOnly)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/401", w.Header().Get("HX-Redirect"))
	assert.Equal(t, "/401", w.Header().Get("HX-Replace-Url"))
	assert.Empty(t, w.Body.String())
}

func TestMiddleware_AllowsAndSharesSnapshot(t *testing.T) {
	st := signedIn(t, user(roles.Volunteer), "live")
	r := newRouter(New(liveOnly, Config{}, zap.NewNop()), st, roles.Authenticated)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "home for u-VOLUNTEER", w.Body.String())
}

func TestMiddleware_PendingWhileLoading(t *testing.T) {
	st := session.NewStore(storage.NewMemory(), stubAuth{}, zap.NewNop())
	r := newRouter(New(liveOnly, Config{PollInterval: 2 * time.Second}, zap.NewNop()), st, roles.VolunteerOnly)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home?tab=1", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "2", w.Header().Get("Refresh"))
	assert.Empty(t, w.Header().Get("Location"), "no redirect while loading")

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	loading := doc.Find("#loading")
	require.Equal(t, 1, loading.Length())
	assert.Equal(t, "/home?tab=1", loading.AttrOr("hx-get", ""))
	assert.Equal(t, "every 2s", loading.AttrOr("hx-trigger", ""))
}

func TestMiddleware_PendingSubmissionAsksForRetry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := session.NewStore(storage.NewMemory(), stubAuth{}, zap.NewNop())
	a := New(liveOnly, Config{PollInterval: 3 * time.Second}, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(middleware.StoreContextKey), st)
		c.Next()
	})
	var handled bool
	r.POST("/signin", a.Middleware(roles.MustResolve(roles.Guest)), func(c *gin.Context) {
		handled = true
		c.Status(http.StatusSeeOther)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "3", w.Header().Get("Retry-After"))
	assert.Empty(t, w.Header().Get("Refresh"), "a submission is never replayed as a GET")
	assert.NotContains(t, w.Body.String(), "hx-get")
	assert.False(t, handled)
}

func TestMiddleware_WaitsBrieflyForRestore(t *testing.T) {
	st := session.NewStore(storage.NewMemory(), stubAuth{}, zap.NewNop())
	r := newRouter(New(liveOnly, Config{ReadyWait: 2 * time.Second}, zap.NewNop()), st, roles.VolunteerOnly)

	go func() {
		time.Sleep(20 * time.Millisecond)
		st.Restore(context.Background())
	}()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code, "once restored the visitor is redirected")
}

func TestMiddleware_WithoutStoreTreatsVisitorAsSignedOut(t *testing.T) {
	r := newRouter(New(liveOnly, Config{}, zap.NewNop()), nil, roles.Authenticated)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/home", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
}
