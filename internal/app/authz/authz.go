// Package authz decides whether a navigation may render, must wait for the
// session to load, or must be redirected.
package authz

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/middleware"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/session"
)

const (
	SignInPath    = "/signin"
	ForbiddenPath = "/401"
)

// Outcome is the terminal (or suspended) state of one navigation attempt.
type Outcome int

const (
	Pending Outcome = iota
	Allowed
	RedirectSignIn
	RedirectForbidden
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Allowed:
		return "allowed"
	case RedirectSignIn:
		return "redirect_signin"
	case RedirectForbidden:
		return "redirect_forbidden"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Decision is the result of Decide. Location is set for redirects, which
// always replace the current history entry.
type Decision struct {
	Outcome        Outcome
	Location       string
	ReplaceHistory bool
}

// Config tunes the authorizer.
type Config struct {
	SignInPath    string
	ForbiddenPath string
	// ReadyWait bounds how long a request waits for a loading session
	// before answering with the pending page.
	ReadyWait time.Duration
	// PollInterval is how often the pending page re-requests the route.
	PollInterval time.Duration
}

// Authorizer evaluates route requirements against session snapshots.
type Authorizer struct {
	checker session.TokenChecker
	cfg     Config
	logger  *zap.Logger
}

// New returns an authorizer using checker for token liveness.
func New(checker session.TokenChecker, cfg Config, logger *zap.Logger) *Authorizer {
	if cfg.SignInPath == "" {
		cfg.SignInPath = SignInPath
	}
	if cfg.ForbiddenPath == "" {
		cfg.ForbiddenPath = ForbiddenPath
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authorizer{checker: checker, cfg: cfg, logger: logger}
}

// Decide runs the checks in order: loading, unrestricted, authenticated with
// a live token, role membership.
func (a *Authorizer) Decide(snap session.Snapshot, req roles.Requirement) Decision {
	if snap.Loading {
		return Decision{Outcome: Pending}
	}
	if req.Empty() {
		return Decision{Outcome: Allowed}
	}
	if snap.User == nil || snap.Token == "" || !a.checker.Live(snap.Token) {
		return Decision{Outcome: RedirectSignIn, Location: a.cfg.SignInPath, ReplaceHistory: true}
	}
	if !req.Allows(snap.User.Role) {
		return Decision{Outcome: RedirectForbidden, Location: a.cfg.ForbiddenPath, ReplaceHistory: true}
	}
	return Decision{Outcome: Allowed}
}

// Middleware gates a route on req. The request's snapshot is taken once and
// stored on the context for the view and layout.
func (a *Authorizer) Middleware(req roles.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := a.snapshot(c)
		d := a.Decide(snap, req)

		metrics.Get().AuthzDecisionsTotal.Add(c.Request.Context(), 1,
			metric.WithAttributes(
				attribute.String("outcome", d.Outcome.String()),
				attribute.String("route", c.FullPath()),
			))

		switch d.Outcome {
		case Allowed:
			middleware.SetSnapshot(c, snap)
			c.Next()
		case Pending:
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				a.rejectPending(c)
				return
			}
			a.renderPending(c)
		default:
			a.logger.Debug("Navigation redirected",
				zap.String("path", c.Request.URL.Path),
				zap.String("outcome", d.Outcome.String()),
				zap.String("location", d.Location))
			middleware.Redirect(c, d.Location)
		}
	}
}

func (a *Authorizer) snapshot(c *gin.Context) session.Snapshot {
	st := middleware.GetStoreFromContext(c)
	if st == nil {
		return session.Snapshot{}
	}

	snap := st.Snapshot()
	if !snap.Loading || a.cfg.ReadyWait <= 0 {
		return snap
	}

	timer := time.NewTimer(a.cfg.ReadyWait)
	defer timer.Stop()
	select {
	case <-st.Ready():
	case <-timer.C:
	case <-c.Request.Context().Done():
	}
	return st.Snapshot()
}

func (a *Authorizer) pollSeconds() int {
	secs := int(a.cfg.PollInterval.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// rejectPending answers a form submission made while the session is still
// loading. Polling would replay it as a GET and drop the submitted fields,
// so the client is asked to retry instead.
func (a *Authorizer) rejectPending(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Retry-After", fmt.Sprintf("%d", a.pollSeconds()))
	c.String(http.StatusServiceUnavailable, "Sessão ainda carregando. Tente novamente em instantes.")
	c.Abort()
}

func (a *Authorizer) renderPending(c *gin.Context) {
	secs := a.pollSeconds()
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Header("Refresh", fmt.Sprintf("%d", secs))
	c.Status(http.StatusAccepted)

	page := LoadingPage(c.Request.URL.RequestURI(), a.cfg.PollInterval, !middleware.IsPartial(c))
	if err := page.Render(c.Request.Context(), c.Writer); err != nil {
		a.logger.Error("Failed to render loading page", zap.Error(err))
	}
	c.Abort()
}
