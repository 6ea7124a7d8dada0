package server

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/go-volunteerhub/assets"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/authz"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/middleware"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/session"
	"github.com/FACorreiaa/go-volunteerhub/internal/pkg/config"
	"github.com/FACorreiaa/go-volunteerhub/internal/routes"
)

// SetupRouter configures the Gin router with all middleware and the route
// table. A route table configuration error is returned, never served.
func SetupRouter(cfg *config.Config, resolver middleware.StoreResolver, backend routes.Backend, logger *zap.Logger) (*gin.Engine, error) {
	table, err := routes.NewAppHandlers(backend, logger).Table()
	if err != nil {
		return nil, fmt.Errorf("failed to assemble route table: %w", err)
	}

	r := gin.New()

	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/assets/css/app.css"},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.OTELGinMiddleware(cfg.Observability.ServiceName))
	r.Use(middleware.ObservabilityMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())

	if err := setupAssets(r); err != nil {
		return nil, err
	}

	store := cookie.NewStore([]byte(cfg.Session.CookieSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.Session.CookieName, store))
	r.Use(middleware.ClientInstance(resolver, logger))

	authorizer := authz.New(session.JWTLiveness{
		SecretKey: cfg.Session.JWTSecret,
		Leeway:    cfg.Session.Leeway,
	}, authz.Config{ReadyWait: cfg.Session.ReadyWait}, logger)

	routes.Setup(r, table, authorizer, logger)

	logger.Info("Router ready", zap.Int("routes", table.Len()))
	return r, nil
}

// setupAssets serves the embedded stylesheet ahead of the client instance
// middleware, so static files never mint a session.
func setupAssets(r *gin.Engine) error {
	staticFiles, err := fs.Sub(assets.Assets, ".")
	if err != nil {
		return err
	}
	r.StaticFS("/assets", http.FS(staticFiles))
	return nil
}

// zapContextFunc returns the Zap context function for logging
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		if id := c.GetString(string(middleware.InstanceIDKey)); id != "" {
			fields = append(fields, zap.String("instance_id", id))
		}
		if user := middleware.GetUserFromContext(c); user != nil {
			fields = append(fields, zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
		}

		// request bodies carry credentials and are not logged
		return fields
	}
}
