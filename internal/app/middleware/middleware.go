package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/session"
)

// Define typed context keys
type contextKey string

const (
	StoreContextKey    contextKey = "sessionStore"
	SnapshotContextKey contextKey = "sessionSnapshot"
	InstanceIDKey      contextKey = "instanceID"
)

// instanceCookieKey is the field of the signed cookie holding the client
// instance id.
const instanceCookieKey = "instance_id"

// StoreResolver hands out the Store of a client instance.
type StoreResolver interface {
	Store(ctx context.Context, instanceID string) *session.Store
}

// ClientInstance identifies the browser by a signed cookie, minting a new
// instance id on first visit, and attaches that instance's session store.
// It needs sessions.Sessions registered before it.
func ClientInstance(resolver StoreResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		id, _ := s.Get(instanceCookieKey).(string)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			s.Set(instanceCookieKey, id)
			if err := s.Save(); err != nil {
				logger.Error("Failed to save client instance cookie", zap.Error(err))
			}
		}

		c.Set(string(InstanceIDKey), id)
		c.Set(string(StoreContextKey), resolver.Store(c.Request.Context(), id))
		c.Next()
	}
}

// GetStoreFromContext returns the session store attached by ClientInstance.
func GetStoreFromContext(c *gin.Context) *session.Store {
	v, ok := c.Get(string(StoreContextKey))
	if !ok {
		return nil
	}
	st, _ := v.(*session.Store)
	return st
}

// SetSnapshot records the snapshot a request was authorized against so that
// everything rendered for it sees the same session.
func SetSnapshot(c *gin.Context, snap session.Snapshot) {
	c.Set(string(SnapshotContextKey), snap)
}

// GetSnapshotFromContext returns the request's snapshot, taking one from the
// store if authorization did not run.
func GetSnapshotFromContext(c *gin.Context) session.Snapshot {
	if v, ok := c.Get(string(SnapshotContextKey)); ok {
		if snap, ok := v.(session.Snapshot); ok {
			return snap
		}
	}
	if st := GetStoreFromContext(c); st != nil {
		return st.Snapshot()
	}
	return session.Snapshot{}
}

// GetUserFromContext extracts the signed-in user, or nil.
func GetUserFromContext(c *gin.Context) *models.User {
	return GetSnapshotFromContext(c).User
}

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// IsPartial reports whether only the page content should be rendered: an
// htmx request aimed at an element rather than a boosted navigation.
func IsPartial(c *gin.Context) bool {
	return IsHTMX(c) && c.GetHeader("HX-Target") != "" && c.GetHeader("HX-Boosted") != "true"
}

// Redirect sends the browser to location without leaving the blocked URL
// in history. htmx requests get HX-Redirect with HX-Replace-Url; everything
// else a 303 See Other.
func Redirect(c *gin.Context, location string) {
	if IsHTMX(c) {
		c.Header("HX-Replace-Url", location)
		c.Header("HX-Redirect", location)
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
	c.Abort()
}

// OTELGinMiddleware returns the OpenTelemetry middleware for Gin
func OTELGinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, HX-Request, HX-Target, HX-Current-URL")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		csp := "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline' https://unpkg.com; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data:; " +
			"connect-src 'self'"
		c.Writer.Header().Set("Content-Security-Policy", csp)

		c.Next()
	}
}

// ObservabilityMiddleware records HTTP request metrics by route template.
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m := metrics.Get()
		m.HTTPRequestsTotal.Add(c.Request.Context(), 1,
			metric.WithAttributes(
				attribute.String("method", c.Request.Method),
				attribute.String("path", path),
				attribute.String("status", strconv.Itoa(c.Writer.Status())),
			))
		m.HTTPRequestDuration.Record(c.Request.Context(), time.Since(start).Seconds(),
			metric.WithAttributes(
				attribute.String("method", c.Request.Method),
				attribute.String("path", path),
			))
	}
}
