// Package api talks to the volunteerhub backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/session"
	"github.com/FACorreiaa/go-volunteerhub/internal/pkg/cache"
)

const maxErrorBody = 4 << 10

// Config configures a Client.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	ProfileCache time.Duration
	HTTPClient   *http.Client
}

// Client is safe for concurrent use.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	logger   *zap.Logger
	profiles *cache.Typed[*models.User]
	events   *cache.Typed[[]models.Event]
	group    singleflight.Group
}

var _ session.Authenticator = (*Client)(nil)

// New returns a client for cfg.BaseURL.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: %w", cfg.BaseURL, models.ErrValidation)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	ttl := cfg.ProfileCache
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &Client{
		baseURL:  base,
		http:     hc,
		logger:   logger,
		profiles: cache.New[*models.User](ttl, "profiles", logger),
		events:   cache.New[[]models.Event](ttl, "events", logger),
	}, nil
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Authenticate exchanges credentials at POST /auth/login. Any non-2xx
// response is a *session.AuthenticationError.
func (c *Client) Authenticate(ctx context.Context, identifier, secret string) (*session.AuthResult, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Identifier: identifier, Secret: secret})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &session.AuthenticationError{
			Reason:     reason(resp, "invalid credentials"),
			StatusCode: resp.StatusCode,
		}
	}

	var out session.AuthResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &session.AuthenticationError{Reason: "malformed authentication response", StatusCode: resp.StatusCode}
	}
	return &out, nil
}

// FetchProfile loads the profile of user id as seen by token. Concurrent
// calls for the same token and id share one request and results are cached
// briefly; one caller's answer is never served to another token.
func (c *Client) FetchProfile(ctx context.Context, token, id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("empty user id: %w", models.ErrBadRequest)
	}
	key, err := profileKey(token, id)
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", id, err)
	}
	if u, ok := c.profiles.Get(key); ok {
		return u.Clone(), nil
	}

	// the shared call must outlive any single caller's cancellation
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		resp, err := c.do(shared, http.MethodGet, "/users/"+url.PathEscape(id), token, nil)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if err := statusError(resp); err != nil {
			return nil, fmt.Errorf("fetch profile %s: %w", id, err)
		}

		var user models.User
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return nil, fmt.Errorf("decode profile %s: %w", id, err)
		}
		c.profiles.Set(key, &user)
		return &user, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.User).Clone(), nil
}

func profileKey(token, id string) (string, error) {
	hashed, err := cache.NewKeyBuilder().Add("token", token).Build()
	if err != nil {
		return "", err
	}
	return hashed + ":" + id, nil
}

// UpdateProfile sends patch to PATCH /users/{id} and returns the stored
// profile.
func (c *Client) UpdateProfile(ctx context.Context, token, id string, patch models.ProfilePatch) (*models.User, error) {
	resp, err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), token, patch)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return nil, fmt.Errorf("update profile %s: %w", id, err)
	}
	c.invalidateProfile(id)

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return &user, nil
}

// invalidateProfile drops every cached copy of id, whichever token fetched it.
func (c *Client) invalidateProfile(id string) {
	c.profiles.DeleteMatching(func(key string) bool {
		return strings.HasSuffix(key, ":"+id)
	})
}

func (c *Client) do(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.Get().BackendRequestsDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", status),
	))
	if err != nil {
		c.logger.Warn("Backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return models.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return models.ErrUnauthenticated
	case resp.StatusCode == http.StatusForbidden:
		return models.ErrForbidden
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w", reason(resp, "rejected"), models.ErrValidation)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

// reason extracts the backend's message, falling back to def.
func reason(resp *http.Response, def string) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return def
	}
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return def
}
