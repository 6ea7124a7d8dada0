package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
	"github.com/FACorreiaa/go-volunteerhub/internal/pkg/cache"
)

// Register creates an account at POST /users.
func (c *Client) Register(ctx context.Context, req models.SignUpRequest) (*models.User, error) {
	if _, err := roles.ParseRoleTag(req.Role); err != nil {
		return nil, fmt.Errorf("register: %w", models.ErrBadRequest)
	}

	resp, err := c.do(ctx, http.MethodPost, "/users", "", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode registered user: %w", err)
	}
	return &user, nil
}

// ListEvents returns the published events. organizationID narrows the list
// to one organization when set. Listings are cached per token briefly.
func (c *Client) ListEvents(ctx context.Context, token, organizationID string) ([]models.Event, error) {
	key, err := cache.NewKeyBuilder().Add("token", token).Add("organization", organizationID).Build()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if evs, ok := c.events.Get(key); ok {
		return append([]models.Event(nil), evs...), nil
	}

	path := "/events"
	if organizationID != "" {
		path += "?" + url.Values{"organizationId": {organizationID}}.Encode()
	}
	var out []models.Event
	if err := c.getJSON(ctx, token, path, &out); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	c.events.Set(key, out)
	return append([]models.Event(nil), out...), nil
}

// ListApplications returns the applications of one volunteer.
func (c *Client) ListApplications(ctx context.Context, token, volunteerID string) ([]models.Application, error) {
	path := "/applications?" + url.Values{"volunteerId": {volunteerID}}.Encode()
	var out []models.Application
	if err := c.getJSON(ctx, token, path, &out); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

// ListNotifications returns the notifications of the token's user.
func (c *Client) ListNotifications(ctx context.Context, token string) ([]models.Notification, error) {
	var out []models.Notification
	if err := c.getJSON(ctx, token, "/notifications", &out); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, token, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
