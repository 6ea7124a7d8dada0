package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
)

func TestRegister(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)

		var body models.SignUpRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Email == "taken@example.org" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"e-mail já cadastrado"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"n-1","email":"` + body.Email + `","role":"` + body.Role + `"}`))
	}))
	ctx := context.Background()

	user, err := c.Register(ctx, models.SignUpRequest{Email: "new@example.org", Password: "12345678", Name: "Ana", Role: "VOLUNTEER"})
	require.NoError(t, err)
	assert.Equal(t, "n-1", user.ID)

	_, err = c.Register(ctx, models.SignUpRequest{Email: "taken@example.org", Role: "ONG"})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "e-mail já cadastrado")

	_, err = c.Register(ctx, models.SignUpRequest{Email: "x@example.org", Role: "ADMIN"})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestListings(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/events":
			if r.URL.Query().Get("organizationId") == "o-1" {
				_, _ = w.Write([]byte(`[{"id":"e-2","organizationId":"o-1","title":"Mutirão"}]`))
				return
			}
			_, _ = w.Write([]byte(`[{"id":"e-1","title":"Sopão"},{"id":"e-2","title":"Mutirão"}]`))
		case "/applications":
			assert.Equal(t, "v-1", r.URL.Query().Get("volunteerId"))
			_, _ = w.Write([]byte(`[{"id":"a-1","eventId":"e-1","status":"PENDING"}]`))
		case "/notifications":
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	ctx := context.Background()

	events, err := c.ListEvents(ctx, "tok", "")
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = c.ListEvents(ctx, "tok", "o-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Mutirão", events[0].Title)

	apps, err := c.ListApplications(ctx, "tok", "v-1")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, models.ApplicationPending, apps[0].Status)

	_, err = c.ListNotifications(ctx, "tok")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestListEvents_CachedPerToken(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[{"id":"e-1","title":"Sopão"}]`))
	}))
	ctx := context.Background()

	first, err := c.ListEvents(ctx, "tok", "")
	require.NoError(t, err)
	first[0].Title = "changed"

	second, err := c.ListEvents(ctx, "tok", "")
	require.NoError(t, err)
	assert.Equal(t, "Sopão", second[0].Title)
	assert.EqualValues(t, 1, calls.Load())

	_, err = c.ListEvents(ctx, "other", "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}
