package profile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/apptest"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) FetchProfile(ctx context.Context, token, id string) (*models.User, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, token, id string, patch models.ProfilePatch) (*models.User, error) {
	args := m.Called(ctx, token, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func ana() *models.User {
	return &models.User{
		ID:        "v-1",
		Email:     "ana@example.org",
		Role:      roles.Volunteer,
		Volunteer: &models.VolunteerProfile{Name: "Ana", Bio: "Enfermeira"},
	}
}

func TestShowOwnProfile(t *testing.T) {
	svc := new(MockProfileService)
	r := apptest.Engine(t, apptest.Store(t, nil, ana()), NewProfileHandlers(domain.NewBaseHandler(nil), svc).Routes())

	for _, path := range []string{"/profile", "/profile/v-1"} {
		w := apptest.Get(r, path)
		require.Equal(t, http.StatusOK, w.Code, path)

		doc := apptest.Doc(t, w)
		assert.Equal(t, "Ana", doc.Find("#profile h1").Text(), path)
		assert.Equal(t, "Enfermeira", doc.Find(`#profile-form input[name="bio"]`).AttrOr("value", ""), path)
	}
	svc.AssertNotCalled(t, "FetchProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestShowProfile_Other(t *testing.T) {
	svc := new(MockProfileService)
	svc.On("FetchProfile", mock.Anything, apptest.LiveToken, "o-1").Return(&models.User{
		ID:           "o-1",
		Role:         roles.Organization,
		Organization: &models.OrganizationProfile{Name: "Abrigo", Website: "https://abrigo.org"},
	}, nil)
	svc.On("FetchProfile", mock.Anything, apptest.LiveToken, "ghost").
		Return(nil, fmt.Errorf("fetch profile ghost: %w", models.ErrNotFound))

	r := apptest.Engine(t, apptest.Store(t, nil, ana()), NewProfileHandlers(domain.NewBaseHandler(nil), svc).Routes())

	w := apptest.Get(r, "/profile/o-1")
	require.Equal(t, http.StatusOK, w.Code)
	doc := apptest.Doc(t, w)
	assert.Equal(t, "Abrigo", doc.Find("#profile h1").Text())
	assert.Equal(t, "o-1", doc.Find("#profile").AttrOr("data-id", ""))
	assert.Equal(t, 0, doc.Find("#profile-form").Length(), "other profiles are read-only")

	assert.Equal(t, http.StatusNotFound, apptest.Get(r, "/profile/ghost").Code)
}

func TestShowProfile_VisitorIsRedirected(t *testing.T) {
	r := apptest.Engine(t, apptest.Store(t, nil, nil), NewProfileHandlers(domain.NewBaseHandler(nil), new(MockProfileService)).Routes())

	w := apptest.Get(r, "/profile/o-1")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/signin", w.Header().Get("Location"))
}

func TestUpdateProfile(t *testing.T) {
	svc := new(MockProfileService)
	svc.On("UpdateProfile", mock.Anything, apptest.LiveToken, "v-1", mock.MatchedBy(func(p models.ProfilePatch) bool {
		return p.Name != nil && *p.Name == "Ana Maria" && p.Bio != nil && *p.Bio == "Enfermeira e socorrista"
	})).Return(&models.User{ID: "v-1"}, nil).Once()

	st := apptest.Store(t, nil, ana())
	r := apptest.Engine(t, st, NewProfileHandlers(domain.NewBaseHandler(nil), svc).Routes())

	w := apptest.PostForm(r, "/profile", url.Values{
		"name":  {"Ana Maria"},
		"phone": {""},
		"bio":   {"Enfermeira e socorrista"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile", w.Header().Get("Location"))

	snap := st.Snapshot()
	assert.Equal(t, "Ana Maria", snap.User.Volunteer.Name)
	assert.Equal(t, "Enfermeira e socorrista", snap.User.Volunteer.Bio)
	svc.AssertExpectations(t)
}

func TestUpdateProfile_IgnoresAccountStatus(t *testing.T) {
	svc := new(MockProfileService)
	svc.On("UpdateProfile", mock.Anything, apptest.LiveToken, "v-1", mock.MatchedBy(func(p models.ProfilePatch) bool {
		return p.Status == nil && assert.ObjectsAreEqual([]string{"primeiros socorros", "cozinha"}, p.Skills)
	})).Return(&models.User{ID: "v-1"}, nil).Once()

	st := apptest.Store(t, nil, ana())
	r := apptest.Engine(t, st, NewProfileHandlers(domain.NewBaseHandler(nil), svc).Routes())

	w := apptest.PostForm(r, "/profile", url.Values{
		"Status": {"INACTIVE"},
		"status": {"INACTIVE"},
		"skills": {"primeiros socorros", "cozinha"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	snap := st.Snapshot()
	assert.Empty(t, snap.User.Status)
	assert.Equal(t, []string{"primeiros socorros", "cozinha"}, snap.User.Volunteer.Skills)
	svc.AssertExpectations(t)
}

func TestUpdateProfile_Failures(t *testing.T) {
	tests := []struct {
		name         string
		form         url.Values
		backendErr   error
		wantStatus   int
		wantLocation string
		wantSignedIn bool
	}{
		{
			name:         "empty form",
			form:         url.Values{},
			wantStatus:   http.StatusBadRequest,
			wantSignedIn: true,
		},
		{
			name:         "name too short",
			form:         url.Values{"name": {"A"}},
			wantStatus:   http.StatusBadRequest,
			wantSignedIn: true,
		},
		{
			name:         "backend rejects",
			form:         url.Values{"name": {"Ana Maria"}},
			backendErr:   fmt.Errorf("update: %w", models.ErrValidation),
			wantStatus:   http.StatusUnprocessableEntity,
			wantSignedIn: true,
		},
		{
			name:         "token revoked",
			form:         url.Values{"name": {"Ana Maria"}},
			backendErr:   fmt.Errorf("update: %w", models.ErrUnauthenticated),
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/signin",
		},
		{
			name:         "backend down",
			form:         url.Values{"name": {"Ana Maria"}},
			backendErr:   fmt.Errorf("connection reset"),
			wantStatus:   http.StatusBadGateway,
			wantSignedIn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProfileService)
			svc.On("UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.backendErr)

			st := apptest.Store(t, nil, ana())
			r := apptest.Engine(t, st, NewProfileHandlers(domain.NewBaseHandler(nil), svc).Routes())

			w := apptest.PostForm(r, "/profile", tt.form)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))

			snap := st.Snapshot()
			assert.Equal(t, tt.wantSignedIn, snap.Authenticated())
			if tt.wantSignedIn {
				assert.Equal(t, "Ana", snap.User.Volunteer.Name, "failed edits leave the session untouched")
			}
		})
	}
}
