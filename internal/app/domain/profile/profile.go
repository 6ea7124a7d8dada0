package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/layout"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/middleware"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/routing"
)

// ProfileService reads and edits profiles on the backend.
type ProfileService interface {
	FetchProfile(ctx context.Context, token, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, token, id string, patch models.ProfilePatch) (*models.User, error)
}

type ProfileHandlers struct {
	*domain.BaseHandler
	profiles ProfileService
}

func NewProfileHandlers(base *domain.BaseHandler, profiles ProfileService) *ProfileHandlers {
	return &ProfileHandlers{BaseHandler: base, profiles: profiles}
}

var tabs = layout.Config{Chrome: layout.RoleTabs, ActiveNav: "/profile"}

func (h *ProfileHandlers) Routes() []routing.Definition {
	return []routing.Definition{
		{
			Path:    "/profile",
			Title:   "Meu perfil",
			Group:   roles.Authenticated,
			Layout:  tabs,
			View:    h.ShowOwnProfile,
			Actions: map[string]gin.HandlerFunc{http.MethodPost: h.UpdateProfile},
		},
		{
			Path:   "/profile/:id",
			Title:  "Perfil",
			Group:  roles.Authenticated,
			Layout: tabs,
			View:   h.ShowProfile,
		},
	}
}

func (h *ProfileHandlers) ShowOwnProfile(c *gin.Context) (templ.Component, error) {
	_, snap := h.Session(c)
	return ownProfile(snap.User, ""), nil
}

// ShowProfile renders someone else's profile from the backend. The session
// user's own id is served from the session copy.
func (h *ProfileHandlers) ShowProfile(c *gin.Context) (templ.Component, error) {
	_, snap := h.Session(c)
	id := c.Param("id")
	if id == snap.User.ID {
		return ownProfile(snap.User, ""), nil
	}

	user, err := h.profiles.FetchProfile(c.Request.Context(), snap.Token, id)
	if err != nil {
		return nil, err
	}
	return details(user), nil
}

// UpdateProfile sends the edit to the backend and then merges it into the
// session.
func (h *ProfileHandlers) UpdateProfile(c *gin.Context) {
	st, snap := h.Session(c)

	var patch models.ProfilePatch
	if err := c.ShouldBind(&patch); err != nil || patch.IsEmpty() {
		h.RenderPage(c, http.StatusBadRequest, tabs, "Meu perfil", ownProfile(snap.User, "Confira os dados informados."))
		return
	}

	if _, err := h.profiles.UpdateProfile(c.Request.Context(), snap.Token, snap.User.ID, patch); err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthenticated):
			st.SignOut(c.Request.Context())
			middleware.Redirect(c, "/signin")
		case errors.Is(err, models.ErrValidation):
			h.RenderPage(c, http.StatusUnprocessableEntity, tabs, "Meu perfil",
				ownProfile(snap.User, "O servidor recusou a alteração."))
		default:
			h.Logger.Error("Failed to update profile", zap.String("user_id", snap.User.ID), zap.Error(err))
			h.RenderPage(c, http.StatusBadGateway, tabs, "Meu perfil",
				ownProfile(snap.User, "Não foi possível salvar agora."))
		}
		return
	}

	if err := st.UpdateUser(patch); err != nil {
		middleware.Redirect(c, "/signin")
		return
	}
	middleware.Redirect(c, "/profile")
}
