package home

import (
	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain/events"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/layout"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/routing"
)

const highlights = 3

type HomeHandlers struct {
	*domain.BaseHandler
	events events.EventLister
}

func NewHomeHandlers(base *domain.BaseHandler, lister events.EventLister) *HomeHandlers {
	return &HomeHandlers{BaseHandler: base, events: lister}
}

func (h *HomeHandlers) Routes() []routing.Definition {
	return []routing.Definition{
		{
			Path:   "/home",
			Title:  "Início",
			Group:  roles.VolunteerOnly,
			Layout: layout.Config{Chrome: layout.RoleTabs, ActiveNav: "/home"},
			View:   h.ShowHomePage,
		},
	}
}

func (h *HomeHandlers) ShowHomePage(c *gin.Context) (templ.Component, error) {
	_, snap := h.Session(c)

	evs, err := h.events.ListEvents(c.Request.Context(), snap.Token, "")
	if err != nil {
		return nil, err
	}
	if len(evs) > highlights {
		evs = evs[:highlights]
	}

	return domain.Wrap("section", ` id="home"`,
		domain.Text("h1", "", "Olá, "+snap.User.DisplayName()),
		domain.Text("h2", "", "Próximas ações"),
		events.List(evs, "Nenhuma ação disponível no momento."),
		domain.Wrap("p", "", domain.Link("/events", "Ver todos os eventos")),
	), nil
}
