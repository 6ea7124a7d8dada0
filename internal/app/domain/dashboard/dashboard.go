package dashboard

import (
	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain/events"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/layout"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/routing"
)

type DashboardHandlers struct {
	*domain.BaseHandler
	events events.EventLister
}

func NewDashboardHandlers(base *domain.BaseHandler, lister events.EventLister) *DashboardHandlers {
	return &DashboardHandlers{BaseHandler: base, events: lister}
}

func (h *DashboardHandlers) Routes() []routing.Definition {
	return []routing.Definition{
		{
			Path:   "/dashboard",
			Title:  "Painel",
			Group:  roles.OrganizationOnly,
			Layout: layout.Config{Chrome: layout.RoleTabs, ActiveNav: "/dashboard"},
			View:   h.ShowDashboard,
		},
	}
}

// ShowDashboard lists the organization's own events.
func (h *DashboardHandlers) ShowDashboard(c *gin.Context) (templ.Component, error) {
	_, snap := h.Session(c)

	evs, err := h.events.ListEvents(c.Request.Context(), snap.Token, snap.User.ID)
	if err != nil {
		return nil, err
	}
	return domain.Wrap("section", ` id="dashboard"`,
		domain.Text("h1", "", snap.User.DisplayName()),
		domain.Text("h2", "", "Seus eventos"),
		events.List(evs, "Você ainda não publicou eventos."),
	), nil
}
