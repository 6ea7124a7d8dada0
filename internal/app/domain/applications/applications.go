package applications

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/layout"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/routing"
)

type ApplicationLister interface {
	ListApplications(ctx context.Context, token, volunteerID string) ([]models.Application, error)
}

type ApplicationsHandlers struct {
	*domain.BaseHandler
	apps ApplicationLister
}

func NewApplicationsHandlers(base *domain.BaseHandler, apps ApplicationLister) *ApplicationsHandlers {
	return &ApplicationsHandlers{BaseHandler: base, apps: apps}
}

func (h *ApplicationsHandlers) Routes() []routing.Definition {
	return []routing.Definition{
		{
			Path:   "/applications",
			Title:  "Minhas inscrições",
			Group:  roles.VolunteerOnly,
			Layout: layout.Config{Chrome: layout.RoleTabs, ActiveNav: "/applications"},
			View:   h.ShowApplications,
		},
	}
}

var statusLabels = map[models.ApplicationStatus]string{
	models.ApplicationPending:  "Em análise",
	models.ApplicationAccepted: "Aprovada",
	models.ApplicationRejected: "Recusada",
}

func (h *ApplicationsHandlers) ShowApplications(c *gin.Context) (templ.Component, error) {
	_, snap := h.Session(c)

	apps, err := h.apps.ListApplications(c.Request.Context(), snap.Token, snap.User.ID)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return domain.Wrap("section", ` id="applications"`,
			domain.Text("h1", "", "Minhas inscrições"),
			domain.Text("p", ` class="empty"`, "Você ainda não se inscreveu em nenhum evento."),
			domain.Wrap("p", "", domain.Link("/events", "Ver eventos")),
		), nil
	}

	rows := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<ul class="applications">`); err != nil {
			return err
		}
		for _, a := range apps {
			title := a.EventTitle
			if title == "" {
				title = a.EventID
			}
			label, ok := statusLabels[a.Status]
			if !ok {
				label = string(a.Status)
			}
			if _, err := fmt.Fprintf(w, `<li data-id="%s" data-status="%s">%s <span class="status">%s</span></li>`,
				templ.EscapeString(a.ID), templ.EscapeString(string(a.Status)),
				templ.EscapeString(title), templ.EscapeString(label)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})

	return domain.Wrap("section", ` id="applications"`,
		domain.Text("h1", "", "Minhas inscrições"),
		rows,
	), nil
}
