package events

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

// EventLister reads events from the backend.
type EventLister interface {
	ListEvents(ctx context.Context, token, organizationID string) ([]models.Event, error)
}

type EventsHandlers struct {
	*domain.BaseHandler
	events EventLister
}

func NewEventsHandlers(base *domain.BaseHandler, events EventLister) *EventsHandlers {
	return &EventsHandlers{BaseHandler: base, events: events}
}

func (h *EventsHandlers) Routes() []routing.Definition {
	return []routing.Definition{
		{
			Path:   "/events",
			Title:  "Eventos",
			Group:  roles.Authenticated,
			Layout: layout.Config{Chrome: layout.RoleTabs, ActiveNav: "/events"},
			View:   h.ShowEvents,
		},
	}
}

// ShowEvents shows every published event; ?mine=1 narrows an organization's view
// to its own events.
func (h *EventsHandlers) ShowEvents(c *gin.Context) (templ.Component, error) {
	_, snap := h.Session(c)
	orgID := ""
	if c.Query("mine") == "1" && snap.User != nil && snap.User.Role == roles.Organization {
		orgID = snap.User.ID
	}

	evs, err := h.events.ListEvents(c.Request.Context(), snap.Token, orgID)
	if err != nil {
		return nil, err
	}
	return domain.Wrap("section", ` id="events"`,
		domain.Text("h1", "", "Eventos"),
		List(evs, "Nenhum evento publicado ainda."),
	), nil
}

// List renders events, or empty when there are none.
func List(evs []models.Event, empty string) templ.Component {
	if len(evs) == 0 {
		return domain.Text("p", ` class="empty"`, empty)
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<ul class="events">`); err != nil {
			return err
		}
		for _, ev := range evs {
			when := ""
			if !ev.StartsAt.IsZero() {
				when = ev.StartsAt.Format("02/01/2006 15:04")
			}
			if _, err := fmt.Fprintf(w, `<li data-id="%s"><strong>%s</strong> <span class="when">%s</span> <span class="where">%s</span></li>`,
				templ.EscapeString(ev.ID), templ.EscapeString(ev.Title),
				templ.EscapeString(when), templ.EscapeString(ev.Location)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}
