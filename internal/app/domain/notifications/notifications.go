package notifications

import (
	"context"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/layout"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/routing"
)

type NotificationLister interface {
	ListNotifications(ctx context.Context, token string) ([]models.Notification, error)
}

type NotificationsHandlers struct {
	*domain.BaseHandler
	notifications NotificationLister
}

func NewNotificationsHandlers(base *domain.BaseHandler, n NotificationLister) *NotificationsHandlers {
	return &NotificationsHandlers{BaseHandler: base, notifications: n}
}

func (h *NotificationsHandlers) Routes() []routing.Definition {
	return []routing.Definition{
		{
			Path:   "/notifications",
			Title:  "Notificações",
			Group:  roles.Authenticated,
			Layout: layout.Config{Chrome: layout.RoleTabs, ActiveNav: "/notifications"},
			View:   h.ShowNotifications,
		},
	}
}

func (h *NotificationsHandlers) ShowNotifications(c *gin.Context) (templ.Component, error) {
	_, snap := h.Session(c)

	items, err := h.notifications.ListNotifications(c.Request.Context(), snap.Token)
	if err != nil {
		return nil, err
	}

	body := domain.Text("p", ` class="empty"`, "Nenhuma notificação.")
	if len(items) > 0 {
		lis := make([]templ.Component, 0, len(items))
		for _, n := range items {
			attrs := domain.Attr("data-id", n.ID)
			if !n.Read {
				attrs += ` class="unread"`
			}
			lis = append(lis, domain.Wrap("li", attrs,
				domain.Text("strong", "", n.Title),
				domain.Text("p", "", n.Body),
			))
		}
		body = domain.Wrap("ul", ` class="notifications"`, lis...)
	}

	return domain.Wrap("section", ` id="notifications"`,
		domain.Text("h1", "", "Notificações"),
		body,
	), nil
}
