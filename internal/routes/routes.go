package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/authz"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain/applications"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain/auth"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain/dashboard"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain/events"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain/home"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain/notifications"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain/pages"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain/profile"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/layout"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/routing"
)

// Backend is everything the feature handlers ask of the REST API.
type Backend interface {
	auth.Registrar
	events.EventLister
	applications.ApplicationLister
	notifications.NotificationLister
	profile.ProfileService
}

type AppHandlers struct {
	Pages         *pages.PagesHandlers
	Auth          *auth.AuthHandlers
	Home          *home.HomeHandlers
	Dashboard     *dashboard.DashboardHandlers
	Events        *events.EventsHandlers
	Applications  *applications.ApplicationsHandlers
	Profile       *profile.ProfileHandlers
	Notifications *notifications.NotificationsHandlers
}

func NewAppHandlers(backend Backend, log *zap.Logger) *AppHandlers {
	base := domain.NewBaseHandler(log)
	return &AppHandlers{
		Pages:         pages.NewPagesHandlers(base),
		Auth:          auth.NewAuthHandlers(base, backend),
		Home:          home.NewHomeHandlers(base, backend),
		Dashboard:     dashboard.NewDashboardHandlers(base, backend),
		Events:        events.NewEventsHandlers(base, backend),
		Applications:  applications.NewApplicationsHandlers(base, backend),
		Profile:       profile.NewProfileHandlers(base, backend),
		Notifications: notifications.NewNotificationsHandlers(base, backend),
	}
}

// Table assembles the route table from every feature's definition unit.
// The order here is the order routes are listed in.
func (h *AppHandlers) Table() (*routing.Table, error) {
	return routing.Assemble(
		h.Pages.Routes(),
		h.Auth.Routes(),
		h.Home.Routes(),
		h.Dashboard.Routes(),
		h.Events.Routes(),
		h.Applications.Routes(),
		h.Profile.Routes(),
		h.Notifications.Routes(),
	)
}

// Setup mounts the route table and the unmatched-route page.
func Setup(r *gin.Engine, table *routing.Table, authorizer *authz.Authorizer, log *zap.Logger) {
	routing.Mount(r, table, authorizer, log)

	r.NoRoute(func(c *gin.Context) {
		routing.RenderPage(c, http.StatusNotFound, layout.Config{Chrome: layout.Public}, "Página não encontrada",
			routing.Message("Página não encontrada."))
	})
}
