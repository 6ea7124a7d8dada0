// Package pages holds the unrestricted entry, onboarding and forbidden
// screens.
package pages

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/layout"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/middleware"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/routing"
)

type PagesHandlers struct {
	*domain.BaseHandler
}

func NewPagesHandlers(base *domain.BaseHandler) *PagesHandlers {
	return &PagesHandlers{BaseHandler: base}
}

func (h *PagesHandlers) Routes() []routing.Definition {
	return []routing.Definition{
		{
			Path:   "/",
			Title:  "Início",
			Group:  roles.Guest,
			Layout: layout.Config{Chrome: layout.Public, ActiveNav: "/"},
			View:   h.Entry,
		},
		{
			Path:   "/start",
			Title:  "Comece por aqui",
			Group:  roles.Guest,
			Layout: layout.Config{Chrome: layout.Public},
			View:   h.Start,
		},
		{
			Path:   "/401",
			Title:  "Acesso negado",
			Group:  roles.Guest,
			Layout: layout.Config{Chrome: layout.RoleTabs},
			View:   h.Forbidden,
		},
	}
}

// Entry sends signed-in users to their home and shows visitors the landing.
func (h *PagesHandlers) Entry(c *gin.Context) (templ.Component, error) {
	_, snap := h.Session(c)
	if snap.Authenticated() {
		middleware.Redirect(c, domain.HomeFor(snap.User))
		return nil, nil
	}
	return domain.Wrap("section", ` id="landing"`,
		domain.Text("h1", "", "Conectando voluntários e ONGs"),
		domain.Text("p", "", "Encontre ações perto de você ou divulgue as da sua organização."),
		domain.Wrap("p", "",
			domain.Link("/start", "Começar"),
			domain.Link("/signin", "Já tenho conta"),
		),
	), nil
}

func (h *PagesHandlers) Start(c *gin.Context) (templ.Component, error) {
	return domain.Wrap("section", ` id="start"`,
		domain.Text("h1", "", "Como você quer participar?"),
		domain.Wrap("ul", "",
			domain.Wrap("li", "", domain.Link("/signup/volunteer", "Quero ser voluntário")),
			domain.Wrap("li", "", domain.Link("/signup/organization", "Represento uma ONG")),
		),
	), nil
}

// Forbidden is the target of wrong-role redirects.
func (h *PagesHandlers) Forbidden(c *gin.Context) (templ.Component, error) {
	_, snap := h.Session(c)
	back := domain.Link("/", "Voltar ao início")
	if snap.Authenticated() {
		back = domain.Link(domain.HomeFor(snap.User), "Voltar para a minha página")
	}
	c.Status(http.StatusForbidden)
	return domain.Wrap("section", ` id="forbidden"`,
		domain.Text("h1", "", "Acesso negado"),
		domain.Text("p", "", "Seu perfil não tem permissão para acessar esta página."),
		domain.Wrap("p", "", back),
	), nil
}
