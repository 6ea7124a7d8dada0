package auth

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
	"github.com/FACorreiaa/go-volunteerhub/internal/app/session"
)

type SignInRequest struct {
	Identifier string `form:"identifier" binding:"required"`
	Secret     string `form:"secret" binding:"required"`
}

// Registrar creates accounts on the backend.
type Registrar interface {
	Register(ctx context.Context, req models.SignUpRequest) (*models.User, error)
}

type AuthHandlers struct {
	*domain.BaseHandler
	registrar Registrar
}

func NewAuthHandlers(base *domain.BaseHandler, registrar Registrar) *AuthHandlers {
	return &AuthHandlers{BaseHandler: base, registrar: registrar}
}

var bare = layout.Config{Chrome: layout.Bare}

func (h *AuthHandlers) Routes() []routing.Definition {
	return []routing.Definition{
		{
			Path:    "/signin",
			Title:   "Entrar",
			Group:   roles.Guest,
			Layout:  bare,
			View:    h.SignInPage,
			Actions: map[string]gin.HandlerFunc{http.MethodPost: h.SignIn},
		},
		{
			Path:   "/signup",
			Title:  "Criar conta",
			Group:  roles.Guest,
			Layout: bare,
			View:   h.SignUpChooser,
		},
		{
			Path:    "/signup/volunteer",
			Title:   "Cadastro de voluntário",
			Group:   roles.Guest,
			Layout:  bare,
			View:    h.signUpPage(roles.Volunteer),
			Actions: map[string]gin.HandlerFunc{http.MethodPost: h.signUp(roles.Volunteer)},
		},
		{
			Path:    "/signup/organization",
			Title:   "Cadastro de ONG",
			Group:   roles.Guest,
			Layout:  bare,
			View:    h.signUpPage(roles.Organization),
			Actions: map[string]gin.HandlerFunc{http.MethodPost: h.signUp(roles.Organization)},
		},
		{
			Path:    "/signout",
			Group:   roles.Guest,
			Actions: map[string]gin.HandlerFunc{http.MethodPost: h.SignOut},
		},
	}
}

func (h *AuthHandlers) SignInPage(c *gin.Context) (templ.Component, error) {
	notice := ""
	if c.Query("registered") == "1" {
		notice = "Cadastro concluído. Entre com seu e-mail e senha."
	}
	return signInForm("", "", notice), nil
}

// SignIn exchanges the submitted credentials and sends the user to the
// landing route of their role. Failures re-render the form.
func (h *AuthHandlers) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBind(&req); err != nil {
		h.RenderPage(c, http.StatusBadRequest, bare, "Entrar",
			signInForm(req.Identifier, "Informe e-mail e senha.", ""))
		return
	}

	st, _ := h.Session(c)
	if st == nil {
		h.Logger.Error("Sign-in without a client instance")
		h.RenderPage(c, http.StatusInternalServerError, bare, "Entrar",
			signInForm(req.Identifier, "Não foi possível entrar agora. Tente novamente.", ""))
		return
	}

	user, err := st.SignIn(c.Request.Context(), req.Identifier, req.Secret)
	if err != nil {
		var authErr *session.AuthenticationError
		if errors.As(err, &authErr) {
			h.Logger.Info("Sign-in rejected", zap.String("reason", authErr.Reason))
			h.RenderPage(c, http.StatusUnauthorized, bare, "Entrar", signInForm(req.Identifier, authErr.Reason, ""))
			return
		}
		h.Logger.Error("Sign-in failed", zap.Error(err))
		h.RenderPage(c, http.StatusBadGateway, bare, "Entrar",
			signInForm(req.Identifier, "Não foi possível entrar agora. Tente novamente.", ""))
		return
	}

	middleware.Redirect(c, domain.HomeFor(user))
}

func (h *AuthHandlers) SignOut(c *gin.Context) {
	if st, _ := h.Session(c); st != nil {
		st.SignOut(c.Request.Context())
	}
	middleware.Redirect(c, "/signin")
}

func (h *AuthHandlers) SignUpChooser(c *gin.Context) (templ.Component, error) {
	return domain.Wrap("section", ` id="signup"`,
		domain.Text("h1", "", "Criar conta"),
		domain.Wrap("ul", "",
			domain.Wrap("li", "", domain.Link("/signup/volunteer", "Sou voluntário")),
			domain.Wrap("li", "", domain.Link("/signup/organization", "Sou uma ONG")),
		),
		domain.Wrap("p", "", domain.Link("/signin", "Já tenho conta")),
	), nil
}

func (h *AuthHandlers) signUpPage(role roles.RoleTag) routing.View {
	return func(c *gin.Context) (templ.Component, error) {
		return signUpForm(role, models.SignUpRequest{}, ""), nil
	}
}

func (h *AuthHandlers) signUp(role roles.RoleTag) gin.HandlerFunc {
	title := "Cadastro de voluntário"
	if role == roles.Organization {
		title = "Cadastro de ONG"
	}
	return func(c *gin.Context) {
		var req models.SignUpRequest
		if err := c.ShouldBind(&req); err != nil {
			h.RenderPage(c, http.StatusBadRequest, bare, title,
				signUpForm(role, req, "Confira os campos obrigatórios."))
			return
		}
		req.Role = string(role)

		if _, err := h.registrar.Register(c.Request.Context(), req); err != nil {
			status := http.StatusBadGateway
			msg := "Não foi possível concluir o cadastro agora."
			if errors.Is(err, models.ErrValidation) {
				status = http.StatusUnprocessableEntity
				msg = "O cadastro foi recusado. Confira os dados informados."
			} else {
				h.Logger.Error("Sign-up failed", zap.String("role", string(role)), zap.Error(err))
			}
			req.Password = ""
			h.RenderPage(c, status, bare, title, signUpForm(role, req, msg))
			return
		}

		middleware.Redirect(c, "/signin?registered=1")
	}
}
