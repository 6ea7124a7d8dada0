package domain

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/layout"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/middleware"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/routing"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/session"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseHandler{Logger: logger}
}

// Session returns the request's store and the snapshot it was authorized
// against. The store is nil when no client instance was attached.
func (h *BaseHandler) Session(c *gin.Context) (*session.Store, session.Snapshot) {
	return middleware.GetStoreFromContext(c), middleware.GetSnapshotFromContext(c)
}

// RenderPage writes content inside the given layout.
func (h *BaseHandler) RenderPage(c *gin.Context, status int, cfg layout.Config, title string, content templ.Component) {
	routing.RenderPage(c, status, cfg, title, content)
}

// HomeFor is the landing route of a signed-in user.
func HomeFor(user *models.User) string {
	if user != nil && user.Role == roles.Organization {
		return "/dashboard"
	}
	return "/home"
}

// Text writes escaped text inside tag, with optional attributes already
// rendered by the caller.
func Text(tag, attrs, text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<%s%s>%s</%s>", tag, attrs, templ.EscapeString(text), tag)
		return err
	})
}

// Join renders components one after another.
func Join(parts ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, p := range parts {
			if p == nil {
				continue
			}
			if err := p.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Wrap renders inner between an opening and closing tag.
func Wrap(tag, attrs string, inner ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<%s%s>", tag, attrs); err != nil {
			return err
		}
		if err := Join(inner...).Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "</%s>", tag)
		return err
	})
}

// Link renders an anchor with escaped href and label.
func Link(href, label string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<a href="%s">%s</a>`, templ.EscapeString(href), templ.EscapeString(label))
		return err
	})
}

// Attr renders name="value" with the value escaped, for use in attrs.
func Attr(name, value string) string {
	return fmt.Sprintf(` %s="%s"`, name, templ.EscapeString(value))
}
