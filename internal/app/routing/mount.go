package routing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/authz"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/layout"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/middleware"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
)

// Mount registers every descriptor of t on r behind the authorizer.
func Mount(r gin.IRoutes, t *Table, a *authz.Authorizer, logger *zap.Logger) {
	for _, d := range t.descriptors {
		gate := a.Middleware(d.Requirement)
		if d.View != nil {
			r.GET(d.Path, gate, viewHandler(d, logger))
		}

		methods := make([]string, 0, len(d.Actions))
		for m := range d.Actions {
			methods = append(methods, m)
		}
		sort.Strings(methods)
		for _, m := range methods {
			r.Handle(m, d.Path, gate, d.Actions[m])
		}
	}
}

func viewHandler(d Descriptor, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, err := d.View(c)
		if c.IsAborted() {
			return
		}
		if err != nil {
			status := http.StatusInternalServerError
			msg := "Algo deu errado. Tente novamente."
			if errors.Is(err, models.ErrNotFound) {
				status = http.StatusNotFound
				msg = "Página não encontrada."
			} else {
				logger.Error("Failed to render view", zap.String("path", d.Path), zap.Error(err))
			}
			RenderPage(c, status, d.Layout, d.Title, Message(msg))
			return
		}
		// views may pick their own status with c.Status
		RenderPage(c, c.Writer.Status(), d.Layout, d.Title, content)
	}
}

// RenderPage writes content with status, wrapped in the layout unless the
// request only wants the fragment.
func RenderPage(c *gin.Context, status int, cfg layout.Config, title string, content templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)

	page := content
	if !middleware.IsPartial(c) {
		page = layout.Compose(layout.Data(cfg, title, middleware.GetUserFromContext(c), content))
	}
	if err := page.Render(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// Message is a one-paragraph view.
func Message(text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<p class="message">%s</p>`, templ.EscapeString(text))
		return err
	})
}
