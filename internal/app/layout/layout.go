// Package layout wraps authorized views in the navigation chrome their
// route asks for.
package layout

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
)

// Chrome selects the frame around a view.
type Chrome int

const (
	// Bare renders the view alone, for sign-in and sign-up screens.
	Bare Chrome = iota
	// Public shows the visitor navigation.
	Public
	// RoleTabs shows the tab bar of the signed-in user's role.
	RoleTabs
)

func (c Chrome) String() string {
	switch c {
	case Bare:
		return "bare"
	case Public:
		return "public"
	case RoleTabs:
		return "role-tabs"
	}
	return fmt.Sprintf("Chrome(%d)", int(c))
}

// Config is the layout part of a route definition.
type Config struct {
	Chrome    Chrome
	ActiveNav string
}

// NavFor returns the navigation for chrome and user.
func NavFor(chrome Chrome, user *models.User) models.Navigation {
	switch chrome {
	case Bare:
		return models.Navigation{}
	case RoleTabs:
		if user != nil {
			switch user.Role {
			case roles.Volunteer:
				return models.VolunteerNav
			case roles.Organization:
				return models.OrganizationNav
			}
		}
	}
	return models.PublicNav
}

// Data builds the layout input for one render.
func Data(cfg Config, title string, user *models.User, content templ.Component) models.LayoutTempl {
	return models.LayoutTempl{
		Title:     title,
		User:      user,
		Nav:       NavFor(cfg.Chrome, user),
		ActiveNav: cfg.ActiveNav,
		Content:   content,
	}
}

// Compose wraps data.Content in a full HTML document.
func Compose(data models.LayoutTempl) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := "Volunteer Hub"
		if data.Title != "" {
			title = data.Title + " | Volunteer Hub"
		}
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title>`+
			`<link rel="stylesheet" href="/assets/css/app.css">`+
			`<script src="https://unpkg.com/htmx.org@1.9.12"></script></head><body hx-boost="true">`,
			templ.EscapeString(title)); err != nil {
			return err
		}

		if len(data.Nav.Items) > 0 {
			if err := header(data).Render(ctx, w); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `<main id="content">`); err != nil {
			return err
		}
		if data.Content != nil {
			if err := data.Content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func header(data models.LayoutTempl) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<header><nav><ul>`); err != nil {
			return err
		}
		for _, item := range data.Nav.Items {
			current := ""
			if item.URL == data.ActiveNav {
				current = ` aria-current="page" class="active"`
			}
			if _, err := fmt.Fprintf(w, `<li><a href="%s"%s>%s</a></li>`,
				templ.EscapeString(item.URL), current, templ.EscapeString(item.Name)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul></nav>`); err != nil {
			return err
		}

		if data.User != nil {
			if _, err := fmt.Fprintf(w,
				`<div id="user-badge" data-role="%s"><span>%s</span>`+
					`<form method="post" action="/signout"><button type="submit">Sair</button></form></div>`,
				templ.EscapeString(string(data.User.Role)), templ.EscapeString(data.User.DisplayName())); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</header>`)
		return err
	})
}
