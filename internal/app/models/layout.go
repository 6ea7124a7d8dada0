package models

import "github.com/a-h/templ"

// NavItem is one link of the page navigation.
type NavItem struct {
	Name string
	URL  string
}

type Navigation struct {
	Items []NavItem
}

var PublicNav = Navigation{
	Items: []NavItem{
		{Name: "Início", URL: "/"},
		{Name: "Entrar", URL: "/signin"},
		{Name: "Criar conta", URL: "/signup"},
	},
}

var VolunteerNav = Navigation{
	Items: []NavItem{
		{Name: "Início", URL: "/home"},
		{Name: "Eventos", URL: "/events"},
		{Name: "Candidaturas", URL: "/applications"},
		{Name: "Notificações", URL: "/notifications"},
		{Name: "Perfil", URL: "/profile"},
	},
}

var OrganizationNav = Navigation{
	Items: []NavItem{
		{Name: "Painel", URL: "/dashboard"},
		{Name: "Eventos", URL: "/events"},
		{Name: "Notificações", URL: "/notifications"},
		{Name: "Perfil", URL: "/profile"},
	},
}

// LayoutTempl is everything the page chrome needs to wrap a view.
type LayoutTempl struct {
	Title     string
	User      *User
	Nav       Navigation
	ActiveNav string
	Content   templ.Component
}
