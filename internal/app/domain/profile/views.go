package profile

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
)

func row(label, value string) templ.Component {
	if value == "" {
		return nil
	}
	return domain.Join(domain.Text("dt", "", label), domain.Text("dd", "", value))
}

func details(u *models.User) templ.Component {
	rows := []templ.Component{
		row("E-mail", u.Email),
		row("Perfil", roleLabel(u.Role)),
	}
	switch {
	case u.Volunteer != nil:
		rows = append(rows,
			row("Telefone", u.Volunteer.Phone),
			row("Sobre", u.Volunteer.Bio),
			row("Habilidades", strings.Join(u.Volunteer.Skills, ", ")),
		)
	case u.Organization != nil:
		rows = append(rows,
			row("Telefone", u.Organization.Phone),
			row("Descrição", u.Organization.Description),
			row("Site", u.Organization.Website),
		)
	}

	return domain.Wrap("section", ` id="profile"`+domain.Attr("data-id", u.ID),
		domain.Text("h1", "", u.DisplayName()),
		domain.Wrap("dl", "", rows...),
	)
}

func roleLabel(tag roles.RoleTag) string {
	switch tag {
	case roles.Volunteer:
		return "Voluntário"
	case roles.Organization:
		return "ONG"
	}
	return string(tag)
}

func input(label, name, value string) templ.Component {
	return domain.Wrap("label", "",
		domain.Text("span", "", label),
		templ.Raw("<input"+domain.Attr("name", name)+domain.Attr("value", value)+">"),
	)
}

func ownProfile(u *models.User, errMsg string) templ.Component {
	var fields []templ.Component
	switch {
	case u.Role == roles.Organization:
		o := models.OrganizationProfile{}
		if u.Organization != nil {
			o = *u.Organization
		}
		fields = []templ.Component{
			input("Nome", "name", o.Name),
			input("Telefone", "phone", o.Phone),
			input("Descrição", "description", o.Description),
			input("Site", "website", o.Website),
		}
	default:
		v := models.VolunteerProfile{}
		if u.Volunteer != nil {
			v = *u.Volunteer
		}
		fields = []templ.Component{
			input("Nome", "name", v.Name),
			input("Telefone", "phone", v.Phone),
			input("Sobre", "bio", v.Bio),
		}
	}
	fields = append(fields, domain.Text("button", ` type="submit"`, "Salvar"))

	var alert templ.Component
	if errMsg != "" {
		alert = domain.Text("p", ` role="alert" id="profile-error"`, errMsg)
	}

	return domain.Join(
		details(u),
		alert,
		domain.Wrap("form", ` id="profile-form" method="post" action="/profile"`, fields...),
	)
}
