package auth

import (
	"github.com/a-h/templ"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/domain"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/roles"
)

func field(label, name, kind, value string) templ.Component {
	return domain.Wrap("label", "",
		domain.Text("span", "", label),
		templ.Raw("<input"+domain.Attr("name", name)+domain.Attr("type", kind)+domain.Attr("value", value)+">"),
	)
}

func alert(id, msg string) templ.Component {
	if msg == "" {
		return nil
	}
	return domain.Text("p", ` role="alert"`+domain.Attr("id", id), msg)
}

func signInForm(identifier, errMsg, notice string) templ.Component {
	return domain.Wrap("section", ` id="signin"`,
		domain.Text("h1", "", "Entrar"),
		alert("signin-notice", notice),
		alert("signin-error", errMsg),
		domain.Wrap("form", ` method="post" action="/signin"`,
			field("E-mail", "identifier", "email", identifier),
			field("Senha", "secret", "password", ""),
			domain.Text("button", ` type="submit"`, "Entrar"),
		),
		domain.Wrap("p", "", domain.Link("/signup", "Criar conta")),
	)
}

func signUpForm(role roles.RoleTag, req models.SignUpRequest, errMsg string) templ.Component {
	action := "/signup/volunteer"
	heading := "Cadastro de voluntário"
	nameLabel := "Nome completo"
	docLabel := "CPF"
	if role == roles.Organization {
		action = "/signup/organization"
		heading = "Cadastro de ONG"
		nameLabel = "Nome da organização"
		docLabel = "CNPJ"
	}

	return domain.Wrap("section", ` id="signup-form"`+domain.Attr("data-role", string(role)),
		domain.Text("h1", "", heading),
		alert("signup-error", errMsg),
		domain.Wrap("form", ` method="post"`+domain.Attr("action", action),
			field(nameLabel, "name", "text", req.Name),
			field("E-mail", "email", "email", req.Email),
			field("Telefone", "phone", "tel", req.Phone),
			field(docLabel, "document", "text", req.Document),
			field("Senha", "password", "password", ""),
			domain.Text("button", ` type="submit"`, "Cadastrar"),
		),
	)
}
