package authz

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// LoadingPage is shown while the session is restoring. It polls target with
// htmx and falls back to the Refresh header without scripts.
func LoadingPage(target string, every time.Duration, document bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if every < time.Second {
			every = time.Second
		}
		if document {
			if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8"><title>Carregando…</title>`+
				`<link rel="stylesheet" href="/assets/css/app.css">`+
				`<script src="https://unpkg.com/htmx.org@1.9.12"></script></head><body>`); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w,
			`<main id="loading" hx-get="%s" hx-trigger="every %ds" hx-target="body" hx-select="body" hx-swap="outerHTML" aria-busy="true"><p>Carregando…</p></main>`,
			templ.EscapeString(target), int(every/time.Second))
		if err != nil {
			return err
		}
		if document {
			_, err = io.WriteString(w, `</body></html>`)
		}
		return err
	})
}
