package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/habedi/tixshell/auth"
	"github.com/rs/zerolog/log"
)

const layout = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} | TicketHub</title></head>
<body>
<nav>
{{- range .Nav}}
  <a href="{{.Href}}">{{.Label}}</a>
{{- end}}
{{- if .State.Authenticated}}
  <form method="post" action="/logout"><button type="submit">Logout</button></form>
{{- else}}
  <a href="/login">Login</a>
  <a href="/register">Register</a>
{{- end}}
</nav>
<main>
  <h1>{{.Title}}</h1>
  <p>{{.Message}}</p>
</main>
</body>
</html>
`

type page struct {
	Title   string
	Message string
}

type pageData struct {
	page
	Nav   []NavItem
	State auth.State
}

type pages struct {
	tmpl *template.Template
}

func newPages() *pages {
	return &pages{tmpl: template.Must(template.New("layout").Parse(layout))}
}

func (p *pages) render(w http.ResponseWriter, r *http.Request, status int, pg page) {
	state := stateFrom(r.Context())
	data := pageData{page: pg, Nav: Nav(state), State: state}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		log.Error().Err(err).Str("page", pg.Title).Msg("Failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p *pages) placeholder(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.render(w, r, http.StatusOK, page{Title: title, Message: "Coming soon."})
	}
}

func (p *pages) notFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusNotFound, page{
		Title:   "Page Not Found",
		Message: "The page you are looking for does not exist.",
	})
}
