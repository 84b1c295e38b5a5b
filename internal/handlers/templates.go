package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var (
	pageTemplate    = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))
	builderTemplate = template.Must(template.ParseFS(templateFS, "templates/builder.html.tmpl"))
)

// StaticHandler serves the embedded stylesheet and behaviour scripts under
// /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
