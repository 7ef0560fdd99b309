package api

import (
	"embed"
	"html/template"

	h "quickride/internal/http/handlers"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.New("").Funcs(h.TemplateFuncs()).ParseFS(templateFS, "templates/*.tmpl"))
}
