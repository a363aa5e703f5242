package views

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const (
	Index  = "index.tmpl"
	Detail = "detail.tmpl"
	Error  = "error.tmpl"
)

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("2006-01-02 15:04")
	},
}

// Templates parses the embedded page templates. It panics on a broken
// template, which can only happen at build time.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl"))
}
