// Package views holds the embedded HTML templates.
package views

import (
	"embed"
	"html/template"
	"time"

	"github.com/cppla/inkwell/utils"
)

//go:embed *.html
var files embed.FS

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Local().Format("Jan 2, 2006 15:04")
	},
	// stored content is raw user input, including posts from older data files
	"sanitizeHTML": func(s string) template.HTML {
		return template.HTML(utils.SanitizeContent(s))
	},
}

// Load parses all templates. Pages are addressed by file name, e.g. "index.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "*.html")
}
