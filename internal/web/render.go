package web

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Zachkp/kussetech/internal/assets"
	"github.com/Zachkp/kussetech/internal/repository"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates(manifest *assets.Manifest, blog *repository.BlogRepository) *template.Template {
	title := cases.Title(language.English)

	funcs := template.FuncMap{
		"asset": manifest.Resolve,
		"date": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"isoDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"tagTitle": func(tag string) string {
			return title.String(strings.ReplaceAll(tag, "-", " "))
		},
		"categoryName": func(key string) string {
			if cat, ok := blog.Category(key); ok {
				return cat.Name
			}
			return title.String(strings.ReplaceAll(key, "-", " "))
		},
		"join": strings.Join,
		"year": func() int { return time.Now().Year() },
	}

	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
