// Package views holds the HTML templates of the public site and the admin
// dashboard, and the helpers they call.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"portfolio/models"
)

//go:embed templates/*.html
var files embed.FS

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
		extension.Linkify, // linkify raw URLs
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // content is written by the signed-in owner only
	),
)

// RenderMarkdown converts stored markdown to HTML. On a conversion error the
// escaped source is returned so the page still renders.
func RenderMarkdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(buf.String())
}

// MonthYear formats a YYYY-MM-DD date as "January 2006". Unparseable input
// is returned unchanged.
func MonthYear(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 2006")
}

// Period is the display range of an experience entry.
func Period(e models.Experience) string {
	if e.Current() {
		return MonthYear(e.StartDate) + " - Present"
	}
	return MonthYear(e.StartDate) + " - " + MonthYear(*e.EndDate)
}

func formatYears(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FuncMap is available to every template.
var FuncMap = template.FuncMap{
	"now":              time.Now,
	"year":             func() int { return time.Now().Year() },
	"markdown":         RenderMarkdown,
	"deref":            models.Deref,
	"monthYear":        MonthYear,
	"period":           Period,
	"levelLabel":       models.LevelLabel,
	"levelDescription": models.LevelDescription,
	"years":            formatYears,
	"join":             strings.Join,
	"add":              func(a, b int) int { return a + b },
	"sub":              func(a, b int) int { return a - b },
	"levels": func() []int {
		out := make([]int, 0, models.MaxLevel)
		for l := models.MinLevel; l <= models.MaxLevel; l++ {
			out = append(out, l)
		}
		return out
	},
}

// Templates parses every embedded template.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(FuncMap).ParseFS(files, "templates/*.html"))
}

// Load installs the templates on router.
func Load(router *gin.Engine) {
	router.SetHTMLTemplate(Templates())
}
