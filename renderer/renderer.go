// Package renderer turns account reports into markdown strings.
//
// Report types are plain data: they carry pre-formatted strings and no
// behavior, so the templates stay trivial and the formatting decisions
// stay in the builders.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderHistory renders the valuation history report to a markdown string.
func RenderHistory(h *History) string {
	partials := map[string]string{
		"history_title": "templates/history_title.md",
		"history_table": "templates/history_table.md",
	}
	return renderTemplate("history", "templates/history.md", partials, h)
}

// RenderLog renders the transaction log report to a markdown string.
func RenderLog(l *Log) string {
	partials := map[string]string{
		"log_title":       "templates/log_title.md",
		"log_instruments": "templates/log_instruments.md",
		"log_table":       "templates/log_table.md",
	}
	return renderTemplate("log", "templates/log.md", partials, l)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
