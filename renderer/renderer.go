package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/dca"
)

//go:embed *.md
var templates embed.FS

// ReportMarkdown renders the outcome of a simulation to a markdown string.
func ReportMarkdown(res *dca.Result) string {
	return RenderReport(NewReport(res))
}

// JournalMarkdown renders the events applied by a simulation to a markdown string.
func JournalMarkdown(res *dca.Result) string {
	return RenderJournal(NewJournal(res))
}

// RenderReport renders the Report struct to a markdown string.
func RenderReport(r *Report) string {
	partials := map[string]string{
		"report_title":     "report_title.md",
		"report_summary":   "report_summary.md",
		"report_positions": "report_positions.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// RenderJournal renders the Journal struct to a markdown string.
func RenderJournal(j *Journal) string {
	partials := map[string]string{
		"journal_events": "journal_events.md",
	}
	return renderTemplate("journal", "journal.md", partials, j)
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
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
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
