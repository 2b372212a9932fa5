package renderer

import (
	"bytes"
	"embed"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed testdata/*.json
var testcasesFS embed.FS

//go:embed testdata/*.md
var testcasesGoldenFS embed.FS

var fixPartials = flag.Bool("fix-partials", false, "if true, update failing partial test case .md files with the received output")

func TestFixPartialsIsOff(t *testing.T) {
	if *fixPartials {
		t.Fatal("-fix-partials is enabled. This flag should only be used for updating test fixtures and must be disabled for regular tests.")
	}
}

func TestTemplatePartials(t *testing.T) {
	testCases := []struct {
		name       string
		structFile string
		goldenFile string
		dataType   any
	}{
		{
			name:       "report_title",
			structFile: "testdata/report_title.json",
			goldenFile: "testdata/report_title.md",
			dataType:   &Report{},
		},
		{
			name:       "report_summary",
			structFile: "testdata/report_summary.json",
			goldenFile: "testdata/report_summary.md",
			dataType:   &Report{},
		},
		{
			name:       "report_positions",
			structFile: "testdata/report_positions.json",
			goldenFile: "testdata/report_positions.md",
			dataType:   &Report{},
		},
		{
			name:       "journal_events",
			structFile: "testdata/journal_events.json",
			goldenFile: "testdata/journal_events.md",
			dataType:   &Journal{},
		},
	}

	// --- Coverage Check ---
	tested := make(map[string]struct{})
	for _, tc := range testCases {
		tested[tc.name+".md"] = struct{}{}
	}
	for _, partial := range partialTemplates(t) {
		if _, ok := tested[partial]; !ok {
			t.Errorf("untested template partial found: %s. Please add a test case to TestTemplatePartials.", partial)
		}
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			jsonData, err := testcasesFS.ReadFile(tc.structFile)
			if err != nil {
				t.Fatalf("failed to read struct file %q: %v", tc.structFile, err)
			}
			if err := json.Unmarshal(jsonData, tc.dataType); err != nil {
				t.Fatalf("failed to unmarshal struct data from %q: %v", tc.structFile, err)
			}

			templateFile := tc.name + ".md"
			templateContent, err := fs.ReadFile(templates, templateFile)
			if err != nil {
				t.Fatalf("failed to read template file %q: %v", templateFile, err)
			}
			tmpl, err := template.New(tc.name).Parse(string(templateContent))
			if err != nil {
				t.Fatalf("failed to parse template %q: %v", templateFile, err)
			}
			var rendered bytes.Buffer
			if err := tmpl.Execute(&rendered, tc.dataType); err != nil {
				t.Fatalf("failed to execute template %q: %v", templateFile, err)
			}

			goldenData, err := fs.ReadFile(testcasesGoldenFS, tc.goldenFile)
			if err != nil {
				if os.IsNotExist(err) && *fixPartials {
					goldenData = []byte{}
				} else {
					t.Fatalf("failed to read golden file %q: %v", tc.goldenFile, err)
				}
			}

			got, want := rendered.String(), string(goldenData)
			if got != want {
				if *fixPartials {
					if err := os.WriteFile(filepath.FromSlash(tc.goldenFile), []byte(got), 0644); err != nil {
						t.Fatalf("failed to write updated golden file %q: %v", tc.goldenFile, err)
					}
					t.Logf("updated golden file %s", tc.goldenFile)
				} else {
					t.Errorf("output mismatch for %s:\n--- want\n+++ got\n%s", tc.name, createDiff(want, got))
				}
			}
		})
	}
}

func TestReportMarkdown(t *testing.T) {
	res := simulate(t)
	source := []byte(ReportMarkdown(res))
	doc := parse(source)

	if got := headings(doc, source); len(got) != 1 || got[0] != "Dollar-Cost Averaging: AAA, BBB" {
		t.Errorf("headings = %q, want the report title", got)
	}
	items := listItems(doc, source)
	for _, want := range []string{"Start date: 2024-01-02", "End date: 2024-02-01", "Total invested: $200.00 per symbol"} {
		if !contains(items, want) {
			t.Errorf("list items = %q, want %q", items, want)
		}
	}

	rows := tableRows(doc, source)
	want := [][]string{
		{"Symbol", "Value", "Shares", "ROI%", "CAGR%", "Dividends", "Yield%"},
		{"BBB", "$0.00", "20.0000", "-100.00%", "n/a", "$0.00", "0.00%"},
		{"AAA", "$300.00", "15.0000", "+50.00%", "+1039.06%", "$0.00", "0.00%"},
	}
	if fmt.Sprint(rows) != fmt.Sprint(want) {
		t.Errorf("table rows:\n%q\nwant:\n%q", rows, want)
	}
}

func TestJournalMarkdown(t *testing.T) {
	res := simulate(t)
	source := []byte(JournalMarkdown(res))
	doc := parse(source)

	rows := tableRows(doc, source)
	if len(rows) != 1+len(res.Journal) {
		t.Fatalf("journal table has %d rows, want %d", len(rows), 1+len(res.Journal))
	}
	if got, want := rows[1], []string{"2024-01-02", "buy", "AAA", "$10.00", "$100.00", "", "10.0000", "10.0000"}; fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("first event = %q, want %q", got, want)
	}
}

// simulate runs a two months simulation where BBB goes bankrupt.
func simulate(t *testing.T) *dca.Result {
	t.Helper()
	b := dca.NewMarketDataBuilder("USD", "AAA", "BBB")
	set := func(s dca.Symbol, on string, price int64) {
		if err := b.SetClose(s, date.MustParse(on), decimal.NewFromInt(price)); err != nil {
			t.Fatal(err)
		}
	}
	set("AAA", "2024-01-02", 10)
	set("BBB", "2024-01-02", 10)
	set("AAA", "2024-02-01", 20)
	set("BBB", "2024-02-01", 10)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() unexpected error = %v", err)
	}
	res, err := dca.Simulate(m, dca.Strategy{Principal: 100, Frequency: dca.Monthly})
	if err != nil {
		t.Fatalf("Simulate() unexpected error = %v", err)
	}
	// value BBB at zero, as if delisted.
	for i, p := range res.Positions {
		if p.Symbol == "BBB" {
			res.Positions[i].Value = dca.M(0, "USD")
			res.Positions[i].ROI = -100
			res.Positions[i].HasCAGR = false
		}
	}
	return res
}

func parse(source []byte) ast.Node {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	return md.Parser().Parse(text.NewReader(source))
}

// plain returns the text content of a node.
func plain(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func headings(doc ast.Node, source []byte) []string {
	var res []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
			res = append(res, plain(h, source))
		}
		return ast.WalkContinue, nil
	})
	return res
}

func listItems(doc ast.Node, source []byte) []string {
	var res []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if li, ok := n.(*ast.ListItem); ok && entering {
			res = append(res, plain(li, source))
		}
		return ast.WalkContinue, nil
	})
	return res
}

// tableRows returns the cells of the first table, header included.
func tableRows(doc ast.Node, source []byte) [][]string {
	var res [][]string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *east.TableHeader, *east.TableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, plain(c, source))
			}
			res = append(res, row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return res
}

func contains(items []string, want string) bool {
	for _, i := range items {
		if i == want {
			return true
		}
	}
	return false
}

// partialTemplates returns the embedded templates that are included by
// another one: "report_title.md" is a partial of "report.md".
func partialTemplates(t *testing.T) []string {
	t.Helper()
	files, err := templates.ReadDir(".")
	if err != nil {
		t.Fatalf("failed to read embedded templates: %v", err)
	}
	var names []string
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".md") {
			names = append(names, strings.TrimSuffix(f.Name(), ".md"))
		}
	}
	var partials []string
	for _, n1 := range names {
		for _, n2 := range names {
			if n1 != n2 && strings.HasPrefix(n1, n2+"_") {
				partials = append(partials, n1+".md")
				break
			}
		}
	}
	return partials
}

func createDiff(want, got string) string {
	// A simple diff-like representation for clearer test failures.
	return fmt.Sprintf("-%s\n+%s", strings.ReplaceAll(want, "\n", "\n-"), strings.ReplaceAll(got, "\n", "\n+"))
}
