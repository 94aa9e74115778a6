package formats

import (
	"fmt"
	"io"
	"phanalist/internal/engine/results"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// WriteText renders a human readable report. With summaryOnly only the rule
// table and the closing line are written.
func WriteText(w io.Writer, res *results.Results, descriptions map[string]string, summaryOnly bool) error {
	var b strings.Builder

	if !summaryOnly {
		for _, path := range res.Paths() {
			violations := res.Files[path]
			fmt.Fprintf(&b, "%s, detected %s violations:\n", pathStyle.Render(path), countStyle.Render(strconv.Itoa(len(violations))))
			for _, v := range violations {
				fmt.Fprintf(&b, "  %d:%d  %s  %s\n", v.Span.Line, v.Span.Column, codeStyle.Render(v.Rule), v.Suggestion)
				if line := strings.TrimSpace(v.Line); line != "" {
					fmt.Fprintf(&b, "    | %s\n", sourceStyle.Render(line))
				}
			}
			b.WriteString("\n")
		}
	}

	if res.HasAnyViolations() {
		b.WriteString(summaryTable(res, descriptions))
		b.WriteString("\n")
	} else {
		b.WriteString(successStyle.Render("No violations found."))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Analysed %d files in %s\n", res.TotalFilesCount, res.Duration.Round(time.Millisecond))

	_, err := io.WriteString(w, b.String())
	return err
}

// summaryTable lists rule codes by descending violation count.
func summaryTable(res *results.Results, descriptions map[string]string) string {
	codes := res.Codes()
	sort.SliceStable(codes, func(i, j int) bool {
		return res.CodesCount[codes[i]] > res.CodesCount[codes[j]]
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Rule Code", "Description", "Violations").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
	for _, code := range codes {
		t.Row(code, descriptions[code], strconv.Itoa(res.CodesCount[code]))
	}
	return t.String()
}
