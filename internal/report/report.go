// Package report renders the summary of a filtered view as a document.
package report

import (
	"fmt"
	"strings"

	domainStats "dashkit/domain/stats"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Format selects the report output
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat maps a query value onto a Format; empty means markdown
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(s)) {
	case "", FormatMarkdown:
		return FormatMarkdown, true
	case FormatHTML:
		return FormatHTML, true
	}
	return "", false
}

// ContentType is the MIME type of the rendered format
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// Render produces the report in the requested format
func Render(format Format, name string, summary domainStats.Summary) []byte {
	if format == FormatHTML {
		return HTML(name, summary)
	}
	return Markdown(name, summary)
}

// Markdown renders KPIs followed by the numeric and categorical describe tables.
func Markdown(name string, summary domainStats.Summary) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escape(name))

	b.WriteString("| Rows | Columns | Missing values | Missing rate |\n")
	b.WriteString("|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %s |\n\n",
		summary.RowCount, summary.ColumnCount, summary.MissingValueCount, percent(summary.MissingRate()))

	if len(summary.Numeric) > 0 {
		b.WriteString("## Numeric columns\n\n")
		b.WriteString("| Column | count | mean | std | min | 25% | 50% | 75% | max |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---:|\n")
		for _, n := range summary.Numeric {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				escape(n.Column), n.Count, n.Mean, n.Std, n.Min, n.Q25, n.Q50, n.Q75, n.Max)
		}
		b.WriteString("\n")
	}

	if len(summary.Categorical) > 0 {
		b.WriteString("## Categorical columns\n\n")
		b.WriteString("| Column | count | unique | top | freq |\n")
		b.WriteString("|---|---:|---:|---|---:|\n")
		for _, c := range summary.Categorical {
			fmt.Fprintf(&b, "| %s | %d | %d | %s | %d |\n",
				escape(c.Column), c.Count, c.Unique, escape(c.Top), c.Freq)
		}
		b.WriteString("\n")
	}

	if summary.MissingValueCount > 0 {
		b.WriteString("## Missing values\n\n")
		b.WriteString("| Column | missing |\n|---|---:|\n")
		for _, n := range summary.Numeric {
			writeMissing(&b, n.Column, summary.MissingByColumn)
		}
		for _, c := range summary.Categorical {
			writeMissing(&b, c.Column, summary.MissingByColumn)
		}
	}

	return []byte(b.String())
}

// HTML converts the markdown report into a standalone page. Raw HTML in the
// markdown is dropped.
func HTML(name string, summary domainStats.Summary) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: name,
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML,
	})
	return markdown.ToHTML(Markdown(name, summary), p, renderer)
}

func writeMissing(b *strings.Builder, column string, missing map[string]int) {
	if n := missing[column]; n > 0 {
		fmt.Fprintf(b, "| %s | %d |\n", escape(column), n)
	}
}

func percent(s domainStats.Stat) string {
	if !s.Defined {
		return s.String()
	}
	return fmt.Sprintf("%.1f%%", s.Value*100)
}

// cellEscaper keeps uploaded text literal: table pipes and markup characters
// are backslash-escaped so neither splits a cell nor reaches the page as HTML.
var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
	"&", `\&`,
	"\n", " ",
	"\r", " ",
)

func escape(s string) string {
	return cellEscaper.Replace(s)
}
