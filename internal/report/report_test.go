package report

import (
	"strings"
	"testing"

	domainStats "dashkit/domain/stats"

	"github.com/stretchr/testify/assert"
)

func sample() domainStats.Summary {
	return domainStats.Summary{
		RowCount:          2,
		ColumnCount:       2,
		MissingValueCount: 1,
		MissingByColumn:   map[string]int{"val": 0, "cat": 1},
		Numeric: []domainStats.NumericSummary{{
			Column: "val", Count: 2,
			Mean: domainStats.Of(20), Std: domainStats.Of(14.1421), Min: domainStats.Of(10),
			Q25: domainStats.Of(15), Q50: domainStats.Of(20), Q75: domainStats.Of(25), Max: domainStats.Of(30),
		}},
		Categorical: []domainStats.CategoricalSummary{{Column: "cat", Count: 1, Unique: 1, Top: "A|B", Freq: 1}},
	}
}

func TestMarkdown(t *testing.T) {
	md := string(Markdown("sales.csv", sample()))

	assert.True(t, strings.HasPrefix(md, "# sales.csv\n"))
	assert.Contains(t, md, "| 2 | 2 | 1 | 25.0% |")
	assert.Contains(t, md, "| val | 2 | 20 | 14.1421 | 10 | 15 | 20 | 25 | 30 |")
	assert.Contains(t, md, `| cat | 1 | 1 | A\|B | 1 |`)
	assert.Contains(t, md, "| cat | 1 |\n")
	assert.NotContains(t, md, "| val | 0 |")
}

func TestMarkdownEmptyView(t *testing.T) {
	summary := domainStats.Summary{
		ColumnCount: 1,
		Numeric:     []domainStats.NumericSummary{{Column: "val"}},
	}
	md := string(Markdown("empty", summary))

	assert.Contains(t, md, "| 0 | 1 | 0 | undefined |")
	assert.Contains(t, md, "| val | 0 | undefined | undefined |")
	assert.NotContains(t, md, "## Categorical")
	assert.NotContains(t, md, "## Missing")
}

func TestHTML(t *testing.T) {
	page := string(HTML("sales.csv", sample()))

	assert.Contains(t, page, "<title>sales.csv</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<h2")
	assert.Contains(t, page, "Numeric columns")
}

func TestHTMLKeepsUploadedTextLiteral(t *testing.T) {
	summary := domainStats.Summary{
		RowCount:    1,
		ColumnCount: 1,
		Categorical: []domainStats.CategoricalSummary{{
			Column: "<b>name</b>", Count: 1, Unique: 1, Top: "<img src=x onerror=alert(1)>", Freq: 1,
		}},
	}
	page := string(HTML("<script>alert(1)</script>.csv", summary))

	assert.NotContains(t, page, "<script")
	assert.NotContains(t, page, "<img")
	assert.NotContains(t, page, "<b>")
	assert.Contains(t, page, "&lt;script&gt;alert(1)&lt;/script&gt;.csv")
	assert.Contains(t, page, "&lt;img src=x onerror=alert(1)&gt;")
}

func TestMarkdownEscapesMarkup(t *testing.T) {
	md := string(Markdown(`a\<b>&c`, domainStats.Summary{}))
	assert.True(t, strings.HasPrefix(md, `# a\\\<b\>\&c`+"\n"))
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("")
	assert.True(t, ok)
	assert.Equal(t, FormatMarkdown, f)

	f, ok = ParseFormat("HTML")
	assert.True(t, ok)
	assert.Equal(t, FormatHTML, f)
	assert.Contains(t, f.ContentType(), "text/html")

	_, ok = ParseFormat("pdf")
	assert.False(t, ok)
}
