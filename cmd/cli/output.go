package main

import (
	"fmt"
	"io"

	domainDataset "dashkit/domain/dataset"
	domainStats "dashkit/domain/stats"
	"dashkit/internal/errors"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

func checkOutput(format string) error {
	if format != outputJSON && format != outputTable {
		return errors.InvalidInput("output must be json or table")
	}
	return nil
}

func renderPreviewTable(w io.Writer, p domainDataset.Preview) {
	if len(p.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(p.Columns))
	kinds := make(table.Row, len(p.Columns))
	for i, col := range p.Columns {
		header[i] = col
		kinds[i] = string(p.Kinds[col])
	}
	t.AppendHeader(header)
	t.AppendRow(kinds)
	t.AppendSeparator()

	for _, row := range p.Rows {
		r := make(table.Row, len(p.Columns))
		for i, col := range p.Columns {
			r[i] = row[col]
		}
		t.AppendRow(r)
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d of %d rows", len(p.Rows), p.Total)})
	t.Render()
}

func renderSummaryTables(w io.Writer, s domainStats.Summary) {
	kpis := table.NewWriter()
	kpis.SetOutputMirror(w)
	kpis.SetStyle(table.StyleLight)
	kpis.AppendHeader(table.Row{"rows", "columns", "missing values", "missing rate"})
	kpis.AppendRow(table.Row{s.RowCount, s.ColumnCount, s.MissingValueCount, s.MissingRate().String()})
	kpis.Render()

	if len(s.Numeric) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
		for _, n := range s.Numeric {
			t.AppendRow(table.Row{n.Column, n.Count, n.Mean.String(), n.Std.String(), n.Min.String(),
				n.Q25.String(), n.Q50.String(), n.Q75.String(), n.Max.String()})
		}
		t.Render()
	}

	if len(s.Categorical) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"column", "count", "unique", "top", "freq"})
		for _, c := range s.Categorical {
			t.AppendRow(table.Row{c.Column, c.Count, c.Unique, c.Top, c.Freq})
		}
		t.Render()
	}
}
