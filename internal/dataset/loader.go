package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"dashkit/adapters/datareadiness/coercer"
	"dashkit/domain/core"
	domainDataset "dashkit/domain/dataset"
	"dashkit/internal/errors"
)

const utf8BOM = "\ufeff"

// Loader parses raw tabular input into a typed Table
type Loader struct {
	coercer *coercer.TypeCoercer
}

// NewLoader creates a loader using the given coercion rules
func NewLoader(config coercer.CoercionConfig) *Loader {
	return &Loader{coercer: coercer.NewTypeCoercer(config)}
}

// NewDefaultLoader creates a loader with the default coercion rules
func NewDefaultLoader() *Loader {
	return NewLoader(coercer.DefaultCoercionConfig())
}

// LoadCSV reads a comma-delimited stream with a header row.
// It fails with a PARSE_ERROR when the text is malformed or rows differ in
// width, and with EMPTY_DATASET when there are no data rows.
func (l *Loader) LoadCSV(r io.Reader, name string) (*domainDataset.Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	// FieldsPerRecord = 0 makes every row match the header width
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.ParseErrorf("%s: missing header row", displayName(name))
	}
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("%s: failed to read CSV header", displayName(name)), err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.ParseError(fmt.Sprintf("%s: failed to read CSV", displayName(name)), err)
		}
		rows = append(rows, row)
	}

	return l.FromRecords(name, header, rows)
}

// FromRecords builds a Table from a header and string rows. Every row must have
// exactly len(header) cells.
func (l *Loader) FromRecords(name string, header []string, rows [][]string) (*domainDataset.Table, error) {
	names, err := normalizeHeader(header)
	if err != nil {
		return nil, errors.ParseError(displayName(name), err)
	}
	if len(rows) == 0 {
		return nil, errors.EmptyDataset(name)
	}

	raw := make([][]string, len(names))
	for i := range raw {
		raw[i] = make([]string, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(names) {
			return nil, errors.ParseErrorf("%s: row %d has %d fields, header has %d",
				displayName(name), r+1, len(row), len(names))
		}
		for c, cell := range row {
			raw[c][r] = cell
		}
	}

	columns := make([]domainDataset.Column, len(names))
	for i, colName := range names {
		columns[i] = l.coercer.CoerceColumn(colName, raw[i])
	}

	table, err := domainDataset.NewTable(name, core.NewID(), columns)
	if err != nil {
		return nil, errors.ParseError(displayName(name), err)
	}
	return table, nil
}

// normalizeHeader trims names, names blank headers "Unnamed: i" and rejects duplicates.
func normalizeHeader(header []string) ([]string, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("header row is empty")
	}
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		n := strings.TrimSpace(h)
		if n == "" {
			n = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[n] {
			return nil, fmt.Errorf("duplicate column name %q", n)
		}
		seen[n] = true
		names[i] = n
	}
	return names, nil
}

func displayName(name string) string {
	if name == "" {
		return "dataset"
	}
	return name
}
