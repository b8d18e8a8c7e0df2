package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	domainDataset "dashkit/domain/dataset"
	"dashkit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("cat,val\nA,10\nB,20\nA,30\n"), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseFilters(t *testing.T) {
	got, err := parseFilters([]string{"cat=A, B", "region=", "cat=C"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"cat": {"A", "B", "C"}, "region": {}}, got)

	_, err = parseFilters([]string{"novalue"})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	got, err = parseFilters(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseRanges(t *testing.T) {
	got, err := parseRanges([]string{"val=-1.5:20"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domainDataset.Range{"val": {Min: -1.5, Max: 20}}, got)

	for _, bad := range []string{"val=1", "val=a:2", "val=1:b", "=1:2"} {
		_, err := parseRanges([]string{bad})
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err), bad)
	}
}

func TestDescribeCommand(t *testing.T) {
	out, err := run(t, "describe", writeCSV(t), "--filter", "cat=A")
	require.NoError(t, err)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, float64(2), summary["row_count"])
}

func TestPreviewCommand(t *testing.T) {
	out, err := run(t, "preview", writeCSV(t), "--rows", "1")
	require.NoError(t, err)

	var preview struct {
		RowCount int                   `json:"row_count"`
		Preview  domainDataset.Preview `json:"preview"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.Equal(t, 3, preview.RowCount)
	assert.Len(t, preview.Preview.Rows, 1)
}

func TestChartCommand(t *testing.T) {
	out, err := run(t, "chart", writeCSV(t), "--kind", "histogram", "--numeric", "val", "--bins", "2", "--range", "val=0:25")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "histogram"`)
	assert.Contains(t, out, `"counts": [`)

	_, err = run(t, "chart", writeCSV(t), "--kind", "histogram")
	assert.Equal(t, errors.CodeNoApplicableChart, errors.GetCode(err))

	_, err = run(t, "chart", writeCSV(t), "--kind", "pie")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestChartCommandWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "count.png")
	_, err := run(t, "chart", writeCSV(t), "--kind", "count", "--categorical", "cat", "--png", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestChartCommandLeavesNoFileWhenRenderFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.png")
	_, err := run(t, "chart", writeCSV(t), "--kind", "boxplot", "--numeric", "val", "--png", path)
	assert.Equal(t, errors.CodeNoApplicableChart, errors.GetCode(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestReportCommand(t *testing.T) {
	out, err := run(t, "report", writeCSV(t), "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")

	_, err = run(t, "report", writeCSV(t), "--format", "pdf")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestMissingFile(t *testing.T) {
	_, err := run(t, "describe", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestTableOutput(t *testing.T) {
	out, err := run(t, "preview", writeCSV(t), "-o", "table", "--rows", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "cat")
	assert.Contains(t, out, "numeric")
	assert.Contains(t, out, "2 of 3 rows")

	out, err = run(t, "describe", writeCSV(t), "--output", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "mean")
	assert.Contains(t, out, "20")

	_, err = run(t, "describe", writeCSV(t), "--output", "yaml")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
