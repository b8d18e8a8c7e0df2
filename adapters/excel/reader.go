package excel

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	domainDataset "dashkit/domain/dataset"
	"dashkit/internal/dataset"
	"dashkit/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader turns uploaded CSV or Excel files into a Table
type DataReader struct {
	config ReaderConfig
	loader *dataset.Loader
}

// NewDataReader creates a reader for CSV and Excel uploads
func NewDataReader(config ReaderConfig) *DataReader {
	return &DataReader{
		config: config,
		loader: dataset.NewLoader(config.CoercionConfig),
	}
}

// SupportedExtensions lists the file extensions ReadTable accepts
var SupportedExtensions = []string{".csv", ".xlsx", ".xlsm"}

// IsSupported reports whether filename has an extension ReadTable can read
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ReadTable dispatches on the filename extension. The filename also becomes
// the table name.
func (r *DataReader) ReadTable(src io.Reader, filename string) (*domainDataset.Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	log.Printf("[DataReader] Starting to read %s file: %s", strings.TrimPrefix(ext, "."), filename)

	start := time.Now()
	var (
		tbl *domainDataset.Table
		err error
	)
	switch ext {
	case ".csv":
		tbl, err = r.loader.LoadCSV(src, filename)
	case ".xlsx", ".xlsm":
		tbl, err = r.readWorkbook(src, filename)
	default:
		return nil, errors.ParseErrorf("unsupported file type %q", ext)
	}
	if err != nil {
		log.Printf("[DataReader] Failed to read %s: %v", filename, err)
		return nil, err
	}

	log.Printf("[DataReader] %s read in %.2fms (%d columns, %d rows)",
		filename, float64(time.Since(start).Nanoseconds())/1e6, tbl.ColumnCount(), tbl.RowCount())
	return tbl, nil
}

// readWorkbook reads one sheet of a workbook. The first row is the header;
// excelize trims trailing empty cells so short rows are padded to the header.
func (r *DataReader) readWorkbook(src io.Reader, filename string) (*domainDataset.Table, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.ParseError("failed to open workbook", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.ParseErrorf("workbook %s has no sheets", filename)
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.ParseErrorf("sheet %q not found in %s", sheet, filename)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	log.Printf("[DataReader] Sheet %s read (%d rows)", sheet, len(rows))

	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, errors.ParseErrorf("sheet %q has no header row", sheet)
	}

	header := rows[0]
	width := len(header)
	body := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > width {
			return nil, errors.ParseErrorf("row %d has %d cells, header has %d", i+2, len(row), width)
		}
		padded := make([]string, width)
		copy(padded, row)
		body = append(body, padded)
	}

	return r.loader.FromRecords(filename, header, body)
}

// dropBlankRows mirrors the CSV reader, which skips empty lines
func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}
