// Package pipeline owns the working dataset and runs the render cycle:
// filter, then summary and charts, for one selection at a time.
package pipeline

import (
	"context"
	"io"
	"sync"

	"dashkit/domain/chart"
	"dashkit/domain/core"
	domainDataset "dashkit/domain/dataset"
	domainStats "dashkit/domain/stats"
	"dashkit/internal/charts"
	"dashkit/internal/dataset"
	"dashkit/internal/errors"
	"dashkit/internal/profiling"

	"golang.org/x/sync/singleflight"
)

// TableReader turns an uploaded file into a Table
type TableReader interface {
	ReadTable(r io.Reader, filename string) (*domainDataset.Table, error)
}

// Options tune the render cycle
type Options struct {
	DefaultBins int
	PreviewRows int
	// MemoEntries bounds the render memo; zero disables it
	MemoEntries int
}

// DefaultOptions mirrors the configuration defaults
func DefaultOptions() Options {
	return Options{DefaultBins: charts.DefaultBins, PreviewRows: 10, MemoEntries: 64}
}

// DatasetInfo describes the loaded dataset independent of any selection
type DatasetInfo struct {
	Name           string                         `json:"name"`
	Version        core.ID                        `json:"version"`
	RowCount       int                            `json:"row_count"`
	ColumnCount    int                            `json:"column_count"`
	Preview        domainDataset.Preview          `json:"preview"`
	Classification domainDataset.Classification   `json:"classification"`
	Ranges         map[string]domainDataset.Range `json:"ranges"`
	// Categories lists the distinct values of each categorical column in
	// first-appearance order, for building multiselects
	Categories map[string][]string `json:"categories"`
}

// Render is the complete output of one render cycle. Values handed out by
// Session may be shared between callers and must not be modified.
type Render struct {
	Name           string                       `json:"name"`
	Version        core.ID                      `json:"version"`
	Fingerprint    core.Hash                    `json:"fingerprint"`
	Preview        domainDataset.Preview        `json:"preview"`
	RowCount       int                          `json:"row_count"`
	Classification domainDataset.Classification `json:"classification"`
	Summary        domainStats.Summary          `json:"summary"`
	Charts         []charts.Result              `json:"charts"`
}

// Session is the single owner of the working dataset. All methods are safe
// for concurrent use.
type Session struct {
	reader TableReader
	opts   Options

	mu             sync.RWMutex
	table          *domainDataset.Table
	classification domainDataset.Classification
	info           *DatasetInfo

	memoMu    sync.Mutex
	memo      map[string]*Render
	memoOrder []string
	flight    singleflight.Group
}

// NewSession creates an empty session
func NewSession(reader TableReader, opts Options) *Session {
	if opts.DefaultBins < 1 {
		opts.DefaultBins = charts.DefaultBins
	}
	return &Session{
		reader: reader,
		opts:   opts,
		memo:   make(map[string]*Render),
	}
}

// Load reads a new dataset and replaces the current one. On error the
// previous dataset stays in place.
func (s *Session) Load(ctx context.Context, r io.Reader, filename string) (*DatasetInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tbl, err := s.reader.ReadTable(r, filename)
	if err != nil {
		return nil, err
	}

	classification := dataset.Classify(tbl)
	info := describeDataset(tbl, classification, s.opts.PreviewRows)

	s.mu.Lock()
	s.table = tbl
	s.classification = classification
	s.info = info
	s.mu.Unlock()

	s.resetMemo()
	return info, nil
}

// Current describes the loaded dataset
func (s *Session) Current(ctx context.Context) (*DatasetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.info == nil {
		return nil, errors.NotFound("dataset")
	}
	return s.info, nil
}

// View returns the filtered copy of the working dataset for sel
func (s *Session) View(ctx context.Context, sel domainDataset.SelectionState) (*domainDataset.Table, error) {
	tbl, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return dataset.Apply(tbl, sel.FilterSpec())
}

// Render runs the filter, summary and chart stages for sel. Identical
// selections against the same dataset version share one computation.
func (s *Session) Render(ctx context.Context, sel domainDataset.SelectionState) (*Render, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tbl, classification, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	fingerprint := sel.Fingerprint()
	key := tbl.Version.String() + "/" + fingerprint.String()
	if r, ok := s.lookup(key); ok {
		return r, nil
	}

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		r, err := s.render(tbl, classification, sel)
		if err != nil {
			return nil, err
		}
		r.Fingerprint = fingerprint
		s.store(key, tbl.Version, r)
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Render), nil
}

func (s *Session) snapshot() (*domainDataset.Table, domainDataset.Classification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, domainDataset.Classification{}, errors.NotFound("dataset")
	}
	return s.table, s.classification, nil
}

func (s *Session) render(tbl *domainDataset.Table, classification domainDataset.Classification, sel domainDataset.SelectionState) (*Render, error) {
	view, err := dataset.Apply(tbl, sel.FilterSpec())
	if err != nil {
		return nil, err
	}

	previewRows := sel.PreviewRows
	if previewRows <= 0 {
		previewRows = s.opts.PreviewRows
	}
	bins := sel.Bins
	if bins <= 0 {
		bins = s.opts.DefaultBins
	}
	kinds := sel.Charts
	if len(kinds) == 0 {
		kinds = chart.AllKinds
	}

	opts := []charts.Option{charts.WithBins(bins)}
	if sel.Color != "" {
		opts = append(opts, charts.WithColor(sel.Color))
	}

	return &Render{
		Name:           tbl.Name,
		Version:        tbl.Version,
		Preview:        view.Head(previewRows),
		RowCount:       view.RowCount(),
		Classification: classification,
		Summary:        profiling.Describe(view),
		Charts:         charts.BuildAll(view, charts.SelectionFrom(sel), kinds, opts...),
	}, nil
}

func (s *Session) lookup(key string) (*Render, bool) {
	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	r, ok := s.memo[key]
	return r, ok
}

// store keeps r unless the dataset was replaced while it was computed.
// Oldest entries are evicted first.
func (s *Session) store(key string, version core.ID, r *Render) {
	if s.opts.MemoEntries <= 0 {
		return
	}

	s.mu.RLock()
	current := s.table != nil && s.table.Version == version
	s.mu.RUnlock()
	if !current {
		return
	}

	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	if _, ok := s.memo[key]; ok {
		return
	}
	for len(s.memoOrder) >= s.opts.MemoEntries {
		delete(s.memo, s.memoOrder[0])
		s.memoOrder = s.memoOrder[1:]
	}
	s.memo[key] = r
	s.memoOrder = append(s.memoOrder, key)
}

func (s *Session) resetMemo() {
	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	s.memo = make(map[string]*Render)
	s.memoOrder = nil
}

// MemoSize reports how many renders are cached
func (s *Session) MemoSize() int {
	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	return len(s.memo)
}

func describeDataset(tbl *domainDataset.Table, classification domainDataset.Classification, previewRows int) *DatasetInfo {
	info := &DatasetInfo{
		Name:           tbl.Name,
		Version:        tbl.Version,
		RowCount:       tbl.RowCount(),
		ColumnCount:    tbl.ColumnCount(),
		Preview:        tbl.Head(previewRows),
		Classification: classification,
		Ranges:         dataset.NumericRanges(tbl),
		Categories:     make(map[string][]string, len(classification.Categorical)),
	}
	for _, name := range classification.Categorical {
		col, _ := tbl.Column(name)
		values, _ := profiling.ValueCounts(col)
		if values == nil {
			values = []string{}
		}
		info.Categories[name] = values
	}
	return info
}
