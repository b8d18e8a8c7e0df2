package container

import (
	"context"
	"log"

	"dashkit/adapters/excel"
	"dashkit/internal/config"
	"dashkit/internal/errors"
	"dashkit/internal/pipeline"
	"dashkit/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	Reader  *excel.DataReader
	Session *pipeline.Session
	Server  *ui.Server
}

// New wires the reader, the session that owns the working dataset and the
// HTTP server from cfg.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}

	readerConfig := excel.DefaultReaderConfig()
	readerConfig.Sheet = cfg.Data.XLSXSheet

	c := &Container{Config: cfg}
	c.Reader = excel.NewDataReader(readerConfig)
	c.Session = pipeline.NewSession(c.Reader, SessionOptions(cfg))
	c.Server = ui.NewServer(c.Session, ui.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		ReadTimeout:    cfg.Server.ReadTimeout,
	})

	log.Printf("[Container] Initialized (bins=%d, preview_rows=%d, memo_entries=%d)",
		cfg.Data.DefaultBins, cfg.Data.PreviewRows, cfg.Data.MemoEntries)
	return c, nil
}

// SessionOptions maps configuration onto render cycle options
func SessionOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		DefaultBins: cfg.Data.DefaultBins,
		PreviewRows: cfg.Data.PreviewRows,
		MemoEntries: cfg.Data.MemoEntries,
	}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Server != nil {
		return c.Server.Shutdown(ctx)
	}
	return nil
}
