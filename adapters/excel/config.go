package excel

import (
	"dashkit/adapters/datareadiness/coercer"
)

// ReaderConfig holds configuration for spreadsheet and CSV ingestion
type ReaderConfig struct {
	// Sheet to read from workbooks; empty means the first sheet
	Sheet          string                 `json:"sheet"`
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultReaderConfig returns sensible defaults for file ingestion
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
