package testkit

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdersAreReproducible(t *testing.T) {
	cfg := DefaultOrdersConfig()
	a := NewOrdersGenerator(cfg).CSV()
	b := NewOrdersGenerator(cfg).CSV()
	assert.Equal(t, a, b)

	cfg.Seed = 7
	assert.NotEqual(t, a, NewOrdersGenerator(cfg).CSV())
}

func TestOrdersShape(t *testing.T) {
	cfg := DefaultOrdersConfig()
	cfg.Rows = 50
	records, err := csv.NewReader(bytes.NewReader(NewOrdersGenerator(cfg).CSV())).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 51)
	assert.Equal(t, OrderColumns, records[0])
	for _, row := range records[1:] {
		assert.Len(t, row, len(OrderColumns))
		assert.NotEmpty(t, row[0])
	}
}

func TestOrdersWithoutMissing(t *testing.T) {
	cfg := DefaultOrdersConfig()
	cfg.MissingRate = 0
	_, rows := NewOrdersGenerator(cfg).Records()
	for _, row := range rows {
		for _, cell := range row {
			assert.NotEmpty(t, cell)
		}
	}
}
