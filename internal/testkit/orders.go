// Package testkit generates reproducible synthetic datasets for tests.
package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"
)

// OrdersConfig configures the order table generator
type OrdersConfig struct {
	Rows int `json:"rows"`
	// MissingRate is the chance that any single cell is left blank
	MissingRate float64   `json:"missing_rate"`
	StartDate   time.Time `json:"start_date"`
	Seed        int64     `json:"seed"`
}

// DefaultOrdersConfig returns sensible defaults for order generation
func DefaultOrdersConfig() OrdersConfig {
	return OrdersConfig{
		Rows:        200,
		MissingRate: 0.05,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:        42,
	}
}

// OrderColumns is the header the generator writes
var OrderColumns = []string{"order_date", "country", "channel", "express", "quantity", "unit_price", "discount", "revenue"}

var (
	countries = []string{"US", "CA", "UK", "DE", "FR", "AU"}
	channels  = []string{"organic", "paid_search", "social", "email", "referral"}
)

// OrdersGenerator produces order tables with mixed numeric, categorical and
// boolean columns
type OrdersGenerator struct {
	config OrdersConfig
	rng    *rand.Rand
}

// NewOrdersGenerator creates a generator; equal seeds give equal output
func NewOrdersGenerator(config OrdersConfig) *OrdersGenerator {
	return &OrdersGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Records returns the header and the generated rows
func (g *OrdersGenerator) Records() ([]string, [][]string) {
	rows := make([][]string, 0, g.config.Rows)
	for i := 0; i < g.config.Rows; i++ {
		rows = append(rows, g.order(i))
	}
	return append([]string(nil), OrderColumns...), rows
}

// CSV renders the generated table as CSV text
func (g *OrdersGenerator) CSV() []byte {
	header, rows := g.Records()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	_ = w.WriteAll(rows)
	return buf.Bytes()
}

func (g *OrdersGenerator) order(i int) []string {
	date := g.config.StartDate.Add(time.Duration(i) * 6 * time.Hour)
	quantity := 1 + g.rng.Intn(5)
	price := math.Round(g.rng.ExpFloat64()*4000) / 100
	discount := 0.0
	if g.rng.Float64() < 0.3 {
		discount = float64(5*(1+g.rng.Intn(4))) / 100
	}
	revenue := math.Round(float64(quantity)*price*(1-discount)*100) / 100

	cells := []string{
		date.Format("2006-01-02"),
		countries[g.rng.Intn(len(countries))],
		channels[g.rng.Intn(len(channels))],
		strconv.FormatBool(g.rng.Float64() < 0.2),
		strconv.Itoa(quantity),
		fmt.Sprintf("%.2f", price),
		strconv.FormatFloat(discount, 'f', -1, 64),
		fmt.Sprintf("%.2f", revenue),
	}
	// the date column is kept complete so every row has at least one value
	for j := 1; j < len(cells); j++ {
		if g.rng.Float64() < g.config.MissingRate {
			cells[j] = ""
		}
	}
	return cells
}
