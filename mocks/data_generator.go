package mocks

import (
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// DataGenerator generates realistic daily close prices for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how prices are generated.
type GeneratorConfig struct {
	// StartDate is the first calendar day considered. Weekends are skipped.
	StartDate time.Time
	// Count is the number of trading days to generate
	Count int
	// InitialPrice is the starting close
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the total drift over the series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
}

// DefaultConfig returns ten years of trading days starting in 2014.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartDate:    time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
		Count:        2520,
		InitialPrice: 100.0,
		Volatility:   0.015,
		Trend:        0.0,
	}
}

// Generate creates a series based on the configuration.
// Closes follow a geometric Brownian motion model.
func (g *DataGenerator) Generate(config GeneratorConfig) types.Series {
	series := make(types.Series, config.Count)
	price := config.InitialPrice
	date := config.StartDate

	for i := 0; i < config.Count; i++ {
		for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)
		}

		// Box-Muller transform for a normal draw
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		next := price * (1 + config.Volatility*z + drift)
		if next <= 0 {
			next = price * 0.99
		}

		series[i] = types.PricePoint{
			Date:  date,
			Close: roundToDecimals(next, 4),
		}

		price = next
		date = date.AddDate(0, 0, 1)
	}

	return series
}

// Generate10Y is a convenience function to generate ten years of trading days
// with default settings for benchmarking.
func Generate10Y() types.Series {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility

	return gen.Generate(DefaultConfig())
}

type priceRow struct {
	Date  string `csv:"DATE"`
	Close string `csv:"CLOSE"`
}

// WritePriceCSV writes series as a DATE,CLOSE price file.
func WritePriceCSV(w io.Writer, series types.Series) error {
	rows := make([]priceRow, len(series))
	for i, p := range series {
		rows[i] = priceRow{
			Date:  p.Date.Format(time.DateOnly),
			Close: strconv.FormatFloat(p.Close, 'f', -1, 64),
		}
	}

	return gocsv.Marshal(rows, w)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
