package station

import (
	"context"
	"time"
)

// Window bounds a historical query. Since is the inclusive lower bound on
// RecordedAt; Limit caps the row count, with zero meaning unbounded.
type Window struct {
	Since time.Time
	Limit int
}

// Store is the durable append-only log of accepted readings. Results are
// always ordered newest first.
type Store interface {
	Add(ctx context.Context, reading Reading) error
	Recent(ctx context.Context, limit int) ([]StoredReading, error)
	Query(ctx context.Context, window Window) ([]StoredReading, error)
	Ping(ctx context.Context) error
	Close()
}

// SeriesFromRows flattens stored rows into the wire shape, preserving row
// order (newest first as queried).
func SeriesFromRows(rows []StoredReading) Series {
	series := Series{
		Temperature: make([]float64, 0, len(rows)),
		Humidity:    make([]float64, 0, len(rows)),
	}

	for _, row := range rows {
		series.Temperature = append(series.Temperature, row.Temperature)
		series.Humidity = append(series.Humidity, row.Humidity)
	}

	return series
}
