package station

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string, maxConns int32) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if maxConns > 0 {
		config.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return store, nil
}

func (store *PostgresStore) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS readings (
  id BIGSERIAL PRIMARY KEY,
  temperature DOUBLE PRECISION NOT NULL,
  humidity DOUBLE PRECISION NOT NULL,
  recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_readings_recorded_at ON readings(recorded_at DESC);
`

	_, err := store.pool.Exec(ctx, schema)
	return err
}

func (store *PostgresStore) Add(ctx context.Context, reading Reading) error {
	recordedAt := reading.ReceivedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	const query = `
INSERT INTO readings (temperature, humidity, recorded_at) VALUES ($1, $2, $3)
`

	_, err := store.pool.Exec(ctx, query, reading.Temperature, reading.Humidity, recordedAt)
	return err
}

func (store *PostgresStore) Recent(ctx context.Context, limit int) ([]StoredReading, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	const query = `
SELECT id, temperature, humidity, recorded_at
FROM readings
ORDER BY recorded_at DESC
LIMIT $1
`

	rows, err := store.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReadings(rows, limit)
}

func (store *PostgresStore) Query(ctx context.Context, window Window) ([]StoredReading, error) {
	if window.Limit > 0 {
		const query = `
SELECT id, temperature, humidity, recorded_at
FROM readings
WHERE recorded_at >= $1
ORDER BY recorded_at DESC
LIMIT $2
`
		rows, err := store.pool.Query(ctx, query, window.Since, window.Limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		return scanReadings(rows, window.Limit)
	}

	const query = `
SELECT id, temperature, humidity, recorded_at
FROM readings
WHERE recorded_at >= $1
ORDER BY recorded_at DESC
`

	rows, err := store.pool.Query(ctx, query, window.Since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReadings(rows, 0)
}

func scanReadings(rows pgx.Rows, sizeHint int) ([]StoredReading, error) {
	readings := make([]StoredReading, 0, sizeHint)
	for rows.Next() {
		var reading StoredReading
		if err := rows.Scan(
			&reading.ID,
			&reading.Temperature,
			&reading.Humidity,
			&reading.RecordedAt,
		); err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return readings, nil
}

func (store *PostgresStore) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return store.pool.Ping(pingCtx)
}

func (store *PostgresStore) Close() {
	store.pool.Close()
}

var _ Store = (*PostgresStore)(nil)
