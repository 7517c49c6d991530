// Package store holds the external data adapters: the Postgres trip table
// and the Redis explanation cache.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"calmdrive/internal/trip"
)

// PostgresStore reads and writes trip records in the trips table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pooled client and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// FetchTrips returns all trips whose date falls in [from, to], newest
// first. Trips on the same day keep their start-time order.
func (s *PostgresStore) FetchTrips(ctx context.Context, from, to time.Time) ([]trip.Record, error) {
	query := `
		SELECT id, date, start_time, end_time,
		       duration_minutes, distance_km, avg_fatigue, alerts,
		       COALESCE(route_name, '')
		FROM trips
		WHERE date BETWEEN $1 AND $2
		ORDER BY date DESC, start_time DESC
	`
	rows, err := s.pool.Query(ctx, query, from.Format(trip.DateLayout), to.Format(trip.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("trip query failed: %w", err)
	}
	defer rows.Close()

	var trips []trip.Record
	for rows.Next() {
		var (
			r          trip.Record
			date       time.Time
			start, end *time.Time
		)
		if err := rows.Scan(&r.ID, &date, &start, &end,
			&r.DurationMinutes, &r.DistanceKm, &r.AvgFatigue, &r.AlertCount,
			&r.RouteName); err != nil {
			return nil, fmt.Errorf("trip scan failed: %w", err)
		}
		r.Date = date.Format(trip.DateLayout)
		if start != nil {
			r.StartTime = *start
		}
		if end != nil {
			r.EndTime = *end
		}
		trips = append(trips, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trip rows failed: %w", err)
	}

	return trips, nil
}

// FetchTrip looks up a single trip by id. A missing row yields pgx.ErrNoRows.
func (s *PostgresStore) FetchTrip(ctx context.Context, id string) (trip.Record, error) {
	query := `
		SELECT id, date, start_time, end_time,
		       duration_minutes, distance_km, avg_fatigue, alerts,
		       COALESCE(route_name, '')
		FROM trips
		WHERE id = $1
	`
	var (
		r          trip.Record
		date       time.Time
		start, end *time.Time
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(&r.ID, &date, &start, &end,
		&r.DurationMinutes, &r.DistanceKm, &r.AvgFatigue, &r.AlertCount,
		&r.RouteName)
	if err != nil {
		return trip.Record{}, fmt.Errorf("trip lookup failed: %w", err)
	}
	r.Date = date.Format(trip.DateLayout)
	if start != nil {
		r.StartTime = *start
	}
	if end != nil {
		r.EndTime = *end
	}
	return r, nil
}

var tripColumns = []string{
	"id",
	"date",
	"start_time",
	"end_time",
	"duration_minutes",
	"distance_km",
	"avg_fatigue",
	"alerts",
	"route_name",
}

// InsertTrips bulk-loads records via COPY. Synthesized ids ("dummy-...")
// are replaced with fresh UUIDs so seeded rows look like persisted trips.
func (s *PostgresStore) InsertTrips(ctx context.Context, trips []trip.Record) error {
	if len(trips) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(trips))
	for i, t := range trips {
		id := t.ID
		if id == "" || strings.HasPrefix(id, "dummy-") {
			id = uuid.NewString()
		}
		rows[i] = []interface{}{
			id,
			t.Date,
			t.StartTime,
			t.EndTime,
			t.DurationMinutes,
			t.DistanceKm,
			t.AvgFatigue,
			t.AlertCount,
			t.RouteName,
		}
	}

	_, err := s.pool.CopyFrom(
		ctx,
		pgx.Identifier{"trips"},
		tripColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("CopyFrom failed for batch of %d: %w", len(trips), err)
	}

	return nil
}
