package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/sree-9523/RedBus/models"
)

// PersistenceError reports one failed persistence attempt. The pipeline
// counts it and moves on; retries are a caller-level concern.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("postgres: %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// PostgresStore persists trip records to the bus_routes table and serves
// the read-side filter queries.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool to PostgreSQL, runs schema
// migrations, and returns a ready-to-use store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return store, nil
}

// migrate creates bus_routes and its indexes. The table carries no natural
// unique key: re-running a route appends fresh rows, matching the original
// append-only behavior.
func (s *PostgresStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS bus_routes (
			id              SERIAL PRIMARY KEY,
			route_name      TEXT          NOT NULL,
			route_link      TEXT          NOT NULL,
			busname         TEXT          NOT NULL,
			bustype         TEXT          NOT NULL,
			departing_time  TIMESTAMP     NOT NULL,
			duration        TEXT          NOT NULL,
			reaching_time   TIMESTAMP     NOT NULL,
			star_rating     NUMERIC(3,1)  NOT NULL DEFAULT 0,
			price           NUMERIC(10,2) NOT NULL DEFAULT 0,
			seats_available INTEGER       NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_bus_routes_route_name ON bus_routes(route_name);
		CREATE INDEX IF NOT EXISTS idx_bus_routes_price      ON bus_routes(price);
		CREATE INDEX IF NOT EXISTS idx_bus_routes_rating     ON bus_routes(star_rating);
		CREATE INDEX IF NOT EXISTS idx_bus_routes_departing  ON bus_routes(departing_time);
	`)
	return err
}

// InsertRoute stores one record on a dedicated connection: acquire, one
// insert in its implicit transaction, release on every exit path. A failure
// loses this record only.
func (s *PostgresStore) InsertRoute(ctx context.Context, record *models.TripRecord) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return &PersistenceError{Op: "acquire connection", Cause: err}
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `
		INSERT INTO bus_routes
			(route_name, route_link, busname, bustype, departing_time,
			 duration, reaching_time, star_rating, price, seats_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		record.RouteName, record.RouteLink, record.Operator, record.BusType,
		record.DepartureAt, record.Duration, record.ArrivalAt,
		record.StarRating, record.Price, record.SeatsAvailable,
	)
	if err != nil {
		return &PersistenceError{Op: "insert bus_routes", Cause: err}
	}
	return nil
}

// FetchRoutes returns stored records matching the filter, in insertion order.
func (s *PostgresStore) FetchRoutes(ctx context.Context, filter RouteFilter) ([]*models.TripRecord, error) {
	query, args := buildRoutesQuery(filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch routes: %w", err)
	}
	defer rows.Close()

	var records []*models.TripRecord
	for rows.Next() {
		r := &models.TripRecord{}
		if err := rows.Scan(
			&r.ID, &r.RouteName, &r.RouteLink, &r.Operator, &r.BusType,
			&r.DepartureAt, &r.Duration, &r.ArrivalAt,
			&r.StarRating, &r.Price, &r.SeatsAvailable,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// RouteFilter narrows read-side queries. Zero values and empty slices mean
// "no constraint".
type RouteFilter struct {
	RouteNames []string
	Operators  []string
	BusTypes   []string
	MinRating  float64
	MinPrice   *float64
	MaxPrice   *float64
	DepartFrom *time.Time
	DepartTo   *time.Time
}

// buildRoutesQuery assembles the filtered SELECT and its arguments.
func buildRoutesQuery(filter RouteFilter) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, route_name, route_link, busname, bustype, departing_time,
		       duration, reaching_time, star_rating, price, seats_available
		FROM bus_routes
		WHERE 1=1`)

	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.RouteNames) > 0 {
		sb.WriteString(" AND route_name = ANY(" + arg(pq.Array(filter.RouteNames)) + ")")
	}
	if len(filter.Operators) > 0 {
		sb.WriteString(" AND busname = ANY(" + arg(pq.Array(filter.Operators)) + ")")
	}
	if len(filter.BusTypes) > 0 {
		sb.WriteString(" AND bustype = ANY(" + arg(pq.Array(filter.BusTypes)) + ")")
	}
	if filter.MinRating > 0 {
		sb.WriteString(" AND star_rating >= " + arg(filter.MinRating))
	}
	if filter.MinPrice != nil {
		sb.WriteString(" AND price >= " + arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		sb.WriteString(" AND price <= " + arg(*filter.MaxPrice))
	}
	if filter.DepartFrom != nil {
		sb.WriteString(" AND departing_time >= " + arg(*filter.DepartFrom))
	}
	if filter.DepartTo != nil {
		sb.WriteString(" AND departing_time < " + arg(*filter.DepartTo))
	}

	sb.WriteString(" ORDER BY id")
	return sb.String(), args
}
