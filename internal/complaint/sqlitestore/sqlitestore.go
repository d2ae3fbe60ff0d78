// Package sqlitestore provides a file-backed SQLite implementation of complaint.Store.
package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/locono/internal/complaint"
)

const tracerName = "github.com/linnemanlabs/locono/internal/complaint/sqlitestore"

//go:embed schema.sql
var schema string

// Store persists complaints in a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path, applies the schema,
// and returns a ready Store.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL lets the dashboard poll while a complaint is being written.
	dsn := "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const complaintColumns = `id, type, location, description, latitude, longitude, level, status, created_at`

// Insert persists c and returns the committed row.
func (s *Store) Insert(ctx context.Context, c *complaint.Complaint) (*complaint.Complaint, error) {
	ctx, span := startSpan(ctx, "sqlitestore.Insert", "INSERT")
	defer span.End()

	row := s.db.QueryRowContext(ctx,
		`INSERT INTO complaints (type, location, description, latitude, longitude, level, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+complaintColumns,
		c.Type, c.Location, c.Description, nullFloat(c.Latitude), nullFloat(c.Longitude),
		c.Level, string(c.Status), c.CreatedAt.UnixNano(),
	)
	out, err := scanComplaint(row)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("insert complaint: %w", err)
	}
	return out, nil
}

// ListByStatus returns every complaint whose status is in statuses, in ID order.
func (s *Store) ListByStatus(ctx context.Context, statuses ...complaint.Status) ([]*complaint.Complaint, error) {
	out := make([]*complaint.Complaint, 0)
	if len(statuses) == 0 {
		return out, nil
	}

	ctx, span := startSpan(ctx, "sqlitestore.ListByStatus", "SELECT")
	defer span.End()

	args := make([]any, len(statuses))
	for i, st := range statuses {
		args[i] = string(st)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE status IN (`+placeholders+`) ORDER BY id`,
		args...,
	)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("query complaints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			recordError(span, err)
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("iterate complaints: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(out)))
	return out, nil
}

// SetStatus changes the status of complaint id.
func (s *Store) SetStatus(ctx context.Context, id int64, status complaint.Status) error {
	ctx, span := startSpan(ctx, "sqlitestore.SetStatus", "UPDATE")
	defer span.End()

	res, err := s.db.ExecContext(ctx, `UPDATE complaints SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		recordError(span, err)
		return fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		recordError(span, err)
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		err := fmt.Errorf("complaint %d not found", id)
		recordError(span, err)
		return err
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row scanner) (*complaint.Complaint, error) {
	var (
		c         complaint.Complaint
		lat, lon  sql.NullFloat64
		status    string
		createdAt int64
	)
	if err := row.Scan(&c.ID, &c.Type, &c.Location, &c.Description, &lat, &lon, &c.Level, &status, &createdAt); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	c.Status = complaint.Status(status)
	c.CreatedAt = time.Unix(0, createdAt)
	if lat.Valid {
		c.Latitude = &lat.Float64
	}
	if lon.Valid {
		c.Longitude = &lon.Float64
	}
	return &c, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func startSpan(ctx context.Context, name, op string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation.name", op),
	))
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
