// Package pgstore provides a PostgreSQL implementation of complaint.Store.
package pgstore

import (
	"context"
	_ "embed"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/locono/internal/complaint"
)

var tracer = otel.Tracer("github.com/linnemanlabs/locono/internal/complaint/pgstore")

//go:embed schema.sql
var schema string

// Store persists complaints in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on pool and returns a ready Store. The caller owns
// the pool.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const complaintColumns = `id, type, location, description, latitude, longitude, level, status, created_at`

// Insert persists c and returns the committed row.
func (s *Store) Insert(ctx context.Context, c *complaint.Complaint) (*complaint.Complaint, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Insert", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	query := `INSERT INTO complaints (type, location, description, latitude, longitude, level, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + complaintColumns

	out, err := scanComplaint(s.pool.QueryRow(ctx, query,
		c.Type, c.Location, c.Description, c.Latitude, c.Longitude, c.Level, string(c.Status), c.CreatedAt,
	))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("insert complaint: %w", err)
	}
	span.SetAttributes(attribute.Int64("locono.complaint.id", out.ID))
	return out, nil
}

// ListByStatus returns every complaint whose status is in statuses, in ID order.
func (s *Store) ListByStatus(ctx context.Context, statuses ...complaint.Status) ([]*complaint.Complaint, error) {
	out := make([]*complaint.Complaint, 0)
	if len(statuses) == 0 {
		return out, nil
	}

	ctx, span := tracer.Start(ctx, "pgstore.ListByStatus", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE status = ANY($1) ORDER BY id`, names)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query complaints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("iterate complaints: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(out)))
	return out, nil
}

// SetStatus changes the status of complaint id.
func (s *Store) SetStatus(ctx context.Context, id int64, status complaint.Status) error {
	ctx, span := tracer.Start(ctx, "pgstore.SetStatus", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	tag, err := s.pool.Exec(ctx, `UPDATE complaints SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complaint %d not found", id)
	}
	return nil
}

func scanComplaint(row pgx.Row) (*complaint.Complaint, error) {
	var (
		c      complaint.Complaint
		status string
	)
	err := row.Scan(&c.ID, &c.Type, &c.Location, &c.Description, &c.Latitude, &c.Longitude,
		&c.Level, &status, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	c.Status = complaint.Status(status)
	return &c, nil
}
