package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"appointment-fulfillment/internal/booking"
)

// exclusion_violation, raised by calendar_events_no_overlap
const pgExclusionViolation = "23P01"

// DB is the part of *pgxpool.Pool the Postgres calendar uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is a self-hosted booking.Calendar. Overlapping inserts on the
// same calendar are rejected by the database, so concurrent bookers that
// both saw a free slot cannot both win.
type Postgres struct {
	DB DB
}

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`CREATE TABLE IF NOT EXISTS calendar_events (
		id          uuid PRIMARY KEY,
		calendar_id text NOT NULL,
		summary     text NOT NULL,
		description text NOT NULL DEFAULT '',
		start_at    timestamptz NOT NULL,
		end_at      timestamptz NOT NULL,
		created_at  timestamptz NOT NULL DEFAULT now(),
		CHECK (end_at > start_at),
		CONSTRAINT calendar_events_no_overlap EXCLUDE USING gist (
			calendar_id WITH =,
			tstzrange(start_at, end_at) WITH &&
		)
	)`,
	`CREATE INDEX IF NOT EXISTS calendar_events_window_idx
		ON calendar_events (calendar_id, start_at, end_at)`,
}

// Migrate creates the events table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	for i, q := range migrations {
		if _, err := p.DB.Exec(ctx, q); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func (p *Postgres) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]booking.Event, error) {
	q := `SELECT id, summary, description, start_at, end_at
	      FROM calendar_events
	      WHERE calendar_id=$1 AND end_at > $2 AND start_at < $3
	      ORDER BY start_at`
	rows, err := p.DB.Query(ctx, q, calendarID, timeMin.UTC(), timeMax.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []booking.Event
	for rows.Next() {
		var (
			ev booking.Event
			id uuid.UUID
		)
		if err := rows.Scan(&id, &ev.Summary, &ev.Description, &ev.Start, &ev.End); err != nil {
			return nil, err
		}
		ev.ID = id.String()
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertEvent(ctx context.Context, calendarID string, ev booking.NewEvent) (booking.Event, error) {
	id := uuid.New()
	q := `INSERT INTO calendar_events (id, calendar_id, summary, description, start_at, end_at)
	      VALUES ($1, $2, $3, $4, $5, $6)
	      RETURNING start_at, end_at`

	out := booking.Event{ID: id.String(), Summary: ev.Summary, Description: ev.Description}
	err := p.DB.QueryRow(ctx, q, id, calendarID, ev.Summary, ev.Description, ev.Start.UTC(), ev.End.UTC()).
		Scan(&out.Start, &out.End)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
			return booking.Event{}, fmt.Errorf("%w: slot already booked", booking.ErrCreateFailed)
		}
		return booking.Event{}, err
	}
	return out, nil
}
