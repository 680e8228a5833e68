package calendar

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"appointment-fulfillment/internal/booking"
)

// newTestPostgres needs TEST_DATABASE_URL pointing at a disposable database.
func newTestPostgres(t *testing.T) *Postgres {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	p := &Postgres{DB: pool}
	require.NoError(t, p.Migrate(ctx))
	return p
}

func TestPostgres_InsertAndList(t *testing.T) {
	p := newTestPostgres(t)
	ctx := context.Background()
	calID := "test-" + uuid.NewString()
	nine := time.Date(2023, 6, 1, 9, 0, 0, 0, pacific)

	ev, err := p.InsertEvent(ctx, calID, booking.NewEvent{
		Summary:     "Consultation Appointment",
		Description: "Consultation",
		Start:       nine.Add(30 * time.Minute),
		End:         nine.Add(time.Hour),
	})
	require.NoError(t, err)
	require.NotEmpty(t, ev.ID)

	events, err := p.ListEvents(ctx, calID, nine, nine.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, ev.ID, events[0].ID)
	require.Equal(t, "Consultation", events[0].Description)

	// touching bounds do not overlap
	events, err = p.ListEvents(ctx, calID, nine.Add(time.Hour), nine.Add(2*time.Hour))
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestPostgres_OverlapRejected(t *testing.T) {
	p := newTestPostgres(t)
	ctx := context.Background()
	calID := "test-" + uuid.NewString()
	nine := time.Date(2023, 6, 1, 9, 0, 0, 0, pacific)

	_, err := p.InsertEvent(ctx, calID, booking.NewEvent{Summary: "a", Start: nine, End: nine.Add(time.Hour)})
	require.NoError(t, err)

	_, err = p.InsertEvent(ctx, calID, booking.NewEvent{Summary: "b", Start: nine.Add(15 * time.Minute), End: nine.Add(75 * time.Minute)})
	require.True(t, errors.Is(err, booking.ErrCreateFailed), "err = %v", err)
}
