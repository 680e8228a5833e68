package calendar

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"appointment-fulfillment/internal/booking"
)

func TestMemory_ListReturnsOnlyOverlapping(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	nine := time.Date(2023, 6, 1, 9, 0, 0, 0, pacific)

	for _, start := range []time.Time{nine.Add(-time.Hour), nine.Add(30 * time.Minute), nine.Add(2 * time.Hour)} {
		_, err := m.InsertEvent(ctx, "cal-1", booking.NewEvent{Summary: "x", Start: start, End: start.Add(30 * time.Minute)})
		require.NoError(t, err)
	}

	events, err := m.ListEvents(ctx, "cal-1", nine, nine.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.True(t, events[0].Start.Equal(nine.Add(30*time.Minute)))

	other, err := m.ListEvents(ctx, "cal-2", nine, nine.Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestMemory_RejectsOverlappingInsert(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	nine := time.Date(2023, 6, 1, 9, 0, 0, 0, pacific)

	_, err := m.InsertEvent(ctx, "cal-1", booking.NewEvent{Start: nine, End: nine.Add(time.Hour)})
	require.NoError(t, err)

	_, err = m.InsertEvent(ctx, "cal-1", booking.NewEvent{Start: nine.Add(59 * time.Minute), End: nine.Add(2 * time.Hour)})
	require.True(t, errors.Is(err, booking.ErrCreateFailed), "err = %v", err)

	_, err = m.InsertEvent(ctx, "cal-1", booking.NewEvent{Start: nine.Add(time.Hour), End: nine.Add(2 * time.Hour)})
	require.NoError(t, err)
}

// Concurrent bookers for the same slot: every one may see the slot free,
// only one may confirm, the others must be told their write failed.
func TestMemory_ConcurrentBookersOneWins(t *testing.T) {
	m := NewMemory()
	b := booking.NewBooker(m, booking.BookerConfig{CalendarID: "cal-1", Zone: pacific}, nil)
	req := booking.Request{AppointmentType: "Consultation", Date: "2023-06-01", Time: "09:00:00"}

	const n = 16
	outcomes := make([]booking.Outcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = b.Book(context.Background(), req)
		}(i)
	}
	wg.Wait()

	confirmed := 0
	for _, o := range outcomes {
		if o.IsConfirmed() {
			confirmed++
			continue
		}
		require.Contains(t, []booking.Reason{booking.ReasonSlotTaken, booking.ReasonCreateFailed}, o.Reason)
	}
	require.Equal(t, 1, confirmed)

	events, err := m.ListEvents(context.Background(), "cal-1",
		time.Date(2023, 6, 1, 0, 0, 0, 0, pacific), time.Date(2023, 6, 2, 0, 0, 0, 0, pacific))
	require.NoError(t, err)
	require.Len(t, events, 1)
}
