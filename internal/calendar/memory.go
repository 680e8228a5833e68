package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"appointment-fulfillment/internal/booking"
)

// Memory is an in-process calendar for local development. It loses its
// events on restart and, like Postgres, refuses overlapping inserts.
type Memory struct {
	mu     sync.Mutex
	events map[string][]booking.Event
}

func NewMemory() *Memory {
	return &Memory{events: make(map[string][]booking.Event)}
}

func (m *Memory) ListEvents(_ context.Context, calendarID string, timeMin, timeMax time.Time) ([]booking.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	window := booking.Interval{Start: timeMin, End: timeMax}
	var out []booking.Event
	for _, ev := range m.events[calendarID] {
		if window.Overlaps(ev.Start, ev.End) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *Memory) InsertEvent(ctx context.Context, calendarID string, ev booking.NewEvent) (booking.Event, error) {
	if err := ctx.Err(); err != nil {
		return booking.Event{}, err
	}
	if !ev.End.After(ev.Start) {
		return booking.Event{}, fmt.Errorf("event end %s is not after start %s", ev.End, ev.Start)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	span := booking.Interval{Start: ev.Start, End: ev.End}
	for _, existing := range m.events[calendarID] {
		if span.Overlaps(existing.Start, existing.End) {
			return booking.Event{}, fmt.Errorf("%w: overlaps %s", booking.ErrCreateFailed, existing.ID)
		}
	}

	created := booking.Event{
		ID:          uuid.NewString(),
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       ev.Start,
		End:         ev.End,
	}
	m.events[calendarID] = append(m.events[calendarID], created)
	return created, nil
}
