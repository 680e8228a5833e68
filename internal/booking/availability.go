package booking

import (
	"context"
	"fmt"
)

// Availability is the result of checking one interval.
type Availability struct {
	Conflicts []Event
}

// Free reports whether nothing overlaps the checked interval.
func (a Availability) Free() bool {
	return len(a.Conflicts) == 0
}

// CheckAvailability issues a single list query for iv. Every event the
// calendar returns for the window is a conflict, partial overlaps included.
func CheckAvailability(ctx context.Context, cal Calendar, calendarID string, iv Interval) (Availability, error) {
	events, err := cal.ListEvents(ctx, calendarID, iv.Start, iv.End)
	if err != nil {
		return Availability{}, fmt.Errorf("%w: list events: %v", ErrBackendUnavailable, err)
	}

	return Availability{Conflicts: events}, nil
}
