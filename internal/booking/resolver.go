package booking

import (
	"fmt"
	"strings"
	"time"
)

var clockLayouts = []string{"15:04:05.999999999", "15:04"}

// ResolveInterval combines the calendar date of date with the wall clock of
// clock in zone. The date part of clock and any offset it carries are
// ignored; NLU layers fill them with placeholders.
func ResolveInterval(date, clock string, zone *time.Location) (Interval, error) {
	if zone == nil {
		zone = time.UTC
	}

	day, err := parseDate(date)
	if err != nil {
		return Interval{}, err
	}
	tod, err := parseClock(clock)
	if err != nil {
		return Interval{}, err
	}

	y, m, d := day.Date()
	start := time.Date(y, m, d, tod.Hour(), tod.Minute(), tod.Second(), tod.Nanosecond(), zone)
	return Interval{Start: start, End: start.Add(SlotLength)}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrMalformedTimeInput, s)
	}
	return d, nil
}

// parseClock takes "2023-05-30T09:00:00-07:00", "09:00:00Z" or "09:00" and
// returns the wall clock.
func parseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.IndexAny(s, "Z+-"); i >= 0 {
		s = s[:i]
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: time %q", ErrMalformedTimeInput, s)
}
