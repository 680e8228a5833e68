package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"appointment-fulfillment/internal/booking"
)

// Google is a booking.Calendar backed by the Google Calendar API.
type Google struct {
	srv *gcal.Service
}

// NewGoogleFromFile authenticates with a service-account key file. The
// calendar has to be shared with the service account's email.
func NewGoogleFromFile(ctx context.Context, path string) (*Google, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}
	return NewGoogleFromJSON(ctx, key)
}

func NewGoogleFromJSON(ctx context.Context, key []byte) (*Google, error) {
	conf, err := google.JWTConfigFromJSON(key, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return NewGoogle(ctx, option.WithHTTPClient(conf.Client(ctx)))
}

// NewGoogle builds the client from raw client options.
func NewGoogle(ctx context.Context, opts ...option.ClientOption) (*Google, error) {
	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Google{srv: srv}, nil
}

// ListEvents returns every event overlapping [timeMin, timeMax), expanding
// recurring events into their instances.
func (g *Google) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]booking.Event, error) {
	call := g.srv.Events.List(calendarID).
		SingleEvents(true).
		ShowDeleted(false).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339))

	var out []booking.Event
	err := call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			if item.Status == "cancelled" {
				continue
			}
			out = append(out, fromGoogle(item))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

func (g *Google) InsertEvent(ctx context.Context, calendarID string, ev booking.NewEvent) (booking.Event, error) {
	created, err := g.srv.Events.Insert(calendarID, &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return booking.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return fromGoogle(created), nil
}

func fromGoogle(item *gcal.Event) booking.Event {
	ev := booking.Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
	}
	ev.Start = parseEventTime(item.Start)
	ev.End = parseEventTime(item.End)
	return ev
}

// parseEventTime reads a timed or an all-day bound; unparseable bounds are
// left zero.
func parseEventTime(dt *gcal.EventDateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t
		}
	} else if dt.Date != "" {
		if t, err := time.Parse(time.DateOnly, dt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
