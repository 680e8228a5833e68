package booking

import (
	"context"
	"errors"
	"time"
)

// SlotLength is the fixed duration of every appointment.
const SlotLength = time.Hour

var (
	ErrMalformedTimeInput = errors.New("malformed time input")
	ErrSlotTaken          = errors.New("requested time conflicts with another appointment")
	ErrBackendUnavailable = errors.New("calendar backend unavailable")
	ErrCreateFailed       = errors.New("calendar event creation failed")
)

// Request carries the conversational parameters of a schedule intent
// exactly as the NLU layer produced them.
type Request struct {
	AppointmentType string `json:"appointment_type"`
	Date            string `json:"date"`
	Time            string `json:"time"`
}

// Interval is a resolved appointment slot.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether [Start, End) intersects [start, end).
func (iv Interval) Overlaps(start, end time.Time) bool {
	return start.Before(iv.End) && end.After(iv.Start)
}

// Event is a calendar entry as seen by the booker.
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start_time"`
	End         time.Time `json:"end_time"`
}

// NewEvent is the write request for a calendar entry.
type NewEvent struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Calendar is the single shared calendar resource. Implementations must not
// assume callers serialize ListEvents and InsertEvent; InsertEvent is where
// a backend rejects a write it cannot honor.
type Calendar interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error)
	InsertEvent(ctx context.Context, calendarID string, ev NewEvent) (Event, error)
}

type Status int

const (
	StatusDeclined Status = iota
	StatusConfirmed
)

func (s Status) String() string {
	if s == StatusConfirmed {
		return "confirmed"
	}
	return "declined"
}

// Reason says why a booking was declined. It is for logs only.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonInvalidTime
	ReasonSlotTaken
	ReasonBackendUnavailable
	ReasonCreateFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonInvalidTime:
		return "invalid_time"
	case ReasonSlotTaken:
		return "slot_taken"
	case ReasonBackendUnavailable:
		return "backend_unavailable"
	case ReasonCreateFailed:
		return "create_failed"
	default:
		return "none"
	}
}

// Outcome is the result of one booking attempt: either confirmed with the
// reserved interval, or declined with a reason and, when the request could
// be resolved, the interval that was asked for.
type Outcome struct {
	Status          Status
	Reason          Reason
	Interval        *Interval
	AppointmentType string
	Event           *Event
	Err             error
}

func Confirmed(iv Interval, appointmentType string, ev Event) Outcome {
	return Outcome{
		Status:          StatusConfirmed,
		Interval:        &iv,
		AppointmentType: appointmentType,
		Event:           &ev,
	}
}

func Declined(reason Reason, requested *Interval, appointmentType string, err error) Outcome {
	return Outcome{
		Status:          StatusDeclined,
		Reason:          reason,
		Interval:        requested,
		AppointmentType: appointmentType,
		Err:             err,
	}
}

func (o Outcome) IsConfirmed() bool {
	return o.Status == StatusConfirmed
}
