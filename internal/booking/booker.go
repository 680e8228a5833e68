package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultWriteTimeout = 15 * time.Second

// BookerConfig is fixed for the life of the process.
type BookerConfig struct {
	CalendarID   string
	Zone         *time.Location
	WriteTimeout time.Duration
}

// Booker turns a schedule request into exactly one Outcome.
type Booker struct {
	cal    Calendar
	cfg    BookerConfig
	logger *zap.Logger
}

func NewBooker(cal Calendar, cfg BookerConfig, logger *zap.Logger) *Booker {
	if cfg.Zone == nil {
		cfg.Zone = time.UTC
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Booker{cal: cal, cfg: cfg, logger: logger}
}

// Book resolves the requested slot, checks it against the calendar and
// reserves it when free. It never returns an error: every failure becomes a
// declined outcome whose Reason and Err are meant for logs only.
//
// The check and the insert are two separate calls on a shared calendar.
// Nothing here serializes concurrent bookers; a writer that loses the race
// after seeing a free slot gets ReasonCreateFailed from the backend.
func (b *Booker) Book(ctx context.Context, req Request) Outcome {
	log := b.logger.With(
		zap.String("appointment_type", req.AppointmentType),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
	)

	iv, err := ResolveInterval(req.Date, req.Time, b.cfg.Zone)
	if err != nil {
		log.Info("booking declined", zap.Stringer("reason", ReasonInvalidTime), zap.Error(err))
		return Declined(ReasonInvalidTime, nil, req.AppointmentType, err)
	}
	log = log.With(zap.Time("start", iv.Start), zap.Time("end", iv.End))

	avail, err := CheckAvailability(ctx, b.cal, b.cfg.CalendarID, iv)
	if err != nil {
		log.Error("booking declined", zap.Stringer("reason", ReasonBackendUnavailable), zap.Error(err))
		return Declined(ReasonBackendUnavailable, &iv, req.AppointmentType, err)
	}
	if !avail.Free() {
		err := fmt.Errorf("%w: %d overlapping event(s)", ErrSlotTaken, len(avail.Conflicts))
		log.Info("booking declined", zap.Stringer("reason", ReasonSlotTaken),
			zap.Int("conflicts", len(avail.Conflicts)))
		return Declined(ReasonSlotTaken, &iv, req.AppointmentType, err)
	}

	ev, err := b.reserve(ctx, req.AppointmentType, iv)
	if err != nil {
		log.Warn("booking declined", zap.Stringer("reason", ReasonCreateFailed), zap.Error(err))
		return Declined(ReasonCreateFailed, &iv, req.AppointmentType, err)
	}

	log.Info("booking confirmed", zap.String("event_id", ev.ID))
	return Confirmed(iv, req.AppointmentType, ev)
}

// reserve writes the event on a context that outlives the caller's
// cancellation, so a timed-out webhook call cannot abandon a half-sent write.
func (b *Booker) reserve(ctx context.Context, appointmentType string, iv Interval) (Event, error) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.cfg.WriteTimeout)
	defer cancel()

	ev, err := b.cal.InsertEvent(wctx, b.cfg.CalendarID, NewEvent{
		Summary:     appointmentType + " Appointment",
		Description: appointmentType,
		Start:       iv.Start,
		End:         iv.End,
	})
	if err != nil {
		if errors.Is(err, ErrCreateFailed) {
			return Event{}, err
		}
		return Event{}, fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}
	return ev, nil
}
