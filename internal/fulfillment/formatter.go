package fulfillment

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"appointment-fulfillment/internal/booking"
)

const (
	DefaultMapImageTemplate = "https://maps.googleapis.com/maps/api/staticmap?center=Googleplex&zoom=14&size=200x200"
	DefaultIconImageURL     = "https://fonts.gstatic.com/s/i/googlematerialicons/calendar_today/v5/black-48dp/1x/gm_calendar_today_black_48dp.png"

	dateLayout = "January 2"
	hourLayout = "3 PM"

	genericDecline = "I'm sorry, there are no slots available for the requested time."
)

type FormatterConfig struct {
	Zone             *time.Location
	MapImageTemplate string
	MapsAPIKey       string
	IconImageURL     string
	CalendarURL      string
}

// Formatter renders booking outcomes as conversational replies.
type Formatter struct {
	cfg    FormatterConfig
	logger *zap.Logger
}

func NewFormatter(cfg FormatterConfig, logger *zap.Logger) *Formatter {
	if cfg.Zone == nil {
		cfg.Zone = time.UTC
	}
	if cfg.MapImageTemplate == "" {
		cfg.MapImageTemplate = DefaultMapImageTemplate
	}
	if cfg.IconImageURL == "" {
		cfg.IconImageURL = DefaultIconImageURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{cfg: cfg, logger: logger}
}

// Format never fails. Anything that goes wrong while rendering a
// confirmation degrades to the generic decline text.
func (f *Formatter) Format(o booking.Outcome) (reply Reply) {
	defer func() {
		if p := recover(); p != nil {
			f.logger.Error("formatting reply panicked", zap.Any("panic", p))
			reply = Reply{Text: genericDecline}
		}
	}()

	if !o.IsConfirmed() || o.Interval == nil {
		return f.decline(o)
	}

	mapURL, err := f.mapImageURL()
	if err != nil {
		f.logger.Error("building map image url", zap.Error(err))
		return Reply{Text: genericDecline}
	}

	start := o.Interval.Start.In(f.cfg.Zone)
	date, hour := start.Format(dateLayout), start.Format(hourLayout)
	return Reply{
		Text: fmt.Sprintf("Ok, let me see if we can fit you in. %s, %s is fine!.", date, hour),
		Card: confirmationCard(o.AppointmentType, date, hour, f.cfg.IconImageURL, mapURL, f.cfg.CalendarURL),
	}
}

func (f *Formatter) decline(o booking.Outcome) Reply {
	if o.Interval == nil {
		return Reply{Text: genericDecline}
	}
	return Reply{Text: fmt.Sprintf("I'm sorry, there are no slots available for %s.", f.humanTime(o.Interval.Start))}
}

// humanTime renders t like "June 1, 9 AM" in the configured zone.
func (f *Formatter) humanTime(t time.Time) string {
	t = t.In(f.cfg.Zone)
	return t.Format(dateLayout) + ", " + t.Format(hourLayout)
}

func (f *Formatter) mapImageURL() (string, error) {
	u, err := url.Parse(f.cfg.MapImageTemplate)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("map image template %q is not an absolute url", f.cfg.MapImageTemplate)
	}
	if f.cfg.MapsAPIKey != "" {
		q := u.Query()
		q.Set("key", f.cfg.MapsAPIKey)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
