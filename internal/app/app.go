package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appointment-fulfillment/internal/booking"
	"appointment-fulfillment/internal/fulfillment"
)

// ScheduleIntent is the Dialogflow intent display name that books.
const ScheduleIntent = "Schedule Appointment"

// Booker is what the webhook needs from booking.Booker.
type Booker interface {
	Book(ctx context.Context, req booking.Request) booking.Outcome
}

// App wires the booking core to the fulfillment webhook.
type App struct {
	Booker    Booker
	Formatter *fulfillment.Formatter
	Logger    *zap.Logger
	// Backend names the calendar resource for /healthz.
	Backend string

	intents map[string]intentHandler
}

type intentHandler func(c *gin.Context, q fulfillment.QueryResult) fulfillment.Reply

func New(b Booker, f *fulfillment.Formatter, logger *zap.Logger, backend string) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Booker: b, Formatter: f, Logger: logger, Backend: backend}
	a.intents = map[string]intentHandler{
		ScheduleIntent: a.makeAppointment,
	}
	return a
}

// RouterConfig carries the webhook protection settings.
type RouterConfig struct {
	StaticTokens    []string
	JWTSecret       string
	RateLimitPerMin int
}

func (a *App) Router(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(a.Logger))
	router.Use(Recovery(a.Logger))

	router.GET("/healthz", a.HealthHandler)

	hook := router.Group("/")
	hook.Use(RateLimitMiddleware(cfg.RateLimitPerMin, a.Logger))
	hook.Use(AuthMiddleware(cfg.StaticTokens, cfg.JWTSecret))
	hook.POST("/webhook", a.WebhookHandler)

	return router
}
