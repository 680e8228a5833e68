package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appointment-fulfillment/internal/booking"
	"appointment-fulfillment/internal/fulfillment"
)

const (
	defaultAppointmentType = "General"
	fallbackText           = "Sorry, I can only help you schedule an appointment."
)

// POST /webhook
// Dialogflow fulfillment endpoint. Every well-formed request gets a 200 with
// a reply; booking failures are part of the reply, not the status.
func (a *App) WebhookHandler(c *gin.Context) {
	var req fulfillment.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent := req.QueryResult.Intent.DisplayName
	log := getLogger(c, a.Logger).With(
		zap.String("response_id", req.ResponseID),
		zap.String("session", req.Session),
		zap.String("intent", intent),
	)
	log.Info("fulfillment request", zap.Any("parameters", req.QueryResult.Parameters))
	c.Set(loggerKey, log)

	handle, ok := a.intents[intent]
	if !ok {
		log.Warn("no handler for intent")
		c.JSON(http.StatusOK, fulfillment.Reply{Text: fallbackText}.WebhookResponse())
		return
	}

	c.JSON(http.StatusOK, handle(c, req.QueryResult).WebhookResponse())
}

func (a *App) makeAppointment(c *gin.Context, q fulfillment.QueryResult) fulfillment.Reply {
	req := booking.Request{
		AppointmentType: q.Param("AppointmentType"),
		Date:            q.Param("date"),
		Time:            q.Param("time"),
	}
	if req.AppointmentType == "" {
		req.AppointmentType = defaultAppointmentType
	}

	outcome := a.Booker.Book(c.Request.Context(), req)
	getLogger(c, a.Logger).Info("booking outcome",
		zap.Stringer("status", outcome.Status),
		zap.Stringer("reason", outcome.Reason),
	)
	return a.Formatter.Format(outcome)
}

// GET /healthz
func (a *App) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "calendar_backend": a.Backend})
}
