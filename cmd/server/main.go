package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"appointment-fulfillment/internal/app"
	"appointment-fulfillment/internal/booking"
	"appointment-fulfillment/internal/calendar"
	"appointment-fulfillment/internal/config"
	"appointment-fulfillment/internal/fulfillment"
	"appointment-fulfillment/internal/logger"
	"appointment-fulfillment/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	cal, closeCal, err := openCalendar(ctx, cfg)
	if err != nil {
		lg.Fatal("failed to open calendar", zap.String("backend", cfg.CalendarBackend), zap.Error(err))
	}
	defer closeCal()

	booker := booking.NewBooker(cal, booking.BookerConfig{
		CalendarID:   cfg.CalendarID,
		Zone:         cfg.Zone(),
		WriteTimeout: cfg.WriteTimeout,
	}, lg.Named("booking"))

	formatter := fulfillment.NewFormatter(fulfillment.FormatterConfig{
		Zone:             cfg.Zone(),
		MapImageTemplate: cfg.MapImageTemplate,
		MapsAPIKey:       cfg.MapsAPIKey,
		IconImageURL:     cfg.IconImageURL,
		CalendarURL:      cfg.CalendarURL,
	}, lg.Named("fulfillment"))

	tokens := cfg.Tokens()
	if len(tokens) == 0 && cfg.JWTSecret == "" {
		lg.Warn("webhook authentication disabled: set STATIC_TOKENS or JWT_HMAC_SECRET")
	}

	appInstance := app.New(booker, formatter, lg, cfg.CalendarBackend)
	router := appInstance.Router(app.RouterConfig{
		StaticTokens:    tokens,
		JWTSecret:       cfg.JWTSecret,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	if err := server.Run(ctx, router, cfg.Port, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func openCalendar(ctx context.Context, cfg *config.Config) (booking.Calendar, func(), error) {
	switch cfg.CalendarBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pg := &calendar.Postgres{DB: pool}
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	case config.BackendMemory:
		return calendar.NewMemory(), func() {}, nil
	default:
		// token refresh must not depend on the signal context
		g, err := calendar.NewGoogleFromFile(context.Background(), cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return g, func() {}, nil
	}
}
