package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendGoogle   = "google"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all configuration values. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Calendar resource.
	CalendarBackend       string        `mapstructure:"CALENDAR_BACKEND"`
	CalendarID            string        `mapstructure:"CALENDAR_ID"`
	GoogleCredentialsFile string        `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	DatabaseURL           string        `mapstructure:"DATABASE_URL"`
	WriteTimeout          time.Duration `mapstructure:"WRITE_TIMEOUT"`

	// Reply rendering.
	MapsAPIKey       string `mapstructure:"MAPS_API_KEY"`
	MapImageTemplate string `mapstructure:"MAP_IMAGE_TEMPLATE"`
	IconImageURL     string `mapstructure:"ICON_IMAGE_URL"`
	CalendarURL      string `mapstructure:"CALENDAR_URL"`
	TimeZone         string `mapstructure:"TIMEZONE"`
	TimeZoneOffset   string `mapstructure:"TIMEZONE_OFFSET"`

	// Webhook protection.
	StaticTokens    string `mapstructure:"STATIC_TOKENS"`
	JWTSecret       string `mapstructure:"JWT_HMAC_SECRET"`
	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`

	zone *time.Location
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"CALENDAR_BACKEND", "CALENDAR_ID", "GOOGLE_CREDENTIALS_FILE", "DATABASE_URL", "WRITE_TIMEOUT",
	"MAPS_API_KEY", "MAP_IMAGE_TEMPLATE", "ICON_IMAGE_URL", "CALENDAR_URL", "TIMEZONE", "TIMEZONE_OFFSET",
	"STATIC_TOKENS", "JWT_HMAC_SECRET", "RATE_LIMIT_PER_MIN",
}

// Load reads config.yaml from the working directory or ./config when
// present, then lets environment variables override it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CALENDAR_BACKEND", BackendGoogle)
	v.SetDefault("WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("TIMEZONE", "America/Los_Angeles")
	v.SetDefault("TIMEZONE_OFFSET", "-07:00")
	v.SetDefault("RATE_LIMIT_PER_MIN", 120)
	// AutomaticEnv only covers keys viper already knows about when
	// unmarshalling.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.CalendarBackend = strings.ToLower(strings.TrimSpace(c.CalendarBackend))
	switch c.CalendarBackend {
	case BackendGoogle:
		if c.GoogleCredentialsFile == "" {
			return errors.New("GOOGLE_CREDENTIALS_FILE required for the google calendar backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL required for the postgres calendar backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown CALENDAR_BACKEND %q", c.CalendarBackend)
	}
	if c.CalendarID == "" {
		return errors.New("CALENDAR_ID required")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("WRITE_TIMEOUT must be positive, got %s", c.WriteTimeout)
	}

	offset, err := ParseOffset(c.TimeZoneOffset)
	if err != nil {
		return err
	}
	c.zone = time.FixedZone(c.TimeZone, offset)
	return nil
}

// Zone is the fixed-offset location every appointment is resolved and
// rendered in.
func (c *Config) Zone() *time.Location {
	return c.zone
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Tokens returns the configured static bearer tokens.
func (c *Config) Tokens() []string {
	var out []string
	for _, t := range strings.Split(c.StaticTokens, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ParseOffset turns "-07:00", "+0530" or "Z" into seconds east of UTC.
func ParseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "Z" || s == "z" {
		return 0, nil
	}
	for _, layout := range []string{"-07:00", "-0700", "-07"} {
		if t, err := time.Parse(layout, s); err == nil {
			_, offset := t.Zone()
			return offset, nil
		}
	}
	return 0, fmt.Errorf("invalid TIMEZONE_OFFSET %q", s)
}
