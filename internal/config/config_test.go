package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no stray config.yaml is
// picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	isolate(t)
	t.Setenv("CALENDAR_BACKEND", "memory")
	t.Setenv("CALENDAR_ID", "team@group.calendar.google.com")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")
	t.Setenv("WRITE_TIMEOUT", "5s")
	t.Setenv("STATIC_TOKENS", "a, b,,c")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "development", cfg.Env)
	require.False(t, cfg.IsProduction())
	require.Equal(t, BackendMemory, cfg.CalendarBackend)
	require.Equal(t, "team@group.calendar.google.com", cfg.CalendarID)
	require.Equal(t, 30, cfg.RateLimitPerMin)
	require.Equal(t, 5*time.Second, cfg.WriteTimeout)
	require.Equal(t, []string{"a", "b", "c"}, cfg.Tokens())

	name, offset := time.Date(2023, 6, 1, 0, 0, 0, 0, cfg.Zone()).Zone()
	require.Equal(t, "America/Los_Angeles", name)
	require.Equal(t, -7*60*60, offset)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	yaml := []byte("CALENDAR_BACKEND: postgres\nCALENDAR_ID: clinic\nDATABASE_URL: postgres://localhost/cal\nTIMEZONE: Asia/Kolkata\nTIMEZONE_OFFSET: \"+05:30\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("CALENDAR_ID", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendPostgres, cfg.CalendarBackend)
	require.Equal(t, "from-env", cfg.CalendarID)
	require.Equal(t, "postgres://localhost/cal", cfg.DatabaseURL)

	_, offset := time.Date(2023, 6, 1, 0, 0, 0, 0, cfg.Zone()).Zone()
	require.Equal(t, 5*60*60+30*60, offset)
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing calendar id", map[string]string{"CALENDAR_BACKEND": "memory"}},
		{"google without credentials", map[string]string{"CALENDAR_ID": "c"}},
		{"postgres without dsn", map[string]string{"CALENDAR_BACKEND": "postgres", "CALENDAR_ID": "c"}},
		{"unknown backend", map[string]string{"CALENDAR_BACKEND": "outlook", "CALENDAR_ID": "c"}},
		{"bad offset", map[string]string{"CALENDAR_BACKEND": "memory", "CALENDAR_ID": "c", "TIMEZONE_OFFSET": "PST"}},
		{"zero write timeout", map[string]string{"CALENDAR_BACKEND": "memory", "CALENDAR_ID": "c", "WRITE_TIMEOUT": "0s"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestParseOffset(t *testing.T) {
	cases := map[string]int{
		"-07:00": -7 * 3600,
		"+05:30": 5*3600 + 1800,
		"-0800":  -8 * 3600,
		"+02":    2 * 3600,
		"Z":      0,
	}
	for in, want := range cases {
		got, err := ParseOffset(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseOffset("seven")
	require.Error(t, err)
}
