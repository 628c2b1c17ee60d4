package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Stream struct {
	Path           string
	ReconnectDelay time.Duration
	Backoff        bool
}

type Calendar struct {
	Timezone   string
	WeekStart  time.Weekday
	TimePolicy string
	Optimistic bool
}

type Config struct {
	APIURL         string
	APIToken       string
	RemotePageSize int
	Stream         Stream
	Calendar       Calendar
	ResyncInterval string
	PostgresURI    string
	FrontendURL    string
	ListenAddr     string
	SecretKey      string
	CookieName     string
}

func LoadConfig() *Config {
	return &Config{
		APIURL:         strings.TrimRight(getEnv("API_URL", "http://localhost:8000/api/v1"), "/"),
		APIToken:       getEnv("API_TOKEN", ""),
		RemotePageSize: getInt("REMOTE_PAGE_SIZE", 100),
		Stream: Stream{
			Path:           getEnv("STREAM_PATH", "/automation/ws/logs"),
			ReconnectDelay: getDuration("STREAM_RECONNECT_DELAY", 5*time.Second),
			Backoff:        getBool("STREAM_BACKOFF", false),
		},
		Calendar: Calendar{
			Timezone:   getEnv("TIMEZONE", ""),
			WeekStart:  getWeekday("WEEK_START", time.Sunday),
			TimePolicy: getEnv("RESCHEDULE_TIME_POLICY", "preserve"),
			Optimistic: getBool("OPTIMISTIC_RESCHEDULE", false),
		},
		ResyncInterval: getEnv("RESYNC_INTERVAL", "@every 00h01m00s"),
		PostgresURI:    getEnv("POSTGRES_URI", ""),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":3000"),
		SecretKey:      getEnv("SECRET_KEY", ""),
		CookieName:     getEnv("COOKIE_NAME", "dashboard_session"),
	}
}

// Location resolves TIMEZONE, falling back to the process local zone. An
// unknown zone is logged since it shifts every date key.
func (c Calendar) Location() *time.Location {
	loc, err := c.LoadLocation()
	if err != nil {
		slog.Warn("unknown TIMEZONE, using local zone", "timezone", c.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// LoadLocation resolves TIMEZONE and reports an unknown zone.
func (c Calendar) LoadLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getWeekday(key string, defaultValue time.Weekday) time.Weekday {
	switch strings.ToLower(os.Getenv(key)) {
	case "sunday", "sun":
		return time.Sunday
	case "monday", "mon":
		return time.Monday
	}
	return defaultValue
}
