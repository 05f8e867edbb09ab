package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

type StoreBackend string

const (
	BackendMemory   StoreBackend = "memory"
	BackendPostgres StoreBackend = "postgres"
	BackendCalDAV   StoreBackend = "caldav"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	CalDAV   CalDAVConfig
	PubSub   PubSubConfig
	Schedule ScheduleConfig
	Log      LogConfig
}

type LogConfig struct {
	Level string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig selects the reminder store. Timeout bounds every call into it.
type StoreConfig struct {
	Backend   StoreBackend
	Timeout   time.Duration
	AutoGrant bool
	Principal string
}

type DatabaseConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type CalDAVConfig struct {
	URL      string
	Username string
	Password string
	Calendar string
}

type PubSubConfig struct {
	NatsURL string
}

type ScheduleConfig struct {
	Location       *time.Location
	ResyncSchedule string
	SnoozeInterval time.Duration
}

func Load() (*Config, error) {
	serverPort, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("SERVER_READ_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}

	// 0 keeps the event stream open
	writeTimeout, err := time.ParseDuration(getEnv("SERVER_WRITE_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}

	storeTimeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_TIMEOUT: %w", err)
	}

	autoGrant, err := strconv.ParseBool(getEnv("STORE_AUTO_GRANT", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_AUTO_GRANT: %w", err)
	}

	maxOpenConns, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}

	maxIdleConns, err := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}

	connMaxLifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}

	location, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	snooze, err := time.ParseDuration(getEnv("SNOOZE_INTERVAL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNOOZE_INTERVAL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         serverPort,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		Store: StoreConfig{
			Backend:   StoreBackend(getEnv("STORE_BACKEND", string(BackendMemory))),
			Timeout:   storeTimeout,
			AutoGrant: autoGrant,
			Principal: getEnv("STORE_PRINCIPAL", "default"),
		},
		Database: DatabaseConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			MaxOpenConns:    maxOpenConns,
			MaxIdleConns:    maxIdleConns,
			ConnMaxLifetime: connMaxLifetime,
		},
		CalDAV: CalDAVConfig{
			URL:      os.Getenv("CALDAV_URL"),
			Username: os.Getenv("CALDAV_USERNAME"),
			Password: os.Getenv("CALDAV_PASSWORD"),
			Calendar: os.Getenv("CALDAV_CALENDAR"),
		},
		PubSub: PubSubConfig{
			NatsURL: os.Getenv("NATS_URL"),
		},
		Schedule: ScheduleConfig{
			Location:       location,
			ResyncSchedule: getEnv("RESYNC_SCHEDULE", "@every 5m"),
			SnoozeInterval: snooze,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Store.validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *StoreConfig) validate(cfg *Config) error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendPostgres:
		if cfg.Database.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN environment variable is required for the postgres backend")
		}

		return nil
	case BackendCalDAV:
		if cfg.CalDAV.URL == "" || cfg.CalDAV.Calendar == "" {
			return fmt.Errorf("CALDAV_URL and CALDAV_CALENDAR environment variables are required for the caldav backend")
		}

		return nil
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %q", c.Backend)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
