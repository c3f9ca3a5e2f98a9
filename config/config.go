package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	Environment string
	LogLevel    string

	DBDriver string
	DBDSN    string

	JWTSecret  string
	TokenTTL   time.Duration
	CORSOrigin string

	Location              *time.Location
	ServiceDuration       time.Duration
	MinLeadTime           time.Duration
	OpeningHour           int
	LastSeatingHour       int
	MaxGuests             int
	CapacityWarnThreshold float64
	LockTimeout           time.Duration

	AutoNoShow     bool
	NoShowGrace    time.Duration
	NoShowInterval time.Duration

	NotifyTimeout time.Duration
	NATSURL       string
	AMQPURL       string
	AMQPExchange  string

	SeedTables    bool
	AdminEmail    string
	AdminPassword string
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads .env (optional) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can avoid the
// process environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		Port:        p.str("PORT", "8080"),
		GinMode:     p.str("GIN_MODE", "debug"),
		Environment: p.str("APP_ENV", "development"),
		LogLevel:    p.str("LOG_LEVEL", "info"),

		DBDriver: strings.ToLower(p.str("DB_DRIVER", "sqlite")),
		DBDSN:    p.str("DB_DSN", "restaurant.db"),

		JWTSecret:  p.str("JWT_SECRET", ""),
		TokenTTL:   p.duration("TOKEN_TTL", 24*time.Hour),
		CORSOrigin: p.str("CORS_ORIGIN", "http://127.0.0.1:5500"),

		ServiceDuration:       p.duration("SERVICE_DURATION", 120*time.Minute),
		MinLeadTime:           p.duration("MIN_LEAD_TIME", 30*time.Minute),
		OpeningHour:           p.integer("OPENING_HOUR", 10),
		LastSeatingHour:       p.integer("LAST_SEATING_HOUR", 22),
		MaxGuests:             p.integer("MAX_GUESTS", 20),
		CapacityWarnThreshold: p.float("CAPACITY_WARN_THRESHOLD", 0.5),
		LockTimeout:           p.duration("LOCK_TIMEOUT", 5*time.Second),

		AutoNoShow:     p.boolean("AUTO_NO_SHOW", true),
		NoShowGrace:    p.duration("NO_SHOW_GRACE", 15*time.Minute),
		NoShowInterval: p.duration("NO_SHOW_INTERVAL", time.Minute),

		NotifyTimeout: p.duration("NOTIFY_TIMEOUT", 5*time.Second),
		NATSURL:       p.str("NATS_URL", ""),
		AMQPURL:       p.str("AMQP_URL", ""),
		AMQPExchange:  p.str("AMQP_EXCHANGE", "reservations_topic"),

		SeedTables:    p.boolean("SEED_TABLES", false),
		AdminEmail:    p.str("ADMIN_EMAIL", ""),
		AdminPassword: p.str("ADMIN_PASSWORD", ""),
	}

	tz := p.str("RESTAURANT_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("RESTAURANT_TIMEZONE: %v", err))
	}
	cfg.Location = loc

	if len(p.errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(p.errs, "; "))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be mysql, postgres or sqlite, got %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", c.Environment)
		}
		log.Printf("Warning: JWT_SECRET not set, using development secret")
		c.JWTSecret = "dev-only-secret"
	}
	if c.ServiceDuration <= 0 {
		return fmt.Errorf("SERVICE_DURATION must be positive")
	}
	if c.OpeningHour < 0 || c.LastSeatingHour > 23 || c.OpeningHour > c.LastSeatingHour {
		return fmt.Errorf("booking hours %d..%d are invalid", c.OpeningHour, c.LastSeatingHour)
	}
	if c.MaxGuests < 1 {
		return fmt.Errorf("MAX_GUESTS must be at least 1")
	}
	if c.CapacityWarnThreshold < 0 || c.CapacityWarnThreshold > 1 {
		return fmt.Errorf("CAPACITY_WARN_THRESHOLD must be within [0,1]")
	}
	return nil
}

type parser struct {
	getenv func(string) string
	errs   []string
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return d
}

func (p *parser) integer(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return b
}
