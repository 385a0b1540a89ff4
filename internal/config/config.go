package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Finboard"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
		// LogFile is where the TUI writes its logs. Empty discards them.
		LogFile   string `envconfig:"LOG_FILE"`
	}

	Store struct {
		Backend    string `envconfig:"STORE_BACKEND" default:"sqlite"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"./data/finboard.db"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"finboard"`
	}

	Finance struct {
		SeedSampleData bool `envconfig:"SEED_SAMPLE_DATA" default:"true"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins    []string      `envconfig:"CORS_ORIGINS" default:"*"`
		RateLimitRPS   float64       `envconfig:"RATE_LIMIT_RPS" default:"10"`
		RateLimitBurst int           `envconfig:"RATE_LIMIT_BURST" default:"30"`
	}

	AMQP struct {
		// URL left empty disables alert publishing.
		URL        string `envconfig:"AMQP_URL"`
		Exchange   string `envconfig:"AMQP_EXCHANGE" default:"finboard"`
		RoutingKey string `envconfig:"AMQP_ROUTING_KEY" default:"budget.alert"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if c.App.Port < 1 || c.App.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.App.Port))
	}

	if !slices.Contains([]string{"text", "json"}, c.App.LogFormat) {
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.App.LogFormat))
	}

	backends := []string{BackendMemory, BackendSQLite, BackendPostgres}

	switch {
	case !slices.Contains(backends, c.Store.Backend):
		problems = append(problems, fmt.Sprintf("invalid store backend '%s': must be one of %v", c.Store.Backend, backends))
	case c.Store.Backend == BackendSQLite && c.Store.SQLitePath == "":
		problems = append(problems, "SQLite path cannot be empty when using sqlite backend")
	case c.Store.Backend == BackendPostgres && c.DB.Host == "":
		problems = append(problems, "database host cannot be empty when using postgres backend")
	}

	if c.Server.RateLimitRPS <= 0 {
		problems = append(problems, fmt.Sprintf("invalid rate limit %v: must be positive", c.Server.RateLimitRPS))
	}

	if c.Server.RateLimitBurst < 1 {
		problems = append(problems, fmt.Sprintf("invalid rate limit burst %d: must be at least 1", c.Server.RateLimitBurst))
	}

	if c.AMQP.URL != "" {
		if u, err := url.Parse(c.AMQP.URL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}

		if c.AMQP.Exchange == "" {
			problems = append(problems, "AMQP exchange cannot be empty when AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
