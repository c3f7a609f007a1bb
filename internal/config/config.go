package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the top-level YAML configuration.
type Config struct {
	Connection Connection `yaml:"connection"`
	Store      Store      `yaml:"store"`
	Server     Server     `yaml:"server"`
	Log        Log        `yaml:"log"`
}

// Connection holds database connection parameters.
type Connection struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

// Store selects where uploaded people are kept between requests.
type Store struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Server holds HTTP API settings.
type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
}

// Log selects the logger flavour: "development" or "production".
type Log struct {
	Environment string `yaml:"environment"`
}

// DSN builds a PostgreSQL connection string.
func (c *Connection) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode,
	)
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(&cfg)
}

// Default returns the configuration used when no file is given:
// environment variables on top of built-in defaults.
func Default() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv fills in empty fields from environment variables.
// YAML values take precedence; env vars are used only as fallback.
func (c *Config) applyEnv() {
	conn := &c.Connection
	if conn.Host == "" {
		conn.Host = envOr("PGHOST", "POSTGRES_HOST")
	}
	if conn.Port == 0 {
		if s := envOr("PGPORT", "POSTGRES_PORT"); s != "" {
			if p, err := strconv.Atoi(s); err == nil {
				conn.Port = p
			}
		}
	}
	if conn.Database == "" {
		conn.Database = envOr("PGDATABASE", "POSTGRES_DB")
	}
	if conn.User == "" {
		conn.User = envOr("PGUSER", "POSTGRES_USER")
	}
	if conn.Password == "" {
		conn.Password = envOr("PGPASSWORD", "POSTGRES_PASSWORD")
	}
	if conn.SSLMode == "" {
		conn.SSLMode = envOr("PGSSLMODE")
	}

	if c.Store.Driver == "" {
		c.Store.Driver = envOr("COMMUNITIES_STORE")
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = envOr("COMMUNITIES_SQLITE_PATH")
	}
	if c.Server.Addr == "" {
		if port := envOr("PORT"); port != "" {
			c.Server.Addr = ":" + port
		}
	}
	if c.Log.Environment == "" {
		c.Log.Environment = envOr("COMMUNITIES_ENV")
	}
}

// envOr returns the first non-empty value from the given env var names.
func envOr(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// validate fills defaults and checks the fields the selected store needs.
func (c *Config) validate() error {
	switch c.Store.Driver {
	case "":
		c.Store.Driver = DriverMemory
	case DriverMemory:
	case DriverPostgres:
		if err := c.Connection.validate(); err != nil {
			return err
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			c.Store.SQLitePath = "communities.db"
		}
	default:
		return fmt.Errorf("store.driver %q is not supported (memory, postgres, sqlite)", c.Store.Driver)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = 10 << 20
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}

	switch c.Log.Environment {
	case "":
		c.Log.Environment = "development"
	case "development", "production":
	default:
		return fmt.Errorf("log.environment %q is not supported (development, production)", c.Log.Environment)
	}
	return nil
}

func (c *Connection) validate() error {
	if c.Host == "" {
		return fmt.Errorf("connection.host is required")
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.Database == "" {
		return fmt.Errorf("connection.database is required")
	}
	if c.User == "" {
		return fmt.Errorf("connection.user is required")
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	return nil
}
