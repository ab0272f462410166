package config

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendPostgres   = "postgres"
	BackendClickHouse = "clickhouse"

	DefaultWindowMinutes = 30
	DefaultQueryTimeout  = 10 * time.Second

	// ResultLimit caps how many entries a single run reports.
	ResultLimit = 50
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Postgres holds the connection settings for the default log store.
type Postgres struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DB       string
}

// ClickHouse holds the connection settings for the events table backend.
type ClickHouse struct {
	Host     string
	Port     int
	User     string
	Password string
	DB       string
}

// Config is populated once at startup and validated before any connection
// is attempted.
type Config struct {
	WindowMinutes int
	Store         string
	Table         string
	Sources       []string
	TenantID      string
	QueryTimeout  time.Duration

	LogLevel  string
	LogFormat string

	Postgres   Postgres
	ClickHouse ClickHouse
}

// Window returns the lookback window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}

// Load reads ./.env (if any) and the process environment.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit env file. An empty path or a missing
// file is not an error; environment variables always win over the file.
func LoadFrom(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}
	v.AutomaticEnv()

	window, err := parseWindow(v.GetString("log_window_minutes"))
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString("log_query_timeout")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_QUERY_TIMEOUT: %w", err)
	}

	pgPort, err := parsePort("POSTGRES_PORT", v.GetString("postgres_port"))
	if err != nil {
		return nil, err
	}
	chPort, err := parsePort("CLICKHOUSE_PORT", v.GetString("clickhouse_port"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		WindowMinutes: window,
		Store:         strings.ToLower(strings.TrimSpace(v.GetString("log_store"))),
		Table:         strings.TrimSpace(v.GetString("log_table")),
		Sources:       splitList(v.GetString("log_sources")),
		TenantID:      strings.TrimSpace(v.GetString("log_tenant")),
		QueryTimeout:  timeout,
		LogLevel:      strings.ToUpper(v.GetString("log_level")),
		LogFormat:     strings.ToLower(v.GetString("log_format")),
		Postgres: Postgres{
			URL:      v.GetString("database_url"),
			Host:     v.GetString("postgres_host"),
			Port:     pgPort,
			User:     v.GetString("postgres_user"),
			Password: v.GetString("postgres_password"),
			DB:       v.GetString("postgres_db"),
		},
		ClickHouse: ClickHouse{
			Host:     v.GetString("clickhouse_host"),
			Port:     chPort,
			User:     v.GetString("clickhouse_user"),
			Password: v.GetString("clickhouse_password"),
			DB:       v.GetString("clickhouse_db"),
		},
	}
	if cfg.Table == "" {
		cfg.Table = defaultTable(cfg.Store)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the gateway cannot run with.
func (c *Config) Validate() error {
	if c.WindowMinutes <= 0 {
		return fmt.Errorf("LOG_WINDOW_MINUTES must be a positive integer, got %d", c.WindowMinutes)
	}
	if c.Store != BackendPostgres && c.Store != BackendClickHouse {
		return fmt.Errorf("LOG_STORE must be %q or %q, got %q", BackendPostgres, BackendClickHouse, c.Store)
	}
	if !tableName.MatchString(c.Table) {
		return fmt.Errorf("LOG_TABLE %q is not a valid table name", c.Table)
	}
	if c.TenantID != "" && c.Store != BackendPostgres {
		return fmt.Errorf("LOG_TENANT is only supported with LOG_STORE=%s", BackendPostgres)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("LOG_QUERY_TIMEOUT must be positive, got %s", c.QueryTimeout)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_window_minutes", strconv.Itoa(DefaultWindowMinutes))
	v.SetDefault("log_store", BackendPostgres)
	v.SetDefault("log_table", "")
	v.SetDefault("log_sources", "")
	v.SetDefault("log_tenant", "")
	v.SetDefault("log_query_timeout", DefaultQueryTimeout.String())
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_format", "text")

	v.SetDefault("database_url", "")
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_user", "")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_db", "")

	v.SetDefault("clickhouse_host", "localhost")
	v.SetDefault("clickhouse_port", "9000")
	v.SetDefault("clickhouse_user", "")
	v.SetDefault("clickhouse_password", "")
	v.SetDefault("clickhouse_db", "")
}

func parseWindow(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("LOG_WINDOW_MINUTES must be a positive integer, got %q", raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("LOG_WINDOW_MINUTES must be a positive integer, got %d", n)
	}
	return n, nil
}

func parsePort(name, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 || n > 65535 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultTable(store string) string {
	if store == BackendClickHouse {
		return "events"
	}
	return "IntegrationLog"
}
