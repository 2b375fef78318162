package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Database DatabaseConfig `toml:"database"`
	TutorAPI TutorAPIConfig `toml:"tutor_api"`
	Booking  BookingConfig  `toml:"booking"`
	Redis    RedisConfig    `toml:"redis"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// DatabaseConfig параметры журнала отправок в PostgreSQL
// Если журнал выключен, повторные подтверждения не распознаются
type DatabaseConfig struct {
	Enabled         bool   `toml:"enabled"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// TutorAPIConfig параметры бэкенда репетиторов
type TutorAPIConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout int    `toml:"timeout"` // секунды
}

// BookingConfig параметры сессий бронирования
type BookingConfig struct {
	QuoteDebounceMs int    `toml:"quote_debounce_ms"`
	SessionTTL      int    `toml:"session_ttl"`       // секунды
	JanitorInterval int    `toml:"janitor_interval"`  // секунды
	HourlyRateCents int64  `toml:"hourly_rate_cents"` // ставка по умолчанию
	Timezone        string `toml:"timezone"`          // IANA, например Europe/Moscow
}

// RedisConfig параметры общего кэша расписания
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
}

// QuoteDebounce возвращает задержку котировки
func (b BookingConfig) QuoteDebounce() time.Duration {
	return time.Duration(b.QuoteDebounceMs) * time.Millisecond
}

// Location возвращает часовой пояс календаря
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// Load читает конфигурацию из TOML файла, подставляет значения по умолчанию и проверяет ее
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{
			Level: "info",
			File:  "logs/app.log",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "tutor-booking",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		TutorAPI: TutorAPIConfig{
			Timeout: 10,
		},
		Booking: BookingConfig{
			QuoteDebounceMs: 450,
			SessionTTL:      1800,
			JanitorInterval: 60,
			Timezone:        "UTC",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  60,
		},
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort))
	}
	if c.TutorAPI.BaseURL == "" {
		errs = append(errs, errors.New("tutor_api.base_url is required"))
	} else if u, err := url.Parse(c.TutorAPI.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("tutor_api.base_url is not an absolute URL: %q", c.TutorAPI.BaseURL))
	}
	if c.TutorAPI.Timeout <= 0 {
		errs = append(errs, errors.New("tutor_api.timeout must be positive"))
	}
	if c.Booking.QuoteDebounceMs <= 0 {
		errs = append(errs, errors.New("booking.quote_debounce_ms must be positive"))
	}
	if c.Booking.SessionTTL <= 0 {
		errs = append(errs, errors.New("booking.session_ttl must be positive"))
	}
	if c.Booking.HourlyRateCents < 0 {
		errs = append(errs, errors.New("booking.hourly_rate_cents must not be negative"))
	}
	if _, err := c.Booking.Location(); err != nil {
		errs = append(errs, fmt.Errorf("booking.timezone: %v", err))
	}
	if c.Database.Enabled && (c.Database.Host == "" || c.Database.DBName == "") {
		errs = append(errs, errors.New("database.host and database.dbname are required when database is enabled"))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	if c.Redis.Enabled && c.Redis.TTL <= 0 {
		errs = append(errs, errors.New("redis.ttl must be positive"))
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		errs = append(errs, errors.New("metrics.path is required when metrics are enabled"))
	}

	return errors.Join(errs...)
}
