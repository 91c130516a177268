package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig              `toml:"server"`
	Database            DatabaseConfig            `toml:"database"`
	Logs                LogsConfig                `toml:"logs"`
	Metrics             MetricsConfig             `toml:"metrics"`
	IdentityService     IdentityServiceConfig     `toml:"identity_service"`
	NotificationService NotificationServiceConfig `toml:"notification_service"`
	Scheduling          SchedulingConfig          `toml:"scheduling"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к базе данных
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// IdentityServiceConfig настройки клиента IdentityService.
// FailClosed определяет политику при недоступности сервиса:
// false (по умолчанию) - проверка пропускается с предупреждением в логах,
// true - операция отклоняется.
type IdentityServiceConfig struct {
	URL        string `toml:"url"`
	Timeout    int    `toml:"timeout"`
	FailClosed bool   `toml:"fail_closed"`
}

// NotificationServiceConfig настройки клиента NotificationService
type NotificationServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// SchedulingConfig бизнес-настройки планирования
type SchedulingConfig struct {
	DefaultSlotCapacity    int `toml:"default_slot_capacity"`
	DefaultDurationMinutes int `toml:"default_duration_minutes"`
	ConflictWindowMinutes  int `toml:"conflict_window_minutes"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.IdentityService.Timeout == 0 {
		cfg.IdentityService.Timeout = 5
	}
	if cfg.NotificationService.Timeout == 0 {
		cfg.NotificationService.Timeout = 5
	}
	if cfg.Scheduling.DefaultSlotCapacity == 0 {
		cfg.Scheduling.DefaultSlotCapacity = 3
	}
	if cfg.Scheduling.DefaultDurationMinutes == 0 {
		cfg.Scheduling.DefaultDurationMinutes = 60
	}
	if cfg.Scheduling.ConflictWindowMinutes == 0 {
		cfg.Scheduling.ConflictWindowMinutes = 30
	}
}
