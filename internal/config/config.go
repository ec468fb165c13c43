package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
)

// Config конфигурация сервиса, загружается из TOML-файла
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Logs            LogsConfig       `toml:"logs"`
	Database        DatabaseConfig   `toml:"database"`
	Metrics         MetricsConfig    `toml:"metrics"`
	Scheduling      SchedulingConfig `toml:"scheduling"`
	IdentityService ClientConfig     `toml:"identity_service"`
	PetService      ClientConfig     `toml:"pet_service"`
	MailService     ClientConfig     `toml:"mail_service"`
}

// ServerConfig настройки HTTP-сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// SchedulingConfig бизнес-параметры планировщика
type SchedulingConfig struct {
	MinLeadDays          int `toml:"min_lead_days"`
	SlotStepMinutes      int `toml:"slot_step_minutes"`
	FreeSlotsHorizonDays int `toml:"free_slots_horizon_days"`
	EditCooldownDays     int `toml:"edit_cooldown_days"`
}

// ClientConfig настройки интеграционного клиента
type ClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// Load загружает конфигурацию из TOML-файла и применяет дефолты
func Load(path string) (*Config, error) {
	var cfg Config

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Scheduling.MinLeadDays == 0 {
		c.Scheduling.MinLeadDays = domain.DefaultMinLeadDays
	}
	if c.Scheduling.SlotStepMinutes == 0 {
		c.Scheduling.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}
	if c.Scheduling.FreeSlotsHorizonDays == 0 {
		c.Scheduling.FreeSlotsHorizonDays = domain.DefaultFreeSlotsHorizonDays
	}
	if c.Scheduling.EditCooldownDays == 0 {
		c.Scheduling.EditCooldownDays = domain.DefaultEditCooldownDays
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}
