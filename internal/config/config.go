package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration оборачивает time.Duration, чтобы читать в yaml
// значения вида "24h"
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("некорректная длительность %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	Auth struct {
		Secret   string   `yaml:"secret"`
		TokenTTL Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
	Posts struct {
		PerPage int `yaml:"per_page"`
	} `yaml:"posts"`
}

// Load читает конфигурацию из yaml-файла. Переменные окружения
// (через .env или среду) перекрывают значения из файла.
func Load(path string) (*Config, error) {
	// .env не обязателен, его отсутствие не ошибка
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл конфигурации: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать файл конфигурации: %w", err)
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if secret := os.Getenv("AUTH_SECRET"); secret != "" {
		cfg.Auth.Secret = secret
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = Duration(24 * time.Hour)
	}
	if cfg.Posts.PerPage <= 0 {
		cfg.Posts.PerPage = 10
	}
	return cfg, nil
}
