package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreDriverSQLite = "sqlite"
	StoreDriverMySQL  = "mysql"
	StoreDriverMemory = "memory"
)

type Config struct {
	AppPort           string        `env:"APP_PORT" envDefault:"8080"`
	AppName           string        `env:"APP_NAME" envDefault:"timemaster"`
	AppVersion        string        `env:"APP_VERSION" envDefault:"dev"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	StoreDriver       string        `env:"STORE_DRIVER" envDefault:"sqlite"`
	SqlitePath        string        `env:"SQLITE_PATH" envDefault:"storage/timemaster.db"`
	DbHost            string        `env:"MYSQL_HOST" envDefault:"db"`
	DbPort            string        `env:"MYSQL_PORT" envDefault:"3306"`
	DbUser            string        `env:"MYSQL_USER" envDefault:"timemaster"`
	DbPassword        string        `env:"MYSQL_PASSWORD" envDefault:"timemaster"`
	DbName            string        `env:"MYSQL_DATABASE" envDefault:"timemaster"`
	DbParams          string        `env:"MYSQL_PARAMS" envDefault:"clientFoundRows=true"`
	TrustedProxies    []string      `env:"TRUSTED_PROXIES" envSeparator:","`
	TranslationFolder string        `env:"TRANSLATION_FOLDER" envDefault:"pkg/translator/translation"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case StoreDriverSQLite, StoreDriverMySQL, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q: expected sqlite, mysql or memory", cfg.StoreDriver)
	}

	cfg.TrustedProxies = parseTrustedProxies(cfg.TrustedProxies)
	return cfg, nil
}

func parseTrustedProxies(values []string) []string {
	proxies := make([]string, 0, len(values))
	for _, value := range values {
		proxy := strings.TrimSpace(value)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
