package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Log          LogConfig
	Order        OrderConfig
	Participants IntegrationConfig
	Ledger       IntegrationConfig
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
	// Format is "json" or "console".
	Format string
}

type OrderConfig struct {
	TxTimeout             time.Duration
	EnrichmentConcurrency int
}

type IntegrationConfig struct {
	BaseURL string
	Enabled bool
	Timeout time.Duration
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "pedidos")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "econome_pedidos")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ORDER_TX_TIMEOUT", "5s")
	v.SetDefault("ENRICHMENT_CONCURRENCY", 4)
	v.SetDefault("PARTICIPANTES_API_BASE_URL", "http://localhost:8081")
	v.SetDefault("PARTICIPANTES_API_ENABLED", "true")
	v.SetDefault("PARTICIPANTES_API_TIMEOUT", "3s")
	v.SetDefault("TRANSACOES_API_BASE_URL", "http://localhost:5000")
	v.SetDefault("TRANSACOES_API_ENABLED", "true")
	v.SetDefault("TRANSACOES_API_TIMEOUT", "5s")

	durations := map[string]time.Duration{}
	for _, key := range []string{"SERVER_SHUTDOWN_TIMEOUT", "DB_CONN_MAX_LIFETIME", "ORDER_TX_TIMEOUT", "PARTICIPANTES_API_TIMEOUT", "TRANSACOES_API_TIMEOUT"} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		durations[key] = d
	}

	concurrency := v.GetInt("ENRICHMENT_CONCURRENCY")
	if concurrency < 1 {
		concurrency = 1
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: durations["SERVER_SHUTDOWN_TIMEOUT"],
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durations["DB_CONN_MAX_LIFETIME"],
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),
		},
		Order: OrderConfig{
			TxTimeout:             durations["ORDER_TX_TIMEOUT"],
			EnrichmentConcurrency: concurrency,
		},
		Participants: IntegrationConfig{
			BaseURL: v.GetString("PARTICIPANTES_API_BASE_URL"),
			Enabled: ParseEnabled(v.GetString("PARTICIPANTES_API_ENABLED")),
			Timeout: durations["PARTICIPANTES_API_TIMEOUT"],
		},
		Ledger: IntegrationConfig{
			BaseURL: v.GetString("TRANSACOES_API_BASE_URL"),
			Enabled: ParseEnabled(v.GetString("TRANSACOES_API_ENABLED")),
			Timeout: durations["TRANSACOES_API_TIMEOUT"],
		},
	}

	return cfg, nil
}

// ParseEnabled reads an integration toggle leniently. Leading '=' signs are
// stripped ("=true" is a common typo in env files); blank or unrecognized
// values keep the integration on.
func ParseEnabled(raw string) bool {
	v := strings.TrimSpace(raw)
	for strings.HasPrefix(v, "=") {
		v = strings.TrimSpace(v[1:])
	}

	switch strings.ToLower(v) {
	case "false", "0", "no", "off":
		return false
	default:
		return true
	}
}
