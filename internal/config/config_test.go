package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnabled(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"true", true},
		{"TRUE", true},
		{"=true", true},
		{"==  on", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"=false", false},
		{" Off ", false},
		{"0", false},
		{"no", false},
		{"maybe", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEnabled(tt.raw))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.Order.TxTimeout)
	assert.Equal(t, 4, cfg.Order.EnrichmentConcurrency)
	assert.True(t, cfg.Participants.Enabled)
	assert.True(t, cfg.Ledger.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Participants.Timeout)
	assert.Equal(t, LogConfig{Level: "info", Format: "json"}, cfg.Log)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TRANSACOES_API_ENABLED", "=false")
	t.Setenv("TRANSACOES_API_BASE_URL", "http://ledger:5000/")
	t.Setenv("PARTICIPANTES_API_ENABLED", "off")
	t.Setenv("ENRICHMENT_CONCURRENCY", "0")
	t.Setenv("LOG_FORMAT", " Console ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Ledger.Enabled)
	assert.Equal(t, "http://ledger:5000/", cfg.Ledger.BaseURL)
	assert.False(t, cfg.Participants.Enabled)
	assert.Equal(t, 1, cfg.Order.EnrichmentConcurrency)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("ORDER_TX_TIMEOUT", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "ORDER_TX_TIMEOUT")
}
