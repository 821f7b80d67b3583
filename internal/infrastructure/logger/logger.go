package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pedidos/internal/config"
)

const (
	serviceName = "pedidos"

	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds the service logger from cfg. Unknown levels fall back to info and
// unknown formats to JSON.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.InitialFields = map[string]interface{}{"service": serviceName}

	if cfg.Format == FormatConsole {
		zapCfg.Encoding = FormatConsole
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.Sampling = nil
	}

	return zapCfg.Build()
}
