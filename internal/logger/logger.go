// Package logger holds the process-wide zap logger.
package logger

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is safe to use before Init; it discards everything until then.
var Log = zap.NewNop()

// Settings are read from the environment before any config file is loaded.
type Settings struct {
	JSON  bool `env:"ENABLE_JSON_LOGGING" envDefault:"false"`
	Debug bool `env:"DEBUG_MODE" envDefault:"false"`
}

func SettingsFromEnv() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse logger settings: %w", err)
	}
	return s, nil
}

// New builds a logger without touching Log.
func New(debug, json bool) (*zap.Logger, error) {
	var cfg zap.Config
	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// 로그는 stderr 로, 결과 SQL 은 stdout 으로
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

// Init replaces Log.
func Init(debug, json bool) error {
	l, err := New(debug, json)
	if err != nil {
		return err
	}
	Log = l
	return nil
}
