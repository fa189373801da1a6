package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger
var sugar *zap.SugaredLogger

// New builds a zap logger. env "dev" gives colored console output, anything
// else JSON. An unparseable level falls back to info.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config

	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build(zap.AddCaller())
}

// Init initializes the global logger.
// Environment can be "dev", "uat", or "prod".
func Init(service, env, level string) {
	logger, err := New(env, level)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	log = logger.With(zap.String("service", service))
	sugar = log.Sugar()

	sugar.Infow("logger initialized",
		"env", env,
		"level", level,
	)
}

// L returns the base structured Zap logger (for performance-sensitive paths).
func L() *zap.Logger {
	if log == nil {
		Init("linxpay", "dev", "info")
	}
	return log
}

// S returns the Sugared logger (for convenience).
func S() *zap.SugaredLogger {
	if sugar == nil {
		Init("linxpay", "dev", "info")
	}
	return sugar
}

// Sync flushes any buffered logs (defer this in main()).
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
