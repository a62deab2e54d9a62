package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/YelzhanWeb/storefront/internal/config"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
	Sync() error
}

type zapLogger struct {
	z *zap.Logger
}

// New builds the service logger. Production mode writes JSON; development
// writes console output. File output is rotated by lumberjack.
func New(service string, cfg config.LoggerConfig) (Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	encCfg := zap.NewDevelopmentEncoderConfig()
	encoder := zapcore.NewConsoleEncoder(encCfg)
	if cfg.Mode == "production" {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}
	if cfg.FileEnable {
		rotating := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotating),
			level,
		))
	}

	hostname, _ := os.Hostname()
	z := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(2)).With(
		zap.String("service", service),
		zap.String("hostname", hostname),
	)
	return &zapLogger{z: z}, nil
}

// NewNop returns a logger that discards everything
func NewNop() Logger {
	return &zapLogger{z: zap.NewNop()}
}

func (l *zapLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.log(zapcore.InfoLevel, action, message, requestID, details, nil)
}

func (l *zapLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.log(zapcore.DebugLevel, action, message, requestID, details, nil)
}

func (l *zapLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.log(zapcore.ErrorLevel, action, message, requestID, details, err)
}

func (l *zapLogger) Sync() error {
	return l.z.Sync()
}

func (l *zapLogger) log(level zapcore.Level, action, message, requestID string, details map[string]interface{}, err error) {
	ce := l.z.Check(level, message)
	if ce == nil {
		return
	}

	fields := []zap.Field{zap.String("action", action)}
	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if len(details) > 0 {
		fields = append(fields, zap.Any("details", details))
	}
	if err != nil {
		// %+v carries the pkg/errors stack when present
		fields = append(fields, zap.Error(err), zap.String("stack", fmt.Sprintf("%+v", err)))
	}
	ce.Write(fields...)
}
