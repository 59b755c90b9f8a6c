package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured logger every component receives.
// module names the emitting component; details become a nested object.
type Logger interface {
	Debug(module, message string, details map[string]any)
	Info(module, message string, details map[string]any)
	Warn(module, message string, details map[string]any)
	Error(module, message string, details map[string]any)
	Sync() error
}

// Options configures NewZapLogger.
type Options struct {
	FilePath   string // rotated JSON log; empty disables the file core
	Production bool   // JSON on the console instead of the development encoder
	Verbose    bool   // console at debug level instead of warn
}

// ZapLogger writes JSON lines to a rotated file and human-readable lines to stderr.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger builds the file and console cores and tees them together.
func NewZapLogger(opts Options) *ZapLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := make([]zapcore.Core, 0, 2)
	if opts.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), zap.DebugLevel))
	}

	var consoleEncoder zapcore.Encoder
	if opts.Production {
		consoleEncoder = jsonEncoder
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	consoleLevel := zap.WarnLevel
	if opts.Verbose {
		consoleLevel = zap.DebugLevel
	}
	cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), consoleLevel))

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	return &ZapLogger{logger: l}
}

// NewNop returns a logger that discards everything. Intended for tests.
func NewNop() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

// FromZap wraps an existing zap logger, e.g. one built with zaptest/observer.
func FromZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: l.WithOptions(zap.AddCallerSkip(1))}
}

func (l *ZapLogger) Debug(module, message string, details map[string]any) {
	l.logger.Debug(message, fields(module, details)...)
}

func (l *ZapLogger) Info(module, message string, details map[string]any) {
	l.logger.Info(message, fields(module, details)...)
}

func (l *ZapLogger) Warn(module, message string, details map[string]any) {
	l.logger.Warn(message, fields(module, details)...)
}

func (l *ZapLogger) Error(module, message string, details map[string]any) {
	f := fields(module, details)
	if err, ok := details["error"].(error); ok {
		f = append(f, zap.Error(err))
	}
	l.logger.Error(message, f...)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func fields(module string, details map[string]any) []zap.Field {
	if details == nil {
		details = map[string]any{}
	}
	return []zap.Field{zap.String("module", module), zap.Any("details", details)}
}

var _ Logger = (*ZapLogger)(nil)
