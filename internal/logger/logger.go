package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "movie-booking.log"

// Logger is a category-tagged wrapper around zap. Every entry carries a
// "category" field; in debug mode the category is also printed as a coloured
// tag so the console stays readable.
type Logger struct {
	z      *zap.Logger
	pretty bool
}

var categoryColors = map[string]*color.Color{
	"STARTUP":  color.New(color.FgGreen, color.Bold),
	"SHUTDOWN": color.New(color.FgYellow, color.Bold),
	"API":      color.New(color.FgCyan),
	"PAYMENT":  color.New(color.FgMagenta),
	"BOOKING":  color.New(color.FgBlue),
	"KAFKA":    color.New(color.FgHiBlue),
	"CHAT":     color.New(color.FgHiGreen),
	"SECURITY": color.New(color.FgRed),
	"PANIC":    color.New(color.FgRed, color.Bold),
}

// NewLogger builds a logger writing to stdout and to a rotated file under
// path. An empty path disables the file sink.
func NewLogger(path string, debug bool) (*Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	if debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	consoleEncoder := zapcore.NewJSONEncoder(encoderConfig)
	if debug {
		consoleEncoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
	}

	if path != "" {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(path, logFileName),
			MaxSize:    10, // MB
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		})
		// file output is always JSON so it can be shipped as-is
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level))
	}

	z := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(2))
	return &Logger{z: z, pretty: debug}, nil
}

func newWithCore(core zapcore.Core) *Logger {
	return &Logger{z: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop()}
}

// Zap exposes the underlying logger for libraries that want one.
func (l *Logger) Zap() *zap.Logger {
	return l.z
}

func (l *Logger) Close() {
	_ = l.z.Sync()
}

func (l *Logger) format(category, msg string) string {
	if !l.pretty {
		return msg
	}
	c, ok := categoryColors[category]
	if !ok {
		c = color.New(color.FgWhite)
	}
	return c.Sprintf("[%s]", category) + " " + msg
}

func (l *Logger) log(level zapcore.Level, category, msg string, fields ...zap.Field) {
	fields = append(fields, zap.String("category", category))
	if ce := l.z.Check(level, l.format(category, msg)); ce != nil {
		ce.Write(fields...)
	}
}

func (l *Logger) Debug(category, msg string) { l.log(zapcore.DebugLevel, category, msg) }
func (l *Logger) Info(category, msg string)  { l.log(zapcore.InfoLevel, category, msg) }
func (l *Logger) Warn(category, msg string)  { l.log(zapcore.WarnLevel, category, msg) }
func (l *Logger) Error(category, msg string) { l.log(zapcore.ErrorLevel, category, msg) }

// Fatal logs and exits the process.
func (l *Logger) Fatal(category, msg string) { l.log(zapcore.FatalLevel, category, msg) }

func (l *Logger) LogProcess(category, msg string) {
	l.log(zapcore.InfoLevel, category, msg, zap.String("kind", "process"))
}

func (l *Logger) LogAPI(method, path, status, duration string) {
	l.log(zapcore.InfoLevel, "API", fmt.Sprintf("%s %s - %s (%s)", method, path, status, duration),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("status", status),
		zap.String("duration", duration),
	)
}

func (l *Logger) LogBooking(action string, bookingID int, msg string) {
	l.log(zapcore.InfoLevel, "BOOKING", fmt.Sprintf("%s: %s", action, msg),
		zap.String("action", action),
		zap.Int("booking_id", bookingID),
	)
}

func (l *Logger) LogPayment(action string, bookingID int, msg string) {
	l.log(zapcore.InfoLevel, "PAYMENT", fmt.Sprintf("%s: %s", action, msg),
		zap.String("action", action),
		zap.Int("booking_id", bookingID),
	)
}

func (l *Logger) LogKafka(action, topic, msg string) {
	l.log(zapcore.InfoLevel, "KAFKA", fmt.Sprintf("%s [%s]: %s", action, topic, msg),
		zap.String("action", action),
		zap.String("topic", topic),
	)
}

func (l *Logger) LogChat(action, msg string) {
	l.log(zapcore.InfoLevel, "CHAT", fmt.Sprintf("%s: %s", action, msg), zap.String("action", action))
}

func (l *Logger) LogCache(action, key, msg string) {
	l.log(zapcore.DebugLevel, "CACHE", fmt.Sprintf("%s: %s", action, msg),
		zap.String("action", action),
		zap.String("key", key),
	)
}

func (l *Logger) LogSecurity(event, msg string) {
	l.log(zapcore.WarnLevel, "SECURITY", fmt.Sprintf("%s: %s", event, msg), zap.String("event", event))
}
