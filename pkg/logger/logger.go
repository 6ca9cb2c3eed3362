package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	logger *logrus.Logger
	fields logrus.Fields
}

type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

type Config struct {
	Level      LogLevel `json:"level"`
	Format     string   `json:"format"` // json, text
	Output     string   `json:"output"` // stdout, stderr, file path
	TimeFormat string   `json:"time_format"`
	Caller     bool     `json:"caller"`
	AppName    string   `json:"app_name"`
	Version    string   `json:"version"`
	// Verbose promotes provider call logs from debug to info.
	Verbose bool `json:"verbose"`
}

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
)

func NewLogger(config *Config) (*Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(string(config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if config.Format == "json" {
		logger.SetFormatter(&CustomJSONFormatter{
			TimestampFormat: config.TimeFormat,
			AppName:         config.AppName,
			Version:         config.Version,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: config.TimeFormat,
			FullTimestamp:   true,
		})
	}

	switch config.Output {
	case "stderr":
		logger.SetOutput(os.Stderr)
	case "stdout", "":
		logger.SetOutput(os.Stdout)
	default:
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}
		logger.SetOutput(file)
	}

	logger.SetReportCaller(config.Caller)

	fields := make(logrus.Fields)
	if config.Verbose {
		fields[verboseField] = true
	}

	return &Logger{
		logger: logger,
		fields: fields,
	}, nil
}

// NewNop returns a logger that discards everything. Used by tests and as a nil fallback.
func NewNop() *Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Logger{logger: logger, fields: make(logrus.Fields)}
}

// verboseField never reaches the output; it is stripped before writing.
const verboseField = "__verbose"

func (l *Logger) WithField(key string, value interface{}) *Logger {
	newFields := make(logrus.Fields, len(l.fields)+1)
	for k, v := range l.fields {
		newFields[k] = v
	}
	newFields[key] = value

	return &Logger{
		logger: l.logger,
		fields: newFields,
	}
}

func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	newFields := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &Logger{
		logger: l.logger,
		fields: newFields,
	}
}

func (l *Logger) WithContext(ctx context.Context) *Logger {
	return l.WithFields(extractContextFields(ctx))
}

func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.WithField("request_id", requestID)
}

func (l *Logger) entry() *logrus.Entry {
	if _, ok := l.fields[verboseField]; !ok {
		return l.logger.WithFields(l.fields)
	}
	out := make(logrus.Fields, len(l.fields))
	for k, v := range l.fields {
		if k != verboseField {
			out[k] = v
		}
	}
	return l.logger.WithFields(out)
}

func (l *Logger) Debug(msg string) {
	l.entry().Debug(msg)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.entry().Debugf(format, args...)
}

func (l *Logger) Info(msg string) {
	l.entry().Info(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.entry().Infof(format, args...)
}

func (l *Logger) Warn(msg string) {
	l.entry().Warn(msg)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.entry().Warnf(format, args...)
}

func (l *Logger) Error(msg string) {
	l.entry().Error(msg)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry().Errorf(format, args...)
}

func (l *Logger) Fatal(msg string) {
	l.entry().Fatal(msg)
}

func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.entry().Fatalf(format, args...)
}

// Structured logging methods
func (l *Logger) LogAPIRequest(method, endpoint string, statusCode int, duration time.Duration, userID string) {
	fields := map[string]interface{}{
		"method":      method,
		"endpoint":    endpoint,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
		"type":        "api_request",
	}

	if userID != "" {
		fields["user_id"] = userID
	}

	l.WithFields(fields).Info("API request processed")
}

// LogProviderCall records one outbound call to an upstream provider.
func (l *Logger) LogProviderCall(provider, operation string, duration time.Duration, err error) {
	log := l.WithFields(map[string]interface{}{
		"provider":    provider,
		"operation":   operation,
		"duration_ms": duration.Milliseconds(),
		"type":        "provider_call",
	})

	if err != nil {
		log.WithError(err).Warn("Provider call failed")
		return
	}

	if _, verbose := l.fields[verboseField]; verbose {
		log.Info("Provider call completed")
	} else {
		log.Debug("Provider call completed")
	}
}

func (l *Logger) SetOutput(output io.Writer) {
	l.logger.SetOutput(output)
}

func (l *Logger) SetLevel(level LogLevel) {
	logrusLevel, err := logrus.ParseLevel(string(level))
	if err != nil {
		logrusLevel = logrus.InfoLevel
	}
	l.logger.SetLevel(logrusLevel)
}

func extractContextFields(ctx context.Context) map[string]interface{} {
	fields := make(map[string]interface{})
	if ctx == nil {
		return fields
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		fields["request_id"] = requestID
	}

	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		fields["user_id"] = userID
	}

	return fields
}
