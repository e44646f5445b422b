package logger

import (
	"context"
	"log/slog"
	"os"
)

type LoggerAdapter struct {
	logger *slog.Logger
}

// NewLoggerAdapter returns a JSON logger in production and a more readable
// text logger (with debug level) everywhere else.
func NewLoggerAdapter(env string) *LoggerAdapter {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return &LoggerAdapter{logger: slog.New(handler)}
}

func (l *LoggerAdapter) Debug(message string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, message, fields)
}

func (l *LoggerAdapter) Info(message string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, message, fields)
}

func (l *LoggerAdapter) Warn(message string, fields map[string]interface{}) {
	l.log(slog.LevelWarn, message, fields)
}

func (l *LoggerAdapter) Error(message string, fields map[string]interface{}) {
	l.log(slog.LevelError, message, fields)
}

func (l *LoggerAdapter) log(level slog.Level, message string, fields map[string]interface{}) {
	args := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}
	l.logger.Log(context.Background(), level, message, args...)
}
