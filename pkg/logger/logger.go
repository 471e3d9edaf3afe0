package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	APP        = "APP"
	ASSISTANT  = "ASSISTANT"
	CONFIG     = "CONFIG"
	DICTATOR   = "DICTATOR"
	HANDLER    = "HANDLER"
	MIDDLEWARE = "MIDDLEWARE"
	OAUTH      = "OAUTH"
	REDIS      = "REDIS"
	SERVICE    = "SERVICE"
	SESSION    = "SESSION"
	WEBSOCKET  = "WEBSOCKET"
)

func init() {
	Configure(os.Stderr)
}

// Configure sets the global zerolog logger from LOG_LEVEL and LOG_FORMAT,
// writing to w.
func Configure(w io.Writer) {
	zerolog.SetGlobalLevel(getLogLevel())

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func getLogLevel() zerolog.Level {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func formatMessage(format string, v ...interface{}) string {
	if len(v) == 0 {
		return format
	}
	return fmt.Sprintf(format, v...)
}

func Debug(namespace, format string, v ...interface{}) {
	log.Debug().Str("namespace", namespace).Msg(formatMessage(format, v...))
}

func Info(namespace, format string, v ...interface{}) {
	log.Info().Str("namespace", namespace).Msg(formatMessage(format, v...))
}

func Warn(namespace, format string, v ...interface{}) {
	log.Warn().Str("namespace", namespace).Msg(formatMessage(format, v...))
}

func Error(namespace, format string, v ...interface{}) {
	log.Error().Str("namespace", namespace).Msg(formatMessage(format, v...))
}

// Fatal logs at error level with a fatal marker; it does not exit.
func Fatal(namespace, format string, v ...interface{}) {
	log.WithLevel(zerolog.FatalLevel).Str("namespace", namespace).Msg(formatMessage(format, v...))
}
