package utils

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger

	loggerMu sync.Mutex
)

func InitLogger() {
	InitLoggerWithLevel("info")
}

// InitLoggerWithLevel sets up both loggers. level only applies to InfoLogger;
// ErrorLogger always stays at error.
func InitLoggerWithLevel(level string) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	initLoggers(level)
}

func initLoggers(level string) {
	info := logrus.New()
	errLog := logrus.New()

	// InfoLogger ke stdout, ErrorLogger ke stderr
	info.SetOutput(os.Stdout)
	info.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	errLog.SetOutput(os.Stderr)
	errLog.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	info.SetLevel(ParseLevel(level))
	errLog.SetLevel(logrus.ErrorLevel)

	InfoLogger, ErrorLogger = info, errLog
}

// ParseLevel maps a textual level onto logrus, defaulting to info.
func ParseLevel(raw string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// loggers returns both loggers, building them at info level on first use
// when InitLogger was never called.
func loggers() (*logrus.Logger, *logrus.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if InfoLogger == nil || ErrorLogger == nil {
		initLoggers("info")
	}
	return InfoLogger, ErrorLogger
}

func Info() *logrus.Logger {
	info, _ := loggers()
	return info
}

func Error() *logrus.Logger {
	_, errLog := loggers()
	return errLog
}
