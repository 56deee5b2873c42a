package log

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// log.Info("translations loaded for %d languages", n)

type Fields = log.Fields

// Configure sets the global level and picks the json formatter for production.
func Configure(level string, json bool) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	if json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// With returns an entry carrying the given fields, for the few places where a
// structured line reads better than a formatted one.
func With(fields Fields) *log.Entry {
	return log.WithFields(fields)
}

func Debug(format string, args ...any) {
	log.Debugf(format, args...)
}

func Info(format string, args ...any) {
	log.Infof(format, args...)
}

func Warn(format string, args ...any) {
	log.Warnf(format, args...)
}

func Error(format string, args ...any) {
	log.Errorf(format, args...)
}

func Fatal(format string, args ...any) {
	log.Fatalf(format, args...)
}
