// Package logger builds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"tiendapos/internal/config"
)

// New creates a logger from config. Unknown levels fall back to info and
// any format other than "text" or "console" is JSON.
func New(cfg *config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	switch strings.ToLower(cfg.Format) {
	case "text", "console":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// Discard returns a logger that writes nowhere, for tests and tools.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// LogError writes err with the component and operation that produced it.
func LogError(log logrus.FieldLogger, component, op string, err error, fields logrus.Fields) {
	entry := log.WithFields(logrus.Fields{
		"component": component,
		"op":        op,
	})
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Errorf("%s.%s: %v", component, op, err)
}
