// Package log provides the package-level structured logger used across
// this module, following the same bare "log "github.com/sirupsen/logrus""
// package-level-logger idiom the examples pack's services use directly —
// centralized here so every package shares one configurable instance
// instead of each importing logrus for itself.
package log

import (
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// SetLogger replaces the package-level logger, e.g. to redirect output or
// change formatting/level in a calling application.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		logger = l
	}
}

// L returns the current package-level logger.
func L() *logrus.Logger {
	return logger
}

// WithField is a convenience wrapper around L().WithField, the call shape
// used throughout the pack's services (log.WithField("key", v).Warn(...)).
func WithField(key string, value interface{}) *logrus.Entry {
	return logger.WithField(key, value)
}
