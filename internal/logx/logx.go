// Package logx constructs the shared structured logger.
package logx

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New creates a JSON logger at the given level. Unknown levels fall back to
// info rather than failing startup.
func New(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(strings.TrimSpace(strings.ToLower(level)))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
