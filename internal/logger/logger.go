package logger

// The logger package owns the process-wide logrus instance. It is created
// lazily so that packages can grab it at init time and the level can be
// adjusted once the configuration has been loaded.

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

// GetLogger returns the shared logger, configured for text output with
// full timestamps.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()

		logger.Out = os.Stdout
		logger.SetLevel(logrus.InfoLevel)

		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: false,
			FullTimestamp: true,
			PadLevelText:  true,
		})
	})

	return logger
}

// SetLevel parses level and applies it to the shared logger. Unknown
// levels fall back to info.
func SetLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	GetLogger().SetLevel(lvl)
	return lvl
}

// SetOutput redirects the shared logger, mostly useful in tests.
func SetOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}
