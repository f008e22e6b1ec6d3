package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

const serviceName = "journal-backend"

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Tests and packages used outside main need a usable logger without calling Init.
func init() {
	Init("info", false)
}

// Init rebuilds the global logger. Production uses JSON output for log shipping,
// everything else the text formatter for readability.
func Init(level string, production bool) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if production {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	Log = logger.WithFields(logrus.Fields{"service": serviceName, "production": production})
}
