// internal/config/logging.go
package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// SetupLogger applies the log settings to the standard logrus logger.
func SetupLogger(cfg LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)
	logrus.SetReportCaller(cfg.ReportCaller)

	if strings.EqualFold(cfg.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
