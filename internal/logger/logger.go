package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Setup configures the global JSON logger
func Setup() {
	if os.Getenv("ENV") == "test" {
		logrus.SetOutput(io.Discard)
	}
	logrus.SetLevel(logrus.InfoLevel)
	jsonFormatter := logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyMsg:   "message",
			logrus.FieldKeyLevel: "level",
		},
	}
	logrus.SetFormatter(&jsonFormatter)
}
