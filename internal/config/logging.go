package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lmittmann/tint"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

func NewLogger() *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, nil)
	if Development() {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

// NewAccessLog returns a logger writing to the rotating file named by
// ACCESS_LOG_FILE, or nil when the variable is not set.
func NewAccessLog() (*logrus.Logger, error) {
	filename, ok := os.LookupEnv("ACCESS_LOG_FILE")
	if !ok || filename == "" {
		return nil, nil
	}

	maxSize := 50
	if s, ok := os.LookupEnv("ACCESS_LOG_MAX_SIZE_MB"); ok {
		var err error
		if maxSize, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("unable to parse ACCESS_LOG_MAX_SIZE_MB: %w", err)
		}
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   filename,
		MaxSize:    maxSize, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      logrus.InfoLevel,
		Formatter: &logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create access log hook: %w", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.InfoLevel)
	log.AddHook(hook)
	return log, nil
}
