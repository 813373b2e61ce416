package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Zachkp/kussetech/internal/config"
)

// New builds the application logger. Debug profiles log text to stderr;
// otherwise entries are JSON. A configured LogFile is rotated by lumberjack
// and also receives every entry.
func New(cfg config.Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Debug {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	logger.SetOutput(out)

	logger.WithFields(logrus.Fields{
		"profile": cfg.Profile,
		"level":   level.String(),
	}).Debug("Logger initialized")
	return logger, nil
}
