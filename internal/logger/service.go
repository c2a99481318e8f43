package logger

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

type logrusService struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// NewService creates a new Logger instance backed by logrus
func NewService(config *Config) (Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(string(config.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %v", err)
	}
	log.SetLevel(level)

	if config.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if config.Output == "stdout" {
		log.SetOutput(os.Stdout)
	}

	if config.File.Enabled && config.File.Path != "" {
		file, err := os.OpenFile(config.File.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %v", err)
		}
		log.SetOutput(file)
	}

	return &logrusService{
		logger: log,
		entry:  logrus.NewEntry(log),
	}, nil
}

func (l *logrusService) LogInfo(msg string, fields map[string]interface{}) {
	if fields != nil {
		l.entry.WithFields(fields).Info(msg)
	} else {
		l.entry.Info(msg)
	}
}

func (l *logrusService) LogError(err error, msg string) error {
	if err != nil {
		l.entry.WithError(err).Error(msg)
	}
	return err
}

func (l *logrusService) LogErrorf(err error, format string, args ...interface{}) error {
	if err != nil {
		l.entry.WithError(err).Errorf(format, args...)
	}
	return err
}

func (l *logrusService) LogFatal(err error, context string) {
	l.entry.WithError(err).Fatal(context)
}

func (l *logrusService) LogDebug(message string, fields map[string]interface{}) {
	if fields != nil {
		l.entry.WithFields(fields).Debug(message)
	} else {
		l.entry.Debug(message)
	}
}

func (l *logrusService) LogWarn(message string, fields map[string]interface{}) {
	if fields != nil {
		l.entry.WithFields(fields).Warn(message)
	} else {
		l.entry.Warn(message)
	}
}

func (l *logrusService) WithFields(fields map[string]interface{}) Logger {
	return &logrusService{
		logger: l.logger,
		entry:  l.entry.WithFields(fields),
	}
}

func (l *logrusService) WithContext(ctx context.Context) Logger {
	return &logrusService{
		logger: l.logger,
		entry:  l.entry.WithContext(ctx),
	}
}

func (l *logrusService) WithRequestID(requestID string) Logger {
	return l.WithFields(map[string]interface{}{
		"requestID": requestID,
	})
}
