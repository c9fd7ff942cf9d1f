package jwtgate

import (
	"log"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// Logger is a generic logging interface for the gate. Adapters for the
// common structured loggers are provided below.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// StdLogger is a simple Logger backed by the standard library log package.
type StdLogger struct{}

func (l *StdLogger) Debugf(format string, args ...interface{}) {
	log.Printf("DEBUG: "+format, args...)
}
func (l *StdLogger) Infof(format string, args ...interface{}) {
	log.Printf("INFO: "+format, args...)
}
func (l *StdLogger) Warnf(format string, args ...interface{}) {
	log.Printf("WARN: "+format, args...)
}
func (l *StdLogger) Errorf(format string, args ...interface{}) {
	log.Printf("ERROR: "+format, args...)
}

// NewLogrusLogger returns a Logger adapter for logrus.FieldLogger.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLoggerAdapter{l}
}

type logrusLoggerAdapter struct{ l logrus.FieldLogger }

func (a *logrusLoggerAdapter) Debugf(format string, args ...interface{}) { a.l.Debugf(format, args...) }
func (a *logrusLoggerAdapter) Infof(format string, args ...interface{})  { a.l.Infof(format, args...) }
func (a *logrusLoggerAdapter) Warnf(format string, args ...interface{})  { a.l.Warnf(format, args...) }
func (a *logrusLoggerAdapter) Errorf(format string, args ...interface{}) { a.l.Errorf(format, args...) }

// NewZapLogger returns a Logger adapter for zap.SugaredLogger.
func NewZapLogger(l *zap.SugaredLogger) Logger {
	return &zapLoggerAdapter{l}
}

type zapLoggerAdapter struct{ l *zap.SugaredLogger }

func (a *zapLoggerAdapter) Debugf(format string, args ...interface{}) { a.l.Debugf(format, args...) }
func (a *zapLoggerAdapter) Infof(format string, args ...interface{})  { a.l.Infof(format, args...) }
func (a *zapLoggerAdapter) Warnf(format string, args ...interface{})  { a.l.Warnf(format, args...) }
func (a *zapLoggerAdapter) Errorf(format string, args ...interface{}) { a.l.Errorf(format, args...) }

// NewZerologLogger returns a Logger adapter for zerolog.Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLoggerAdapter{l}
}

type zerologLoggerAdapter struct{ l zerolog.Logger }

func (a *zerologLoggerAdapter) Debugf(format string, args ...interface{}) {
	a.l.Debug().Msgf(format, args...)
}
func (a *zerologLoggerAdapter) Infof(format string, args ...interface{}) {
	a.l.Info().Msgf(format, args...)
}
func (a *zerologLoggerAdapter) Warnf(format string, args ...interface{}) {
	a.l.Warn().Msgf(format, args...)
}
func (a *zerologLoggerAdapter) Errorf(format string, args ...interface{}) {
	a.l.Error().Msgf(format, args...)
}
