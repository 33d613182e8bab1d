package log

import (
	"go.uber.org/zap"

	"xdpwall/config"
)

// logger is the interface of the logger.
type logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})
	Sync()
}

// Logger is the reality called by the program
var Logger logger

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func NewZapLogger(logger *zap.Logger) *zapLogger {
	return &zapLogger{
		sugar: logger.Sugar(),
	}
}

func init() {
	var zapLog *zap.Logger
	if config.IsDebug() {
		zapLog, _ = zap.NewDevelopment(zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		zapLog, _ = zap.NewProduction(zap.AddCallerSkip(1))
	}
	Logger = NewZapLogger(zapLog)
}

func (l *zapLogger) Debugf(template string, args ...interface{}) {
	l.sugar.Debugf(template, args...)
}

func (l *zapLogger) Infof(template string, args ...interface{}) {
	l.sugar.Infof(template, args...)
}

func (l *zapLogger) Warnf(template string, args ...interface{}) {
	l.sugar.Warnf(template, args...)
}

func (l *zapLogger) Errorf(template string, args ...interface{}) {
	l.sugar.Errorf(template, args...)
}

// Fatalf flushes the buffer, then exits.
func (l *zapLogger) Fatalf(template string, args ...interface{}) {
	l.Sync()
	l.sugar.Fatalf(template, args...)
}

// Sync flushes the remaining log entries in buff. It is called once at shutdown.
func (l *zapLogger) Sync() {
	_ = l.sugar.Sync()
}
