package log

import (
	"github.com/sirupsen/logrus"
)

const (
	fieldComponent = "component"
	fieldPackage   = "package"
	fieldSeverity  = "severity"

	severityCritical = "critical"
)

// FieldLogger Wraps the StdLogger, and provides logrus methods for logging with fields
type FieldLogger interface {
	StdLogger
	Critical(v ...interface{})
	Criticalf(format string, v ...interface{})
	WithField(key string, value interface{}) FieldLogger
	WithFields(fields logrus.Fields) FieldLogger
	WithError(err error) FieldLogger
	WithComponent(componentName string) FieldLogger
	WithPackage(packageName string) FieldLogger
}

// StdLogger interface for logging methods found in the go standard library logger.
type StdLogger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Trace(v ...interface{})
	Tracef(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
}

// LogRedactor interface for redacting log messages
type LogRedactor interface {
	TraceRedacted(fields []string, v ...interface{})
	DebugRedacted(fields []string, v ...interface{})
}

// NewFieldLogger returns a FieldLogger backed by the process wide logger.
func NewFieldLogger() FieldLogger {
	return NewFieldLoggerFrom(Logger())
}

// NewFieldLoggerFrom returns a FieldLogger writing to the given logrus logger.
func NewFieldLoggerFrom(l *logrus.Logger) FieldLogger {
	if l == nil {
		l = Logger()
	}
	return &logger{
		entry: logrus.NewEntry(l),
	}
}

type logger struct {
	entry *logrus.Entry
}

// Debug prints a debug message
func (l *logger) Debug(v ...interface{}) {
	l.entry.Debug(v...)
}

// Debugf prints a formatted debug message
func (l *logger) Debugf(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

// Error prints an error message
func (l *logger) Error(v ...interface{}) {
	l.entry.Error(v...)
}

// Errorf prints a formatted error message
func (l *logger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// Critical prints an error message tagged with the critical severity.
// logrus has no level between error and fatal, and fatal exits the process.
func (l *logger) Critical(v ...interface{}) {
	l.entry.WithField(fieldSeverity, severityCritical).Error(v...)
}

// Criticalf prints a formatted error message tagged with the critical severity
func (l *logger) Criticalf(format string, v ...interface{}) {
	l.entry.WithField(fieldSeverity, severityCritical).Errorf(format, v...)
}

// Info prints an info message
func (l *logger) Info(v ...interface{}) {
	l.entry.Info(v...)
}

// Infof prints a formatted info message
func (l *logger) Infof(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

// Trace prints a trace message
func (l *logger) Trace(v ...interface{}) {
	l.entry.Trace(v...)
}

// Tracef prints a formatted trace message
func (l *logger) Tracef(format string, v ...interface{}) {
	l.entry.Tracef(format, v...)
}

// Warn prints a warning message
func (l *logger) Warn(v ...interface{}) {
	l.entry.Warn(v...)
}

// Warnf prints a formatted warning message
func (l *logger) Warnf(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

// WithField adds a field to the log message
func (l *logger) WithField(key string, value interface{}) FieldLogger {
	return &logger{entry: l.entry.WithField(key, value)}
}

// WithFields adds multiple fields to the log message
func (l *logger) WithFields(fields logrus.Fields) FieldLogger {
	return &logger{entry: l.entry.WithFields(fields)}
}

// WithError adds an error field to the message
func (l *logger) WithError(err error) FieldLogger {
	return &logger{entry: l.entry.WithError(err)}
}

// WithComponent adds the component field to the message
func (l *logger) WithComponent(componentName string) FieldLogger {
	return l.WithField(fieldComponent, componentName)
}

// WithPackage adds the package field to the message
func (l *logger) WithPackage(packageName string) FieldLogger {
	return l.WithField(fieldPackage, packageName)
}

func (l *logger) TraceRedacted(fields []string, v ...interface{}) {
	l.Trace(ObscureArguments(fields, v...)...)
}

func (l *logger) DebugRedacted(fields []string, v ...interface{}) {
	l.Debug(ObscureArguments(fields, v...)...)
}
