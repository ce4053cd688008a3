package log

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log      = newDefaultLogger()
	logMutex = &sync.RWMutex{}
)

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{TimestampFormat: timestampFormat, FullTimestamp: true})
	return l
}

// SetLogger - replaces the process wide logger used by the package level helpers
func SetLogger(l *logrus.Logger) {
	if l == nil {
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	log = l
}

// Logger - returns the process wide logger
func Logger() *logrus.Logger {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return log
}

// Trace -
func Trace(args ...interface{}) {
	Logger().Trace(args...)
}

// Tracef -
func Tracef(format string, args ...interface{}) {
	Logger().Tracef(format, args...)
}

// Debug -
func Debug(args ...interface{}) {
	Logger().Debug(args...)
}

// Debugf -
func Debugf(format string, args ...interface{}) {
	Logger().Debugf(format, args...)
}

// Info -
func Info(args ...interface{}) {
	Logger().Info(args...)
}

// Infof -
func Infof(format string, args ...interface{}) {
	Logger().Infof(format, args...)
}

// Warn -
func Warn(args ...interface{}) {
	Logger().Warn(args...)
}

// Warnf -
func Warnf(format string, args ...interface{}) {
	Logger().Warnf(format, args...)
}

// Error -
func Error(args ...interface{}) {
	Logger().Error(args...)
}

// Errorf -
func Errorf(format string, args ...interface{}) {
	Logger().Errorf(format, args...)
}

// SetLevel -
func SetLevel(level logrus.Level) {
	Logger().SetLevel(level)
}

// GetLevel -
func GetLevel() logrus.Level {
	return Logger().GetLevel()
}
