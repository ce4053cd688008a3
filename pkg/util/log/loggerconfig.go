package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

const timestampFormat = time.RFC3339

// LoggingOutput - where log entries are written
type LoggingOutput int

// Logging outputs
const (
	STDOUT LoggingOutput = iota
	File
	Both
)

var stringLoggingOutputMap = map[string]LoggingOutput{
	"stdout": STDOUT,
	"file":   File,
	"both":   Both,
}

// LoggingFormat - how log entries are rendered
type LoggingFormat int

// Logging formats
const (
	Line LoggingFormat = iota
	JSON
)

var loggingFormatStringMap = map[LoggingFormat]string{
	Line: "line",
	JSON: "json",
}

// LoggerConfig - is a builder used to setup the logging for a run
type LoggerConfig struct {
	err    error
	output LoggingOutput
	path   string
	stdout io.Writer
	cfg    rotatefilehook.RotateFileConfig
}

// NewLoggerConfig - returns a builder with the default settings, info level line output to stdout
func NewLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		output: STDOUT,
		path:   ".",
		stdout: os.Stdout,
		cfg: rotatefilehook.RotateFileConfig{
			Level:     logrus.InfoLevel,
			Formatter: &logrus.TextFormatter{TimestampFormat: timestampFormat, FullTimestamp: true},
			MaxSize:   100,
		},
	}
}

// TimestampedFilename - builds a log file name unique to the start time of a run
func TimestampedFilename(prefix string, t time.Time) string {
	return prefix + t.Format("_2006_01_02_15_04_05") + ".log"
}

// Build - creates a new logger from the config, leaving the process wide logger untouched
func (b *LoggerConfig) Build() (*logrus.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	l := logrus.New()
	l.SetFormatter(b.cfg.Formatter)
	l.SetLevel(b.cfg.Level)
	l.SetOutput(io.Discard)

	if b.output == STDOUT || b.output == Both {
		l.SetOutput(b.stdout)
	}

	if b.output == File || b.output == Both {
		cfg := b.cfg
		if cfg.Filename == "" {
			return nil, ErrInvalidLogConfig.FormatError("log.file.name", "must not be empty")
		}
		if b.path != "" {
			if err := os.MkdirAll(b.path, 0750); err != nil {
				return nil, ErrLogFileHook.FormatError(b.path)
			}
			cfg.Filename = filepath.Join(b.path, cfg.Filename)
		}
		rotateFileHook, err := rotatefilehook.NewRotateFileHook(cfg)
		if err != nil {
			return nil, ErrLogFileHook.FormatError(cfg.Filename)
		}
		l.AddHook(rotateFileHook)
	}
	return l, nil
}

// Apply - builds the logger and installs it as the process wide logger
func (b *LoggerConfig) Apply() error {
	l, err := b.Build()
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// Level - sets the logger level
func (b *LoggerConfig) Level(level string) *LoggerConfig {
	if b.err == nil {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			b.err = ErrInvalidLogConfig.FormatError("log.level", "trace, debug, info, warn, error")
			return b
		}
		b.cfg.Level = lvl
	}
	return b
}

// Format - sets the logger format
func (b *LoggerConfig) Format(format string) *LoggerConfig {
	if b.err == nil {
		switch strings.ToLower(format) {
		case loggingFormatStringMap[Line]:
			b.cfg.Formatter = &logrus.TextFormatter{TimestampFormat: timestampFormat, FullTimestamp: true}
		case loggingFormatStringMap[JSON]:
			b.cfg.Formatter = &logrus.JSONFormatter{TimestampFormat: timestampFormat}
		default:
			b.err = ErrInvalidLogConfig.FormatError("log.format", "json, line")
		}
	}
	return b
}

// Output - sets how the logs will be tracked
func (b *LoggerConfig) Output(output string) *LoggerConfig {
	if b.err == nil {
		o, ok := stringLoggingOutputMap[strings.ToLower(output)]
		if !ok {
			b.err = ErrInvalidLogConfig.FormatError("log.output", "stdout, file, both")
			return b
		}
		b.output = o
	}
	return b
}

// Stdout - overrides the console writer, stdout unless set
func (b *LoggerConfig) Stdout(w io.Writer) *LoggerConfig {
	if b.err == nil && w != nil {
		b.stdout = w
	}
	return b
}

// Filename -
func (b *LoggerConfig) Filename(filename string) *LoggerConfig {
	if b.err == nil {
		b.cfg.Filename = filename
	}
	return b
}

// Path -
func (b *LoggerConfig) Path(path string) *LoggerConfig {
	if b.err == nil {
		b.path = path
	}
	return b
}

// MaxSize - in megabytes
func (b *LoggerConfig) MaxSize(maxSize int) *LoggerConfig {
	if b.err == nil {
		if maxSize < 1 {
			b.err = ErrInvalidLogConfig.FormatError("log.file.rotateeverymegabytes", "minimum of 1")
			return b
		}
		b.cfg.MaxSize = maxSize
	}
	return b
}

// MaxBackups -
func (b *LoggerConfig) MaxBackups(maxBackups int) *LoggerConfig {
	if b.err == nil {
		if maxBackups < 0 {
			b.err = ErrInvalidLogConfig.FormatError("log.file.keepfiles", "0 or greater")
			return b
		}
		b.cfg.MaxBackups = maxBackups
	}
	return b
}

// MaxAge -
func (b *LoggerConfig) MaxAge(maxAge int) *LoggerConfig {
	if b.err == nil {
		if maxAge < 0 {
			b.err = ErrInvalidLogConfig.FormatError("log.file.cleanbackups", "0 or greater")
			return b
		}
		b.cfg.MaxAge = maxAge
	}
	return b
}
