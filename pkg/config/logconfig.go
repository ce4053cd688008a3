package config

import (
	"path/filepath"
	"time"

	"github.com/luminatesec/luminate-client/pkg/cmd/properties"
	"github.com/luminatesec/luminate-client/pkg/util/log"
	"github.com/sirupsen/logrus"
)

// DefaultLogFilePrefix - prefix of the timestamped run log file
const DefaultLogFilePrefix = "luminate_client"

// LogConfig - Interface for logging config
type LogConfig interface {
	GetLevel() string
	GetFilename() string
	ValidateCfg() error
}

// LogConfiguration -
type LogConfiguration struct {
	Level  string               `config:"level"`
	Format string               `config:"format"`
	Output string               `config:"output"`
	File   LogFileConfiguration `config:"file"`
}

// LogFileConfiguration - setup the logging configuration for file output
type LogFileConfiguration struct {
	Name       string `config:"name"`
	Path       string `config:"path"`
	MaxSize    int    `config:"rotateeverymegabytes"`
	MaxAge     int    `config:"cleanbackups"`
	MaxBackups int    `config:"keepfiles"`
}

const (
	pathLogLevel          = "log.level"
	pathLogFormat         = "log.format"
	pathLogOutput         = "log.output"
	pathLogFileName       = "log.file.name"
	pathLogFilePath       = "log.file.path"
	pathLogFileMaxSize    = "log.file.rotateeverymegabytes"
	pathLogFileMaxAge     = "log.file.cleanbackups"
	pathLogFileMaxBackups = "log.file.keepfiles"
)

// AddLogConfigProperties - Adds the command properties needed for Log Config
func AddLogConfigProperties(props properties.Properties) {
	props.AddStringProperty(pathLogLevel, "debug", "Log level (trace, debug, info, warn, error)")
	props.AddStringProperty(pathLogFormat, "line", "Log format (json, line)")
	props.AddStringProperty(pathLogOutput, "both", "Log output type (stdout, file, both)")

	// Log file options
	props.AddStringProperty(pathLogFileName, "", "Name of the log file, a timestamped luminate_client file is used when empty")
	props.AddStringProperty(pathLogFilePath, "logs", "Log file path if output type is file or both")
	props.AddIntProperty(pathLogFileMaxSize, 100, "The maximum size of a log file, in megabytes")
	props.AddIntProperty(pathLogFileMaxAge, 0, "The maximum number of days, 24 hour periods, to keep the log file backups")
	props.AddIntProperty(pathLogFileMaxBackups, 7, "The maximum number of backups to keep of log files")
}

// ParseLogConfig - reads the log properties, resolving an empty file name to one stamped with now
func ParseLogConfig(props properties.Properties, now time.Time) *LogConfiguration {
	cfg := &LogConfiguration{
		Level:  props.StringPropertyValue(pathLogLevel),
		Format: props.StringPropertyValue(pathLogFormat),
		Output: props.StringPropertyValue(pathLogOutput),
		File: LogFileConfiguration{
			Name:       props.StringPropertyValue(pathLogFileName),
			Path:       props.StringPropertyValue(pathLogFilePath),
			MaxSize:    props.IntPropertyValue(pathLogFileMaxSize),
			MaxBackups: props.IntPropertyValue(pathLogFileMaxBackups),
			MaxAge:     props.IntPropertyValue(pathLogFileMaxAge),
		},
	}
	if cfg.File.Name == "" {
		cfg.File.Name = log.TimestampedFilename(DefaultLogFilePrefix, now)
	}
	return cfg
}

// ParseAndSetupLogConfig - Parses the Log Config, builds the run logger and installs it as the package logger
func ParseAndSetupLogConfig(props properties.Properties) (*logrus.Logger, LogConfig, error) {
	cfg := ParseLogConfig(props, time.Now())
	logger, err := cfg.loggerConfig().Build()
	if err != nil {
		return nil, cfg, err
	}
	log.SetLogger(logger)
	return logger, cfg, nil
}

func (l *LogConfiguration) loggerConfig() *log.LoggerConfig {
	return log.NewLoggerConfig().
		Level(l.Level).
		Format(l.Format).
		Output(l.Output).
		Filename(l.File.Name).
		Path(l.File.Path).
		MaxSize(l.File.MaxSize).
		MaxBackups(l.File.MaxBackups).
		MaxAge(l.File.MaxAge)
}

// GetLevel -
func (l *LogConfiguration) GetLevel() string {
	return l.Level
}

// GetFilename - the log file name, including its path
func (l *LogConfiguration) GetFilename() string {
	return filepath.Join(l.File.Path, l.File.Name)
}

// ValidateCfg - checks the values against the logger builder without creating any file
func (l *LogConfiguration) ValidateCfg() error {
	_, err := l.loggerConfig().Output("stdout").Build()
	return err
}
