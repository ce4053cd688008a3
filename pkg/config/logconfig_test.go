package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/luminatesec/luminate-client/pkg/cmd/properties"
)

func TestDefaultLogConfig(t *testing.T) {
	props := properties.NewProperties(&cobra.Command{})
	AddLogConfigProperties(props)

	now := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	cfg := ParseLogConfig(props, now)
	assert.Nil(t, cfg.ValidateCfg())
	assert.Equal(t, "debug", cfg.GetLevel())
	assert.Equal(t, "line", cfg.Format)
	assert.Equal(t, "both", cfg.Output)
	assert.Equal(t, "logs", cfg.File.Path)
	assert.Equal(t, 100, cfg.File.MaxSize)
	assert.Equal(t, 0, cfg.File.MaxAge)
	assert.Equal(t, 7, cfg.File.MaxBackups)
	assert.Equal(t, filepath.Join("logs", "luminate_client_2021_03_04_05_06_07.log"), cfg.GetFilename())
}

func TestLogConfigValidations(t *testing.T) {
	testCases := map[string]func(c *LogConfiguration){
		"bad level":    func(c *LogConfiguration) { c.Level = "debug1" },
		"bad format":   func(c *LogConfiguration) { c.Format = "line1" },
		"bad output":   func(c *LogConfiguration) { c.Output = "unknown" },
		"bad max size": func(c *LogConfiguration) { c.File.MaxSize = 0 },
		"bad max age":  func(c *LogConfiguration) { c.File.MaxAge = -1 },
	}

	for name, modify := range testCases {
		t.Run(name, func(t *testing.T) {
			props := properties.NewProperties(&cobra.Command{})
			AddLogConfigProperties(props)
			cfg := ParseLogConfig(props, time.Now())
			modify(cfg)
			assert.NotNil(t, cfg.ValidateCfg())
		})
	}
}

func TestParseAndSetupLogConfig(t *testing.T) {
	rootCmd := &cobra.Command{}
	props := properties.NewProperties(rootCmd)
	AddLogConfigProperties(props)

	logDir := t.TempDir()
	assert.Nil(t, rootCmd.ParseFlags([]string{"--logFilePath=" + logDir, "--logFileName=run.log", "--logOutput=file", "--logLevel=info"}))

	logger, cfg, err := ParseAndSetupLogConfig(props)
	assert.Nil(t, err)
	assert.NotNil(t, logger)
	assert.Equal(t, "info", logger.GetLevel().String())
	assert.Equal(t, filepath.Join(logDir, "run.log"), cfg.GetFilename())
}
