package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerConfig(t *testing.T) {
	lc := NewLoggerConfig()
	assert.Equal(t, STDOUT, lc.output, "Expected default output to be STDOUT")
	assert.Equal(t, ".", lc.path, "Expected default path to be current directory '.'")
	assert.Equal(t, logrus.InfoLevel, lc.cfg.Level, "Expected default level to be info")
	assert.IsType(t, &logrus.TextFormatter{}, lc.cfg.Formatter, "Expected default formatter to be of text type")
}

func TestLoggerConfig(t *testing.T) {
	tests := []struct {
		name    string
		build   func(lc *LoggerConfig) *LoggerConfig
		wantErr bool
	}{
		{name: "bad level", build: func(lc *LoggerConfig) *LoggerConfig { return lc.Level("debug1") }, wantErr: true},
		{name: "good level", build: func(lc *LoggerConfig) *LoggerConfig { return lc.Level("debug") }},
		{name: "bad format", build: func(lc *LoggerConfig) *LoggerConfig { return lc.Format("fake") }, wantErr: true},
		{name: "line format", build: func(lc *LoggerConfig) *LoggerConfig { return lc.Format("line") }},
		{name: "json format", build: func(lc *LoggerConfig) *LoggerConfig { return lc.Format("JSON") }},
		{name: "bad output", build: func(lc *LoggerConfig) *LoggerConfig { return lc.Output("fake") }, wantErr: true},
		{name: "stdout output", build: func(lc *LoggerConfig) *LoggerConfig { return lc.Output("Stdout") }},
		{name: "bad max size", build: func(lc *LoggerConfig) *LoggerConfig { return lc.MaxSize(0) }, wantErr: true},
		{name: "good max size", build: func(lc *LoggerConfig) *LoggerConfig { return lc.MaxSize(10) }},
		{name: "bad max backups", build: func(lc *LoggerConfig) *LoggerConfig { return lc.MaxBackups(-100) }, wantErr: true},
		{name: "bad max age", build: func(lc *LoggerConfig) *LoggerConfig { return lc.MaxAge(-100) }, wantErr: true},
		{name: "file output without name", build: func(lc *LoggerConfig) *LoggerConfig { return lc.Output("file").Filename("") }, wantErr: true},
		{name: "errors stick", build: func(lc *LoggerConfig) *LoggerConfig { return lc.Level("bad").Level("info") }, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build(NewLoggerConfig().Stdout(&bytes.Buffer{})).Build()
			if tc.wantErr {
				assert.NotNil(t, err)
				return
			}
			assert.Nil(t, err)
		})
	}
}

func TestLoggerConfigBothOutputs(t *testing.T) {
	dir := t.TempDir()
	stdout := &bytes.Buffer{}
	fileName := TimestampedFilename("luminate_client", time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC))
	assert.Equal(t, "luminate_client_2024_03_05_07_08_09.log", fileName)

	l, err := NewLoggerConfig().
		Level("debug").
		Format("line").
		Output("both").
		Path(dir).
		Filename(fileName).
		Stdout(stdout).
		Build()
	require.Nil(t, err)

	l.Debug("provisioning started")

	assert.Contains(t, stdout.String(), "provisioning started")
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	require.Nil(t, err)
	assert.Contains(t, string(data), "provisioning started")
}

func TestFieldLoggerCritical(t *testing.T) {
	l, hook := test.NewNullLogger()
	logger := NewFieldLoggerFrom(l).WithComponent("orchestrator").WithPackage("provisioning")

	logger.WithField("app", "web1").Critical("record failed")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "record failed", entry.Message)
	assert.Equal(t, "critical", entry.Data["severity"])
	assert.Equal(t, "orchestrator", entry.Data["component"])
	assert.Equal(t, "provisioning", entry.Data["package"])
	assert.Equal(t, "web1", entry.Data["app"])
}

func TestSetLogger(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	l, hook := test.NewNullLogger()
	SetLogger(l)
	SetLogger(nil)
	Infof("hello %s", "world")

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "hello world", hook.LastEntry().Message)
}
