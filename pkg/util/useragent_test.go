package util

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUserAgent(t *testing.T) {
	hostname, _ := os.Hostname()
	tests := []struct {
		name     string
		uaName   string
		version  string
		expected string
	}{
		{
			name:     "full",
			uaName:   "luminate-client",
			version:  "1.2.0",
			expected: "luminate-client/1.2.0 (os:" + runtime.GOOS + "; arch:" + runtime.GOARCH + "; hostname:" + hostname + ")",
		},
		{
			name:     "no version",
			uaName:   "luminate-client",
			expected: "",
		},
		{
			name:     "no name",
			version:  "1.2.0",
			expected: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ua := NewUserAgent(tc.uaName, tc.version)
			assert.Equal(t, tc.expected, ua.FormatUserAgent())
		})
	}
}

func TestParseUserAgent(t *testing.T) {
	ua := &UserAgent{Name: "luminate-client", Version: "1.2.0-rc1", OS: "linux", Arch: "amd64", HostName: "build-host"}
	parsed := ParseUserAgent(ua.FormatUserAgent())
	assert.Equal(t, ua, parsed)

	assert.Nil(t, ParseUserAgent("curl/7.68.0"))
}
