package util

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
)

var userAgentRe = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9-]*)/([0-9A-Za-z.\-+]+) \(os:([a-z0-9]+); arch:([a-z0-9]+); hostname:([^)]*)\)$`)

// UserAgent - the identity the client sends with every request
type UserAgent struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	HostName string `json:"hostname,omitempty"`
}

// NewUserAgent -
func NewUserAgent(name, version string) *UserAgent {
	hostName, _ := os.Hostname()
	return &UserAgent{
		Name:     name,
		Version:  version,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		HostName: hostName,
	}
}

// FormatUserAgent - name/version (os:...; arch:...; hostname:...), empty when name or version is missing
func (ua *UserAgent) FormatUserAgent() string {
	if ua.Name == "" || ua.Version == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s (os:%s; arch:%s; hostname:%s)", ua.Name, ua.Version, ua.OS, ua.Arch, ua.HostName)
}

// ParseUserAgent - the reverse of FormatUserAgent, nil when userAgent was not built by it
func ParseUserAgent(userAgent string) *UserAgent {
	matches := userAgentRe.FindStringSubmatch(userAgent)
	if len(matches) != 6 {
		return nil
	}
	return &UserAgent{
		Name:     matches[1],
		Version:  matches[2],
		OS:       matches[3],
		Arch:     matches[4],
		HostName: matches[5],
	}
}
