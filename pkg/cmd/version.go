package cmd

import "fmt"

// BuildTime -
var BuildTime string

// BuildVersion -
var BuildVersion string

// BuildCommitSha -
var BuildCommitSha string

// BuildName - name reported in the user agent, defaults to the command name
var BuildName string

const devVersion = "dev"

// GetVersion - version and commit, dev when not set at build time
func GetVersion() string {
	version := BuildVersion
	if version == "" {
		version = devVersion
	}
	if BuildCommitSha == "" {
		return version
	}
	return fmt.Sprintf("%s-%s", version, BuildCommitSha)
}
