// Package version holds build information. The variables can be
// overridden at build time via -ldflags.
package version

import "strings"

var (
	// Version is the semantic version of the module. Cached evaluation
	// results are keyed by it.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// String renders "version (commit, date)", omitting empty parts.
func String() string {
	var extra []string
	if GitCommit != "" {
		extra = append(extra, GitCommit)
	}
	if BuildDate != "" {
		extra = append(extra, BuildDate)
	}
	if len(extra) == 0 {
		return Version
	}
	return Version + " (" + strings.Join(extra, ", ") + ")"
}
