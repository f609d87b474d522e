// Package settings provides build metadata, runtime configuration, and
// context helpers used across the delvex CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "delvex"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration settings for a single execution of the tool:
// logging level, path splitting, output formatting, and error handling
// behavior.
type Run struct {
	MinLogLevel    int8
	Delimiter      string
	Output         string
	StrictPresence bool
	IsQuiet        bool
	NoColor        bool
	ExitOnError    bool
}

// NewCliParams initializes a Run with default CLI parameters: info-level
// logging, slash-delimited paths, and exit-on-error enabled.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Delimiter:   "/",
		Output:      "csv",
		IsQuiet:     false,
		NoColor:     false,
		ExitOnError: true,
	}
}
