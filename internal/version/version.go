// Package version reports the taskflow release. The number comes from the
// VERSION file compiled into the binary unless a release build overrides it:
//
//	go build -ldflags "-X github.com/ShayCichocki/taskflow/internal/version.override=1.2.3"
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var embedded string

// override is set by the linker for tagged release builds.
var override string

// Get returns the release number without a leading "v".
func Get() string {
	v := override
	if v == "" {
		v = embedded
	}
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// String returns the line printed by `taskflow version`.
func String() string {
	return "taskflow version " + Get()
}
