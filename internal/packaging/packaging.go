// Package packaging tells a released, self-contained docweaver binary apart
// from one built on the fly out of a source checkout.
package packaging

import (
	"os"
	"path/filepath"
	"strings"

	"docweaver/internal/version"
)

// Mode is the packaging mode the process runs under.
type Mode int

const (
	// ModeLoose means docweaver runs from loose sources (go run, go test or
	// an unstamped local build).
	ModeLoose Mode = iota
	// ModeArchive means docweaver runs from a released binary that can
	// replace itself.
	ModeArchive
)

func (m Mode) String() string {
	if m == ModeArchive {
		return "archive"
	}
	return "loose"
}

// Detect reports the packaging mode of the current process. The answer is
// computed on every call: the same binary may be copied between machines
// and run both ways.
func Detect(ver string) Mode {
	exe, err := os.Executable()
	if err != nil {
		return ModeLoose
	}
	return DetectFrom(ver, exe)
}

// DetectFrom reports the packaging mode for a binary at executable carrying
// version ver.
func DetectFrom(ver, executable string) Mode {
	if !version.IsRelease(ver) {
		return ModeLoose
	}
	if executable == "" || strings.HasSuffix(executable, ".test") {
		return ModeLoose
	}
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(executable)), "/") {
		if strings.HasPrefix(part, "go-build") {
			return ModeLoose
		}
	}
	return ModeArchive
}
