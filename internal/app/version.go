// Package app wires configuration, calculators and output together for the
// hardyz command. It handles the application lifecycle, mode dispatching and
// version reporting.
package app

import (
	"fmt"
	"io"
	"runtime"
	"slices"
)

// Build-time variables set via -ldflags:
//
//	go build -ldflags="-X github.com/agbru/hardyz/internal/app.Version=v0.3.0 -X github.com/agbru/hardyz/internal/app.Commit=abc123 -X github.com/agbru/hardyz/internal/app.BuildDate=2026-01-01T00:00:00Z" ./cmd/hardyz
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether any argument asks for the version, so that
// "hardyz -server -version" prints it too.
func HasVersionFlag(args []string) bool {
	return slices.ContainsFunc(args, func(arg string) bool {
		return arg == "--version" || arg == "-version" || arg == "-V"
	})
}

// PrintVersion writes the version, commit, build date and runtime to out.
func PrintVersion(out io.Writer) {
	v := GetVersionInfo()
	fmt.Fprintf(out, "hardyz %s\n", v.Version)
	fmt.Fprintf(out, "  Commit:     %s\n", v.Commit)
	fmt.Fprintf(out, "  Built:      %s\n", v.BuildDate)
	fmt.Fprintf(out, "  Go version: %s\n", v.GoVersion)
	fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", v.OS, v.Arch)
}

// VersionData is the build and runtime identification of the binary.
type VersionData struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns the current version information.
func GetVersionInfo() VersionData {
	return VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
