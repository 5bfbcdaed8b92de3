package app

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		args     []string
		expected bool
	}{
		{"Empty args", []string{}, false},
		{"No version flag", []string{"-t", "100"}, false},
		{"Long version flag", []string{"--version"}, true},
		{"Short version flag", []string{"-V"}, true},
		{"Single dash", []string{"-version"}, true},
		{"After other flags", []string{"-server", "-port", "9000", "-version"}, true},
		{"Version as a value", []string{"-method", "version"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HasVersionFlag(tc.args); got != tc.expected {
				t.Errorf("HasVersionFlag(%v) = %v, want %v", tc.args, got, tc.expected)
			}
		})
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintVersion(&buf)

	output := buf.String()
	for _, want := range []string{"hardyz " + Version, "Commit:", "Built:", "Go version: " + runtime.Version(), "OS/Arch:    " + runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(output, want) {
			t.Errorf("PrintVersion output missing %q:\n%s", want, output)
		}
	}
}

func TestGetVersionInfo(t *testing.T) {
	t.Parallel()
	want := VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	if got := GetVersionInfo(); got != want {
		t.Errorf("GetVersionInfo() = %+v, want %+v", got, want)
	}
}
