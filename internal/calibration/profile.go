// Package calibration measures the cost of the Hardy Z methods on the
// current machine and tunes the zero scanner accordingly.
// This file implements calibration profile persistence.
package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sys/cpu"
)

// CalibrationProfile stores the results of a calibration run.
// It captures both the tuned parameters and the hardware context
// to allow validation of cached results.
type CalibrationProfile struct {
	// Hardware identification
	CPUModel    string   `json:"cpu_model"`
	CPUFeatures []string `json:"cpu_features,omitempty"`
	NumCPU      int      `json:"num_cpu"`
	GOARCH      string   `json:"goarch"`
	GOOS        string   `json:"goos"`
	GoVersion   string   `json:"go_version"`
	WordSize    int      `json:"word_size"`

	// Tuned scan parameters
	OptimalWindow  int `json:"optimal_window"`
	OptimalWorkers int `json:"optimal_workers"`

	// Methods holds the measured cost curve of every method.
	Methods []MethodCost `json:"methods,omitempty"`

	// Calibration metadata
	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationTime string    `json:"calibration_time"`

	ProfileVersion int `json:"profile_version"`
}

// MethodCost is the profile entry of a measured method.
type MethodCost struct {
	Method string  `json:"method"`
	Slope  float64 `json:"slope"`
	// NsPerEval maps each measured height to its cost in nanoseconds.
	NsPerEval map[string]int64 `json:"ns_per_eval"`
}

const (
	// CurrentProfileVersion is the current version of the profile format.
	// Increment this when making breaking changes to the profile structure.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the default name for the calibration profile file.
	DefaultProfileFileName = ".hardyz_calibration.json"
)

// GetDefaultProfilePath returns the default path for the calibration profile.
// It uses the user's home directory if available, otherwise the current directory.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// NewProfile creates a new CalibrationProfile with current hardware info.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		CPUModel:       getCPUModel(),
		CPUFeatures:    detectCPUFeatures(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

func getCPUModel() string {
	return fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU())
}

// detectCPUFeatures lists the floating-point extensions that affect the
// speed of the evaluators.
func detectCPUFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE41, "sse4.1")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasFP, "fp")
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return features
}

// MethodCosts converts measured complexities into profile entries.
func MethodCosts(costs []Complexity) []MethodCost {
	out := make([]MethodCost, len(costs))
	for i, c := range costs {
		ns := make(map[string]int64, len(c.Samples))
		for _, s := range c.Samples {
			ns[fmt.Sprintf("%g", s.T)] = s.PerEval.Nanoseconds()
		}
		out[i] = MethodCost{Method: c.Method.Key(), Slope: c.Slope, NsPerEval: ns}
	}
	return out
}

// LoadProfile loads a calibration profile from the specified path.
// Returns nil and an error if the file doesn't exist or can't be parsed.
func LoadProfile(path string) (*CalibrationProfile, error) {
	if path == "" {
		path = GetDefaultProfilePath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile CalibrationProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return &profile, nil
}

// SaveProfile saves the calibration profile to the specified path.
// If path is empty, uses the default profile path.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if path == "" {
		path = GetDefaultProfilePath()
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	return nil
}

// IsValid checks if the profile is valid for the current hardware: same
// format version, CPU count, architecture and word size.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	if p.ProfileVersion != CurrentProfileVersion {
		return false
	}
	if p.NumCPU != runtime.NumCPU() || p.GOARCH != runtime.GOARCH {
		return false
	}
	return p.WordSize == 32<<(^uint(0)>>63)
}

// IsStale checks if the profile is older than the given duration.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String returns a human-readable summary of the profile.
func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf(
		"CalibrationProfile{CPU: %s, Window: %d, Workers: %d, Methods: %d, Calibrated: %s}",
		p.CPUModel,
		p.OptimalWindow,
		p.OptimalWorkers,
		len(p.Methods),
		p.CalibratedAt.Format(time.RFC3339),
	)
}

// LoadOrCreateProfile loads an existing profile or creates a new one if not
// found. If the existing profile is invalid for the current hardware,
// returns a new profile.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	profile, err := LoadProfile(path)
	if err != nil {
		return NewProfile(), false
	}

	if !profile.IsValid() {
		return NewProfile(), false
	}

	return profile, true
}

// ProfileExists checks if a calibration profile exists at the given path.
func ProfileExists(path string) bool {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	_, err := os.Stat(path)
	return err == nil
}
