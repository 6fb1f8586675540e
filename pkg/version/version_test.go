package version

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	oldCommit := GitCommit
	defer func() { GitCommit = oldCommit }()

	GitCommit = "unknown"
	if got := Short(); got != Version {
		t.Errorf("Short() = %q, want %q", got, Version)
	}

	GitCommit = "0123456789abcdef"
	if got := Short(); got != Version+" (0123456)" {
		t.Errorf("Short() = %q", got)
	}
}

func TestIsPrerelease(t *testing.T) {
	oldVersion := Version
	defer func() { Version = oldVersion }()

	tests := []struct {
		version    string
		prerelease bool
	}{
		{"v0.3.0-beta", true},
		{"v1.0.0-rc.1", true},
		{"v1.0.0-alpha.2", true},
		{"v1.0.0", false},
		{"v1.2.3+meta", false},
		{"dev", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			if got := IsPrerelease(); got != tt.prerelease {
				t.Errorf("IsPrerelease() = %v for %s, want %v", got, tt.version, tt.prerelease)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	oldVersion := Version
	defer func() { Version = oldVersion }()

	Version = "v1.0.0"
	s := Current().String()
	if !strings.HasPrefix(s, "linkgraph v1.0.0\n") {
		t.Errorf("unexpected version string %q", s)
	}

	Version = "v1.1.0-rc.1"
	s = Current().String()
	if !strings.HasPrefix(s, "linkgraph v1.1.0-rc.1 (pre-release)\n") {
		t.Errorf("pre-release marker missing from %q", s)
	}
}
