package utils

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimSpaceSlice(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"empty slice", []string{}, nil},
		{"all whitespace", []string{"  ", "\t", ""}, nil},
		{"mixed", []string{" a ", "", "b\t"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TrimSpaceSlice(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("TrimSpaceSlice(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("TrimSpaceSlice(%v)[%d] = %q, want %q", tt.input, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParseCommaDelimited(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"link_with", []string{"link_with"}},
		{"link_with, add_deps ,,", []string{"link_with", "add_deps"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCommaDelimited(tt.input))
		})
	}
}

func TestVerboseLogger(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewVerboseLogger(false).WithOutput(&buf)
	quiet.Logf("hidden %d\n", 1)
	quiet.DebugLogf("hidden\n")
	assert.Empty(t, buf.String())

	loud := NewVerboseLogger(true).WithOutput(&buf)
	loud.Logf("shown %d\n", 2)
	loud.DebugLogf("detail\n")
	assert.Equal(t, "shown 2\n[DEBUG] detail\n", buf.String())
}

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerTo(&buf, false).Debug("invisible")
	assert.Empty(t, buf.String())

	NewLoggerTo(&buf, true).Debug("visible", "key", "value")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "key=value")
}

func TestSafeCreateFile(t *testing.T) {
	dir := t.TempDir()

	file, err := SafeCreateFile(filepath.Join(dir, "nested", "out.json"))
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.True(t, FileExists(filepath.Join(dir, "nested", "out.json")))
	assert.True(t, DirectoryExists(filepath.Join(dir, "nested")))

	_, err = SafeCreateFile("../escape.json")
	assert.ErrorContains(t, err, "directory traversal")

	_, err = SafeCreateFile("/etc/linkgraph.json")
	assert.ErrorContains(t, err, "sensitive system directory")
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		buildDir string
		format   string
		want     string
	}{
		{"/work/build_release", "json", "build-release.linkgraph.json"},
		{"/work/my build", "msgpack", "my-build.linkgraph.msgpack"},
		{"/work/out", "tree", "out.linkgraph.txt"},
		{"", "json", "linkgraph.linkgraph.json"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFilename(tt.buildDir, tt.format))
		})
	}
}

func TestFileAndDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(""))
	assert.True(t, DirectoryExists(dir))
	assert.False(t, DirectoryExists(path))
	assert.False(t, DirectoryExists(""))
}

func TestInstrumentation(t *testing.T) {
	var buf bytes.Buffer
	inst := NewInstrumentation(NewLoggerTo(&buf, true))

	require.NoError(t, inst.TimedOperation("ok", func() error { return nil }))
	err := inst.TimedOperation("broken", func() error { return errors.New("boom") })
	assert.EqualError(t, err, "boom")
	assert.Contains(t, buf.String(), "Operation failed")

	tracker := inst.NewPhaseTracker("pass")
	tracker.StartPhase("load")
	tracker.StartPhase("annotate")
	tracker.Complete(3)
	assert.True(t, strings.Contains(buf.String(), "phase=load"))
	assert.True(t, strings.Contains(buf.String(), "phase=annotate"))
	assert.Contains(t, buf.String(), "items=3")
}
