package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/smith-xyz/linkgraph/pkg/utils"
)

// minimumToolVersion is the first build tool release whose replies carry backtrace graphs.
const minimumToolVersion = "v3.14.0"

// ObjectVersion is the version of a reply object kind.
type ObjectVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// Semver renders the version as a semantic version string.
func (v ObjectVersion) Semver() string {
	return fmt.Sprintf("v%d.%d.0", v.Major, v.Minor)
}

// ObjectRef points at one reply object file.
type ObjectRef struct {
	Kind     string        `json:"kind"`
	Version  ObjectVersion `json:"version"`
	JSONFile string        `json:"jsonFile"`
}

// ReplyIndex is the top-level index file written by the build tool after each configure.
type ReplyIndex struct {
	Tool struct {
		Version struct {
			String string `json:"string"`
		} `json:"version"`
		Generator struct {
			Name        string `json:"name"`
			MultiConfig bool   `json:"multiConfig"`
		} `json:"generator"`
	} `json:"cmake"`
	Objects []ObjectRef                `json:"objects"`
	Reply   map[string]json.RawMessage `json:"reply"`
}

// Codemodel lists the configurations of one build tree and the targets in each.
type Codemodel struct {
	Paths struct {
		Source string `json:"source"`
		Build  string `json:"build"`
	} `json:"paths"`
	Configurations []Configuration `json:"configurations"`
}

// Configuration is one build configuration (Debug, Release, ...) of the codemodel.
type Configuration struct {
	Name    string      `json:"name"`
	Targets []TargetRef `json:"targets"`
}

// TargetRef is a codemodel entry pointing at a target file.
type TargetRef struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	JSONFile string `json:"jsonFile"`
}

// FindLatestIndex returns the newest index file in replyDir. Index file names embed a
// sortable timestamp, so the lexically greatest name is the most recent reply.
func FindLatestIndex(replyDir string) (string, error) {
	if !utils.DirectoryExists(replyDir) {
		return "", fmt.Errorf("%w: %s does not exist", ErrNoReply, replyDir)
	}
	matches, err := filepath.Glob(filepath.Join(replyDir, "index-*.json"))
	if err != nil {
		return "", fmt.Errorf("failed to search reply directory %s: %w", replyDir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoReply, replyDir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// CodemodelRef locates the codemodel object of the index, either in the shared object
// list or as a stateless "codemodel-v2" reply.
func (idx *ReplyIndex) CodemodelRef() (ObjectRef, error) {
	for _, obj := range idx.Objects {
		if obj.Kind == "codemodel" {
			return obj, checkCodemodelVersion(obj.Version)
		}
	}
	if raw, ok := idx.Reply["codemodel-v2"]; ok {
		var obj ObjectRef
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ObjectRef{}, fmt.Errorf("failed to parse codemodel reply: %w", err)
		}
		if obj.JSONFile != "" {
			return obj, checkCodemodelVersion(obj.Version)
		}
	}
	return ObjectRef{}, ErrNoCodemodel
}

// ToolVersionSupported reports whether the tool version recorded in the index is new
// enough to provide backtrace graphs. Unknown versions are assumed to be supported.
func (idx *ReplyIndex) ToolVersionSupported() bool {
	v := "v" + strings.TrimPrefix(strings.TrimSpace(idx.Tool.Version.String), "v")
	if !semver.IsValid(v) {
		return true
	}
	return semver.Compare(v, minimumToolVersion) >= 0
}

func checkCodemodelVersion(v ObjectVersion) error {
	if semver.Major(v.Semver()) != "v2" {
		return fmt.Errorf("%w: codemodel %s", ErrUnsupportedVersion, v.Semver())
	}
	return nil
}

func readJSON(path string, into any) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return data, nil
}
