package config

import (
	"path/filepath"

	"github.com/smith-xyz/linkgraph/pkg/utils"
)

// ProjectConfigName is the per-project override file looked up in the source directory.
const ProjectConfigName = ".linkgraph.toml"

// ProjectConfig wraps the base Config with overrides found in the analyzed project's
// source tree, so wrapper macros can be declared next to the scripts that define them.
type ProjectConfig struct {
	*Config
	SourceDir string // source directory of the project being analyzed
	Applied   string // override file that was applied, empty if none
}

// NewProjectConfig layers sourceDir/.linkgraph.toml over base. Only the classification
// section is taken from the project file; everything else stays with the caller.
func NewProjectConfig(base *Config, sourceDir string) (*ProjectConfig, error) {
	pc := &ProjectConfig{Config: base, SourceDir: sourceDir}
	if sourceDir == "" {
		return pc, nil
	}

	path := filepath.Join(sourceDir, ProjectConfigName)
	if !utils.FileExists(path) {
		return pc, nil
	}

	override, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	merged := *base
	merged.Classification.LinkCommands = appendUnique(base.Classification.LinkCommands, override.Classification.LinkCommands...)
	merged.Classification.ExtraLinkCommands = appendUnique(base.Classification.ExtraLinkCommands, override.Classification.ExtraLinkCommands...)
	pc.Config = &merged
	pc.Applied = path
	return pc, nil
}

func appendUnique(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, s := range append(append([]string{}, base...), extra...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
