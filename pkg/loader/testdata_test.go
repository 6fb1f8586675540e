package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

// extractArchive writes every file of a txtar archive below a fresh temp directory.
func extractArchive(t *testing.T, archive string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range txtar.Parse([]byte(archive)).Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, f.Data, 0o600))
	}
	return dir
}

// multiConfigReply is a two-configuration build tree: b, a and e appear in both
// Debug and Release, and an older index file is left behind by a previous configure.
const multiConfigReply = `
-- .cmake/api/v1/reply/index-2026-01-01T00-00-00-0000.json --
{"cmake": {"version": {"string": "3.20.0"}}, "objects": []}
-- .cmake/api/v1/reply/index-2026-10-17T09-30-00-0000.json --
{
  "cmake": {"version": {"string": "3.28.1"}, "generator": {"name": "Ninja Multi-Config", "multiConfig": true}},
  "objects": [{"kind": "codemodel", "version": {"major": 2, "minor": 6}, "jsonFile": "codemodel-v2-1.json"}],
  "reply": {}
}
-- .cmake/api/v1/reply/codemodel-v2-1.json --
{
  "kind": "codemodel",
  "paths": {"source": "/src", "build": "/build"},
  "configurations": [
    {"name": "Debug", "targets": [
      {"name": "b", "id": "b::@1", "jsonFile": "target-b-Debug.json"},
      {"name": "a", "id": "a::@1", "jsonFile": "target-a-Debug.json"},
      {"name": "e", "id": "e::@1", "jsonFile": "target-e-Debug.json"}
    ]},
    {"name": "Release", "targets": [
      {"name": "b", "id": "b::@1", "jsonFile": "target-b-Release.json"},
      {"name": "a", "id": "a::@1", "jsonFile": "target-a-Release.json"},
      {"name": "e", "id": "e::@1", "jsonFile": "target-e-Release.json"},
      {"name": "tool", "id": "tool::@1", "jsonFile": "target-tool-Release.json"}
    ]}
  ]
}
-- .cmake/api/v1/reply/target-b-Debug.json --
{"name": "b", "id": "b::@1", "type": "STATIC_LIBRARY", "artifacts": [{"path": "libB.a"}]}
-- .cmake/api/v1/reply/target-a-Debug.json --
{
  "name": "a", "id": "a::@1", "type": "STATIC_LIBRARY",
  "artifacts": [{"path": "libA.a"}],
  "dependencies": [{"id": "b::@1", "backtrace": 0}],
  "link": {"commandFragments": [{"fragment": "libB.a", "role": "libraries", "backtrace": 0}]},
  "backtraceGraph": {
    "commands": ["target_link_libraries"],
    "files": ["CMakeLists.txt"],
    "nodes": [{"file": 0, "line": 5, "command": 0}]
  },
  "directLinks": ["bogus"]
}
-- .cmake/api/v1/reply/target-e-Debug.json --
{
  "name": "e", "id": "e::@1", "type": "EXECUTABLE",
  "artifacts": [{"path": "e"}],
  "dependencies": [{"id": "a::@1"}, {"id": "b::@1"}],
  "link": {"commandFragments": [
    {"fragment": "-O2", "role": "flags"},
    {"fragment": "libA.a", "role": "libraries", "backtrace": 0},
    {"fragment": "libB.a", "role": "libraries", "backtrace": 1}
  ]},
  "backtraceGraph": {
    "commands": ["target_link_libraries"],
    "files": ["CMakeLists.txt"],
    "nodes": [{"file": 0, "line": 12, "command": 0}, {"file": 0, "line": 5, "command": 0}]
  }
}
-- .cmake/api/v1/reply/target-b-Release.json --
{"name": "b", "id": "b::@1", "type": "STATIC_LIBRARY", "artifacts": [{"path": "Release/libB.a"}]}
-- .cmake/api/v1/reply/target-a-Release.json --
{"name": "a", "id": "a::@1", "type": "STATIC_LIBRARY", "artifacts": [{"path": "Release/libA.a"}]}
-- .cmake/api/v1/reply/target-e-Release.json --
{"name": "e", "id": "e::@1", "type": "EXECUTABLE", "artifacts": [{"path": "Release/e"}]}
-- .cmake/api/v1/reply/target-tool-Release.json --
{"name": "tool", "id": "tool::@1", "type": "UTILITY"}
`
