package loader

import (
	"fmt"
	"os"
	"path/filepath"
)

// QueryDir is where stateless queries are placed, relative to the build directory.
const QueryDir = ".cmake/api/v1/query"

// WriteQuery requests a codemodel reply on the next configure of buildDir by creating an
// empty stateless query file. It returns the query file path. Existing files are left alone.
func WriteQuery(buildDir string) (string, error) {
	dir := filepath.Join(buildDir, QueryDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create query directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, "codemodel-v2")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600) // #nosec G304 - fixed name under buildDir
	if err != nil {
		return "", fmt.Errorf("failed to create query file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close query file %s: %w", path, err)
	}
	return path, nil
}
