// Package loader reads build-tool structured-query replies into a models.Snapshot.
package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/smith-xyz/linkgraph/pkg/models"
)

// DefaultReplyDir is where the build tool writes replies, relative to the build directory.
const DefaultReplyDir = ".cmake/api/v1/reply"

// Config holds loader settings
type Config struct {
	ReplyDir      string // reply directory relative to the build directory
	Configuration string // keep only this configuration when set (case-insensitive)
	Jobs          int    // target files read concurrently
}

// Loader handles loading snapshots from reply directories and snapshot files.
type Loader struct {
	logger *slog.Logger
	config *Config
}

// NewLoader creates a new loader
func NewLoader(logger *slog.Logger, config *Config) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil {
		config = &Config{}
	}
	if config.ReplyDir == "" {
		config.ReplyDir = DefaultReplyDir
	}
	if config.Jobs <= 0 {
		config.Jobs = 1
	}
	return &Loader{logger: logger, config: config}
}

// LoadSnapshot reads the newest reply under buildDir. Targets that recur across
// configurations are kept once, at their first occurrence.
func (l *Loader) LoadSnapshot(ctx context.Context, buildDir string) (*models.Snapshot, error) {
	replyDir := l.config.ReplyDir
	if !filepath.IsAbs(replyDir) {
		replyDir = filepath.Join(buildDir, replyDir)
	}

	indexPath, err := FindLatestIndex(replyDir)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Using reply index", "path", indexPath)

	var index ReplyIndex
	indexData, err := readJSON(indexPath, &index)
	if err != nil {
		return nil, err
	}
	if !index.ToolVersionSupported() {
		l.logger.Warn("Build tool may be too old to report backtraces", "version", index.Tool.Version.String)
	}

	ref, err := index.CodemodelRef()
	if err != nil {
		return nil, fmt.Errorf("failed to locate codemodel in %s: %w", indexPath, err)
	}

	var codemodel Codemodel
	if _, err := readJSON(filepath.Join(replyDir, ref.JSONFile), &codemodel); err != nil {
		return nil, err
	}

	refs, configurations, err := l.selectTargets(codemodel)
	if err != nil {
		return nil, err
	}

	targets, err := l.loadTargets(ctx, replyDir, refs)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(indexData)
	snapshot := &models.Snapshot{
		SourceDir:      codemodel.Paths.Source,
		BuildDir:       codemodel.Paths.Build,
		Generator:      index.Tool.Generator.Name,
		Configurations: configurations,
		Digest:         hex.EncodeToString(sum[:]),
		Targets:        targets,
	}
	if snapshot.BuildDir == "" {
		snapshot.BuildDir = buildDir
	}
	l.logger.Debug("Loaded snapshot", "targets", len(targets), "configurations", configurations, "digest", snapshot.Digest[:12])
	return snapshot, nil
}

// selectTargets flattens the configurations into target references, first occurrence wins.
func (l *Loader) selectTargets(codemodel Codemodel) ([]TargetRef, []string, error) {
	var (
		refs           []TargetRef
		configurations []string
		seen           = make(map[string]bool)
	)
	for _, cfg := range codemodel.Configurations {
		if l.config.Configuration != "" && !strings.EqualFold(cfg.Name, l.config.Configuration) {
			continue
		}
		configurations = append(configurations, cfg.Name)
		for _, ref := range cfg.Targets {
			if seen[ref.ID] {
				l.logger.Debug("Skipping duplicate target", "id", ref.ID, "configuration", cfg.Name)
				continue
			}
			seen[ref.ID] = true
			refs = append(refs, ref)
		}
	}
	if l.config.Configuration != "" && len(configurations) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoConfiguration, l.config.Configuration)
	}
	return refs, configurations, nil
}

// loadTargets reads target files concurrently and returns them in reference order.
func (l *Loader) loadTargets(ctx context.Context, replyDir string, refs []TargetRef) ([]*models.Target, error) {
	targets := make([]*models.Target, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.config.Jobs)
	for i, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			target, err := l.LoadFromFile(filepath.Join(replyDir, ref.JSONFile))
			if err != nil {
				return fmt.Errorf("failed to load target %s: %w", ref.Name, err)
			}
			if target.ID == "" {
				target.ID = ref.ID
			}
			targets[i] = target
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return targets, nil
}

// LoadFromFile loads one target file
func (l *Loader) LoadFromFile(filePath string) (*models.Target, error) {
	file, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open target file %s: %w", filePath, err)
	}
	defer file.Close()

	return l.LoadFromReader(file)
}

// LoadFromReader decodes one target object.
func (l *Loader) LoadFromReader(reader io.Reader) (*models.Target, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read target data: %w", err)
	}

	var target models.Target
	if err := json.Unmarshal(data, &target); err != nil {
		return nil, fmt.Errorf("failed to parse target JSON: %w", err)
	}
	if target.Name == "" {
		return nil, fmt.Errorf("target is missing required field %q", "name")
	}
	// directLinks is computed, never trusted from input
	target.DirectLinks = nil
	return &target, nil
}

// LoadSnapshotFile loads a snapshot document such as one previously written by the json
// output. Targets with duplicate ids are dropped after their first occurrence.
func (l *Loader) LoadSnapshotFile(filePath string) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	data, err := readJSON(filePath, &snapshot)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(snapshot.Targets))
	targets := snapshot.Targets[:0]
	for _, t := range snapshot.Targets {
		if t == nil {
			continue
		}
		if t.ID == "" {
			return nil, fmt.Errorf("target %q in %s is missing required field %q", t.Name, filePath, "id")
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		t.DirectLinks = nil
		targets = append(targets, t)
	}
	snapshot.Targets = targets

	if snapshot.Digest == "" {
		sum := sha256.Sum256(data)
		snapshot.Digest = hex.EncodeToString(sum[:])
	}
	l.logger.Debug("Loaded snapshot file", "path", filePath, "targets", len(targets))
	return &snapshot, nil
}

// Digest hashes the newest reply index under buildDir without loading the snapshot.
// It changes exactly when the build tool writes a new reply.
func (l *Loader) Digest(buildDir string) (string, error) {
	replyDir := l.config.ReplyDir
	if !filepath.IsAbs(replyDir) {
		replyDir = filepath.Join(buildDir, replyDir)
	}
	indexPath, err := FindLatestIndex(replyDir)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Clean(indexPath))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", indexPath, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
