// Package generator runs classification passes over build-tool snapshots.
package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smith-xyz/linkgraph/pkg/analysis/linkage"
	"github.com/smith-xyz/linkgraph/pkg/config"
	"github.com/smith-xyz/linkgraph/pkg/loader"
	"github.com/smith-xyz/linkgraph/pkg/models"
	"github.com/smith-xyz/linkgraph/pkg/utils"
)

// Input selects where a snapshot comes from: a build directory holding structured-query
// replies, or a snapshot document on disk.
type Input struct {
	BuildDir     string
	SnapshotFile string
}

func (in Input) String() string {
	if in.SnapshotFile != "" {
		return in.SnapshotFile
	}
	return in.BuildDir
}

// Generator loads snapshots and annotates them with direct links
type Generator struct {
	logger          *slog.Logger
	config          *config.Config
	loader          *loader.Loader
	instrumentation *utils.Instrumentation
}

// NewGenerator creates a generator for cfg
func NewGenerator(logger *slog.Logger, cfg *config.Config) *Generator {
	return &Generator{
		logger: logger,
		config: cfg,
		loader: loader.NewLoader(logger, &loader.Config{
			ReplyDir:      cfg.Loader.ReplyDir,
			Configuration: cfg.Loader.Configuration,
			Jobs:          cfg.Loader.Jobs,
		}),
		instrumentation: utils.NewInstrumentation(logger),
	}
}

// Load reads a snapshot from input without classifying it.
func (g *Generator) Load(ctx context.Context, input Input) (*models.Snapshot, error) {
	switch {
	case input.SnapshotFile != "":
		return g.loader.LoadSnapshotFile(input.SnapshotFile)
	case input.BuildDir != "":
		return g.loader.LoadSnapshot(ctx, input.BuildDir)
	default:
		return nil, fmt.Errorf("no build directory or snapshot file given")
	}
}

// Digest identifies the snapshot input currently points at.
func (g *Generator) Digest(input Input) (string, error) {
	if input.SnapshotFile != "" {
		snapshot, err := g.loader.LoadSnapshotFile(input.SnapshotFile)
		if err != nil {
			return "", err
		}
		return snapshot.Digest, nil
	}
	return g.loader.Digest(input.BuildDir)
}

// Generate loads a snapshot and runs a full classification pass over it.
func (g *Generator) Generate(ctx context.Context, input Input) (*models.Snapshot, error) {
	tracker := g.instrumentation.NewPhaseTracker("linkgraph")

	tracker.StartPhase("load")
	snapshot, err := g.Load(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot from %s: %w", input, err)
	}

	tracker.StartPhase("classify")
	if err := g.Classify(ctx, snapshot); err != nil {
		return nil, err
	}

	tracker.Complete(len(snapshot.Targets))
	return snapshot, nil
}

// Classify writes DirectLinks on every target of snapshot.
func (g *Generator) Classify(ctx context.Context, snapshot *models.Snapshot) error {
	linkConfig, err := g.linkageConfig(snapshot)
	if err != nil {
		return err
	}
	return g.instrumentation.TimedOperation("classify", func() error {
		_, err := linkage.Annotate(ctx, g.logger, linkConfig, snapshot.Targets)
		return err
	})
}

// Explain returns the per-fragment decisions for every target of snapshot.
func (g *Generator) Explain(snapshot *models.Snapshot) ([]models.Explanation, error) {
	linkConfig, err := g.linkageConfig(snapshot)
	if err != nil {
		return nil, err
	}
	return linkage.ExplainAll(g.logger, linkConfig, snapshot.Targets), nil
}

// linkageConfig applies project overrides from the snapshot's source directory.
func (g *Generator) linkageConfig(snapshot *models.Snapshot) (*linkage.Config, error) {
	project, err := config.NewProjectConfig(g.config, snapshot.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}
	if project.Applied != "" {
		g.logger.Debug("Applied project config", "path", project.Applied)
	}
	return &linkage.Config{
		LinkCommands:      project.Classification.LinkCommands,
		ExtraLinkCommands: project.Classification.ExtraLinkCommands,
		Jobs:              project.Classification.Jobs,
	}, nil
}
