package linkage

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/smith-xyz/linkgraph/pkg/models"
)

// Annotate classifies every target and writes the result to its DirectLinks field.
// All targets are classified before any is written, so a cancelled pass leaves the
// graph untouched. The returned slice is the same one that was passed in.
func Annotate(ctx context.Context, logger *slog.Logger, config *Config, targets []*models.Target) ([]*models.Target, error) {
	if config == nil {
		config = DefaultConfig()
	}
	classifier := NewClassifier(logger, config, targets)

	results := make([][]string, len(targets))
	if config.Jobs > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(config.Jobs, max(len(targets), 1)))
		for i, t := range targets {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = classifier.Classify(t)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, t := range targets {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = classifier.Classify(t)
		}
	}

	direct := 0
	for i, t := range targets {
		if t == nil {
			continue
		}
		t.DirectLinks = results[i]
		direct += len(results[i])
	}
	classifier.logger.Debug("Annotated targets", "targets", len(targets), "direct_links", direct)
	return targets, nil
}

// ExplainAll returns the per-fragment decisions for every target, in target order.
func ExplainAll(logger *slog.Logger, config *Config, targets []*models.Target) []models.Explanation {
	classifier := NewClassifier(logger, config, targets)
	explanations := make([]models.Explanation, 0, len(targets))
	for _, t := range targets {
		if t == nil {
			continue
		}
		explanations = append(explanations, classifier.Explain(t))
	}
	return explanations
}
