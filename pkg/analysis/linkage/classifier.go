// Package linkage decides which dependency edges of a target were declared at the
// target's own link declaration and which were inherited from its dependencies.
package linkage

import (
	"log/slog"
	"strings"

	"github.com/smith-xyz/linkgraph/pkg/analysis/artifact"
	"github.com/smith-xyz/linkgraph/pkg/analysis/backtrace"
	"github.com/smith-xyz/linkgraph/pkg/models"
)

// DefaultLinkCommand is the canonical link declaration. Any command whose name contains it
// (wrapper macros and functions included) counts as a link declaration.
const DefaultLinkCommand = "target_link_libraries"

// Config holds configuration for link classification
type Config struct {
	LinkCommands      []string // substrings identifying link declaration commands
	ExtraLinkCommands []string // exact names of wrappers that do not contain a link command token
	Jobs              int      // targets classified concurrently by Annotate; <= 1 means sequential
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{LinkCommands: []string{DefaultLinkCommand}}
}

// Classifier classifies the link fragments of targets from one snapshot. It holds only
// read-only indexes built at construction, so its methods are safe for concurrent use.
type Classifier struct {
	logger     *slog.Logger
	config     *Config
	signatures backtrace.SignatureIndex
	artifacts  *artifact.Index
}

// NewClassifier builds the signature and artifact indexes for targets.
func NewClassifier(logger *slog.Logger, config *Config, targets []*models.Target) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil {
		config = DefaultConfig()
	}
	c := &Classifier{
		logger:     logger,
		config:     config,
		signatures: backtrace.BuildSignatureIndex(targets),
		artifacts:  artifact.NewIndex(targets),
	}
	logger.Debug("Built classification indexes", "targets", len(targets), "artifacts", c.artifacts.Len())
	return c
}

// Signatures returns the per-target signature index.
func (c *Classifier) Signatures() backtrace.SignatureIndex {
	return c.signatures
}

// Classify returns the ids of the target's direct links in first-seen order.
func (c *Classifier) Classify(target *models.Target) []string {
	links := []string{}
	for _, d := range c.Explain(target).Decisions {
		if d.Kind == models.DecisionDirect {
			links = append(links, d.TargetID)
		}
	}
	return links
}

// Explain records the decision taken for every link fragment of target.
func (c *Classifier) Explain(target *models.Target) models.Explanation {
	explanation := models.Explanation{Decisions: []models.Decision{}}
	if target == nil {
		return explanation
	}
	explanation.TargetID = target.ID
	explanation.Name = target.Name

	fragments := target.LinkFragments()
	if len(fragments) == 0 {
		return explanation
	}

	graph := target.BacktraceGraph
	declarations := c.linkCommandIndices(graph)
	depSigs := c.signatures.Union(dependencyIDs(target))
	emitted := make(map[string]bool)

	for _, fragment := range fragments {
		d := models.Decision{Fragment: fragment.Fragment, Role: fragment.Role}
		switch {
		case fragment.Role != models.RoleLibraries:
			d.Kind = models.DecisionNonLibrary
		case fragment.Backtrace == nil || graph == nil:
			d.Kind = models.DecisionNoBacktrace
		default:
			c.classifyFragment(target, fragment, declarations, depSigs, emitted, &d)
		}
		explanation.Decisions = append(explanation.Decisions, d)
	}
	return explanation
}

func (c *Classifier) classifyFragment(target *models.Target, fragment models.CommandFragment, declarations map[int]bool, depSigs backtrace.SignatureSet, emitted map[string]bool, d *models.Decision) {
	graph := target.BacktraceGraph
	node, ok := graph.Node(*fragment.Backtrace)
	if !ok {
		d.Kind = models.DecisionNoBacktrace
		return
	}
	if node.Command == nil || !declarations[*node.Command] {
		d.Kind = models.DecisionNotDeclared
		c.logger.Debug("Fragment not declared by a link command", "target", target.Name, "fragment", fragment.Fragment, "command", graph.CommandName(node))
		return
	}

	sig, resolved := backtrace.ResolveChainSignature(graph, *fragment.Backtrace)
	if resolved {
		d.Signature = sig
		if depSigs.Has(sig) {
			d.Kind = models.DecisionTransitive
			return
		}
	}
	// an unresolved signature is never treated as transitive

	id, found := c.artifacts.Resolve(fragment.Fragment, target.ID)
	switch {
	case !found:
		if own, isOwn := c.artifacts.Resolve(fragment.Fragment, ""); isOwn && own == target.ID {
			d.Kind = models.DecisionSelf
		} else {
			d.Kind = models.DecisionExternal
		}
	case !target.DependsOn(id):
		d.Kind = models.DecisionExternal
		c.logger.Debug("Fragment resolved outside dependency list", "target", target.Name, "fragment", fragment.Fragment, "resolved", id)
	case emitted[id]:
		d.Kind = models.DecisionDuplicate
		d.TargetID = id
	default:
		d.Kind = models.DecisionDirect
		d.TargetID = id
		emitted[id] = true
	}
}

// linkCommandIndices returns the command indices of graph that declare links.
func (c *Classifier) linkCommandIndices(graph *models.BacktraceGraph) map[int]bool {
	indices := make(map[int]bool)
	if graph == nil {
		return indices
	}
	for i, name := range graph.Commands {
		if c.IsLinkCommand(name) {
			indices[i] = true
		}
	}
	return indices
}

// IsLinkCommand reports whether a backtrace command name is a link declaration.
func (c *Classifier) IsLinkCommand(name string) bool {
	lower := strings.ToLower(name)
	for _, token := range c.config.LinkCommands {
		if token != "" && strings.Contains(lower, strings.ToLower(token)) {
			return true
		}
	}
	for _, extra := range c.config.ExtraLinkCommands {
		if strings.EqualFold(name, extra) {
			return true
		}
	}
	return false
}

func dependencyIDs(target *models.Target) []string {
	ids := make([]string, 0, len(target.Dependencies))
	for _, dep := range target.Dependencies {
		if dep.ID != target.ID {
			ids = append(ids, dep.ID)
		}
	}
	return ids
}
