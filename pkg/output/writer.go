// Package output renders annotated snapshots for people and for other tools.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/smith-xyz/linkgraph/pkg/analysis/backtrace"
	"github.com/smith-xyz/linkgraph/pkg/models"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
	FormatTree    = "tree"
)

// Writer writes snapshots and explanations in one format.
type Writer struct {
	out    io.Writer
	format string

	target   *color.Color
	kind     *color.Color
	link     *color.Color
	external *color.Color
	muted    *color.Color
}

// NewWriter creates a writer. colorMode is "on", "off" or "auto"; auto leaves the
// decision to terminal detection.
func NewWriter(out io.Writer, format, colorMode string) *Writer {
	w := &Writer{
		out:      out,
		format:   format,
		target:   color.New(color.FgCyan, color.Bold),
		kind:     color.New(color.FgYellow),
		link:     color.New(color.FgGreen),
		external: color.New(color.FgRed),
		muted:    color.New(color.Faint),
	}
	for _, c := range []*color.Color{w.target, w.kind, w.link, w.external, w.muted} {
		switch colorMode {
		case "on":
			c.EnableColor()
		case "off":
			c.DisableColor()
		}
	}
	return w
}

// WriteSnapshot writes the annotated graph.
func (w *Writer) WriteSnapshot(snapshot *models.Snapshot) error {
	switch w.format {
	case FormatJSON:
		return w.writeJSON(snapshot)
	case FormatMsgpack:
		return w.writeMsgpack(snapshot)
	case FormatTree:
		return w.writeTree(snapshot)
	default:
		return fmt.Errorf("unsupported output format %q", w.format)
	}
}

// WriteExplanations writes the per-fragment decisions behind each target's direct links.
func (w *Writer) WriteExplanations(snapshot *models.Snapshot, explanations []models.Explanation) error {
	switch w.format {
	case FormatJSON:
		return w.writeJSON(explanations)
	case FormatMsgpack:
		return w.writeMsgpack(explanations)
	case FormatTree:
		return w.writeExplanationText(snapshot, explanations)
	default:
		return fmt.Errorf("unsupported output format %q", w.format)
	}
}

func (w *Writer) writeJSON(v any) error {
	encoder := json.NewEncoder(w.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func (w *Writer) writeMsgpack(v any) error {
	if err := msgpack.NewEncoder(w.out).Encode(v); err != nil {
		return fmt.Errorf("failed to write msgpack: %w", err)
	}
	return nil
}

// writeTree writes one block per target, sorted by name, listing its direct links.
func (w *Writer) writeTree(snapshot *models.Snapshot) error {
	names := snapshot.TargetNames()
	targets := append([]*models.Target(nil), snapshot.Targets...)
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })

	for _, t := range targets {
		if _, err := fmt.Fprintf(w.out, "%s %s %s\n",
			w.target.Sprint(t.Name),
			w.kind.Sprintf("[%s]", t.Type),
			w.muted.Sprintf("(%d dependencies, %d direct)", len(t.Dependencies), len(t.DirectLinks))); err != nil {
			return fmt.Errorf("failed to write tree: %w", err)
		}
		for i, id := range t.DirectLinks {
			branch := "├─"
			if i == len(t.DirectLinks)-1 {
				branch = "└─"
			}
			name, ok := names[id]
			if !ok {
				name = id
			}
			if _, err := fmt.Fprintf(w.out, "  %s %s\n", branch, w.link.Sprint(name)); err != nil {
				return fmt.Errorf("failed to write tree: %w", err)
			}
		}
	}
	return nil
}

func (w *Writer) writeExplanationText(snapshot *models.Snapshot, explanations []models.Explanation) error {
	names := snapshot.TargetNames()
	for _, ex := range explanations {
		if len(ex.Decisions) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w.out, w.target.Sprint(ex.Name)); err != nil {
			return fmt.Errorf("failed to write explanation: %w", err)
		}
		for _, d := range ex.Decisions {
			line := fmt.Sprintf("  %-12s %s", d.Kind, d.Fragment)
			switch d.Kind {
			case models.DecisionDirect, models.DecisionDuplicate:
				line = w.link.Sprint(line) + " -> " + names[d.TargetID]
			case models.DecisionExternal:
				line = w.external.Sprint(line)
			case models.DecisionTransitive:
			default:
				line = w.muted.Sprint(line)
			}
			if d.Signature != "" {
				line += w.muted.Sprintf("  (%s)", backtrace.Display(d.Signature))
			}
			if _, err := fmt.Fprintln(w.out, line); err != nil {
				return fmt.Errorf("failed to write explanation: %w", err)
			}
		}
	}
	return nil
}
