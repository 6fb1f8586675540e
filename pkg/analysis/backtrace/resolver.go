// Package backtrace turns nodes of a target's provenance forest into chain
// signatures that can be compared across targets.
package backtrace

import (
	"path"
	"strconv"
	"strings"

	"github.com/smith-xyz/linkgraph/pkg/models"
)

// Delimiter separates frames of a chain signature. It cannot occur in a path or a line number.
const Delimiter = "\x00"

// NormalizePath makes paths from different platforms comparable: backslashes become
// forward slashes and redundant elements are removed.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, `\`, "/")
	return path.Clean(p)
}

// ResolveChainSignature walks from nodeIndex to the root of its chain and returns the
// "file:line" frames joined by Delimiter, innermost frame first. Frames without a line
// or with an unknown file are skipped. ok is false when no frame qualifies.
func ResolveChainSignature(graph *models.BacktraceGraph, nodeIndex int) (signature string, ok bool) {
	if graph == nil {
		return "", false
	}

	var frames []string
	current := nodeIndex
	// bounded by the node count so a malformed parent cycle still terminates
	for steps := 0; steps < len(graph.Nodes); steps++ {
		node, exists := graph.Node(current)
		if !exists {
			break
		}
		if node.Line != nil {
			if file, found := graph.File(node.File); found {
				frames = append(frames, NormalizePath(file)+":"+strconv.Itoa(*node.Line))
			}
		}
		if node.Parent == nil {
			break
		}
		current = *node.Parent
	}

	if len(frames) == 0 {
		return "", false
	}
	return strings.Join(frames, Delimiter), true
}

// Display renders a signature for humans, innermost frame first.
func Display(signature string) string {
	return strings.ReplaceAll(signature, Delimiter, " <- ")
}
