// Package artifact maps raw linker tokens back to the targets that produce them.
package artifact

import (
	"path"
	"strings"

	"github.com/smith-xyz/linkgraph/pkg/analysis/backtrace"
	"github.com/smith-xyz/linkgraph/pkg/models"
)

type entry struct {
	path     string
	targetID string
}

// Index maps normalized artifact output paths to their owning target ids.
// It is built once per pass and is safe for concurrent reads.
type Index struct {
	entries []entry
	exact   map[string]string
}

// NewIndex builds an index over every artifact of every target. Entries keep target
// order then artifact order, which fixes tie-breaking for suffix and basename matches.
func NewIndex(targets []*models.Target) *Index {
	idx := &Index{exact: make(map[string]string)}
	for _, t := range targets {
		if t == nil {
			continue
		}
		for _, a := range t.Artifacts {
			p := backtrace.NormalizePath(a.Path)
			if p == "" || p == "." {
				continue
			}
			idx.entries = append(idx.entries, entry{path: p, targetID: t.ID})
			if _, taken := idx.exact[p]; !taken {
				idx.exact[p] = t.ID
			}
		}
	}
	return idx
}

// Len returns the number of indexed artifact paths.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Resolve maps a linker fragment to the id of the target producing it. Matching tries exact
// path equality, then a path-suffix match in either direction, then the basename alone, and
// stops at the first stage with any match. Artifacts owned by selfID are never returned, so a
// fragment naming only the target's own output resolves to nothing. ok is false for system or
// external libraries.
func (idx *Index) Resolve(fragment, selfID string) (targetID string, ok bool) {
	p := backtrace.NormalizePath(unquote(fragment))
	if p == "" || p == "." {
		return "", false
	}

	if id, found := idx.exact[p]; found && id != selfID {
		return id, true
	}

	base := path.Base(p)
	stages := []func(e entry) bool{
		func(e entry) bool { return e.path == p },
		func(e entry) bool {
			return strings.HasSuffix(e.path, "/"+p) || strings.HasSuffix(p, "/"+e.path)
		},
		func(e entry) bool { return path.Base(e.path) == base },
	}

	for _, matches := range stages {
		if id, matched := idx.firstMatch(matches, selfID); matched {
			return id, id != ""
		}
	}
	return "", false
}

// firstMatch returns the first owner other than selfID among matching entries. matched
// reports whether any entry matched at all, including one owned by selfID.
func (idx *Index) firstMatch(matches func(entry) bool, selfID string) (id string, matched bool) {
	for _, e := range idx.entries {
		if !matches(e) {
			continue
		}
		matched = true
		if e.targetID != selfID {
			return e.targetID, true
		}
	}
	return "", matched
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
