package backtrace

import "github.com/smith-xyz/linkgraph/pkg/models"

// SignatureSet is the set of chain signatures carried by one target's link-library fragments.
type SignatureSet map[string]struct{}

// Has reports whether sig is in the set
func (s SignatureSet) Has(sig string) bool {
	_, ok := s[sig]
	return ok
}

// LinkSignatures computes the chain signatures of every library fragment of target
// that carries a backtrace. Targets without link data or a backtrace graph yield an empty set.
func LinkSignatures(target *models.Target) SignatureSet {
	set := make(SignatureSet)
	if target == nil || target.BacktraceGraph == nil {
		return set
	}
	for _, fragment := range target.LinkFragments() {
		if !fragment.IsLibrary() {
			continue
		}
		if sig, ok := ResolveChainSignature(target.BacktraceGraph, *fragment.Backtrace); ok {
			set[sig] = struct{}{}
		}
	}
	return set
}

// SignatureIndex maps target id to that target's link signatures. It is built once per
// pass and only read afterwards.
type SignatureIndex map[string]SignatureSet

// BuildSignatureIndex computes LinkSignatures for every target.
func BuildSignatureIndex(targets []*models.Target) SignatureIndex {
	index := make(SignatureIndex, len(targets))
	for _, t := range targets {
		if t == nil {
			continue
		}
		if _, seen := index[t.ID]; seen {
			continue
		}
		index[t.ID] = LinkSignatures(t)
	}
	return index
}

// Union merges the signature sets of the given target ids. Unknown ids contribute nothing.
func (idx SignatureIndex) Union(ids []string) SignatureSet {
	union := make(SignatureSet)
	for _, id := range ids {
		for sig := range idx[id] {
			union[sig] = struct{}{}
		}
	}
	return union
}
