package models

// BacktraceGraph is the provenance forest attached to a target. Nodes reference
// files and commands by index and their calling context by parent index.
type BacktraceGraph struct {
	Nodes    []BacktraceNode `json:"nodes" msgpack:"nodes"`
	Commands []string        `json:"commands" msgpack:"commands"`
	Files    []string        `json:"files" msgpack:"files"`
}

// BacktraceNode is one frame of a declaration's call stack. A node without a parent is a chain root.
type BacktraceNode struct {
	File    int  `json:"file" msgpack:"file"`
	Line    *int `json:"line,omitempty" msgpack:"line,omitempty"`
	Command *int `json:"command,omitempty" msgpack:"command,omitempty"`
	Parent  *int `json:"parent,omitempty" msgpack:"parent,omitempty"`
}

// Node returns the node at index i and whether it exists.
func (g *BacktraceGraph) Node(i int) (BacktraceNode, bool) {
	if g == nil || i < 0 || i >= len(g.Nodes) {
		return BacktraceNode{}, false
	}
	return g.Nodes[i], true
}

// File returns the file path at index i and whether it exists.
func (g *BacktraceGraph) File(i int) (string, bool) {
	if g == nil || i < 0 || i >= len(g.Files) {
		return "", false
	}
	return g.Files[i], true
}

// CommandName returns the name of the command invoked at node n, or "" if it has none.
func (g *BacktraceGraph) CommandName(n BacktraceNode) string {
	if g == nil || n.Command == nil {
		return ""
	}
	if *n.Command < 0 || *n.Command >= len(g.Commands) {
		return ""
	}
	return g.Commands[*n.Command]
}
