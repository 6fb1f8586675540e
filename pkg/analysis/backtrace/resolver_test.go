package backtrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smith-xyz/linkgraph/pkg/models"
)

func node(file, line int, command, parent *int) models.BacktraceNode {
	n := models.BacktraceNode{File: file, Command: command, Parent: parent}
	if line > 0 {
		n.Line = models.Index(line)
	}
	return n
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"CMakeLists.txt", "CMakeLists.txt"},
		{`src\lib\CMakeLists.txt`, "src/lib/CMakeLists.txt"},
		{`C:\proj\build\libB.lib`, "C:/proj/build/libB.lib"},
		{"/build/./lib/../libB.a", "/build/libB.a"},
		{"build//libB.a", "build/libB.a"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestResolveChainSignature(t *testing.T) {
	graph := &models.BacktraceGraph{
		Files:    []string{"CMakeLists.txt", `cmake\helpers.cmake`},
		Commands: []string{"add_library", "my_link_helper", "target_link_libraries"},
		Nodes: []models.BacktraceNode{
			node(0, 0, nil, nil),                          // 0: file root, no line
			node(0, 10, models.Index(1), models.Index(0)), // 1: helper call in CMakeLists.txt
			node(1, 3, models.Index(2), models.Index(1)),  // 2: target_link_libraries inside helper
			node(0, 7, models.Index(0), models.Index(0)),  // 3: add_library
			node(5, 4, models.Index(2), models.Index(0)),  // 4: unknown file index
			node(0, 9, models.Index(2), models.Index(99)), // 5: out of range parent
		},
	}

	tests := []struct {
		name  string
		index int
		want  string
		ok    bool
	}{
		{"full chain innermost first", 2, "cmake/helpers.cmake:3" + Delimiter + "CMakeLists.txt:10", true},
		{"single frame", 3, "CMakeLists.txt:7", true},
		{"root without line", 0, "", false},
		{"unknown file skipped", 4, "", false},
		{"out of range parent stops walk", 5, "CMakeLists.txt:9", true},
		{"out of range node", 42, "", false},
		{"negative node", -1, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveChainSignature(graph, tt.index)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveChainSignature_NilGraph(t *testing.T) {
	_, ok := ResolveChainSignature(nil, 0)
	assert.False(t, ok)
}

func TestResolveChainSignature_CycleTerminates(t *testing.T) {
	graph := &models.BacktraceGraph{
		Files: []string{"CMakeLists.txt"},
		Nodes: []models.BacktraceNode{
			node(0, 1, nil, models.Index(1)),
			node(0, 2, nil, models.Index(0)),
		},
	}

	sig, ok := ResolveChainSignature(graph, 0)
	require.True(t, ok)
	assert.Equal(t, "CMakeLists.txt:1"+Delimiter+"CMakeLists.txt:2", sig)
}

func TestResolveChainSignature_SeparatorsCompare(t *testing.T) {
	windows := &models.BacktraceGraph{
		Files: []string{`src\CMakeLists.txt`},
		Nodes: []models.BacktraceNode{node(0, 12, nil, nil)},
	}
	posix := &models.BacktraceGraph{
		Files: []string{"src/CMakeLists.txt"},
		Nodes: []models.BacktraceNode{node(0, 12, nil, nil)},
	}

	a, okA := ResolveChainSignature(windows, 0)
	b, okB := ResolveChainSignature(posix, 0)
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, a, b)
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "a.cmake:3 <- CMakeLists.txt:10", Display("a.cmake:3"+Delimiter+"CMakeLists.txt:10"))
}
