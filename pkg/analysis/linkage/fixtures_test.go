package linkage

import "github.com/smith-xyz/linkgraph/pkg/models"

// graphBuilder assembles a backtrace graph for one target in tests.
type graphBuilder struct {
	graph *models.BacktraceGraph
}

func newGraph(commands ...string) *graphBuilder {
	return &graphBuilder{graph: &models.BacktraceGraph{Commands: commands}}
}

func (b *graphBuilder) file(path string) int {
	for i, f := range b.graph.Files {
		if f == path {
			return i
		}
	}
	b.graph.Files = append(b.graph.Files, path)
	return len(b.graph.Files) - 1
}

// frame appends a node and returns its index. parent < 0 means a chain root.
func (b *graphBuilder) frame(path string, line int, command string, parent int) int {
	n := models.BacktraceNode{File: b.file(path), Line: models.Index(line)}
	for i, c := range b.graph.Commands {
		if c == command {
			n.Command = models.Index(i)
		}
	}
	if parent >= 0 {
		n.Parent = models.Index(parent)
	}
	b.graph.Nodes = append(b.graph.Nodes, n)
	return len(b.graph.Nodes) - 1
}

func lib(fragment string, node int) models.CommandFragment {
	return models.CommandFragment{Fragment: fragment, Role: models.RoleLibraries, Backtrace: models.Index(node)}
}

func deps(ids ...string) []models.Dependency {
	out := make([]models.Dependency, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Dependency{ID: id})
	}
	return out
}

func newTarget(id string, typ models.TargetType, artifact string) *models.Target {
	t := &models.Target{ID: id, Name: id, Type: typ}
	if artifact != "" {
		t.Artifacts = []models.Artifact{{Path: artifact}}
	}
	return t
}

// endToEndTargets is the three-target scenario: e links a directly, and b reaches e
// through a's own link declaration.
func endToEndTargets() []*models.Target {
	b := newTarget("b", models.TargetStaticLibrary, "/build/libB.a")

	a := newTarget("a", models.TargetStaticLibrary, "/build/libA.a")
	a.Dependencies = deps("b")
	ag := newGraph("target_link_libraries")
	n0 := ag.frame("CMakeLists.txt", 5, "target_link_libraries", -1)
	a.BacktraceGraph = ag.graph
	a.Link = &models.Link{CommandFragments: []models.CommandFragment{lib("/build/libB.a", n0)}}

	e := newTarget("e", models.TargetExecutable, "/build/e")
	e.Dependencies = deps("a", "b")
	eg := newGraph("target_link_libraries")
	e0 := eg.frame("CMakeLists.txt", 12, "target_link_libraries", -1)
	e1 := eg.frame("CMakeLists.txt", 5, "target_link_libraries", -1)
	e.BacktraceGraph = eg.graph
	e.Link = &models.Link{CommandFragments: []models.CommandFragment{lib("/build/libA.a", e0), lib("/build/libB.a", e1)}}

	return []*models.Target{b, a, e}
}

// wrapperTargets has app depending on core and util. Both core and app call the shared
// helper link_with, which issues target_link_libraries at helpers.cmake:3.
func wrapperTargets() []*models.Target {
	util := newTarget("util", models.TargetStaticLibrary, "/build/libutil.a")

	core := newTarget("core", models.TargetStaticLibrary, "/build/libcore.a")
	core.Dependencies = deps("util")
	cg := newGraph("add_library", "link_with", "target_link_libraries")
	cCall := cg.frame("CMakeLists.txt", 10, "link_with", -1)
	cDecl := cg.frame("cmake/helpers.cmake", 3, "target_link_libraries", cCall)
	core.BacktraceGraph = cg.graph
	core.Link = &models.Link{CommandFragments: []models.CommandFragment{lib("libutil.a", cDecl)}}

	app := newTarget("app", models.TargetExecutable, "/build/app")
	app.Dependencies = deps("core", "util")
	ag := newGraph("add_executable", "link_with", "target_link_libraries")
	aCall := ag.frame("CMakeLists.txt", 20, "link_with", -1)
	aDecl := ag.frame("cmake/helpers.cmake", 3, "target_link_libraries", aCall)
	// util arrives through core's declaration, carrying core's chain
	uCall := ag.frame("CMakeLists.txt", 10, "link_with", -1)
	uDecl := ag.frame("cmake/helpers.cmake", 3, "target_link_libraries", uCall)
	app.BacktraceGraph = ag.graph
	app.Link = &models.Link{CommandFragments: []models.CommandFragment{
		{Fragment: "-Wl,--as-needed", Role: models.RoleFlags},
		lib("libcore.a", aDecl),
		lib("libutil.a", uDecl),
	}}

	return []*models.Target{util, core, app}
}
