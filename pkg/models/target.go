package models

// TargetType is the kind of buildable unit reported by the build tool.
type TargetType string

const (
	TargetExecutable       TargetType = "EXECUTABLE"
	TargetStaticLibrary    TargetType = "STATIC_LIBRARY"
	TargetSharedLibrary    TargetType = "SHARED_LIBRARY"
	TargetModuleLibrary    TargetType = "MODULE_LIBRARY"
	TargetObjectLibrary    TargetType = "OBJECT_LIBRARY"
	TargetInterfaceLibrary TargetType = "INTERFACE_LIBRARY"
	TargetUtility          TargetType = "UTILITY"
)

// FragmentRole says what a link command fragment contributes to the linker command line.
type FragmentRole string

const (
	RoleFlags         FragmentRole = "flags"
	RoleLibraries     FragmentRole = "libraries"
	RoleLibraryPath   FragmentRole = "libraryPath"
	RoleFrameworkPath FragmentRole = "frameworkPath"
)

// Target represents one compiled target from the build tool's codemodel
type Target struct {
	ID             string          `json:"id" msgpack:"id"`
	Name           string          `json:"name" msgpack:"name"`
	Type           TargetType      `json:"type" msgpack:"type"`
	NameOnDisk     string          `json:"nameOnDisk,omitempty" msgpack:"nameOnDisk,omitempty"`
	Backtrace      *int            `json:"backtrace,omitempty" msgpack:"backtrace,omitempty"`
	Paths          *TargetPaths    `json:"paths,omitempty" msgpack:"paths,omitempty"`
	Artifacts      []Artifact      `json:"artifacts,omitempty" msgpack:"artifacts,omitempty"`
	Dependencies   []Dependency    `json:"dependencies,omitempty" msgpack:"dependencies,omitempty"`
	Link           *Link           `json:"link,omitempty" msgpack:"link,omitempty"`
	BacktraceGraph *BacktraceGraph `json:"backtraceGraph,omitempty" msgpack:"backtraceGraph,omitempty"`

	// DirectLinks is computed by the classification pass; it is the only field written after loading.
	DirectLinks []string `json:"directLinks" msgpack:"directLinks"`
}

// TargetPaths holds the target's source and build directories, relative to the top-level ones.
type TargetPaths struct {
	Source string `json:"source" msgpack:"source"`
	Build  string `json:"build" msgpack:"build"`
}

// Artifact is one output file produced by a target
type Artifact struct {
	Path string `json:"path" msgpack:"path"`
}

// Dependency is one edge of the flattened (transitive) dependency list.
type Dependency struct {
	ID        string `json:"id" msgpack:"id"`
	Backtrace *int   `json:"backtrace,omitempty" msgpack:"backtrace,omitempty"`
}

// Link describes the linker invocation for a target
type Link struct {
	Language         string            `json:"language,omitempty" msgpack:"language,omitempty"`
	CommandFragments []CommandFragment `json:"commandFragments,omitempty" msgpack:"commandFragments,omitempty"`
	LTO              bool              `json:"lto,omitempty" msgpack:"lto,omitempty"`
}

// CommandFragment is a single linker command line token.
type CommandFragment struct {
	Fragment  string       `json:"fragment" msgpack:"fragment"`
	Role      FragmentRole `json:"role" msgpack:"role"`
	Backtrace *int         `json:"backtrace,omitempty" msgpack:"backtrace,omitempty"`
}

// IsLibrary reports whether the fragment names a library to link and carries provenance.
func (f CommandFragment) IsLibrary() bool {
	return f.Role == RoleLibraries && f.Backtrace != nil
}

// LinkFragments returns the target's link command fragments, or nil when the target does not link.
func (t *Target) LinkFragments() []CommandFragment {
	if t == nil || t.Link == nil {
		return nil
	}
	return t.Link.CommandFragments
}

// DependsOn reports whether id appears in the target's flattened dependency list
func (t *Target) DependsOn(id string) bool {
	for _, dep := range t.Dependencies {
		if dep.ID == id {
			return true
		}
	}
	return false
}

// Index returns a pointer to an int, for building optional wire indices.
func Index(i int) *int {
	return &i
}
