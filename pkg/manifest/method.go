package manifest

// Method names one of the recognized installation techniques. The set is
// closed: the loader rejects manifests naming anything else, so dispatch
// tables over Method never see an unknown value.
type Method string

const (
	MethodBrew        Method = "brew"
	MethodCask        Method = "cask"
	MethodApt         Method = "apt"
	MethodDnf         Method = "dnf"
	MethodUvTool      Method = "uv_tool"
	MethodCargo       Method = "cargo"
	MethodGoTool      Method = "go_tool"
	MethodSnap        Method = "snap"
	MethodFlatpak     Method = "flatpak"
	MethodYay         Method = "yay"
	MethodGhExtension Method = "gh_extension"
	MethodEget        Method = "eget"
	MethodManual      Method = "manual"
)

// SystemMethods are the batchable methods, in priority order. Multiple
// packages sharing one of these can be installed in a single invocation.
var SystemMethods = []Method{MethodBrew, MethodCask, MethodApt, MethodDnf}

// SecondaryMethods are the one-invocation-per-package methods, in priority
// order
var SecondaryMethods = []Method{
	MethodUvTool,
	MethodCargo,
	MethodGoTool,
	MethodSnap,
	MethodFlatpak,
	MethodYay,
	MethodGhExtension,
	MethodEget,
	MethodManual,
}

// AllMethods is the full priority order: the system block first, then the
// secondary block. The first method present in a target config wins; later
// methods are never attempted, even when the first one fails.
var AllMethods = append(append([]Method{}, SystemMethods...), SecondaryMethods...)

var knownMethods = func() map[Method]bool {
	m := make(map[Method]bool, len(AllMethods))
	for _, method := range AllMethods {
		m[method] = true
	}
	return m
}()

// IsKnown reports whether m is one of the recognized methods
func (m Method) IsKnown() bool {
	return knownMethods[m]
}

// IsSystem reports whether m belongs to the batchable system block
func (m Method) IsSystem() bool {
	switch m {
	case MethodBrew, MethodCask, MethodApt, MethodDnf:
		return true
	}
	return false
}
