package state

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rig/pkg/execx"
	"github.com/arthur-debert/rig/pkg/expand"
	"github.com/arthur-debert/rig/pkg/logging"
	"github.com/arthur-debert/rig/pkg/manifest"
)

// Oracle determines whether a package is already present, using one cached
// bulk listing per method. A missing external tool is simply "not
// installed"; the oracle never fails.
type Oracle struct {
	runner  execx.Runner
	cache   *Cache
	appDirs []string
	expand  func(string) string
}

// Option configures an Oracle
type Option func(*Oracle)

// WithAppDirs overrides the application bundle directories cross-referenced
// by the cask checker
func WithAppDirs(dirs []string) Option {
	return func(o *Oracle) { o.appDirs = dirs }
}

// WithExpander overrides path expansion for manual-install checks
func WithExpander(fn func(string) string) Option {
	return func(o *Oracle) { o.expand = fn }
}

// NewOracle creates an Oracle backed by the given runner and cache
func NewOracle(runner execx.Runner, cache *Cache, opts ...Option) *Oracle {
	o := &Oracle{
		runner:  runner,
		cache:   cache,
		appDirs: []string{"/Applications"},
		expand:  expand.Expand,
	}
	if home, err := os.UserHomeDir(); err == nil {
		o.appDirs = append(o.appDirs, filepath.Join(home, "Applications"))
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// IsInstalled reports whether the named package is already present via the
// given method. Whatever the method says, a package whose name is already an
// executable on PATH counts as installed.
func (o *Oracle) IsInstalled(ctx context.Context, name string, method manifest.Method, value manifest.Value) bool {
	if o.checkMethod(ctx, name, method, value) {
		return true
	}
	return o.runner.LookPath(name)
}

func (o *Oracle) checkMethod(ctx context.Context, name string, method manifest.Method, value manifest.Value) bool {
	switch method {
	case manifest.MethodBrew:
		return o.brewInstalled(ctx, str(value))
	case manifest.MethodCask:
		return o.caskInstalled(ctx, str(value))
	case manifest.MethodApt:
		return o.aptInstalled(ctx, str(value))
	case manifest.MethodDnf:
		return o.dnfInstalled(ctx, str(value))
	case manifest.MethodUvTool:
		return o.uvToolInstalled(ctx, str(value))
	case manifest.MethodCargo:
		return o.cargoInstalled(ctx, str(value))
	case manifest.MethodGoTool:
		return o.runner.LookPath(binaryName(str(value)))
	case manifest.MethodSnap:
		return o.snapInstalled(ctx, snapName(value))
	case manifest.MethodFlatpak:
		return o.flatpakInstalled(ctx, str(value))
	case manifest.MethodYay:
		return o.yayInstalled(ctx, str(value))
	case manifest.MethodGhExtension:
		return o.ghExtensionInstalled(ctx, str(value))
	case manifest.MethodEget:
		return o.runner.LookPath(binaryName(str(value)))
	case manifest.MethodManual:
		return o.manualInstalled(value, name)
	}
	return false
}

func (o *Oracle) brewInstalled(ctx context.Context, formula string) bool {
	return o.listed(ctx, "brew", "brew list --formula -1", parseLines)[formula]
}

func (o *Oracle) caskInstalled(ctx context.Context, cask string) bool {
	if o.listed(ctx, "cask", "brew list --cask -1", parseLines)[cask] {
		return true
	}
	// Applications installed outside homebrew's ledger still count. Bundle
	// names and the queried name are both normalized before comparison.
	apps, ok := o.cache.Peek("cask_apps")
	if !ok {
		apps = o.cache.Members("cask_apps", o.listAppBundles)
	}
	return apps[normalizeAppName(cask)]
}

func (o *Oracle) aptInstalled(ctx context.Context, pkg string) bool {
	return o.listed(ctx, "apt", `dpkg-query -W -f='${Package}\n' 2>/dev/null`, parseLines)[pkg]
}

// dnfInstalled treats a space-separated value as a package group: every
// member must be present for the group to count as installed.
func (o *Oracle) dnfInstalled(ctx context.Context, group string) bool {
	installed := o.listed(ctx, "dnf", `rpm -qa --qf '%{NAME}\n'`, parseLines)
	for _, pkg := range strings.Fields(group) {
		if !installed[pkg] {
			return false
		}
	}
	return true
}

func (o *Oracle) uvToolInstalled(ctx context.Context, tool string) bool {
	return o.listed(ctx, "uv_tool", "uv tool list", parseFirstWords)[tool]
}

func (o *Oracle) cargoInstalled(ctx context.Context, crate string) bool {
	return o.listed(ctx, "cargo", "cargo install --list", parseFirstWords)[crate]
}

func (o *Oracle) snapInstalled(ctx context.Context, name string) bool {
	return o.listed(ctx, "snap", "snap list 2>/dev/null", parseFirstWords)[name]
}

func (o *Oracle) flatpakInstalled(ctx context.Context, appID string) bool {
	return o.listed(ctx, "flatpak", "flatpak list --columns=application 2>/dev/null", parseLines)[appID]
}

func (o *Oracle) yayInstalled(ctx context.Context, pkg string) bool {
	return o.listed(ctx, "yay", "yay -Qq 2>/dev/null", parseLines)[pkg]
}

// ghExtensionInstalled matches the extension's short name anywhere in the
// listing, since gh prints qualified extension identifiers.
func (o *Oracle) ghExtensionInstalled(ctx context.Context, repo string) bool {
	extName := binaryName(repo)
	for entry := range o.listed(ctx, "gh_ext", "gh extension list 2>/dev/null", parseLines) {
		if strings.Contains(entry, extName) {
			return true
		}
	}
	return false
}

// manualInstalled resolves the presence test in priority order: an explicit
// check command, then an explicit check directory, then the clone
// destination, then the package name on PATH.
func (o *Oracle) manualInstalled(value manifest.Value, pkgName string) bool {
	mv, ok := value.(manifest.ManualValue)
	if !ok {
		return o.runner.LookPath(pkgName)
	}
	if mv.CheckCommand != "" {
		return o.runner.LookPath(mv.CheckCommand)
	}
	if mv.CheckDir != "" {
		return o.dirExists(mv.CheckDir)
	}
	if mv.Dest != "" {
		return o.dirExists(mv.Dest)
	}
	return o.runner.LookPath(pkgName)
}

// dirExists expands path and tests for a directory. Glob metacharacters in
// the expanded path match any existing directory.
func (o *Oracle) dirExists(path string) bool {
	expanded := o.expand(path)
	if strings.ContainsAny(expanded, "*?[") {
		matches, err := filepath.Glob(expanded)
		if err != nil {
			return false
		}
		for _, m := range matches {
			if isDir(m) {
				return true
			}
		}
		return false
	}
	return isDir(expanded)
}

// listed returns the cached bulk listing for a method, running cmd on first
// use. A failing listing caches an empty set, so the command runs at most
// once per run either way.
func (o *Oracle) listed(ctx context.Context, key, cmd string, parse func(string) []string) Set {
	return o.cache.Members(key, func() []string {
		logger := logging.GetLogger("state")
		result := o.runner.Run(ctx, cmd)
		if !result.Ok() {
			logger.Debug().Str("key", key).Int("exit", result.ExitCode).Msg("bulk listing unavailable")
			return nil
		}
		return parse(result.Stdout)
	})
}

// listAppBundles collects normalized application bundle names from the
// configured application directories
func (o *Oracle) listAppBundles() []string {
	var apps []string
	for _, dir := range o.appDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			apps = append(apps, normalizeAppName(stem(entry.Name())))
		}
	}
	return apps
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func parseLines(stdout string) []string {
	var out []string
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// parseFirstWords extracts the first word of each non-empty line, for
// listings that append versions or annotations after the package name
func parseFirstWords(stdout string) []string {
	var out []string
	for _, line := range strings.Split(stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			out = append(out, fields[0])
		}
	}
	return out
}

// binaryName returns the trailing path segment with any @version suffix
// stripped: "github.com/x/y/cmd/tool@latest" -> "tool"
func binaryName(spec string) string {
	name := spec
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}
	return name
}

func normalizeAppName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

func stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func str(value manifest.Value) string {
	if s, ok := value.(manifest.StringValue); ok {
		return string(s)
	}
	return ""
}

func snapName(value manifest.Value) string {
	if v, ok := value.(manifest.SnapValue); ok {
		return v.Name
	}
	return str(value)
}
