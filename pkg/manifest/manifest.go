// Package manifest loads the declarative package manifest.
//
// The manifest is a JSON object (comments tolerated) mapping package names
// to per-target installation configs:
//
//	{
//	  "_brew_taps": ["owner/tap"],
//	  "ripgrep": {
//	    "packages": {
//	      "darwin": {"brew": "ripgrep"},
//	      "ubuntu": {"apt": "ripgrep"}
//	    }
//	  }
//	}
//
// Keys starting with "_" are reserved for manifest-level directives and are
// never treated as packages.
package manifest

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/arthur-debert/rig/pkg/errors"
	"github.com/tidwall/jsonc"
)

// TargetConfig maps methods to their values for one package on one target
type TargetConfig struct {
	values map[Method]Value
}

// Has reports whether the config declares the given method
func (tc TargetConfig) Has(method Method) bool {
	_, ok := tc.values[method]
	return ok
}

// Get returns the value declared for a method
func (tc TargetConfig) Get(method Method) (Value, bool) {
	v, ok := tc.values[method]
	return v, ok
}

// Len returns the number of declared methods
func (tc TargetConfig) Len() int {
	return len(tc.values)
}

// First returns the highest-priority method present among candidates,
// scanning candidates in order
func (tc TargetConfig) First(candidates []Method) (Method, Value, bool) {
	for _, m := range candidates {
		if v, ok := tc.values[m]; ok {
			return m, v, true
		}
	}
	return "", nil, false
}

// HasSystemMethod reports whether any batchable method is declared
func (tc TargetConfig) HasSystemMethod() bool {
	_, _, ok := tc.First(SystemMethods)
	return ok
}

// Package is one named manifest entry with its per-target configs
type Package struct {
	Name    string
	Targets map[string]TargetConfig
}

// Manifest is the parsed package manifest. Packages preserves file order,
// which has display significance only.
type Manifest struct {
	BrewTaps []string
	Packages []Package
}

// Selected pairs a package name with the config chosen for a target
type Selected struct {
	Name   string
	Config TargetConfig
}

// ForTarget returns the packages that declare a non-empty config for the
// given target, in manifest order
func (m *Manifest) ForTarget(target string) []Selected {
	var out []Selected
	for _, pkg := range m.Packages {
		tc, ok := pkg.Targets[target]
		if !ok || tc.Len() == 0 {
			continue
		}
		out = append(out, Selected{Name: pkg.Name, Config: tc})
	}
	return out
}

// Load reads and parses the manifest at path
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestRead, "cannot read manifest %s", path)
	}
	return Parse(data)
}

// Parse parses manifest bytes. JSONC comments and trailing commas are
// stripped before decoding.
func Parse(data []byte) (*Manifest, error) {
	data = jsonc.ToJSON(data)

	dec := json.NewDecoder(strings.NewReader(string(data)))

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "manifest is not valid JSON")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New(errors.ErrManifestParse, "manifest must be a JSON object")
	}

	m := &Manifest{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrManifestParse, "manifest is not valid JSON")
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestParse, "invalid entry %q", key)
		}

		if strings.HasPrefix(key, "_") {
			if key == "_brew_taps" {
				if err := json.Unmarshal(raw, &m.BrewTaps); err != nil {
					return nil, errors.Wrap(err, errors.ErrManifestParse, "_brew_taps must be a list of strings")
				}
			}
			// Other reserved keys are ignored
			continue
		}

		pkg, ok, err := parsePackage(key, raw)
		if err != nil {
			return nil, err
		}
		if ok {
			m.Packages = append(m.Packages, pkg)
		}
	}

	return m, nil
}

// parsePackage parses one package entry. Entries that are not objects with a
// "packages" key are skipped, matching the manifest's tolerance for
// annotation entries.
func parsePackage(name string, raw json.RawMessage) (Package, bool, error) {
	var spec struct {
		Packages map[string]map[Method]json.RawMessage `json:"packages"`
	}
	if err := json.Unmarshal(raw, &spec); err != nil || spec.Packages == nil {
		return Package{}, false, nil
	}

	pkg := Package{Name: name, Targets: make(map[string]TargetConfig, len(spec.Packages))}
	for target, methods := range spec.Packages {
		tc := TargetConfig{values: make(map[Method]Value, len(methods))}
		for method, rawValue := range methods {
			if !method.IsKnown() {
				return Package{}, false, errors.Newf(errors.ErrManifestInvalid,
					"package %q target %q: unknown method %q", name, target, method)
			}
			value, err := decodeValue(method, rawValue)
			if err != nil {
				return Package{}, false, errors.Wrapf(err, errors.ErrManifestInvalid,
					"package %q target %q method %q", name, target, method)
			}
			tc.values[method] = value
		}
		pkg.Targets[target] = tc
	}
	return pkg, true, nil
}

// NewTargetConfig builds a TargetConfig from explicit method values, for
// tests and programmatic construction
func NewTargetConfig(values map[Method]Value) TargetConfig {
	tc := TargetConfig{values: make(map[Method]Value, len(values))}
	for m, v := range values {
		tc.values[m] = v
	}
	return tc
}
