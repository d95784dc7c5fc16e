package manifest

import (
	"encoding/json"

	"github.com/arthur-debert/rig/pkg/errors"
)

// Value is the method-specific payload of a target config entry. The
// concrete types form a closed set: StringValue for the plain-string
// methods, SnapValue for snap, ManualValue for manual.
type Value interface {
	isValue()
}

// StringValue carries a formula name, package name, repo spec, app id or
// tool path, depending on the method
type StringValue string

func (StringValue) isValue() {}

// SnapValue carries a snap name and its confinement mode
type SnapValue struct {
	Name    string `json:"name"`
	Classic bool   `json:"classic"`
}

func (SnapValue) isValue() {}

// ManualType distinguishes the two manual installation flavors
type ManualType string

const (
	// ManualScript downloads a script and executes it
	ManualScript ManualType = "script"
	// ManualGitClone clones a repository to a destination path
	ManualGitClone ManualType = "git_clone"
)

// ManualValue describes a manual installation: a script to download and run,
// or a repository to clone. CheckCommand and CheckDir only affect presence
// detection, never installation.
type ManualValue struct {
	Type         ManualType `json:"type"`
	URL          string     `json:"url"`
	Args         string     `json:"args,omitempty"`
	Dest         string     `json:"dest,omitempty"`
	CheckCommand string     `json:"check_command,omitempty"`
	CheckDir     string     `json:"check_dir,omitempty"`
}

func (ManualValue) isValue() {}

// decodeValue parses the raw JSON payload for a method into its typed value
func decodeValue(method Method, raw json.RawMessage) (Value, error) {
	switch method {
	case MethodSnap:
		// snap accepts either a bare name or {name, classic}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return SnapValue{Name: s}, nil
		}
		var v SnapValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestParse, "invalid snap value")
		}
		if v.Name == "" {
			return nil, errors.New(errors.ErrManifestInvalid, "snap value missing name")
		}
		return v, nil

	case MethodManual:
		var v ManualValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestParse, "invalid manual value")
		}
		if v.Type != ManualScript && v.Type != ManualGitClone {
			return nil, errors.Newf(errors.ErrManifestInvalid, "manual type must be script or git_clone, got %q", v.Type)
		}
		if v.URL == "" {
			return nil, errors.New(errors.ErrManifestInvalid, "manual value missing url")
		}
		if v.Type == ManualGitClone && v.Dest == "" {
			return nil, errors.New(errors.ErrManifestInvalid, "git_clone manual value missing dest")
		}
		return v, nil

	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestParse, "method %s expects a string value", method)
		}
		return StringValue(s), nil
	}
}
