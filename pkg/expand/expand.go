// Package expand performs restricted shell-style path expansion.
//
// The manifest's manual-install entries carry paths written in shell idiom,
// e.g. "${XDG_DATA_HOME:-$HOME/.local/share}/nvim". The original tooling
// expanded these by echoing through a shell; rig expands them directly,
// supporting only the forms the manifest actually uses: a leading tilde,
// $VAR, ${VAR} and ${VAR:-default}. No command substitution, no globbing of
// the expanded result, no subshell.
package expand

import (
	"os"
	"strings"
)

// Expand expands path using the process environment and the current user's
// home directory
func Expand(path string) string {
	home, _ := os.UserHomeDir()
	return ExpandWith(path, home, os.Getenv)
}

// ExpandWith expands path with an explicit home directory and variable
// lookup, for tests
func ExpandWith(path, home string, lookup func(string) string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		path = home + path[1:]
	}

	var b strings.Builder
	for i := 0; i < len(path); {
		c := path[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(path) && path[i+1] == '{' {
			end := strings.IndexByte(path[i+2:], '}')
			if end < 0 {
				// Unterminated brace, keep literal
				b.WriteString(path[i:])
				break
			}
			expr := path[i+2 : i+2+end]
			b.WriteString(resolve(expr, home, lookup))
			i += 2 + end + 1
			continue
		}
		name := varName(path[i+1:])
		if name == "" {
			b.WriteByte(c)
			i++
			continue
		}
		b.WriteString(lookupVar(name, home, lookup))
		i += 1 + len(name)
	}
	return b.String()
}

// resolve handles the inside of ${...}, including the :- default form. The
// default itself may contain nested $VAR references.
func resolve(expr, home string, lookup func(string) string) string {
	name, def, hasDef := strings.Cut(expr, ":-")
	val := lookupVar(name, home, lookup)
	if val == "" && hasDef {
		return ExpandWith(def, home, lookup)
	}
	return val
}

func lookupVar(name, home string, lookup func(string) string) string {
	if name == "HOME" && home != "" {
		return home
	}
	return lookup(name)
}

// varName returns the longest leading run of variable-name characters
func varName(s string) string {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '_' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || i > 0 && c >= '0' && c <= '9' {
			i++
			continue
		}
		break
	}
	return s[:i]
}
