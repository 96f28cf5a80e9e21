// Package docpath provides pure functions over virtual folder path strings.
//
// A folder path is a "/"-delimited sequence of non-empty segment names with
// no leading or trailing slash, e.g. "hr/policies". The empty string is the
// root. These are library paths, not filesystem paths.
package docpath

import (
	"errors"
	"strings"
)

// Root is the path of the root level. Documents at root have an empty
// folder path; the root itself is never a folder entity.
const Root = ""

// ErrInvalidName is returned by ValidateName for names that cannot be a
// folder segment.
var ErrInvalidName = errors.New("invalid folder name")

// Segments splits a path into its segment names, dropping empty segments.
// The root yields no segments.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// Parent returns the path with its last segment dropped. Single-segment
// paths (and the root) yield the root.
func Parent(path string) string {
	segs := Segments(path)
	if len(segs) <= 1 {
		return Root
	}
	return strings.Join(segs[:len(segs)-1], "/")
}

// LastSegment returns the final segment of a path, or "" for the root.
func LastSegment(path string) string {
	segs := Segments(path)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Join appends a name to a parent path. Joining onto the root yields the
// name itself. The name is trimmed of surrounding whitespace; validation
// (no "/", non-empty) is the caller's responsibility via ValidateName.
func Join(parent, name string) string {
	name = strings.TrimSpace(name)
	if parent == Root {
		return name
	}
	return parent + "/" + name
}

// IsTopLevel returns true if the path has exactly one segment.
func IsTopLevel(path string) bool {
	return len(Segments(path)) == 1
}

// IsDirectChild returns true if candidate is exactly one level below parent.
// The root case is IsTopLevel, not this function.
func IsDirectChild(candidate, parent string) bool {
	if parent == Root {
		return IsTopLevel(candidate)
	}
	return len(Segments(candidate)) == len(Segments(parent))+1 &&
		strings.HasPrefix(candidate, parent+"/")
}

// ValidateName checks a single folder segment name at the creation boundary:
// it must be non-empty after trimming and must not contain "/".
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if strings.Contains(name, "/") {
		return ErrInvalidName
	}
	return nil
}
