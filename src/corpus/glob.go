package corpus

import (
	"path/filepath"
	"strings"
)

// MatchGlob extends filepath.Match with support for "**" (zero or more
// path segments). Patterns and paths use "/" separators.
func MatchGlob(pattern, path string) bool {
	if !strings.Contains(pattern, "**") {
		matched, _ := filepath.Match(pattern, path)
		return matched
	}

	idx := strings.Index(pattern, "**")
	prefix := pattern[:idx]
	suffix := strings.TrimLeft(pattern[idx+2:], "/")

	if prefix != "" {
		prefix = strings.TrimRight(prefix, "/")
		if !strings.HasPrefix(path, prefix) {
			return false
		}
		path = strings.TrimPrefix(path, prefix)
		path = strings.TrimLeft(path, "/")
	}

	if suffix == "" {
		return true
	}

	// Match the suffix against every tail of the remaining path.
	parts := strings.Split(path, "/")
	for i := 0; i <= len(parts); i++ {
		tail := strings.Join(parts[i:], "/")
		if MatchGlob(suffix, tail) {
			return true
		}
	}

	return false
}
