package remotefs

import (
	"path"
	"strings"
)

// shellQuote quotes a string for safe use in shell commands. Every remote
// path passes through here exactly once, when the command is composed.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}

// normalizeDir strips trailing separators so that parent and base
// computations are unambiguous. The root path is left untouched.
func normalizeDir(p string) string {
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}

// parentDir returns the parent of a remote path, normalizing trailing
// separators first.
func parentDir(p string) string {
	return path.Dir(normalizeDir(p))
}

// baseName returns the last component of a remote path, normalizing
// trailing separators first.
func baseName(p string) string {
	return path.Base(normalizeDir(p))
}

// siblingPath computes the path that renames p to newName within its
// own directory.
func siblingPath(p, newName string) string {
	return path.Join(parentDir(p), newName)
}

// endsWithSeparator reports whether the caller wrote the path with a
// trailing separator, marking it as a directory target.
func endsWithSeparator(p string) bool {
	return strings.HasSuffix(p, "/")
}
