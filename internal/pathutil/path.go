// Package pathutil provides path manipulation for slash-separated asset paths.
package pathutil

import (
	"strings"
	"unicode"
)

// Sanitize decodes raw pathname bytes into a usable asset path.
//
// Package producers are known to append trailing control characters
// (newlines, NUL bytes) and, in some tools, a literal "00" suffix to the
// pathname member. Sanitize strips every Unicode control character first and
// then removes a single trailing "00". The order is load-bearing: the suffix
// may only become a clean trailing token after control characters are gone
// ("File.cs\n00" decodes to "File.cs").
//
// Sanitize is not idempotent for inputs engineered to expose a second "00"
// suffix: "File.cs\n0000" sanitizes to "File.cs00", and sanitizing that
// result again yields "File.cs".
func Sanitize(raw []byte) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, string(raw))
	return strings.TrimSuffix(s, "00")
}

// Normalize converts an asset path to forward-slash form and strips a single
// trailing slash. It does not collapse interior slashes or resolve dot
// elements; asset paths inside packages are already relative.
func Normalize(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.TrimSuffix(path, "/")
}

// Parent returns the parent of a normalized path, or "" for top-level paths.
// A leading slash is not a root component: "/abc" is top-level, so tree
// building hangs it directly off the synthetic root rather than under a "/"
// directory node. Package asset paths are relative, so the case is
// theoretical.
func Parent(path string) string {
	if i := strings.LastIndex(path, "/"); i > 0 {
		return path[:i]
	}
	return ""
}

// Base returns the last element of a slash-separated path.
// If path is empty, it returns "".
func Base(path string) string {
	path = strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
