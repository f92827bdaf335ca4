// Package objectkey derives safe storage object keys from user-supplied
// filenames. Keys must be traversal-free, restricted to a conservative
// charset, and unique across concurrent uploads of the same name.
package objectkey

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxBaseNameLength caps the pre-extension part of a sanitized filename.
const MaxBaseNameLength = 100

var (
	invalidChars = regexp.MustCompile(`[^A-Za-z0-9_.\-]`)
	dotRuns      = regexp.MustCompile(`\.{2,}`)
)

// SanitizeFileName maps an arbitrary filename to a storage-safe one.
// Path separators are stripped, anything outside [A-Za-z0-9_.-] becomes "_",
// runs of dots collapse to one, and a leading dot gets a "file" prefix.
// Returns ok=false when nothing usable remains.
//
// Pure: same input, same output, no side effects.
func SanitizeFileName(raw string) (string, bool) {
	s := strings.NewReplacer(`\`, "", "/", "").Replace(raw)
	s = invalidChars.ReplaceAllString(s, "_")
	s = dotRuns.ReplaceAllString(s, ".")

	// Nothing but dots (".", "..", "...") is never a usable name.
	if s == "" || s == "." {
		return "", false
	}

	if strings.HasPrefix(s, ".") {
		s = "file" + s
	}

	name, ext := splitExt(s)
	if len(name) > MaxBaseNameLength {
		name = name[:MaxBaseNameLength]
	}

	final := name
	if ext != "" {
		final = name + "." + ext
	}

	if final == "" || final == "." || final == ".." {
		return "", false
	}
	return final, true
}

// UniqueKey decorates a sanitized filename with a second-precision timestamp
// and a short random token. Two uploads of the same name in the same second
// still get distinct keys with overwhelming probability; uniqueness is
// probabilistic, not mutually excluded.
func UniqueKey(now time.Time, sanitized string) string {
	timestamp := now.Format("20060102_150405")
	token := uuid.NewString()[:8]
	return timestamp + "_" + token + "_" + sanitized
}

// splitExt splits at the last dot. No dot means no extension.
func splitExt(s string) (name, ext string) {
	i := strings.LastIndex(s, ".")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}
