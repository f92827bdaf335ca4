package objectkey

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var safeKey = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

func TestSanitizeFileName_Basic(t *testing.T) {
	got, ok := SanitizeFileName("contract.pdf")
	require.True(t, ok)
	assert.Equal(t, "contract.pdf", got)
}

func TestSanitizeFileName_ReplacesInvalidChars(t *testing.T) {
	got, ok := SanitizeFileName("my contract (final)?.pdf")
	require.True(t, ok)
	assert.True(t, safeKey.MatchString(got), "got %q", got)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}

func TestSanitizeFileName_PathTraversal(t *testing.T) {
	got, ok := SanitizeFileName("../../etc/passwd.pdf")
	require.True(t, ok)
	assert.NotContains(t, got, "/")
	assert.NotContains(t, got, "\\")
	assert.NotContains(t, got, "..")
	assert.False(t, strings.HasPrefix(got, "."))
}

func TestSanitizeFileName_Rejections(t *testing.T) {
	for _, raw := range []string{"", ".", "..", "...", "////", `\\`} {
		_, ok := SanitizeFileName(raw)
		assert.False(t, ok, "expected rejection for %q", raw)
	}
}

func TestSanitizeFileName_LeadingDot(t *testing.T) {
	got, ok := SanitizeFileName(".hidden.pdf")
	require.True(t, ok)
	assert.Equal(t, "file.hidden.pdf", got)
}

func TestSanitizeFileName_CollapsesDotRuns(t *testing.T) {
	got, ok := SanitizeFileName("report...v2.pdf")
	require.True(t, ok)
	assert.NotContains(t, got, "..")
}

func TestSanitizeFileName_TruncatesBaseName(t *testing.T) {
	long := strings.Repeat("a", 250) + ".pdf"
	got, ok := SanitizeFileName(long)
	require.True(t, ok)

	name := got[:strings.LastIndex(got, ".")]
	assert.LessOrEqual(t, len(name), MaxBaseNameLength)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}

func TestSanitizeFileName_Properties(t *testing.T) {
	inputs := []string{
		"contract.pdf",
		"../../../secret.pdf",
		"weird name!!@#$%^&*.PDF",
		"....pdf",
		"a/b/c/d.pdf",
		"ünïcode-ñame.pdf",
		"no_extension",
		".env",
		"trailing.",
	}
	for _, raw := range inputs {
		got, ok := SanitizeFileName(raw)
		if !ok {
			continue
		}
		assert.True(t, safeKey.MatchString(got), "input %q produced %q", raw, got)
		assert.False(t, strings.HasPrefix(got, "."), "input %q produced %q", raw, got)
		assert.NotContains(t, got, "..", "input %q produced %q", raw, got)
	}
}

func TestSanitizeFileName_Deterministic(t *testing.T) {
	a, okA := SanitizeFileName("Lease Agreement (2024).pdf")
	b, okB := SanitizeFileName("Lease Agreement (2024).pdf")
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, a, b)
}

func TestUniqueKey_SameSecondNoCollision(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)

	a := UniqueKey(now, "contract.pdf")
	b := UniqueKey(now, "contract.pdf")

	assert.NotEqual(t, a, b, "two keys issued in the same second must differ")
	assert.True(t, strings.HasPrefix(a, "20240301_123045_"))
	assert.True(t, strings.HasSuffix(a, "_contract.pdf"))
}

func TestUniqueKey_KeepsSanitizedName(t *testing.T) {
	now := time.Now()
	key := UniqueKey(now, "lease.pdf")
	assert.True(t, safeKey.MatchString(key))
	assert.True(t, strings.HasSuffix(key, "_lease.pdf"))
}
