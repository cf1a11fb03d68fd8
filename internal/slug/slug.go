package slug

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// Slugify turns a display name into a URL-safe slug: lower-case, trimmed,
// everything outside [a-z0-9\s-] stripped, whitespace runs collapsed to single
// hyphens, hyphen runs collapsed, leading/trailing hyphens removed. Returns ""
// for empty input. The character class is deliberately ASCII-only, so
// non-ASCII letters are dropped rather than transliterated.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// AvailabilityFunc reports whether a slug is free to use. A slug already owned
// by excludeOwnerID counts as available, so a vendor can keep their own
// username across edits.
type AvailabilityFunc func(slug, excludeOwnerID string) (bool, error)

// Allocator generates unique usernames against an availability check. The
// check-then-use loop is not transactional: two writers racing on the same
// base name can both observe "available" and both win. Accepted; the document
// store offers no conditional create to lock against.
type Allocator struct {
	available   AvailabilityFunc
	maxAttempts int
	now         func() time.Time
}

// NewAllocator creates an Allocator with the default 1000-attempt limit.
func NewAllocator(available AvailabilityFunc) *Allocator {
	return &Allocator{
		available:   available,
		maxAttempts: 1000,
		now:         time.Now,
	}
}

// EnsureUnique derives a slug from name and walks base, base-1, base-2, ...
// until an available candidate is found. After maxAttempts candidates it falls
// back to a timestamp suffix to guarantee termination. Returns "" when the
// name slugifies to nothing.
func (a *Allocator) EnsureUnique(name, excludeOwnerID string) (string, error) {
	base := Slugify(name)
	if base == "" {
		return "", nil
	}

	candidate := base
	for i := 1; i <= a.maxAttempts; i++ {
		ok, err := a.available(candidate, excludeOwnerID)
		if err != nil {
			return "", fmt.Errorf("failed to check username availability: %w", err)
		}
		if ok {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	return fmt.Sprintf("%s-%d", base, a.now().UnixMilli()), nil
}
