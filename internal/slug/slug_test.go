package slug_test

import (
	"fmt"
	"regexp"
	"testing"

	"lapak/internal/slug"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "My Cool Store!!", "my-cool-store"},
		{"already a slug", "my-store", "my-store"},
		{"whitespace only", "  ", ""},
		{"empty", "", ""},
		{"collapses inner whitespace", "a   b\tc", "a-b-c"},
		{"collapses hyphen runs", "a---b", "a-b"},
		{"strips leading and trailing hyphens", "-acme-", "acme"},
		{"drops non-ascii letters", "Ñoño", "oo"},
		{"keeps digits", "Store 24/7", "store-247"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, slug.Slugify(tc.input))
		})
	}
}

func TestEnsureUnique_FirstCandidateAvailable(t *testing.T) {
	alloc := slug.NewAllocator(func(candidate, exclude string) (bool, error) {
		return true, nil
	})

	username, err := alloc.EnsureUnique("Acme Goods", "")
	assert.NoError(t, err)
	assert.Equal(t, "acme-goods", username)
}

func TestEnsureUnique_AppendsCounter(t *testing.T) {
	taken := map[string]bool{"acme": true, "acme-1": true, "acme-2": true}
	alloc := slug.NewAllocator(func(candidate, exclude string) (bool, error) {
		return !taken[candidate], nil
	})

	username, err := alloc.EnsureUnique("Acme", "")
	assert.NoError(t, err)
	assert.Equal(t, "acme-3", username)
}

func TestEnsureUnique_OwnSlugCountsAsAvailable(t *testing.T) {
	alloc := slug.NewAllocator(func(candidate, exclude string) (bool, error) {
		// Simulates a store that already owns "acme".
		if candidate == "acme" {
			return exclude == "owner-1", nil
		}
		return true, nil
	})

	username, err := alloc.EnsureUnique("Acme", "owner-1")
	assert.NoError(t, err)
	assert.Equal(t, "acme", username)
}

func TestEnsureUnique_TerminatesWithTimestampFallback(t *testing.T) {
	var checks int
	alloc := slug.NewAllocator(func(candidate, exclude string) (bool, error) {
		checks++
		return false, nil
	})

	username, err := alloc.EnsureUnique("taken", "")
	assert.NoError(t, err)
	assert.Equal(t, 1000, checks)
	// The fallback is base-<unix millis>, never one of the rejected counters.
	assert.Regexp(t, regexp.MustCompile(`^taken-\d{12,}$`), username)
}

func TestEnsureUnique_PropagatesCheckError(t *testing.T) {
	alloc := slug.NewAllocator(func(candidate, exclude string) (bool, error) {
		return false, fmt.Errorf("store unavailable")
	})

	_, err := alloc.EnsureUnique("Acme", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestEnsureUnique_EmptyName(t *testing.T) {
	alloc := slug.NewAllocator(func(candidate, exclude string) (bool, error) {
		t.Fatal("availability must not be checked for an empty slug")
		return false, nil
	})

	username, err := alloc.EnsureUnique("!!!", "")
	assert.NoError(t, err)
	assert.Equal(t, "", username)
}
