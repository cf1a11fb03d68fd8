package cache_test

import (
	"errors"
	"testing"

	"lapak/internal/cache"

	"github.com/stretchr/testify/assert"
)

// brokenTier fails every operation, standing in for "no secure storage
// available" platforms.
type brokenTier struct{}

func (brokenTier) Name() string                { return "broken" }
func (brokenTier) Get(string) ([]byte, error)  { return nil, errors.New("secure storage unavailable") }
func (brokenTier) Set(string, []byte) error    { return errors.New("secure storage unavailable") }
func (brokenTier) Remove(string) error         { return errors.New("secure storage unavailable") }

func TestChained_WritesToEveryTier(t *testing.T) {
	primary := cache.NewMemoryTier("primary")
	secondary := cache.NewMemoryTier("secondary")
	chained := cache.NewChained(nil, primary, secondary)

	assert.NoError(t, chained.Set("k", []byte("v")))

	v, err := primary.Get("k")
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	v, err = secondary.Get("k")
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestChained_ReadPrefersPrimary(t *testing.T) {
	primary := cache.NewMemoryTier("primary")
	secondary := cache.NewMemoryTier("secondary")
	chained := cache.NewChained(nil, primary, secondary)

	primary.Set("k", []byte("from-primary"))
	secondary.Set("k", []byte("from-secondary"))

	v, tier, err := chained.Get("k")
	assert.NoError(t, err)
	assert.Equal(t, "primary", tier)
	assert.Equal(t, []byte("from-primary"), v)
}

func TestChained_FallsBackWhenPrimaryFails(t *testing.T) {
	secondary := cache.NewMemoryTier("secondary")
	chained := cache.NewChained(nil, brokenTier{}, secondary)

	// The write still lands on the working tier.
	assert.NoError(t, chained.Set("k", []byte("v")))

	v, tier, err := chained.Get("k")
	assert.NoError(t, err)
	assert.Equal(t, "secondary", tier)
	assert.Equal(t, []byte("v"), v)
}

func TestChained_AllTiersBroken(t *testing.T) {
	chained := cache.NewChained(nil, brokenTier{}, brokenTier{})

	assert.Error(t, chained.Set("k", []byte("v")))

	_, _, err := chained.Get("k")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestChained_MissIsNotAnError(t *testing.T) {
	chained := cache.NewChained(nil, cache.NewMemoryTier("only"))

	_, _, err := chained.Get("absent")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestChained_RemoveMany(t *testing.T) {
	primary := cache.NewMemoryTier("primary")
	secondary := cache.NewMemoryTier("secondary")
	chained := cache.NewChained(nil, primary, secondary)

	chained.Set("a", []byte("1"))
	chained.Set("b", []byte("2"))
	chained.RemoveMany([]string{"a", "b"})

	_, err := primary.Get("a")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = secondary.Get("b")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestChained_JSONRoundTrip(t *testing.T) {
	chained := cache.NewChained(nil, cache.NewMemoryTier("only"))

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	assert.NoError(t, chained.SetJSON("k", payload{Name: "acme", Count: 3}))

	var out payload
	tier, err := chained.GetJSON("k", &out)
	assert.NoError(t, err)
	assert.Equal(t, "only", tier)
	assert.Equal(t, payload{Name: "acme", Count: 3}, out)
}

func TestSecureTier_RoundTrip(t *testing.T) {
	tier, err := cache.NewSecureTier(t.TempDir(), "secret")
	assert.NoError(t, err)

	assert.NoError(t, tier.Set("storeData:owner-1", []byte(`{"id":"owner-1"}`)))

	v, err := tier.Get("storeData:owner-1")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"owner-1"}`), v)

	_, err = tier.Get("absent")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	assert.NoError(t, tier.Remove("storeData:owner-1"))
	_, err = tier.Get("storeData:owner-1")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestSecureTier_WrongSecretCannotDecrypt(t *testing.T) {
	dir := t.TempDir()

	writer, err := cache.NewSecureTier(dir, "secret-a")
	assert.NoError(t, err)
	assert.NoError(t, writer.Set("k", []byte("v")))

	reader, err := cache.NewSecureTier(dir, "secret-b")
	assert.NoError(t, err)
	_, err = reader.Get("k")
	assert.Error(t, err)
}

func TestSQLiteTier_RoundTrip(t *testing.T) {
	tier, err := cache.NewSQLiteTier("file:cache_roundtrip?mode=memory&cache=shared")
	assert.NoError(t, err)

	assert.NoError(t, tier.Set("k", []byte("v1")))
	assert.NoError(t, tier.Set("k", []byte("v2"))) // overwrite

	v, err := tier.Get("k")
	assert.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)

	assert.NoError(t, tier.Remove("k"))
	_, err = tier.Get("k")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}
