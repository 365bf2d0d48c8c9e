package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDeduplicates(t *testing.T) {
	pool, dupes := Load([]string{
		"10.0.0.1:8080",
		"10.0.0.2:8080",
		"10.0.0.1:8080",
		"",
		"  ",
		"10.0.0.2:8080",
	})

	assert.Equal(t, 2, pool.Len())
	assert.Equal(t, 2, dupes)
}

func TestPickEmptyPool(t *testing.T) {
	pool, _ := Load(nil)
	_, ok := pool.Pick()
	assert.False(t, ok)

	var nilPool *Pool
	_, ok = nilPool.Pick()
	assert.False(t, ok)
	assert.Zero(t, nilPool.Len())
}

func TestPickReturnsPoolMembers(t *testing.T) {
	entries := []string{"10.0.0.1:8080", "10.0.0.2:8080", "10.0.0.3:8080"}
	pool, _ := Load(entries)

	picked := make(map[string]bool)
	for range 300 {
		entry, ok := pool.Pick()
		require.True(t, ok)
		picked[entry] = true
		assert.Contains(t, entries, entry)
	}

	// With 300 uniform draws over 3 entries, seeing all of them is as
	// close to certain as a test can rely on.
	assert.Len(t, picked, len(entries))
}

func TestPickURL(t *testing.T) {
	pool, _ := Load([]string{"10.0.0.1:8080"})
	u, err := pool.PickURL()
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "10.0.0.1:8080", u.Host)

	pool, _ = Load([]string{"socks5://10.0.0.9:1080"})
	u, err = pool.PickURL()
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "socks5", u.Scheme)

	empty, _ := Load(nil)
	u, err = empty.PickURL()
	require.NoError(t, err)
	assert.Nil(t, u)
}
