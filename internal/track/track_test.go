package track

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeCodes(t *testing.T) {
	out, dupes := DedupeCodes([]string{"abc", "abc", "xyz"})
	assert.Equal(t, []string{"abc", "xyz"}, out)
	assert.Equal(t, 1, dupes)
}

func TestDedupeCodesPreservesOrder(t *testing.T) {
	out, dupes := DedupeCodes([]string{"c", "a", "c", "b", "a", "c"})
	assert.Equal(t, []string{"c", "a", "b"}, out)
	assert.Equal(t, 3, dupes)
}

func TestDedupeCodesEmpty(t *testing.T) {
	out, dupes := DedupeCodes(nil)
	assert.Empty(t, out)
	assert.Zero(t, dupes)
}

func TestGuildSetCheckAndAdd(t *testing.T) {
	set := NewGuildSet()

	assert.True(t, set.CheckAndAdd("123"))
	assert.False(t, set.CheckAndAdd("123"))
	assert.True(t, set.CheckAndAdd("456"))
	assert.Equal(t, 2, set.Len())
}

func TestGuildSetConcurrentCheckAndAdd(t *testing.T) {
	const goroutines = 64

	set := NewGuildSet()
	var wg sync.WaitGroup
	wins := make(chan struct{}, goroutines)

	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			if set.CheckAndAdd("same-guild") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	require.Len(t, wins, 1, "exactly one goroutine must observe the guild as new")
	assert.Equal(t, 1, set.Len())
}

func TestCountersConcurrentIncrements(t *testing.T) {
	const perKind = 500

	var c Counters
	var wg sync.WaitGroup

	wg.Add(3 * perKind)
	for range perKind {
		go func() { defer wg.Done(); c.AddHit() }()
		go func() { defer wg.Done(); c.AddBad() }()
		go func() { defer wg.Done(); c.AddFailed() }()
	}
	wg.Wait()

	assert.Equal(t, int64(perKind), c.Hit())
	assert.Equal(t, int64(perKind), c.Bad())
	assert.Equal(t, int64(perKind), c.Failed())
}
