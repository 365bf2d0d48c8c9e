// Package track holds the shared mutable state of a single checking pass:
// the guild-identity set, candidate dedup and the result counters. A pass
// owns one instance of each; auto mode creates fresh ones every cycle.
package track

import (
	"sync"
	"sync/atomic"
)

// GuildSet records guild identifiers that have already been processed.
type GuildSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewGuildSet() *GuildSet {
	return &GuildSet{seen: make(map[string]struct{})}
}

// CheckAndAdd inserts id and reports whether it was absent before the call.
// The check and the insert are a single critical section so two workers
// resolving the same guild concurrently cannot both observe it as new.
func (g *GuildSet) CheckAndAdd(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; ok {
		return false
	}
	g.seen[id] = struct{}{}
	return true
}

func (g *GuildSet) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

// Counters aggregates per-pass results. Increments are atomic; workers
// share one instance.
type Counters struct {
	hit    atomic.Int64
	bad    atomic.Int64
	failed atomic.Int64
}

func (c *Counters) AddHit()    { c.hit.Add(1) }
func (c *Counters) AddBad()    { c.bad.Add(1) }
func (c *Counters) AddFailed() { c.failed.Add(1) }

func (c *Counters) Hit() int64    { return c.hit.Load() }
func (c *Counters) Bad() int64    { return c.bad.Load() }
func (c *Counters) Failed() int64 { return c.failed.Load() }

// DedupeCodes drops repeated codes, keeping the first occurrence and the
// order of first appearance. The second return value is the number of
// duplicates ignored.
func DedupeCodes(codes []string) ([]string, int) {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	dupes := 0

	for _, code := range codes {
		if _, ok := seen[code]; ok {
			dupes++
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out, dupes
}
