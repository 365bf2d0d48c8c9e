// Package proxy holds the egress proxy pool used for invite lookups.
package proxy

import (
	"math/rand/v2"
	"net/url"
	"strings"
	"sync"
)

// Pool is a deduplicated set of proxy endpoints. Selection is uniformly
// random and independent across calls; there is no rotation order and no
// stickiness.
type Pool struct {
	mu      sync.Mutex
	entries []string
}

// Load builds a pool from raw proxies.txt lines. Blank lines are skipped
// and repeated endpoints are ignored, keeping first-seen order. The second
// return value is the number of duplicates ignored.
func Load(lines []string) (*Pool, int) {
	seen := make(map[string]struct{}, len(lines))
	p := &Pool{}
	dupes := 0

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			dupes++
			continue
		}
		seen[line] = struct{}{}
		p.entries = append(p.entries, line)
	}
	return p, dupes
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Pick returns one endpoint chosen uniformly at random, or false for an
// empty (or nil) pool.
func (p *Pool) Pick() (string, bool) {
	if p == nil {
		return "", false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.entries) == 0 {
		return "", false
	}
	return p.entries[rand.IntN(len(p.entries))], true
}

// PickURL returns the picked endpoint as a proxy URL. Bare host:port
// entries are treated as HTTP proxies; entries that already carry a scheme
// keep it.
func (p *Pool) PickURL() (*url.URL, error) {
	entry, ok := p.Pick()
	if !ok {
		return nil, nil
	}
	if !strings.Contains(entry, "://") {
		entry = "http://" + entry
	}
	return url.Parse(entry)
}
