package testutil

import (
	"fmt"
	"sync"
	"time"
)

// StubClock returns a fixed time. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock creates a StubClock set to the given time.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to 2024-01-15 10:30:00 UTC.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubTokens returns sequential tokens: short ids "id-1", "id-2", ... and
// share keys "key-1", "key-2", .... Queued values are handed out first, which
// lets tests force collisions.
type StubTokens struct {
	mu        sync.Mutex
	shortIDs  int
	shareKeys int
	queuedIDs []string
	queuedKey []string
}

func NewStubTokens() *StubTokens {
	return &StubTokens{}
}

// QueueShortIDs makes the next ShortID calls return ids in order.
func (g *StubTokens) QueueShortIDs(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queuedIDs = append(g.queuedIDs, ids...)
}

// QueueShareKeys makes the next ShareKey calls return keys in order.
func (g *StubTokens) QueueShareKeys(keys ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queuedKey = append(g.queuedKey, keys...)
}

func (g *StubTokens) ShortID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queuedIDs) > 0 {
		id := g.queuedIDs[0]
		g.queuedIDs = g.queuedIDs[1:]
		return id
	}
	g.shortIDs++
	return fmt.Sprintf("id-%d", g.shortIDs)
}

func (g *StubTokens) ShareKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queuedKey) > 0 {
		key := g.queuedKey[0]
		g.queuedKey = g.queuedKey[1:]
		return key
	}
	g.shareKeys++
	return fmt.Sprintf("key-%d", g.shareKeys)
}
