package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs hands out list ids "<prefix>-1", "<prefix>-2", ... so that
// test output naming list ids is reproducible.
//
// Unlike store.FixedGenerator it never runs out, and it can be reset for
// test reuse.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequentialIDs creates a generator whose first id is "<prefix>-1".
// An empty prefix defaults to "list".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "list"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next id. Implements store.ListIDGenerator.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Reset restarts the sequence. After Reset(), the next id is "<prefix>-1".
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
