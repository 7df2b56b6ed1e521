package service

import "sync"

// SequenceTracker issues increasing sequence numbers per scope so that only
// the latest query of a scope delivers its result.
type SequenceTracker struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// NewSequenceTracker creates an empty tracker
func NewSequenceTracker() *SequenceTracker {
	return &SequenceTracker{latest: make(map[string]uint64)}
}

// Next issues the next sequence number for scope
func (t *SequenceTracker) Next(scope string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest[scope]++
	return t.latest[scope]
}

// IsLatest reports whether seq is still the newest number issued for scope
func (t *SequenceTracker) IsLatest(scope string, seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[scope] == seq
}
