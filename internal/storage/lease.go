package storage

import (
	"path/filepath"
	"sync"
)

// Leases counts active readers and writers per file path.
// Removal through RemoveIdle is atomic with respect to Acquire.
type Leases struct {
	mu   sync.Mutex
	refs map[string]int
}

// NewLeases returns an empty lease table.
func NewLeases() *Leases {
	return &Leases{refs: make(map[string]int)}
}

// Acquire increments the lease count for path. The returned func decrements it once.
func (l *Leases) Acquire(path string) (release func()) {
	key := leaseKey(path)

	l.mu.Lock()
	l.refs[key]++
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.refs[key] <= 1 {
				delete(l.refs, key)
				return
			}
			l.refs[key]--
		})
	}
}

// InUse reports whether path currently has at least one lease.
func (l *Leases) InUse(path string) bool {
	key := leaseKey(path)

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refs[key] > 0
}

// count returns the number of active leases on path.
func (l *Leases) count(path string) int {
	key := leaseKey(path)

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refs[key]
}

// RemoveIdle runs remove(path) only if path has no lease, holding the table lock meanwhile
// so no lease can be taken between the check and the removal.
func (l *Leases) RemoveIdle(path string, remove func(string) error) error {
	key := leaseKey(path)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.refs[key] > 0 {
		return ErrInUse
	}
	return remove(path)
}

func leaseKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
