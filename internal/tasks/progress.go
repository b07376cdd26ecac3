package tasks

import "sync"

// ProgressLog is the append-only record of a sync run.
//
// One goroutine appends while any number of readers take snapshots.
type ProgressLog struct {
	mu      sync.RWMutex
	entries []ProgressUpdate
}

// NewProgressLog creates an empty [ProgressLog].
func NewProgressLog() *ProgressLog {
	return &ProgressLog{}
}

// Append adds u to the end of the log.
func (l *ProgressLog) Append(u ProgressUpdate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, u)
}

func (l *ProgressLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Entries returns a copy of the log in append order.
func (l *ProgressLog) Entries() []ProgressUpdate {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]ProgressUpdate, len(l.entries))
	copy(out, l.entries)
	return out
}

// Messages returns the human-readable lines of the log in append order.
func (l *ProgressLog) Messages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Message
	}
	return out
}

// Len returns the number of entries.
func (l *ProgressLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
