package mcpserver

import (
	"sync"
	"time"

	"github.com/tansive/portainer-mcp/internal/common/uuid"
)

const (
	ActivitySuccess = "success"
	ActivityError   = "error"
)

// Activity records one tool call.
type Activity struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Tool       string    `json:"tool"`
	Status     string    `json:"status"`
	DurationMs int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// ActivityLog keeps the most recent tool calls, bounded by its size.
type ActivityLog struct {
	mu      sync.Mutex
	size    int
	entries []Activity // oldest first
}

// NewActivityLog returns a log that keeps at most size entries.
func NewActivityLog(size int) *ActivityLog {
	if size <= 0 {
		size = DefaultActivityLogSize
	}
	return &ActivityLog{size: size}
}

// Record appends a, filling in ID and Timestamp when unset, and drops the oldest
// entry once the log is full.
func (l *ActivityLog) Record(a Activity) Activity {
	if a.ID == "" {
		a.ID = uuid.UUID7().String()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, a)
	if over := len(l.entries) - l.size; over > 0 {
		l.entries = append(l.entries[:0:0], l.entries[over:]...)
	}
	return a
}

// Latest returns up to n entries, newest first.
func (l *ActivityLog) Latest(n int) []Activity {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Activity, 0, n)
	for i := len(l.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Len returns the number of entries held.
func (l *ActivityLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
