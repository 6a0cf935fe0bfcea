package session

import "sync"

// History is a fixed-capacity ring of the most recent records.
type History struct {
	mu    sync.RWMutex
	buf   []Record
	start int
	n     int
}

// NewHistory creates a History holding at most size records.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{buf: make([]Record, size)}
}

// Add appends rec, evicting the oldest record when full.
func (h *History) Add(rec Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = rec
		h.n++
		return
	}
	h.buf[h.start] = rec
	h.start = (h.start + 1) % len(h.buf)
}

// Records returns a copy, oldest first.
func (h *History) Records() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Record, h.n)
	for i := 0; i < h.n; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Last returns the newest record.
func (h *History) Last() (Record, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.n == 0 {
		return Record{}, false
	}
	return h.buf[(h.start+h.n-1)%len(h.buf)], true
}

// Len returns the number of retained records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.n
}

// Clear drops all records.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.start, h.n = 0, 0
	clear(h.buf)
}
