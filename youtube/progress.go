package youtube

import "sync"

// Progress is a polled (status, percent) snapshot of a running pipeline.
// It is overwritten at each milestone; readers get an eventually-consistent
// view, never a transactional one.
type Progress struct {
	mu      sync.Mutex
	status  string
	percent float64
}

// NewProgress returns a progress tracker in its initial state.
func NewProgress() *Progress {
	return &Progress{status: "Initializing"}
}

// Set records a new milestone.
func (p *Progress) Set(status string, percent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
	p.percent = percent
}

// Snapshot returns the most recent status and percentage.
func (p *Progress) Snapshot() (string, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.percent
}
