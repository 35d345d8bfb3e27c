package web

import (
	"sync"

	"ytscraper/youtube"
)

// job tracks one running or finished scrape. The job ID doubles as the
// session ID once the result is stored.
type job struct {
	id       string
	progress *youtube.Progress

	mu   sync.Mutex
	done bool
	err  error
}

func (j *job) finish(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.done = true
	j.err = err
}

func (j *job) state() (done bool, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.done, j.err
}

// jobRegistry is an in-memory index of jobs by ID, safe for concurrent use.
type jobRegistry struct {
	mu   sync.Mutex
	jobs map[string]*job
}

func newJobRegistry() *jobRegistry {
	return &jobRegistry{jobs: map[string]*job{}}
}

func (r *jobRegistry) add(j *job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.id] = j
}

func (r *jobRegistry) get(id string) (*job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	return j, ok
}

func (r *jobRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
}
