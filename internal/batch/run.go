package batch

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Semirss/betebrana/internal/progress"
)

// RunStatus is the lifecycle state of a batch run.
type RunStatus string

const (
	RunRunning  RunStatus = "running"
	RunFinished RunStatus = "finished"
)

// Run tracks the live state of one batch execution. The conversion loop
// is the only writer; the status server reads snapshots concurrently,
// so all access goes through the mutex.
type Run struct {
	mu sync.RWMutex

	id        string
	status    RunStatus
	startedAt time.Time

	found     int
	converted int
	failed    int

	currentDocument string
	currentPage     int
	totalPages      int
}

// NewRun creates a run with a fresh ID.
func NewRun() *Run {
	return &Run{
		id:        uuid.NewString(),
		status:    RunRunning,
		startedAt: time.Now(),
	}
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Snapshot is a point-in-time copy of the run state, safe to serialize.
type Snapshot struct {
	ID              string    `json:"id"`
	Status          RunStatus `json:"status"`
	StartedAt       time.Time `json:"started_at"`
	Found           int       `json:"found"`
	Converted       int       `json:"converted"`
	Failed          int       `json:"failed"`
	CurrentDocument string    `json:"current_document,omitempty"`
	CurrentPage     int       `json:"current_page,omitempty"`
	TotalPages      int       `json:"total_pages,omitempty"`
}

// Snapshot returns a copy of the current state.
func (r *Run) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		ID:              r.id,
		Status:          r.status,
		StartedAt:       r.startedAt,
		Found:           r.found,
		Converted:       r.converted,
		Failed:          r.failed,
		CurrentDocument: r.currentDocument,
		CurrentPage:     r.currentPage,
		TotalPages:      r.totalPages,
	}
}

func (r *Run) documentFound(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.found++
	r.currentDocument = path
	r.currentPage = 0
	r.totalPages = 0
}

func (r *Run) documentConverted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converted++
}

func (r *Run) documentFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

func (r *Run) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = RunFinished
	r.currentDocument = ""
	r.currentPage = 0
	r.totalPages = 0
}

// Notify lets the Run double as a progress observer, keeping the
// per-page fields current for status readers.
func (r *Run) Notify(u progress.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch u.Status {
	case progress.StatusDocumentStarted:
		r.totalPages = u.Total
		r.currentPage = 0
	case progress.StatusPageDone:
		r.currentPage = u.Page
	}
}
