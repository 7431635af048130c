package pipeline

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle phase of a campaign run.
type RunStatus string

const (
	RunIdle      RunStatus = "idle"
	RunStarting  RunStatus = "starting"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
)

// RunState is a point-in-time snapshot of the current run.
type RunState struct {
	RunID      string    `json:"run_id,omitempty"`
	Status     RunStatus `json:"status"`
	TotalLeads int       `json:"total_leads"`
	Processed  int       `json:"processed"`
	Contacted  int       `json:"contacted"`
	Message    string    `json:"message"`
}

// Tracker holds the run state for the single in-flight campaign. The
// orchestrator is the only writer; status queries read snapshots concurrently.
type Tracker struct {
	mu    sync.Mutex
	state RunState
}

// NewTracker creates a Tracker in the idle state.
func NewTracker() *Tracker {
	return &Tracker{state: RunState{Status: RunIdle, Message: "Ready to start"}}
}

// Snapshot returns a copy of the current run state.
func (t *Tracker) Snapshot() RunState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// TryBegin resets the tracker for a new run and returns the run id. It fails
// when a run is already starting or running, leaving that run's state intact.
func (t *Tracker) TryBegin() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Status == RunStarting || t.state.Status == RunRunning {
		return "", false
	}
	t.state = RunState{
		RunID:   uuid.NewString(),
		Status:  RunStarting,
		Message: "Starting pipeline...",
	}
	return t.state.RunID, true
}

// Run marks the run as executing over total leads.
func (t *Tracker) Run(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Status = RunRunning
	t.state.TotalLeads = total
}

// Advance records that the named lead is being processed.
func (t *Tracker) Advance(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Processed++
	t.state.Message = fmt.Sprintf("Processing %s...", name)
}

// MarkContacted bumps the contacted counter.
func (t *Tracker) MarkContacted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Contacted++
}

// SetMessage updates the progress text.
func (t *Tracker) SetMessage(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Message = msg
}

// Complete marks the run finished with a final summary.
func (t *Tracker) Complete(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Status = RunCompleted
	t.state.Message = msg
}
