package workspace

import (
	"sync"

	"github.com/aidanlsb/oxcheck/internal/check"
)

// State is the scheduler state.
type State int

const (
	// StateIdle means no file is in flight and the last pass is current.
	StateIdle State = iota
	// StateLoading means at least one load or delete is in flight.
	StateLoading
	// StateSettling means the counters reached zero and a pass is running.
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// Op is the kind of in-flight file operation.
type Op int

const (
	OpLoad Op = iota
	OpDelete
)

type scheduler struct {
	mu       sync.Mutex
	state    State
	loading  int
	deleting int
	gen      uint64
}

// Begin marks one file operation as in flight. The returned func ends it;
// calling it more than once has no further effect. When the last in-flight
// operation ends, the workspace settles and runs one full validation pass.
func (w *Workspace) Begin(op Op) (done func()) {
	s := &w.sched
	s.mu.Lock()
	switch op {
	case OpDelete:
		s.deleting++
	default:
		s.loading++
	}
	s.state = StateLoading
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { w.end(op) })
	}
}

func (w *Workspace) end(op Op) {
	s := &w.sched
	s.mu.Lock()
	switch op {
	case OpDelete:
		s.deleting--
	default:
		s.loading--
	}
	if s.loading > 0 || s.deleting > 0 {
		s.mu.Unlock()
		return
	}
	s.state = StateSettling
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	w.logDebug("Settled, running validation pass")
	report, err := w.Validate()
	if err != nil {
		w.opts.Logf("validation pass failed: %v", err)
	}

	s.mu.Lock()
	if s.gen == gen && s.state == StateSettling {
		s.state = StateIdle
	}
	s.mu.Unlock()

	if err == nil && w.opts.OnReport != nil {
		w.opts.OnReport(report)
	}
}

// abandon ends an operation begun with Begin without settling. When it was
// the last one in flight the state returns to idle and no pass runs.
func (w *Workspace) abandon(op Op) {
	s := &w.sched
	s.mu.Lock()
	defer s.mu.Unlock()
	switch op {
	case OpDelete:
		s.deleting--
	default:
		s.loading--
	}
	if s.loading == 0 && s.deleting == 0 {
		s.state = StateIdle
	}
}

// State returns the scheduler state.
func (w *Workspace) State() State {
	w.sched.mu.Lock()
	defer w.sched.mu.Unlock()
	return w.sched.state
}

// InFlight returns the number of in-flight loads and deletes.
func (w *Workspace) InFlight() (loading, deleting int) {
	w.sched.mu.Lock()
	defer w.sched.mu.Unlock()
	return w.sched.loading, w.sched.deleting
}

// Report returns the report of the most recent pass, or nil before the first.
func (w *Workspace) Report() *check.Report {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}
