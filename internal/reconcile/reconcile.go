// Package reconcile turns the server's raw progress event sequence into a
// monotonic, terminal-once progress state for a single trimming job.
package reconcile

// FailureSentinel is the raw progress value the server emits when a job
// fails. It is matched against the raw value, before clamping.
const FailureSentinel = -1

// State is the reconciler lifecycle for one job.
type State int

const (
	// Streaming covers everything before a terminal event, including the
	// window before the first event arrives.
	Streaming State = iota
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "streaming"
	}
}

// Transition describes the effect of one inbound event.
type Transition struct {
	// From and To are the authoritative progress values before and after
	// the event. To > From only when the event advanced progress; the
	// visible indicator should animate between them.
	From, To float64

	// Terminal is the state entered by this event, or Streaming if the
	// job is still running.
	Terminal State
}

// Advanced reports whether the event moved progress forward.
func (t Transition) Advanced() bool {
	return t.To > t.From
}

// Reconciler owns the progress state for exactly one job. It is not safe for
// concurrent use; all events for a job are applied from a single loop.
type Reconciler struct {
	last  float64
	state State
}

// New returns a reconciler with progress 0 for a freshly created job.
func New() *Reconciler {
	return &Reconciler{}
}

// Apply folds one raw server value into the state. Progress never regresses:
// out-of-order or lower values are clamped to the current value. The failure
// sentinel is checked on the raw value; completion on the clamped one. Events
// arriving after a terminal transition are no-ops.
func (r *Reconciler) Apply(raw float64) Transition {
	if r.state != Streaming {
		return Transition{From: r.last, To: r.last, Terminal: r.state}
	}

	if raw == FailureSentinel {
		r.state = Failed
		return Transition{From: r.last, To: r.last, Terminal: Failed}
	}

	candidate := raw
	if candidate < 0 {
		candidate = 0
	}
	if candidate > 100 {
		candidate = 100
	}

	from := r.last
	if candidate > r.last {
		r.last = candidate
	}

	if r.last == 100 {
		r.state = Succeeded
	}

	return Transition{From: from, To: r.last, Terminal: r.state}
}

// Fail records a connection-level stream failure. It is equivalent to a
// failure event, and a no-op once the job is already terminal.
func (r *Reconciler) Fail() Transition {
	if r.state != Streaming {
		return Transition{From: r.last, To: r.last, Terminal: r.state}
	}
	r.state = Failed
	return Transition{From: r.last, To: r.last, Terminal: Failed}
}

// Progress returns the authoritative progress value in [0, 100].
func (r *Reconciler) Progress() float64 {
	return r.last
}

// State returns the current lifecycle state.
func (r *Reconciler) State() State {
	return r.state
}

// Terminal reports whether a terminal transition has occurred.
func (r *Reconciler) Terminal() bool {
	return r.state != Streaming
}
