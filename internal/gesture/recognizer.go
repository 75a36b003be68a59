// Package gesture implements the swipe-to-delete recognizer used by task rows.
//
// A drag starts on a row, tracks the pointer horizontally and either snaps
// back or commits a delete on release. Only leftward travel counts. All
// distances are in pixels; callers that work in terminal cells convert first.
package gesture

type State int

const (
	Idle State = iota
	Dragging
	Confirmed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Confirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

const (
	DefaultRevealThreshold = 30
	DefaultCommitThreshold = 100
)

type Thresholds struct {
	Reveal int
	Commit int
}

func DefaultThresholds() Thresholds {
	return Thresholds{Reveal: DefaultRevealThreshold, Commit: DefaultCommitThreshold}
}

func (t Thresholds) normalized() Thresholds {
	if t.Reveal <= 0 {
		t.Reveal = DefaultRevealThreshold
	}
	if t.Commit <= 0 {
		t.Commit = DefaultCommitThreshold
	}
	if t.Commit < t.Reveal {
		t.Commit = t.Reveal
	}
	return t
}

// Listeners are the global move/up handlers a drag needs while the pointer
// may leave the row. Install and Remove are paired exactly once per drag.
type Listeners interface {
	Install()
	Remove()
}

type noListeners struct{}

func (noListeners) Install() {}
func (noListeners) Remove()  {}

// Recognizer tracks one row.
type Recognizer struct {
	row        string
	th         Thresholds
	listeners  Listeners
	onDelete   func(row string)
	state      State
	anchorX    int
	currentX   int
	installed  bool
	settleFrom int
}

func NewRecognizer(row string, th Thresholds, l Listeners, onDelete func(row string)) *Recognizer {
	if l == nil {
		l = noListeners{}
	}
	return &Recognizer{row: row, th: th.normalized(), listeners: l, onDelete: onDelete}
}

func (r *Recognizer) Row() string            { return r.row }
func (r *Recognizer) State() State           { return r.state }
func (r *Recognizer) Thresholds() Thresholds { return r.th }

// Press starts a drag at x. It is ignored unless the recognizer is idle.
func (r *Recognizer) Press(x int) bool {
	if r.state != Idle {
		return false
	}
	r.state = Dragging
	r.anchorX = x
	r.currentX = x
	r.settleFrom = 0
	r.install()
	return true
}

func (r *Recognizer) Move(x int) {
	if r.state != Dragging {
		return
	}
	r.currentX = x
}

// Delta is the clamped horizontal travel: zero or negative.
func (r *Recognizer) Delta() int {
	if r.state != Dragging {
		return 0
	}
	return min(0, r.currentX-r.anchorX)
}

// Offset is how far the row is drawn from its rest position. After a
// cancelled drag it decays through Settle.
func (r *Recognizer) Offset() int {
	switch r.state {
	case Dragging:
		return r.Delta()
	case Idle:
		return r.settleFrom
	default:
		return -r.th.Commit
	}
}

// AffordanceVisible reports whether the delete hint should be drawn.
func (r *Recognizer) AffordanceVisible() bool {
	switch r.state {
	case Dragging:
		return -r.Delta() > r.th.Reveal
	case Confirmed:
		return true
	default:
		return false
	}
}

// Release ends the drag. Travel beyond the commit threshold confirms the
// delete and calls onDelete once; anything less snaps back to idle.
func (r *Recognizer) Release() State {
	if r.state != Dragging {
		return r.state
	}
	delta := r.Delta()
	r.uninstall()
	if -delta > r.th.Commit {
		r.state = Confirmed
		if r.onDelete != nil {
			r.onDelete(r.row)
		}
		return r.state
	}
	r.state = Idle
	r.settleFrom = delta
	return r.state
}

// Cancel is a pointer-cancel; it follows the same rules as Release.
func (r *Recognizer) Cancel() State {
	return r.Release()
}

// Reset returns a confirmed row to idle, for example when the user declines
// the confirmation prompt. The row animates back from the commit offset.
func (r *Recognizer) Reset() {
	if r.state == Dragging {
		r.uninstall()
	}
	if r.state != Idle {
		r.settleFrom = -r.th.Commit
	}
	r.state = Idle
}

// Settle moves a snapped-back row step pixels toward rest and reports whether
// it is still moving.
func (r *Recognizer) Settle(step int) bool {
	if r.state != Idle || r.settleFrom == 0 {
		return false
	}
	if step <= 0 {
		step = 1
	}
	r.settleFrom = min(0, r.settleFrom+step)
	return r.settleFrom != 0
}

// Detach removes listeners if the row goes away mid-drag.
func (r *Recognizer) Detach() {
	if r.state == Dragging {
		r.uninstall()
		r.state = Idle
	}
	r.settleFrom = 0
}

func (r *Recognizer) install() {
	if r.installed {
		return
	}
	r.installed = true
	r.listeners.Install()
}

func (r *Recognizer) uninstall() {
	if !r.installed {
		return
	}
	r.installed = false
	r.listeners.Remove()
}
