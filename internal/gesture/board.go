package gesture

// Board owns one Recognizer per visible row and routes pointer events to
// the row under an active drag. At most one row drags at a time.
type Board struct {
	th        Thresholds
	listeners Listeners
	onDelete  func(row string)
	rows      map[string]*Recognizer
	active    *Recognizer
}

func NewBoard(th Thresholds, l Listeners, onDelete func(row string)) *Board {
	return &Board{
		th:        th.normalized(),
		listeners: l,
		onDelete:  onDelete,
		rows:      make(map[string]*Recognizer),
	}
}

// Sync keeps recognizers for rows that are still present and creates new
// ones. A vanished row that was mid-drag gets its listeners removed.
func (b *Board) Sync(rows []string) {
	keep := make(map[string]bool, len(rows))
	for _, id := range rows {
		keep[id] = true
		if _, ok := b.rows[id]; !ok {
			b.rows[id] = NewRecognizer(id, b.th, b.listeners, b.onDelete)
		}
	}
	for id, rec := range b.rows {
		if keep[id] {
			continue
		}
		rec.Detach()
		if b.active == rec {
			b.active = nil
		}
		delete(b.rows, id)
	}
}

func (b *Board) Row(id string) *Recognizer {
	return b.rows[id]
}

func (b *Board) Active() (string, bool) {
	if b.active == nil {
		return "", false
	}
	return b.active.row, true
}

func (b *Board) Press(row string, x int) bool {
	if b.active != nil {
		return false
	}
	rec, ok := b.rows[row]
	if !ok || !rec.Press(x) {
		return false
	}
	b.active = rec
	return true
}

func (b *Board) Move(x int) {
	if b.active != nil {
		b.active.Move(x)
	}
}

// Release ends the active drag and reports the row and its resulting state.
func (b *Board) Release() (string, State, bool) {
	if b.active == nil {
		return "", Idle, false
	}
	rec := b.active
	b.active = nil
	return rec.row, rec.Release(), true
}

// Settle advances every snapping-back row and reports whether any still moves.
func (b *Board) Settle(step int) bool {
	moving := false
	for _, rec := range b.rows {
		if rec.Settle(step) {
			moving = true
		}
	}
	return moving
}
