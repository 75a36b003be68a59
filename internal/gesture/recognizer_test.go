package gesture

import "testing"

type countingListeners struct {
	installs int
	removes  int
}

func (c *countingListeners) Install() { c.installs++ }
func (c *countingListeners) Remove()  { c.removes++ }

func drag(r *Recognizer, from, to int) {
	r.Press(from)
	for x := from; x >= to; x -= 10 {
		r.Move(x)
	}
	r.Move(to)
}

func TestShortDragRevealsThenSnapsBack(t *testing.T) {
	l := &countingListeners{}
	deletes := 0
	r := NewRecognizer("task-1", DefaultThresholds(), l, func(string) { deletes++ })

	drag(r, 400, 350)
	if !r.AffordanceVisible() {
		t.Fatal("expected affordance after -50px")
	}
	if r.Offset() != -50 {
		t.Fatalf("expected offset -50, got %d", r.Offset())
	}

	if got := r.Release(); got != Idle {
		t.Fatalf("expected idle after release, got %v", got)
	}
	if deletes != 0 {
		t.Fatalf("expected no delete, got %d", deletes)
	}
	if r.AffordanceVisible() {
		t.Fatal("expected affordance hidden after release")
	}
	if l.installs != 1 || l.removes != 1 {
		t.Fatalf("expected one install and one remove, got %d/%d", l.installs, l.removes)
	}
}

func TestLongDragCommitsExactlyOnce(t *testing.T) {
	l := &countingListeners{}
	var deleted []string
	r := NewRecognizer("task-7", DefaultThresholds(), l, func(row string) { deleted = append(deleted, row) })

	drag(r, 400, 280)
	if got := r.Release(); got != Confirmed {
		t.Fatalf("expected confirmed, got %v", got)
	}
	r.Release()
	r.Cancel()

	if len(deleted) != 1 || deleted[0] != "task-7" {
		t.Fatalf("expected one delete for task-7, got %v", deleted)
	}
	if l.installs != 1 || l.removes != 1 {
		t.Fatalf("expected one install and one remove, got %d/%d", l.installs, l.removes)
	}
}

func TestThresholdBoundaries(t *testing.T) {
	cases := []struct {
		travel     int
		affordance bool
		state      State
	}{
		{30, false, Idle},
		{31, true, Idle},
		{100, true, Idle},
		{101, true, Confirmed},
	}
	for _, tc := range cases {
		r := NewRecognizer("row", DefaultThresholds(), nil, nil)
		r.Press(500)
		r.Move(500 - tc.travel)
		if got := r.AffordanceVisible(); got != tc.affordance {
			t.Fatalf("travel %d: expected affordance=%v, got %v", tc.travel, tc.affordance, got)
		}
		if got := r.Release(); got != tc.state {
			t.Fatalf("travel %d: expected %v, got %v", tc.travel, tc.state, got)
		}
	}
}

func TestRightwardTravelIsClamped(t *testing.T) {
	r := NewRecognizer("row", DefaultThresholds(), nil, nil)
	r.Press(100)
	r.Move(260)
	if r.Delta() != 0 || r.AffordanceVisible() {
		t.Fatalf("expected clamp to zero, got delta %d", r.Delta())
	}
	r.Move(40)
	if r.Delta() != -60 {
		t.Fatalf("expected -60 after reversing, got %d", r.Delta())
	}
	if r.Release() != Idle {
		t.Fatal("expected idle")
	}
}

func TestSettleAndReset(t *testing.T) {
	r := NewRecognizer("row", DefaultThresholds(), nil, nil)
	r.Press(100)
	r.Move(60)
	r.Release()
	if r.Offset() != -40 {
		t.Fatalf("expected residual offset -40, got %d", r.Offset())
	}
	for r.Settle(15) {
	}
	if r.Offset() != 0 {
		t.Fatalf("expected offset 0 after settling, got %d", r.Offset())
	}

	r.Press(300)
	r.Move(150)
	if r.Release() != Confirmed {
		t.Fatal("expected confirmed")
	}
	if r.Press(10) {
		t.Fatal("press should be ignored while confirmed")
	}
	r.Reset()
	if r.State() != Idle || r.Offset() != -DefaultCommitThreshold {
		t.Fatalf("expected idle at commit offset, got %v %d", r.State(), r.Offset())
	}
}

func TestBoardSingleActiveDragAndSync(t *testing.T) {
	l := &countingListeners{}
	var deleted []string
	b := NewBoard(DefaultThresholds(), l, func(row string) { deleted = append(deleted, row) })
	b.Sync([]string{"a", "b"})

	if !b.Press("a", 300) {
		t.Fatal("expected press on a")
	}
	if b.Press("b", 300) {
		t.Fatal("second concurrent drag must be rejected")
	}
	b.Move(150)
	row, state, ok := b.Release()
	if !ok || row != "a" || state != Confirmed {
		t.Fatalf("unexpected release: %q %v %v", row, state, ok)
	}
	if len(deleted) != 1 {
		t.Fatalf("expected one delete, got %v", deleted)
	}

	b.Press("b", 300)
	b.Move(280)
	b.Sync([]string{"a"})
	if _, active := b.Active(); active {
		t.Fatal("expected active drag cleared when its row disappears")
	}
	if b.Row("b") != nil {
		t.Fatal("expected row b removed")
	}
	if l.installs != 2 || l.removes != 2 {
		t.Fatalf("expected balanced listeners, got %d/%d", l.installs, l.removes)
	}
}
