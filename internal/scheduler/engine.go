package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

type EventKind string

const (
	// KindDue fires when a task's due instant passes.
	KindDue EventKind = "due"
	// KindRollover fires at local midnight, when the urgent window moves.
	KindRollover EventKind = "rollover"
)

type DeadlineEvent struct {
	ID        string
	TaskID    int64
	Kind      EventKind
	TriggerAt time.Time
}

// pending is a heap entry; index tracks its slot so an event can be
// replaced or removed by ID without a scan.
type pending struct {
	event DeadlineEvent
	index int
}

type deadlineHeap []*pending

func (h deadlineHeap) Len() int { return len(h) }

func (h deadlineHeap) Less(i, j int) bool {
	a, b := h[i].event.TriggerAt, h[j].event.TriggerAt
	if a.Equal(b) {
		return h[i].event.ID < h[j].event.ID
	}
	return a.Before(b)
}

func (h deadlineHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *deadlineHeap) Push(x any) {
	p := x.(*pending)
	p.index = len(*h)
	*h = append(*h, p)
}

func (h *deadlineHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	old[n-1] = nil
	p.index = -1
	*h = old[:n-1]
	return p
}

// Engine emits deadline events on C when their trigger time passes.
// Scheduling an event whose ID is already queued moves it. Delivery never
// blocks: when C is full the event is counted in Dropped.
type Engine struct {
	mu      sync.Mutex
	heap    deadlineHeap
	byID    map[string]*pending
	out     chan DeadlineEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped atomic.Uint64
	now     func() time.Time
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		byID:   make(map[string]*pending),
		out:    make(chan DeadlineEvent, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
	}
}

func (e *Engine) C() <-chan DeadlineEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.run()
}

// Stop ends the loop and closes C. Pending events are discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	started := e.started
	close(e.stopCh)
	e.mu.Unlock()
	if started {
		<-e.doneCh
	}
}

func (e *Engine) Schedule(ev DeadlineEvent) error {
	if ev.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	e.upsertLocked(ev)
	e.poke()
	return nil
}

// Replace swaps the whole pending set, for example after the task list reloads.
func (e *Engine) Replace(events []DeadlineEvent) error {
	for _, ev := range events {
		if ev.TriggerAt.IsZero() {
			return ErrInvalidTriggerTime
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	e.resetLocked()
	for _, ev := range events {
		e.upsertLocked(ev)
	}
	e.poke()
	return nil
}

func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
	e.poke()
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.heap)
}

func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *Engine) upsertLocked(ev DeadlineEvent) {
	if p, ok := e.byID[ev.ID]; ok && ev.ID != "" {
		p.event = ev
		heap.Fix(&e.heap, p.index)
		return
	}
	p := &pending{event: ev}
	heap.Push(&e.heap, p)
	if ev.ID != "" {
		e.byID[ev.ID] = p
	}
}

func (e *Engine) resetLocked() {
	e.heap = e.heap[:0]
	clear(e.byID)
}

func (e *Engine) poke() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// nextWait reports how long until the earliest event, or false when idle.
func (e *Engine) nextWait() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.heap) == 0 {
		return 0, false
	}
	return max(0, e.heap[0].event.TriggerAt.Sub(e.now())), true
}

func (e *Engine) takeDue() []DeadlineEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	at := e.now()
	var due []DeadlineEvent
	for len(e.heap) > 0 && !e.heap[0].event.TriggerAt.After(at) {
		p := heap.Pop(&e.heap).(*pending)
		if e.byID[p.event.ID] == p {
			delete(e.byID, p.event.ID)
		}
		due = append(due, p.event)
	}
	return due
}

func (e *Engine) deliver(events []DeadlineEvent) {
	for _, ev := range events {
		select {
		case e.out <- ev:
		default:
			e.dropped.Add(1)
		}
	}
}

func (e *Engine) run() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		var fire <-chan time.Time
		if wait, ok := e.nextWait(); ok {
			timer.Reset(wait)
			fire = timer.C
		}
		select {
		case <-fire:
			e.deliver(e.takeDue())
		case <-e.wakeup:
			timer.Stop()
		case <-e.stopCh:
			return
		}
	}
}
