package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/taskdeck/internal/model"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(DeadlineEvent{ID: "later", TriggerAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(DeadlineEvent{ID: "sooner", TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	now := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(DeadlineEvent{
			ID:        fmt.Sprintf("evt-%d", i),
			TriggerAt: now,
		}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesTriggerTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(DeadlineEvent{ID: "bad"}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
}

func TestScheduleReplacesSameID(t *testing.T) {
	engine := NewEngine(4)
	now := time.Now()
	_ = engine.Schedule(DeadlineEvent{ID: "due-1", TriggerAt: now.Add(time.Hour)})
	_ = engine.Schedule(DeadlineEvent{ID: "due-1", TriggerAt: now.Add(2 * time.Hour)})
	_ = engine.Schedule(DeadlineEvent{ID: "due-2", TriggerAt: now.Add(time.Hour)})
	if got := engine.Pending(); got != 2 {
		t.Fatalf("expected two pending events, got %d", got)
	}
}

func TestReplaceAndClear(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	_ = engine.Schedule(DeadlineEvent{ID: "stale", TriggerAt: now.Add(30 * time.Millisecond)})
	if err := engine.Replace([]DeadlineEvent{
		{ID: "fresh", TriggerAt: now.Add(40 * time.Millisecond)},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	ev := waitEvent(t, engine.C(), time.Second)
	if ev.ID != "fresh" {
		t.Fatalf("expected fresh event, got %s", ev.ID)
	}

	_ = engine.Schedule(DeadlineEvent{ID: "cleared", TriggerAt: now.Add(time.Hour)})
	engine.Clear()
	if engine.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d", engine.Pending())
	}

	if err := engine.Replace([]DeadlineEvent{{ID: "zero"}}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
}

func TestScheduleAfterStopFails(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if err := engine.Schedule(DeadlineEvent{ID: "x", TriggerAt: time.Now()}); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestPlanSkipsDoneAndPastTasks(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, loc)
	due := func(s string) *string { return &s }
	tasks := []model.Task{
		{ID: 1, Status: model.StatusTodo, DueDate: due("2024-01-10T18:00")},
		{ID: 2, Status: model.StatusDone, DueDate: due("2024-01-10T18:00")},
		{ID: 3, Status: model.StatusTodo, DueDate: due("2024-01-09T18:00")},
		{ID: 4, Status: model.StatusInProgress},
	}

	events := Plan(tasks, now)
	if len(events) != 2 {
		t.Fatalf("expected due + rollover, got %+v", events)
	}
	if events[0].TaskID != 1 || events[0].Kind != KindDue || events[0].TriggerAt.Hour() != 18 {
		t.Fatalf("unexpected due event: %+v", events[0])
	}
	want := time.Date(2024, 1, 11, 0, 0, 0, 0, loc)
	if events[1].Kind != KindRollover || !events[1].TriggerAt.Equal(want) {
		t.Fatalf("unexpected rollover event: %+v", events[1])
	}
}

func waitEvent(t *testing.T, ch <-chan DeadlineEvent, timeout time.Duration) DeadlineEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return DeadlineEvent{}
	}
}
