package model

import (
	"testing"
	"time"
)

var tokyo = time.FixedZone("JST", 9*60*60)

func taskDue(due string, status TaskStatus) Task {
	return Task{ID: 1, Title: "t", Status: status, Priority: 3, DueDate: &due}
}

func TestIsUrgentUsesStartOfTomorrow(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, tokyo)

	cases := []struct {
		name   string
		task   Task
		urgent bool
	}{
		{"due tonight", taskDue("2024-01-10T23:59", StatusTodo), true},
		{"due tonight but done", taskDue("2024-01-10T23:59", StatusDone), false},
		{"exactly at boundary", taskDue("2024-01-11T00:00", StatusInProgress), true},
		{"within 24h but after boundary", taskDue("2024-01-11T09:00", StatusTodo), false},
		{"beyond tomorrow start", taskDue("2024-01-12T00:00", StatusTodo), false},
		{"already overdue", taskDue("2024-01-09T08:00", StatusTodo), true},
		{"no due date", Task{ID: 2, Title: "x", Status: StatusTodo, Priority: 3}, false},
	}
	for _, tc := range cases {
		if got := IsUrgent(tc.task, now); got != tc.urgent {
			t.Fatalf("%s: expected urgent=%v, got %v", tc.name, tc.urgent, got)
		}
	}
}

func TestIsUrgentNaiveDueIsLocalWallClock(t *testing.T) {
	// 23:59 naive must stay 23:59 in the viewer's zone, not shift from UTC.
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, tokyo)
	task := taskDue("2024-01-10 23:59", StatusTodo)
	due, ok := task.Due(now.Location())
	if !ok {
		t.Fatal("expected parseable due date")
	}
	if due.Hour() != 23 || due.Minute() != 59 || due.Location() != tokyo {
		t.Fatalf("unexpected due instant: %v", due)
	}
	if !IsUrgent(task, now) {
		t.Fatal("expected urgent")
	}
}

func TestUrgentTasksFilters(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, tokyo)
	tasks := []Task{
		taskDue("2024-01-10T23:59", StatusTodo),
		taskDue("2024-01-10T23:59", StatusDone),
		taskDue("2024-01-12T00:00", StatusTodo),
	}
	got := UrgentTasks(tasks, now)
	if len(got) != 1 || got[0].Status != StatusTodo {
		t.Fatalf("expected one urgent todo task, got %+v", got)
	}
}

func TestDueLabelFloorSemantics(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, tokyo)
	cases := []struct {
		due     time.Time
		text    string
		overdue bool
	}{
		{now.Add(-time.Minute), "overdue", true},
		{now.Add(5 * time.Hour), "5 hours left", false},
		{now.Add(5*time.Hour + 59*time.Minute), "5 hours left", false},
		{now.Add(50 * time.Hour), "2 days left", false},
		{now.Add(24 * time.Hour), "1 days left", false},
	}
	for _, tc := range cases {
		got := DueLabelFor(tc.due, now)
		if got.Text != tc.text || got.Overdue != tc.overdue {
			t.Fatalf("due %v: expected %q overdue=%v, got %+v", tc.due, tc.text, tc.overdue, got)
		}
	}
}

func TestTimeUntilDueWithoutDueDate(t *testing.T) {
	if _, ok := TimeUntilDue(Task{Title: "x"}, time.Now()); ok {
		t.Fatal("expected no label for task without due date")
	}
}
