package model

import (
	"fmt"
	"math"
	"time"
)

// UrgentHorizon is the instant that closes the urgent window: local midnight
// at the start of tomorrow.
func UrgentHorizon(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
}

// NextMidnight is the next local day boundary after now.
func NextMidnight(now time.Time) time.Time {
	return UrgentHorizon(now)
}

func IsUrgent(t Task, now time.Time) bool {
	if t.Status == StatusDone {
		return false
	}
	due, ok := t.Due(now.Location())
	if !ok {
		return false
	}
	return !due.After(UrgentHorizon(now))
}

func UrgentTasks(tasks []Task, now time.Time) []Task {
	out := make([]Task, 0)
	for _, t := range tasks {
		if IsUrgent(t, now) {
			out = append(out, t)
		}
	}
	return out
}

type DueLabel struct {
	Text    string
	Overdue bool
	// Soon is set when fewer than 24 hours remain.
	Soon bool
}

func DueLabelFor(due, now time.Time) DueLabel {
	diff := due.Sub(now)
	if diff < 0 {
		return DueLabel{Text: "overdue", Overdue: true}
	}
	hours := int(math.Floor(diff.Hours()))
	if hours < 24 {
		return DueLabel{Text: fmt.Sprintf("%d hours left", hours), Soon: true}
	}
	return DueLabel{Text: fmt.Sprintf("%d days left", hours/24)}
}

// TimeUntilDue labels a task's due date relative to now. It reports false
// when the task has no parseable due date.
func TimeUntilDue(t Task, now time.Time) (DueLabel, bool) {
	due, ok := t.Due(now.Location())
	if !ok {
		return DueLabel{}, false
	}
	return DueLabelFor(due, now), true
}
