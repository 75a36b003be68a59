package scheduler

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/taskdeck/internal/model"
)

const rolloverID = "rollover"

// Plan lists the events that change how tasks render after now: each open
// task's due instant and the next local midnight.
func Plan(tasks []model.Task, now time.Time) []DeadlineEvent {
	out := make([]DeadlineEvent, 0, len(tasks)+1)
	for _, t := range tasks {
		if t.Status == model.StatusDone {
			continue
		}
		due, ok := t.Due(now.Location())
		if !ok || !due.After(now) {
			continue
		}
		out = append(out, DeadlineEvent{
			ID:        fmt.Sprintf("due-%d", t.ID),
			TaskID:    t.ID,
			Kind:      KindDue,
			TriggerAt: due,
		})
	}
	out = append(out, DeadlineEvent{
		ID:        rolloverID,
		Kind:      KindRollover,
		TriggerAt: model.NextMidnight(now),
	})
	return out
}
