package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStatus   = errors.New("model: invalid task status")
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrEmptyTitle      = errors.New("model: task title is required")
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// AllStatuses lists statuses in board order.
var AllStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

func (s TaskStatus) Label() string {
	switch s {
	case StatusTodo:
		return "todo"
	case StatusInProgress:
		return "in progress"
	case StatusDone:
		return "done"
	default:
		return string(s)
	}
}

func ParseStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(strings.ToLower(strings.TrimSpace(raw)))
	if s == "inprogress" || s == "in-progress" || s == "doing" {
		s = StatusInProgress
	}
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
)

func ValidPriority(p int) bool {
	return p >= MinPriority && p <= MaxPriority
}

// NormalizePriority maps an absent or out-of-range priority to the default.
func NormalizePriority(p int) int {
	if !ValidPriority(p) {
		return DefaultPriority
	}
	return p
}

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	Priority    int        `json:"priority"`
	DueDate     *string    `json:"due_date"`
	CreatedAt   Timestamp  `json:"created_at"`
	UpdatedAt   Timestamp  `json:"updated_at"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !ValidPriority(t.Priority) {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, t.Priority)
	}
	return nil
}

func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// Due resolves the due date in loc. Naive values are wall-clock times in loc.
func (t Task) Due(loc *time.Location) (time.Time, bool) {
	if t.DueDate == nil || strings.TrimSpace(*t.DueDate) == "" {
		return time.Time{}, false
	}
	due, err := ParseDateTime(*t.DueDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// TaskDraft is the input for creating a task.
type TaskDraft struct {
	Title       string
	Description string
	Priority    int
	DueDate     string
}

// TaskCreate is the wire body sent to POST /tasks/.
type TaskCreate struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	Priority    int        `json:"priority"`
	DueDate     *string    `json:"due_date"`
}

// Normalize trims the draft and fills defaults. A blank title yields ErrEmptyTitle.
func (d TaskDraft) Normalize() (TaskCreate, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return TaskCreate{}, ErrEmptyTitle
	}
	out := TaskCreate{
		Title:    title,
		Status:   StatusTodo,
		Priority: NormalizePriority(d.Priority),
	}
	if desc := strings.TrimSpace(d.Description); desc != "" {
		out.Description = &desc
	}
	if due := strings.TrimSpace(d.DueDate); due != "" {
		out.DueDate = &due
	}
	return out, nil
}

// TaskPatch is a partial update. Nil fields are left unchanged on the server.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *TaskStatus
	Priority     *int
	DueDate      *string
	ClearDueDate bool
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil && !p.ClearDueDate
}

func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
	}
	if p.Priority != nil && !ValidPriority(*p.Priority) {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, *p.Priority)
	}
	return nil
}

// Body returns the JSON object sent to PATCH /tasks/{id}.
func (p TaskPatch) Body() map[string]any {
	body := map[string]any{}
	if p.Title != nil {
		body["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Status != nil {
		body["status"] = *p.Status
	}
	if p.Priority != nil {
		body["priority"] = *p.Priority
	}
	switch {
	case p.ClearDueDate:
		body["due_date"] = nil
	case p.DueDate != nil:
		body["due_date"] = *p.DueDate
	}
	return body
}

func StatusPatch(s TaskStatus) TaskPatch {
	return TaskPatch{Status: &s}
}
