package model

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestTaskValidateSuccess(t *testing.T) {
	task := Task{
		ID:       1,
		Title:    "Write report",
		Status:   StatusInProgress,
		Priority: 4,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateInvalidEnums(t *testing.T) {
	task := Task{ID: 1, Title: "Bad status", Status: TaskStatus("archived"), Priority: 3}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}

	task.Status = StatusTodo
	task.Priority = 6
	err = task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}

	task.Priority = 1
	task.Title = "   "
	if err := task.Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got: %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]TaskStatus{
		"todo":        StatusTodo,
		" DONE ":      StatusDone,
		"in_progress": StatusInProgress,
		"in-progress": StatusInProgress,
	}
	for raw, want := range cases {
		got, err := ParseStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %q, got %q", raw, want, got)
		}
	}
	if _, err := ParseStatus("later"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestDraftNormalizeDefaults(t *testing.T) {
	out, err := TaskDraft{Title: "  buy milk  ", Description: "  ", Priority: 0}.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Title != "buy milk" {
		t.Fatalf("expected trimmed title, got %q", out.Title)
	}
	if out.Description != nil || out.DueDate != nil {
		t.Fatalf("expected nil description and due date, got %v %v", out.Description, out.DueDate)
	}
	if out.Priority != DefaultPriority || out.Status != StatusTodo {
		t.Fatalf("unexpected defaults: priority=%d status=%q", out.Priority, out.Status)
	}

	if _, err := (TaskDraft{Title: "\t"}).Normalize(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestTaskPatchBody(t *testing.T) {
	done := StatusDone
	body := TaskPatch{Status: &done, ClearDueDate: true}.Body()
	if len(body) != 2 {
		t.Fatalf("expected two fields, got %v", body)
	}
	if body["status"] != StatusDone {
		t.Fatalf("expected status done, got %v", body["status"])
	}
	if v, ok := body["due_date"]; !ok || v != nil {
		t.Fatalf("expected explicit null due_date, got %v (present=%v)", v, ok)
	}

	if !(TaskPatch{}).IsEmpty() {
		t.Fatal("expected empty patch")
	}
	if err := (TaskPatch{Title: strPtr(" ")}).Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}
