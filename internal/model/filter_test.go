package model

import "testing"

func TestFilterQueryIncludesOnlyPresentFields(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"empty", Filter{}, ""},
		{"keyword only", Filter{Keyword: "report"}, "q=report"},
		{"blank keyword dropped", Filter{Keyword: "  ", Sort: SortDueAsc}, "sort=due_asc"},
		{
			"all fields",
			Filter{Keyword: "x", Statuses: []TaskStatus{StatusTodo, StatusDone}, Sort: SortCreatedDesc},
			"q=x&sort=created_desc&status_in=todo%2Cdone",
		},
	}
	for _, tc := range cases {
		if got := tc.filter.Query().Encode(); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestFilterApplyPartial(t *testing.T) {
	base := Filter{Keyword: "a", Statuses: []TaskStatus{StatusTodo}, Sort: SortDueAsc}
	kw := "b"
	got := base.Apply(FilterPatch{Keyword: &kw})
	if got.Keyword != "b" || got.Sort != SortDueAsc || len(got.Statuses) != 1 {
		t.Fatalf("unexpected filter: %+v", got)
	}

	none := []TaskStatus{}
	got = got.Apply(FilterPatch{Statuses: &none})
	if len(got.Statuses) != 0 {
		t.Fatalf("expected cleared statuses, got %+v", got.Statuses)
	}
}

func TestParseStatusList(t *testing.T) {
	got, err := ParseStatusList("todo,in_progress")
	if err != nil || len(got) != 2 || got[1] != StatusInProgress {
		t.Fatalf("unexpected result %v err=%v", got, err)
	}
	got, err = ParseStatusList("all")
	if err != nil || got != nil {
		t.Fatalf("expected nil for all, got %v err=%v", got, err)
	}
	if _, err := ParseStatusList("todo,nope"); err == nil {
		t.Fatal("expected error")
	}
}
