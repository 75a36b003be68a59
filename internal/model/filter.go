package model

import (
	"fmt"
	"net/url"
	"strings"
)

type SortOrder string

const (
	SortCreatedDesc  SortOrder = "created_desc"
	SortCreatedAsc   SortOrder = "created_asc"
	SortDueAsc       SortOrder = "due_asc"
	SortDueDesc      SortOrder = "due_desc"
	SortPriorityAsc  SortOrder = "priority_asc"
	SortPriorityDesc SortOrder = "priority_desc"
)

var SortOrders = []SortOrder{SortCreatedDesc, SortCreatedAsc, SortDueAsc, SortDueDesc, SortPriorityAsc, SortPriorityDesc}

func (s SortOrder) IsValid() bool {
	for _, o := range SortOrders {
		if s == o {
			return true
		}
	}
	return false
}

func ParseSortOrder(raw string) (SortOrder, error) {
	s := SortOrder(strings.TrimSpace(raw))
	if !s.IsValid() {
		return "", fmt.Errorf("model: invalid sort order %q", raw)
	}
	return s, nil
}

// Filter selects the task list. Zero-valued fields are omitted from the query.
type Filter struct {
	Keyword  string
	Statuses []TaskStatus
	Sort     SortOrder
}

func (f Filter) Query() url.Values {
	q := url.Values{}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		q.Set("q", kw)
	}
	if len(f.Statuses) > 0 {
		parts := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			parts = append(parts, string(s))
		}
		q.Set("status_in", strings.Join(parts, ","))
	}
	if f.Sort != "" {
		q.Set("sort", string(f.Sort))
	}
	return q
}

// PrependsCreated reports whether newly created tasks belong at the head.
func (f Filter) PrependsCreated() bool {
	return f.Sort == "" || f.Sort == SortCreatedDesc
}

// FilterPatch is a partial filter carried by search signals. Nil fields keep
// the current value.
type FilterPatch struct {
	Keyword  *string
	Statuses *[]TaskStatus
	Sort     *SortOrder
}

func (f Filter) Apply(p FilterPatch) Filter {
	out := f
	if p.Keyword != nil {
		out.Keyword = *p.Keyword
	}
	if p.Statuses != nil {
		out.Statuses = append([]TaskStatus(nil), (*p.Statuses)...)
	}
	if p.Sort != nil {
		out.Sort = *p.Sort
	}
	return out
}

func ParseStatusList(raw string) ([]TaskStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "all" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]TaskStatus, 0, len(parts))
	for _, p := range parts {
		s, err := ParseStatus(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
