package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDateTime = errors.New("model: invalid date-time")

var localDateTimePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[T\s](\d{2}):(\d{2})(?::(\d{2})(?:\.\d+)?)?$`)

// ParseDateTime parses server timestamps. Values without a zone designator are
// wall-clock times in loc; values with Z or an offset are absolute instants.
func ParseDateTime(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDateTime)
	}
	if loc == nil {
		loc = time.Local
	}
	if hasZone(s) {
		t, err := time.Parse(time.RFC3339Nano, strings.Replace(s, " ", "T", 1))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, raw)
		}
		return t, nil
	}
	if m := localDateTimePattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		sec := 0
		if m[6] != "" {
			sec, _ = strconv.Atoi(m[6])
		}
		return time.Date(year, time.Month(month), day, hour, minute, sec, 0, loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, raw)
}

func hasZone(s string) bool {
	idx := strings.IndexAny(s, "T ")
	if idx < 0 {
		return false
	}
	clock := s[idx+1:]
	return strings.HasSuffix(clock, "Z") || strings.ContainsAny(clock, "+-")
}

// FormatLocal renders t as the naive local form the backend stores.
func FormatLocal(t time.Time) string {
	return t.Format("2006-01-02T15:04")
}

// Timestamp decodes naive or zoned server timestamps.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDateTime, string(b))
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDateTime(raw, time.Local)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}
