package storage

import "time"

// SessionCredential is the name under which the backend session id is kept.
const SessionCredential = "session_id"

const (
	PreferenceTheme = "theme"
	PreferenceSort  = "sort"
)

type Credential struct {
	Name      string
	Value     string
	UpdatedAt time.Time
}

type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
