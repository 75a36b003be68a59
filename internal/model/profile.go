package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID accepts numeric or string identifiers from the server.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("model: invalid id %s", string(b))
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

type UserProfile struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Mail      string `json:"mail"`
	AvatarURL string `json:"avatar_url,omitempty"`
	IsGuest   bool   `json:"is_guest,omitempty"`
}

func (p UserProfile) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	if p.Mail != "" {
		return p.Mail
	}
	return "user " + p.ID.String()
}

// GuestAccount holds the generated guest credentials. The server returns them
// once; the client never persists the password.
type GuestAccount struct {
	ID       ID     `json:"id"`
	Password string `json:"password"`
}

type ChatMessage struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp"`
}
