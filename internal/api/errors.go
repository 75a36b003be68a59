package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type Kind string

const (
	KindNetwork      Kind = "network"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindServer       Kind = "server"
)

// Error is returned by every endpoint client. Status is zero for transport failures.
type Error struct {
	Op     string
	Kind   Kind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Detail)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the text shown to the user. The server's detail wins when present.
func (e *Error) Message() string {
	switch e.Kind {
	case KindNetwork:
		return "network error: check your connection and try again"
	case KindUnauthorized:
		if e.Detail != "" {
			return e.Detail
		}
		return "session expired, please log in again"
	case KindValidation:
		if e.Detail != "" {
			return e.Detail
		}
		return "invalid input, check the form and try again"
	case KindConflict:
		if e.Detail != "" {
			return e.Detail
		}
		return "already exists"
	case KindNotFound:
		if e.Detail != "" {
			return e.Detail
		}
		return "not found"
	default:
		if e.Detail != "" {
			return fmt.Sprintf("server error (%d): %s", e.Status, e.Detail)
		}
		return fmt.Sprintf("server error (%d)", e.Status)
	}
}

func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message extracts user-facing text from any error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusUnprocessableEntity, status == http.StatusBadRequest:
		return KindValidation
	default:
		return KindServer
	}
}

const maxErrorBody = 64 << 10

func errorFromResponse(op string, resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &Error{
		Op:     op,
		Kind:   kindForStatus(resp.StatusCode),
		Status: resp.StatusCode,
		Detail: parseDetail(body),
	}
}

// parseDetail reads a string "detail" field. Structured validation details
// and unparseable bodies yield "".
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}

func networkError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNetwork, Err: err}
}
