package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/taskdeck/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeSearch Type = "search"
	TypeStatus Type = "status"
	TypeSort   Type = "sort"
	TypeReload Type = "reload"
	TypeTheme  Type = "theme"
	TypeLogout Type = "logout"
)

// Names lists the palette commands in help order.
var Names = []Type{TypeAdd, TypeSearch, TypeStatus, TypeSort, TypeReload, TypeTheme, TypeLogout}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title string
}

type SearchArgs struct {
	// Keyword is "" to clear the search.
	Keyword string
}

type StatusArgs struct {
	// Statuses is empty for "all".
	Statuses []model.TaskStatus
}

type SortArgs struct {
	Order model.SortOrder
}

type ThemeArgs struct {
	// Name is "" to toggle.
	Name string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Search *SearchArgs
	Status *StatusArgs
	Sort   *SortArgs
	Theme  *ThemeArgs
}

func Parse(input string) (Command, error) {
	parts := strings.Fields(strings.TrimPrefix(strings.TrimSpace(input), "/"))
	if len(parts) == 0 {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	head, args := strings.ToLower(parts[0]), parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Keyword: strings.Join(args, " ")}}, nil
	case TypeStatus:
		return parseStatus(input, args)
	case TypeSort:
		return parseSort(input, args)
	case TypeReload:
		return Command{Type: TypeReload, Raw: input}, nil
	case TypeTheme:
		return parseTheme(input, args)
	case TypeLogout:
		return Command{Type: TypeLogout, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseStatus(raw string, args []string) (Command, error) {
	statuses, err := model.ParseStatusList(strings.Join(args, ","))
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "status takes todo, in_progress, done or all"}
	}
	return Command{Type: TypeStatus, Raw: raw, Status: &StatusArgs{Statuses: statuses}}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sort requires one order"}
	}
	order, err := model.ParseSortOrder(strings.ToLower(args[0]))
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown sort order %q", args[0])}
	}
	return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Order: order}}, nil
}

func parseTheme(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{}}, nil
	}
	name := strings.ToLower(args[0])
	if name != "light" && name != "dark" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "theme is light or dark"}
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Name: name}}, nil
}
