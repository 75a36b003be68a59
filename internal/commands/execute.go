package commands

import (
	"fmt"

	"github.com/sandeepkv93/taskdeck/internal/model"
	"github.com/sandeepkv93/taskdeck/internal/signals"
)

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Theme  func(ThemeArgs) (Result, error)
	Logout func() (Result, error)
}

// Execute runs cmd. Filter commands and reload are published on bus and never
// touch the task list directly; the rest go to handlers.
func Execute(cmd Command, bus signals.Publisher, handlers Handlers) (Result, error) {
	if sig, ok := SignalFor(cmd); ok {
		if bus == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "signal bus not configured"}
		}
		n := bus.Publish(sig)
		if n == 0 {
			return Result{Message: "no task list is listening"}, nil
		}
		return Result{Message: describe(cmd)}, nil
	}

	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeTheme:
		if handlers.Theme == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "theme handler not configured"}
		}
		return handlers.Theme(*cmd.Theme)
	case TypeLogout:
		if handlers.Logout == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "logout handler not configured"}
		}
		return handlers.Logout()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

const paletteSource = "palette"

// SignalFor maps filter and reload commands to bus signals.
func SignalFor(cmd Command) (signals.Signal, bool) {
	switch cmd.Type {
	case TypeReload:
		return signals.Reload(paletteSource), true
	case TypeSearch:
		kw := cmd.Search.Keyword
		return signals.Search(paletteSource, model.FilterPatch{Keyword: &kw}), true
	case TypeStatus:
		statuses := append([]model.TaskStatus{}, cmd.Status.Statuses...)
		return signals.Search(paletteSource, model.FilterPatch{Statuses: &statuses}), true
	case TypeSort:
		order := cmd.Sort.Order
		return signals.Search(paletteSource, model.FilterPatch{Sort: &order}), true
	default:
		return signals.Signal{}, false
	}
}

func describe(cmd Command) string {
	switch cmd.Type {
	case TypeReload:
		return "reloading tasks"
	case TypeSearch:
		if cmd.Search.Keyword == "" {
			return "search cleared"
		}
		return fmt.Sprintf("searching for %q", cmd.Search.Keyword)
	case TypeStatus:
		if len(cmd.Status.Statuses) == 0 {
			return "showing all statuses"
		}
		return fmt.Sprintf("showing %d status(es)", len(cmd.Status.Statuses))
	case TypeSort:
		return "sorted by " + string(cmd.Sort.Order)
	default:
		return string(cmd.Type)
	}
}
