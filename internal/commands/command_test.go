package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/taskdeck/internal/model"
	"github.com/sandeepkv93/taskdeck/internal/signals"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent tomorrow", TypeAdd},
		{"search quarterly report", TypeSearch},
		{"/search", TypeSearch},
		{"/status todo in_progress", TypeStatus},
		{"/status all", TypeStatus},
		{"/sort due_asc", TypeSort},
		{"/reload", TypeReload},
		{"/theme", TypeTheme},
		{"/theme light", TypeTheme},
		{"LOGOUT", TypeLogout},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseRejectsBadArguments(t *testing.T) {
	cases := []string{"/add", "/add   ", "/status later", "/sort", "/sort sideways", "/theme neon"}
	for _, in := range cases {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseUnknownAndEmpty(t *testing.T) {
	_, err := Parse("/unknown do x")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	_, err = Parse(" / ")
	if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, nil, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("unexpected result: called=%v res=%+v", called, res)
	}

	cmd, _ = Parse("/logout")
	_, err = Execute(cmd, nil, Handlers{})
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected handler missing, got %v", err)
	}
}

func TestFilterCommandsPublishOnBus(t *testing.T) {
	bus := signals.NewBroker()
	sub := bus.Subscribe(signals.KindSearch, signals.KindReload)
	defer sub.Close()

	cmd, _ := Parse("/status todo,done")
	res, err := Execute(cmd, bus, Handlers{})
	if err != nil {
		t.Fatalf("execute status: %v", err)
	}
	if res.Message == "" {
		t.Fatal("expected a status message")
	}
	sig := <-sub.Chan()
	if sig.Kind != signals.KindSearch || sig.Search.Statuses == nil {
		t.Fatalf("unexpected signal: %+v", sig)
	}
	if got := *sig.Search.Statuses; len(got) != 2 || got[1] != model.StatusDone {
		t.Fatalf("unexpected statuses: %v", got)
	}
	if sig.Search.Keyword != nil || sig.Search.Sort != nil {
		t.Fatalf("expected only statuses in patch, got %+v", sig.Search)
	}

	cmd, _ = Parse("/reload")
	if _, err := Execute(cmd, bus, Handlers{}); err != nil {
		t.Fatalf("execute reload: %v", err)
	}
	if sig := <-sub.Chan(); sig.Kind != signals.KindReload {
		t.Fatalf("expected reload, got %+v", sig)
	}
}

func TestExecuteWithoutListener(t *testing.T) {
	cmd, _ := Parse("/search milk")
	res, err := Execute(cmd, signals.NewBroker(), Handlers{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Message != "no task list is listening" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}
