package update

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdeck/internal/session"
)

// Navigator lets the gateway and the session store send the TUI back to the
// auth screen from command goroutines. It satisfies api.Navigator and
// session.Navigator.
type Navigator struct {
	onAuth atomic.Bool
	ch     chan struct{}
}

func NewNavigator() *Navigator {
	n := &Navigator{ch: make(chan struct{}, 1)}
	n.onAuth.Store(true)
	return n
}

func (n *Navigator) OnAuthPage() bool {
	return n.onAuth.Load()
}

// GoToAuth coalesces: several 401s in flight yield one message.
func (n *Navigator) GoToAuth() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *Navigator) ResetToAuth() {
	n.GoToAuth()
}

func (n *Navigator) setOnAuth(v bool) {
	n.onAuth.Store(v)
}

func waitForAuthCmd(n *Navigator) tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		<-n.ch
		return AuthRequiredMsg{}
	}
}

// sessionFeed turns store change callbacks into at most one pending wakeup.
// It lives as long as the program, so the watch is never removed.
type sessionFeed struct {
	store *session.Store
	ch    chan struct{}
}

func watchSession(store *session.Store) *sessionFeed {
	f := &sessionFeed{store: store, ch: make(chan struct{}, 1)}
	store.Watch(func(session.State) {
		select {
		case f.ch <- struct{}{}:
		default:
		}
	})
	return f
}

func waitForSessionCmd(f *sessionFeed) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		<-f.ch
		return SessionChangedMsg{State: f.store.Snapshot()}
	}
}

// pointerBridge maps gesture listeners to mouse reporting modes: all-motion
// while a drag is live, cell motion otherwise.
type pointerBridge struct {
	pending  []tea.Cmd
	deletes  []string
	installs int
	removes  int
}

func (p *pointerBridge) Install() {
	p.installs++
	p.pending = append(p.pending, tea.EnableMouseAllMotion)
}

func (p *pointerBridge) Remove() {
	p.removes++
	p.pending = append(p.pending, tea.EnableMouseCellMotion)
}

func (p *pointerBridge) recordDelete(row string) {
	p.deletes = append(p.deletes, row)
}

func (p *pointerBridge) drain() tea.Cmd {
	if len(p.pending) == 0 {
		return nil
	}
	cmds := p.pending
	p.pending = nil
	return tea.Batch(cmds...)
}

func (p *pointerBridge) takeDeletes() []string {
	out := p.deletes
	p.deletes = nil
	return out
}
