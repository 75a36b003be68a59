package signals

import (
	"context"
	"sync"
	"time"

	"github.com/sandeepkv93/taskdeck/internal/model"
)

type Kind string

const (
	// KindReload asks the task list to re-run its last query.
	KindReload Kind = "reload"
	// KindSearch carries partial filter values to adopt before reloading.
	KindSearch Kind = "search"
)

type Signal struct {
	Kind   Kind
	Search model.FilterPatch
	Source string
	At     time.Time
}

func Reload(source string) Signal {
	return Signal{Kind: KindReload, Source: source, At: time.Now()}
}

func Search(source string, patch model.FilterPatch) Signal {
	return Signal{Kind: KindSearch, Search: patch, Source: source, At: time.Now()}
}

// Publisher is what header controls and the command palette depend on.
type Publisher interface {
	Publish(sig Signal) int
}

const subscriberBuffer = 64

type subscriber struct {
	ch    chan Signal
	kinds map[Kind]bool
}

// Broker fans out signals to subscribers.
type Broker struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a subscriber for the given kinds. No kinds means all.
func (b *Broker) Subscribe(kinds ...Kind) *Subscription {
	sub := &subscriber{ch: make(chan Signal, subscriberBuffer), kinds: make(map[Kind]bool)}
	for _, k := range kinds {
		sub.kinds[k] = true
	}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return &Subscription{broker: b, sub: sub}
}

// Publish delivers sig to every matching subscriber and reports how many
// received it. Slow subscribers drop the signal.
func (b *Broker) Publish(sig Signal) int {
	if sig.At.IsZero() {
		sig.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delivered := 0
	for sub := range b.subs {
		if len(sub.kinds) > 0 && !sub.kinds[sig.Kind] {
			continue
		}
		select {
		case sub.ch <- sig:
			delivered++
		default:
		}
	}
	return delivered
}

func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Subscription represents an active broker subscription.
type Subscription struct {
	broker *Broker
	sub    *subscriber
	once   sync.Once
}

func (s *Subscription) Chan() <-chan Signal {
	return s.sub.ch
}

// Close removes the subscription and closes its channel. Safe to call twice.
func (s *Subscription) Close() {
	if s == nil || s.broker == nil || s.sub == nil {
		return
	}
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s.sub)
		s.broker.mu.Unlock()
		close(s.sub.ch)
	})
}

// Next blocks until a signal arrives, the subscription closes or ctx ends.
func (s *Subscription) Next(ctx context.Context) (Signal, bool) {
	select {
	case <-ctx.Done():
		return Signal{}, false
	case sig, ok := <-s.sub.ch:
		return sig, ok
	}
}
