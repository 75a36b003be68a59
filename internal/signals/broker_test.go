package signals

import (
	"context"
	"testing"
	"time"

	"github.com/sandeepkv93/taskdeck/internal/model"
)

func TestPublishRoutesByKind(t *testing.T) {
	b := NewBroker()
	reloads := b.Subscribe(KindReload)
	defer reloads.Close()
	all := b.Subscribe()
	defer all.Close()

	kw := "milk"
	if n := b.Publish(Search("header", model.FilterPatch{Keyword: &kw})); n != 1 {
		t.Fatalf("expected search delivered to one subscriber, got %d", n)
	}
	if n := b.Publish(Reload("header")); n != 2 {
		t.Fatalf("expected reload delivered to two subscribers, got %d", n)
	}

	sig := <-all.Chan()
	if sig.Kind != KindSearch || sig.Search.Keyword == nil || *sig.Search.Keyword != "milk" {
		t.Fatalf("unexpected first signal: %+v", sig)
	}
	if sig.At.IsZero() {
		t.Fatal("expected timestamp on signal")
	}
	if sig := <-reloads.Chan(); sig.Kind != KindReload {
		t.Fatalf("unexpected signal on reload subscription: %+v", sig)
	}
}

func TestCloseStopsDeliveryAndIsIdempotent(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe(KindReload)
	if b.Subscribers() != 1 {
		t.Fatalf("expected one subscriber, got %d", b.Subscribers())
	}

	sub.Close()
	sub.Close()

	if b.Subscribers() != 0 {
		t.Fatalf("expected zero subscribers after close, got %d", b.Subscribers())
	}
	if n := b.Publish(Reload("test")); n != 0 {
		t.Fatalf("expected no delivery after close, got %d", n)
	}
	if _, ok := <-sub.Chan(); ok {
		t.Fatal("expected closed channel")
	}
}

func TestSlowSubscriberDropsSignals(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe()
	defer sub.Close()

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish(Reload("flood"))
	}
	if got := len(sub.Chan()); got != subscriberBuffer {
		t.Fatalf("expected buffer to cap at %d, got %d", subscriberBuffer, got)
	}
}

func TestNextHonoursContextAndClose(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, ok := sub.Next(ctx); ok {
		t.Fatal("expected timeout without signal")
	}

	b.Publish(Reload("x"))
	if sig, ok := sub.Next(context.Background()); !ok || sig.Kind != KindReload {
		t.Fatalf("expected reload, got %+v ok=%v", sig, ok)
	}

	sub.Close()
	if _, ok := sub.Next(context.Background()); ok {
		t.Fatal("expected closed subscription")
	}
}
