package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/tagfield/internal/tagfield"
)

func drain(c *Client) []string {
	time.Sleep(50 * time.Millisecond)
	var out []string
	for {
		select {
		case msg, ok := <-c.C:
			if !ok {
				return out
			}
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	c := b.Subscribe("")
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(c)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
	if _, ok := <-c.C; ok {
		t.Error("channel not closed after unsubscribe")
	}
}

func TestEmitFormatsFieldEvent(t *testing.T) {
	b := NewBroker(WithThrottle(time.Hour))
	defer b.Close()
	c := b.Subscribe("task-1")
	defer b.Unsubscribe(c)

	b.Emit(tagfield.Event{Kind: tagfield.EventSelectionChanged, Entity: "task-1", Source: tagfield.SourceEditor, Selection: []string{"t1"}})

	msgs := drain(c)
	if len(msgs) != 1 {
		t.Fatalf("messages = %q", msgs)
	}
	for _, want := range []string{"id: 1\n", "event: selection.changed\n", `"selection":["t1"]`, `"source":"editor"`} {
		if !strings.Contains(msgs[0], want) {
			t.Errorf("missing %q in %q", want, msgs[0])
		}
	}
}

func TestEntityFilter(t *testing.T) {
	b := NewBroker(WithThrottle(time.Hour))
	defer b.Close()
	one := b.Subscribe("a")
	all := b.Subscribe("")
	defer b.Unsubscribe(one)
	defer b.Unsubscribe(all)

	b.Emit(tagfield.Event{Kind: tagfield.EventTagsReplaced, Entity: "a"})
	b.Emit(tagfield.Event{Kind: tagfield.EventTagsReplaced, Entity: "b"})

	got := drain(one)
	if len(got) != 1 || !strings.Contains(got[0], `"entity":"a"`) {
		t.Errorf("filtered client got %q", got)
	}
	// Two field events plus one hint per entity.
	if got := drain(all); len(got) != 4 {
		t.Errorf("unfiltered client got %d messages: %q", len(got), got)
	}
}

func TestFieldsUpdatedThrottledPerEntity(t *testing.T) {
	b := NewBroker(WithThrottle(time.Hour))
	defer b.Close()
	c := b.Subscribe("")
	defer b.Unsubscribe(c)

	b.Emit(tagfield.Event{Kind: tagfield.EventSelectionChanged, Entity: "a"})
	b.Emit(tagfield.Event{Kind: tagfield.EventTagsReplaced, Entity: "a"})
	b.Emit(tagfield.Event{Kind: tagfield.EventTagsReplaced, Entity: "b"})

	hints := map[string]int{}
	fields := 0
	for _, msg := range drain(c) {
		switch {
		case strings.Contains(msg, "event: "+EventFieldsUpdated):
			if strings.Contains(msg, `"entity":"a"`) {
				hints["a"]++
			} else {
				hints["b"]++
			}
		default:
			fields++
		}
	}
	if fields != 3 {
		t.Errorf("field events = %d, want 3", fields)
	}
	if hints["a"] != 1 || hints["b"] != 1 {
		t.Errorf("hints = %v, want one per entity", hints)
	}
}

func TestBrokerAsFieldSink(t *testing.T) {
	b := NewBroker(WithThrottle(time.Hour))
	defer b.Close()
	c := b.Subscribe("task-1")
	defer b.Unsubscribe(c)

	f, err := tagfield.New("task-1", tagfield.Snapshot{}, tagfield.WithSink(b))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Replace(tagfield.Snapshot{}, tagfield.SourceAPI); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-c.C:
		if !strings.Contains(string(msg), "event: tags.replaced") {
			t.Errorf("unexpected message %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for field event")
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(WithThrottle(time.Hour), WithKeepalive(20*time.Millisecond))
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events?entity=x", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.Emit(tagfield.Event{Kind: tagfield.EventTagsReplaced, Entity: "x"})
	b.Emit(tagfield.Event{Kind: tagfield.EventTagsReplaced, Entity: "y"})
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: tags.replaced") {
		t.Errorf("handler output missing event: %q", body)
	}
	if strings.Contains(body, `"entity":"y"`) {
		t.Errorf("handler leaked another entity: %q", body)
	}
	if !strings.Contains(body, ": keepalive") {
		t.Errorf("no keepalive written: %q", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestEmitDropsOnFullBuffer(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	c := b.Subscribe("x")
	defer b.Unsubscribe(c)

	for i := 0; i < clientBuffer+10; i++ {
		b.Emit(tagfield.Event{Kind: tagfield.EventSelectionChanged, Entity: "x"})
	}
}

func TestCloseClosesSubscribers(t *testing.T) {
	b := NewBroker()
	c := b.Subscribe("")
	b.Close()

	select {
	case _, ok := <-c.C:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}
	b.Emit(tagfield.Event{Kind: tagfield.EventTagsReplaced, Entity: "x"})
	if _, ok := <-b.Subscribe("").C; ok {
		t.Error("subscribe after close should return a closed channel")
	}
}
