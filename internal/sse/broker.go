// Package sse streams field events to Server-Sent Events clients.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/starford/tagfield/internal/tagfield"
)

// EventFieldsUpdated is a throttled hint, sent to clients watching every
// entity, that some field changed.
const EventFieldsUpdated = "fields.updated"

const clientBuffer = 64

// Client is one subscription. An empty Entity receives events for all fields.
type Client struct {
	Entity string
	C      chan []byte
}

func (c *Client) wants(entity string) bool {
	return c.Entity == "" || c.Entity == entity
}

// Broker fans tagfield events out to subscribed clients.
//
// A single loop goroutine owns the client set, the message sequence and the
// per-entity throttle clock. Public methods talk to it over channels.
type Broker struct {
	throttle  time.Duration
	keepalive time.Duration

	subscribeCh   chan *Client
	unsubscribeCh chan *Client
	eventCh       chan tagfield.Event
	countCh       chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// Option configures a Broker.
type Option func(*Broker)

// WithThrottle sets the minimum gap between fields.updated hints for one
// entity.
func WithThrottle(d time.Duration) Option {
	return func(b *Broker) {
		b.throttle = d
	}
}

// WithKeepalive sets how often ServeHTTP writes a comment line to idle
// connections. Zero disables keepalives.
func WithKeepalive(d time.Duration) Option {
	return func(b *Broker) {
		b.keepalive = d
	}
}

// NewBroker starts a broker.
func NewBroker(opts ...Option) *Broker {
	b := &Broker{
		throttle:      2 * time.Second,
		keepalive:     15 * time.Second,
		subscribeCh:   make(chan *Client),
		unsubscribeCh: make(chan *Client),
		eventCh:       make(chan tagfield.Event, 256),
		countCh:       make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[*Client]struct{})
	lastHint := make(map[string]time.Time)
	var seq uint64

	send := func(kind, entity string, data any, all bool) {
		payload, err := json.Marshal(data)
		if err != nil {
			return
		}
		seq++
		msg := []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", seq, kind, payload))
		for c := range clients {
			if (all && c.Entity != "") || !c.wants(entity) {
				continue
			}
			select {
			case c.C <- msg:
			default:
				// Slow client; drop rather than stall every field.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for c := range clients {
				close(c.C)
			}
			return

		case c := <-b.subscribeCh:
			clients[c] = struct{}{}

		case c := <-b.unsubscribeCh:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.C)
			}

		case e := <-b.eventCh:
			send(e.Kind, e.Entity, e, false)
			now := time.Now()
			if now.Sub(lastHint[e.Entity]) >= b.throttle {
				lastHint[e.Entity] = now
				send(EventFieldsUpdated, e.Entity, map[string]string{"entity": e.Entity}, true)
			}

		case resp := <-b.countCh:
			resp <- len(clients)
		}
	}
}

// Close stops the loop and closes every client channel.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a client for entity, or for all fields when entity is
// empty. The returned channel is closed on Unsubscribe or Close.
func (b *Broker) Subscribe(entity string) *Client {
	c := &Client{Entity: entity, C: make(chan []byte, clientBuffer)}
	if b.closed.Load() {
		close(c.C)
		return c
	}
	select {
	case b.subscribeCh <- c:
	case <-b.stopped:
		close(c.C)
	}
	return c
}

// Unsubscribe removes c.
func (b *Broker) Unsubscribe(c *Client) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- c:
	case <-b.stopped:
	}
}

// ClientCount returns the number of subscribed clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.countCh <- resp:
	case <-b.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Emit implements tagfield.Sink. It only enqueues, so it is safe to call with
// the field locked.
func (b *Broker) Emit(e tagfield.Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.eventCh <- e:
	case <-b.stopped:
	}
}

// ServeHTTP streams events (GET /api/events). The optional entity query
// parameter narrows the stream to one field.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	c := b.Subscribe(r.URL.Query().Get("entity"))
	defer b.Unsubscribe(c)

	var tick <-chan time.Time
	if b.keepalive > 0 {
		t := time.NewTicker(b.keepalive)
		defer t.Stop()
		tick = t.C
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		case msg, ok := <-c.C:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
