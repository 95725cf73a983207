package liveevents

import (
	"errors"
	"sync"
	"time"
)

const (
	TypeState = "state"
	TypeCount = "count"
)

const (
	DefaultBufferSize       = 50
	DefaultSubscriberBuffer = 16
)

type Event struct {
	Type     string    `json:"type"`
	State    string    `json:"state,omitempty"`
	Action   string    `json:"action,omitempty"`
	Source   string    `json:"source,omitempty"`
	ShiftID  string    `json:"shift_id,omitempty"`
	Quantity float64   `json:"quantity,omitempty"`
	At       time.Time `json:"at"`
	// Origin identifies the publishing process so relayed events are not
	// echoed back.
	Origin string `json:"origin,omitempty"`
}

// Hub fans line events out to SSE subscribers. The last DefaultBufferSize
// events are retained and handed to new subscribers as a backlog. Slow
// subscribers miss events instead of blocking publishers.
type Hub struct {
	mu               sync.Mutex
	buffer           []Event
	subs             map[uint64]chan Event
	nextID           uint64
	bufferSize       int
	subscriberBuffer int
	closed           bool
}

type Subscription struct {
	hub  *Hub
	id   uint64
	ch   chan Event
	once sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subs:             make(map[uint64]chan Event),
		bufferSize:       DefaultBufferSize,
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.buffer = append(h.buffer, event)
	if len(h.buffer) > h.bufferSize {
		h.buffer = h.buffer[len(h.buffer)-h.bufferSize:]
	}
	subs := make([]chan Event, 0, len(h.subs))
	for _, ch := range h.subs {
		subs = append(subs, ch)
	}
	// sends happen under the lock so Close cannot close a channel mid-send
	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
	h.mu.Unlock()
}

func (h *Hub) Subscribe() (*Subscription, []Event, error) {
	if h == nil {
		return nil, nil, errors.New("hub_unavailable")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, nil, errors.New("hub_closed")
	}
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.subscriberBuffer)
	h.subs[id] = ch
	backlog := append([]Event(nil), h.buffer...)

	return &Subscription{hub: h, id: id, ch: ch}, backlog, nil
}

// Close ends every subscription. Later publishes are dropped.
func (h *Hub) Close() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		close(ch)
		delete(h.subs, id)
	}
}

func (s *Subscription) Events() <-chan Event {
	if s == nil {
		return nil
	}
	return s.ch
}

func (s *Subscription) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.once.Do(func() {
		s.hub.unsubscribe(s.id)
	})
}
