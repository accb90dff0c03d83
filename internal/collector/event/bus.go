package event

import (
	"sync"

	"telegram-stock-pulse/internal/entity"
)

// Type names one of the pipeline's published events.
type Type string

const (
	MessageProcessed Type = "messageProcessed"
	UrgentMessage    Type = "urgentMessage"
	PositiveSignal   Type = "positiveSignal"
	NegativeSignal   Type = "negativeSignal"
	StockMention     Type = "stockMention"
	Statistics       Type = "statistics"
	Started          Type = "started"
	Stopped          Type = "stopped"
	Error            Type = "error"
	ProcessingError  Type = "processingError"
)

// Event is one published occurrence. Exactly one payload field is set for
// the types that carry one: Message for per-message events, Stats for
// statistics, Err for error and processingError.
type Event struct {
	Type    Type
	Message *entity.ScoredMessage
	Stats   *entity.Statistics
	Err     error
}

// subscriptionBuffer bounds each subscriber channel. A slow subscriber loses
// events rather than stalling the processing loop.
const subscriptionBuffer = 256

// Bus is an in-process publish/subscribe hub with named events.
type Bus struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// Subscription delivers matching events on C until Cancel is called.
type Subscription struct {
	C      chan Event
	bus    *Bus
	types  map[Type]struct{}
	cancel sync.Once
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers interest in the given event types. With no types it
// receives everything. The returned subscription must be cancelled when no
// longer consumed.
func (b *Bus) Subscribe(types ...Type) *Subscription {
	sub := &Subscription{
		C:   make(chan Event, subscriptionBuffer),
		bus: b,
	}
	if len(types) > 0 {
		sub.types = make(map[Type]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.C)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Publish fans the event out to all matching subscribers without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for sub := range b.subs {
		if sub.types != nil {
			if _, ok := sub.types[ev.Type]; !ok {
				continue
			}
		}
		select {
		case sub.C <- ev:
		default:
		}
	}
}

// Close cancels every subscription and rejects further publishes.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.C)
	}
	b.subs = make(map[*Subscription]struct{})
}

// Cancel detaches the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Cancel() {
	s.cancel.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		if _, ok := s.bus.subs[s]; ok {
			delete(s.bus.subs, s)
			close(s.C)
		}
	})
}
