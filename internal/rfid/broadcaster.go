package rfid

import (
	"sync"
	"time"
)

// Event is pushed to subscribers whenever something happens at the reader:
// a successful check-in, an unknown tag, or a tag bound to an employee.
// Type: checkin | rfid_unknown | rfid_assigned
type Event struct {
	Type         string `json:"type"`
	RFIDUID      string `json:"rfid_uid"`
	EmployeeID   string `json:"employee_id,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	CheckinType  string `json:"checkin_type,omitempty"`
	Message      string `json:"message,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(typ, uid string) Event {
	return Event{Type: typ, RFIDUID: uid, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

const subscriberBuffer = 16

// Broadcaster fans events out from one producer (the reader service) to any
// number of subscribers (SSE connections). A subscriber that cannot keep up
// has events dropped rather than blocking the producer — the reader must never
// stall on a slow browser.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new consumer. The returned cancel func must be called
// when the consumer goes away; it closes the channel.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber, dropping it for full channels.
func (b *Broadcaster) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// slow subscriber — drop
		}
	}
}

// SubscriberCount is exposed for monitoring.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
