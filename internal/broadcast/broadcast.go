package broadcast

import (
	"encoding/json"
	"log"
	"minigames/internal/events"
	"minigames/internal/wshub"
	"sync"
)

type EventMessage struct {
	Event string
	Data  string
}

// Broadcaster relays saved records from the bus to server-sent-event
// subscribers and, when set, to the websocket hub.
type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan EventMessage]bool
	Hub     *wshub.Hub
	done    chan struct{}
}

func NewBroadcaster(bus *events.Bus, hub *wshub.Hub) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan EventMessage]bool),
		Hub:     hub,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		for ev := range bus.RecordsSaved {
			rec := ev.Record
			data, err := json.Marshal(rec)
			if err != nil {
				log.Printf("[Broadcast] Marshal error: %v\n", err)
				continue
			}
			b.Publish("record", string(data))
			if b.Hub != nil {
				b.Hub.Broadcast(wshub.ServerMessage{Type: "record", Record: &rec})
			}
		}
	}()
	return b
}

// Done is closed once the bus is closed and the relay goroutine has exited.
func (b *Broadcaster) Done() <-chan struct{} { return b.done }

func (b *Broadcaster) Subscribe() chan EventMessage {
	ch := make(chan EventMessage, 10)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan EventMessage) {
	b.Mu.Lock()
	delete(b.Clients, ch)
	b.Mu.Unlock()
	close(ch)
}

func (b *Broadcaster) Publish(event string, data string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- EventMessage{Event: event, Data: data}:
		default:
			// skip clients with full data channels
		}
	}
}
