package events

import (
	"minigames/internal/db"
	"sync"
)

type RecordSavedEvent struct {
	Record db.GameRecord
}

type Bus struct {
	RecordsSaved chan RecordSavedEvent

	mu     sync.Mutex
	closed bool
}

func NewBus() *Bus {
	return &Bus{
		RecordsSaved: make(chan RecordSavedEvent, 64),
	}
}

// PublishRecord never blocks; the event is dropped when the buffer is full
// or the bus is closed.
func (b *Bus) PublishRecord(rec db.GameRecord) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	select {
	case b.RecordsSaved <- RecordSavedEvent{Record: rec}:
		return true
	default:
		return false
	}
}

// Close closes RecordsSaved so consumers ranging over it exit. Safe to call
// more than once.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.RecordsSaved)
}
