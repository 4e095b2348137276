package engine

import "sync"

// EventType names the notifications the editor produces for peripheral
// consumers (history tab, comment bubbles, collab fanout).
type EventType string

const (
	EventSelectionChanged   EventType = "selectionChanged"
	EventCanvasModeChanged  EventType = "canvasModeChanged"
	EventCommentModeChanged EventType = "commentModeChanged"
	EventViewportChanged    EventType = "viewportChanged"
	EventDocumentChanged    EventType = "documentChanged"
)

// Event is one notification. Payload shape depends on Type:
// selectionChanged carries []string (ordered ids), canvasModeChanged a
// CanvasMode, commentModeChanged a bool.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// Bus fans editor events out to subscribers. It is the sole notification
// channel out of the engine.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := make([]func(Event), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
