package history

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/typeid"
)

// Operation types appended to the log.
const (
	OpMove    = "element.move"
	OpResize  = "element.resize"
	OpExtract = "element.extract"
	OpCreate  = "element.create"
	OpDelete  = "element.delete"
)

// Operation is one committed document mutation, in the shape collaborators
// receive over the wire.
type Operation struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Seq       int64           `json:"seq"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Log is a Recorder that appends operations to an in-memory sequence and
// fans each one out to subscribers (the collab hub broadcasts them to
// clients). Safe for concurrent use.
type Log struct {
	mu   sync.Mutex
	seq  int64
	ops  []Operation
	subs []func(Operation)
}

func NewLog() *Log {
	return &Log{}
}

// Subscribe registers a callback invoked for every appended operation.
// Must be called before the log starts receiving records.
func (l *Log) Subscribe(fn func(Operation)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, fn)
}

// Operations returns a copy of the committed log.
func (l *Log) Operations() []Operation {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Operation, len(l.ops))
	copy(out, l.ops)
	return out
}

// Len returns the number of committed operations.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ops)
}

func (l *Log) append(opType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	l.mu.Lock()
	l.seq++
	op := Operation{
		ID:        typeid.NewOpID(),
		Type:      opType,
		Seq:       l.seq,
		Timestamp: time.Now().UnixMilli(),
		Payload:   data,
	}
	l.ops = append(l.ops, op)
	subs := make([]func(Operation), len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()

	for _, fn := range subs {
		fn(op)
	}
}

func (l *Log) RecordMove(moves []Move) {
	if len(moves) == 0 {
		return
	}
	l.append(OpMove, map[string]any{"moves": moves})
}

func (l *Log) RecordResize(old, new ElementState) {
	l.append(OpResize, map[string]any{"old": old, "new": new})
}

func (l *Log) RecordExtract(id string, original, extracted ElementState, originalContainer string) {
	l.append(OpExtract, map[string]any{
		"id":                id,
		"original":          original,
		"extracted":         extracted,
		"originalContainer": originalContainer,
	})
}

func (l *Log) RecordCreate(state ElementState) {
	l.append(OpCreate, map[string]any{"state": state})
}

func (l *Log) RecordDelete(states []ElementState) {
	if len(states) == 0 {
		return
	}
	l.append(OpDelete, map[string]any{"states": states})
}
