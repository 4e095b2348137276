package collab

import (
	"encoding/json"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/engine"
)

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Presence
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"

	// Client input. The server owns the interaction state machine;
	// clients only forward raw pointer and key activity.
	TypePointerDown = "pointer.down"
	TypePointerMove = "pointer.move"
	TypePointerUp   = "pointer.up"
	TypeKeyDown     = "key.down"
	TypeKeyUp       = "key.up"

	// Viewport control
	TypeViewportPan    = "viewport.pan"
	TypeViewportZoom   = "viewport.zoom"
	TypeViewportResize = "viewport.resize"

	// Mode and editing commands
	TypeCanvasMode     = "mode.canvas"
	TypeCommentMode    = "mode.comment"
	TypePlacementBegin = "placement.begin"
	TypeTextEditBegin  = "text.begin"
	TypeTextEditSet    = "text.set"
	TypeTextEditEnd    = "text.end"
	TypeEnhanceRequest = "enhance.request"

	// Server push
	TypeDocSync        = "doc.sync"
	TypeSelectionState = "selection.state"
	TypeModeState      = "mode.state"
	TypeViewportState  = "viewport.state"
	TypePreviewState   = "preview.state"
	TypeEnhanceResult  = "enhance.result"
	TypeOpBroadcast    = "op.broadcast"
)

// PointerPayload mirrors the editor's pointer event plus the screen
// coordinates it arrived at.
type PointerPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"`
	Alt    bool    `json:"alt"`
	Shift  bool    `json:"shift"`
	Ctrl   bool    `json:"ctrl"`
	Meta   bool    `json:"meta"`
}

func (p PointerPayload) Event() engine.PointerEvent {
	return engine.PointerEvent{
		X: p.X, Y: p.Y, Button: p.Button,
		Alt: p.Alt, Shift: p.Shift, Ctrl: p.Ctrl, Meta: p.Meta,
	}
}

type KeyPayload struct {
	Key   string `json:"key"`
	Alt   bool   `json:"alt"`
	Shift bool   `json:"shift"`
}

func (p KeyPayload) Event() engine.KeyEvent {
	return engine.KeyEvent{Key: p.Key, Alt: p.Alt, Shift: p.Shift}
}

type PanPayload struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type ZoomPayload struct {
	Zoom    float64 `json:"zoom"`
	AnchorX float64 `json:"anchorX"`
	AnchorY float64 `json:"anchorY"`
}

type ModePayload struct {
	Mode    string `json:"mode,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`
}

type PlacementPayload struct {
	Kind string `json:"kind"`
	Tag  string `json:"tag,omitempty"`
}

type TextPayload struct {
	ElementID string `json:"elementId"`
	Text      string `json:"text,omitempty"`
}

type EnhancePayload struct {
	FrameID string `json:"frameId"`
}

// SelectionStatePayload carries the ordered selection after any change.
type SelectionStatePayload struct {
	Selection []string `json:"selection"`
}

type ViewportStatePayload struct {
	Zoom       float64 `json:"zoom"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}
