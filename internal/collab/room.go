package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/engine"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/enhance"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/history"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/sandbox"
)

// Room hosts the authoritative editor for one project. Every connected
// client's pointer and key input funnels through the room, which applies
// it to the editor under a single lock and fans the resulting state back
// out. Clients never mutate the document directly.
type Room struct {
	ProjectID string

	mu       sync.Mutex // serializes all editor access
	editor   *engine.Editor
	log      *history.Log
	previews *sandbox.Registry
	enhancer *enhance.Service
	presence *PresenceManager
	logger   *slog.Logger

	clientsMu sync.RWMutex
	clients   map[string]*Client
}

func NewRoom(projectID string, doc *document.CanvasDocument, enhancer *enhance.Service, logger *slog.Logger) *Room {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Room{
		ProjectID: projectID,
		log:       history.NewLog(),
		previews:  sandbox.NewRegistry(logger),
		enhancer:  enhancer,
		presence:  NewPresenceManager(),
		logger:    logger,
		clients:   make(map[string]*Client),
	}
	r.editor = engine.NewEditor(doc, r.log, r.previews)

	// Event callbacks run synchronously inside editor calls, while
	// r.mu is held. Client sends are buffered and non-blocking, so the
	// fan-out never stalls an interaction.
	r.editor.Events().Subscribe(r.onEditorEvent)
	r.log.Subscribe(r.onOperation)
	return r
}

// Editor exposes the room's editor for snapshotting. Callers must not
// mutate through it; input goes through HandleInput.
func (r *Room) Editor() *engine.Editor { return r.editor }

func (r *Room) Log() *history.Log { return r.log }

func (r *Room) addClient(c *Client) int {
	r.clientsMu.Lock()
	defer r.clientsMu.Unlock()
	r.clients[c.ClientID] = c
	return len(r.clients)
}

func (r *Room) removeClient(c *Client) int {
	r.clientsMu.Lock()
	defer r.clientsMu.Unlock()
	delete(r.clients, c.ClientID)
	return len(r.clients)
}

func (r *Room) broadcast(msg *Message, excludeClientID string) {
	r.clientsMu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	r.clientsMu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func (r *Room) onEditorEvent(ev engine.Event) {
	switch ev.Type {
	case engine.EventSelectionChanged:
		r.broadcastJSON(TypeSelectionState, SelectionStatePayload{Selection: r.editor.Selection()})
	case engine.EventCanvasModeChanged:
		r.broadcastJSON(TypeModeState, ModePayload{Mode: string(r.editor.CanvasMode())})
		r.broadcastJSON(TypePreviewState, r.previews.Snapshot())
	case engine.EventCommentModeChanged:
		r.broadcastJSON(TypeCommentMode, ModePayload{Enabled: r.editor.CommentMode()})
	case engine.EventViewportChanged:
		vp := r.editor.Viewport()
		r.broadcastJSON(TypeViewportState, ViewportStatePayload{
			Zoom:       vp.Zoom,
			TranslateX: vp.TranslateX,
			TranslateY: vp.TranslateY,
		})
	case engine.EventDocumentChanged:
		r.broadcastJSON(TypeDocSync, r.editor.Document())
	}
}

func (r *Room) onOperation(op history.Operation) {
	r.broadcastJSON(TypeOpBroadcast, op)
}

func (r *Room) broadcastJSON(msgType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("marshal broadcast payload", "type", msgType, "error", err)
		return
	}
	r.broadcast(&Message{Type: msgType, ProjectID: r.ProjectID, Payload: data}, "")
}

// welcome pushes the full current state to a client that just joined.
func (r *Room) welcome(c *Client) {
	r.mu.Lock()
	doc, _ := json.Marshal(r.editor.Document())
	vp := r.editor.Viewport()
	sel := r.editor.Selection()
	mode := r.editor.CanvasMode()
	previews := r.previews.Snapshot()
	r.mu.Unlock()

	c.Send(&Message{Type: TypeDocSync, ProjectID: r.ProjectID, Payload: doc})
	vpData, _ := json.Marshal(ViewportStatePayload{Zoom: vp.Zoom, TranslateX: vp.TranslateX, TranslateY: vp.TranslateY})
	c.Send(&Message{Type: TypeViewportState, ProjectID: r.ProjectID, Payload: vpData})
	selData, _ := json.Marshal(SelectionStatePayload{Selection: sel})
	c.Send(&Message{Type: TypeSelectionState, ProjectID: r.ProjectID, Payload: selData})
	modeData, _ := json.Marshal(ModePayload{Mode: string(mode)})
	c.Send(&Message{Type: TypeModeState, ProjectID: r.ProjectID, Payload: modeData})
	if len(previews) > 0 {
		pvData, _ := json.Marshal(previews)
		c.Send(&Message{Type: TypePreviewState, ProjectID: r.ProjectID, Payload: pvData})
	}
	if state := r.presence.StateMessage(); state != nil {
		c.Send(state)
	}
}

// HandleInput applies one client message to the room's editor.
func (r *Room) HandleInput(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		r.handlePresenceUpdate(sender, msg)
		return
	case TypeEnhanceRequest:
		r.handleEnhance(sender, msg)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch msg.Type {
	case TypePointerDown:
		var p PointerPayload
		if unmarshalInput(sender, msg, &p) {
			r.editor.HandlePointerDown(p.Event())
		}
	case TypePointerMove:
		var p PointerPayload
		if unmarshalInput(sender, msg, &p) {
			r.editor.HandlePointerMove(p.Event())
		}
	case TypePointerUp:
		var p PointerPayload
		if unmarshalInput(sender, msg, &p) {
			r.editor.HandlePointerUp(p.Event())
		}
	case TypeKeyDown:
		var k KeyPayload
		if unmarshalInput(sender, msg, &k) {
			r.editor.HandleKeyDown(k.Event())
		}
	case TypeKeyUp:
		var k KeyPayload
		if unmarshalInput(sender, msg, &k) {
			r.editor.HandleKeyUp(k.Event())
		}
	case TypeViewportPan:
		var p PanPayload
		if unmarshalInput(sender, msg, &p) {
			r.editor.Pan(p.DX, p.DY)
		}
	case TypeViewportZoom:
		var z ZoomPayload
		if unmarshalInput(sender, msg, &z) {
			r.editor.SetZoom(z.Zoom, z.AnchorX, z.AnchorY)
		}
	case TypeViewportResize:
		r.editor.WindowResized()
	case TypeCanvasMode:
		var m ModePayload
		if unmarshalInput(sender, msg, &m) {
			r.editor.SetCanvasMode(engine.CanvasMode(m.Mode))
		}
	case TypeCommentMode:
		var m ModePayload
		if unmarshalInput(sender, msg, &m) {
			r.editor.SetCommentMode(m.Enabled)
		}
	case TypePlacementBegin:
		var p PlacementPayload
		if unmarshalInput(sender, msg, &p) {
			r.editor.BeginPlacement(document.Kind(p.Kind), p.Tag)
		}
	case TypeTextEditBegin:
		var t TextPayload
		if unmarshalInput(sender, msg, &t) {
			r.editor.BeginTextEdit(t.ElementID)
		}
	case TypeTextEditSet:
		var t TextPayload
		if unmarshalInput(sender, msg, &t) {
			r.editor.SetElementText(t.ElementID, t.Text)
		}
	case TypeTextEditEnd:
		r.editor.EndTextEdit()
	default:
		r.logger.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func unmarshalInput(sender *Client, msg *Message, dst any) bool {
	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		sender.SendError("invalid payload for " + msg.Type)
		return false
	}
	return true
}

func (r *Room) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		r.logger.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName
	r.presence.Update(sender.UserID, &presence)

	outPayload, _ := json.Marshal(presence)
	r.broadcast(&Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}, sender.ClientID)
}

// handleEnhance runs the completion round trip off the room lock, then
// folds the result back into the frame and refreshes its preview.
func (r *Room) handleEnhance(sender *Client, msg *Message) {
	var req EnhancePayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		sender.SendError("invalid enhance payload")
		return
	}

	// Snapshot the document so the HTTP round trip reads a stable copy
	// while other clients keep editing.
	r.mu.Lock()
	frame, ok := r.editor.Document().Elements[req.FrameID]
	docData, err := json.Marshal(r.editor.Document())
	r.mu.Unlock()
	if !ok || frame.Kind != document.KindFrame {
		sender.SendError("not a frame: " + req.FrameID)
		return
	}
	if err != nil {
		sender.SendError("snapshot document: " + err.Error())
		return
	}
	var snapshot document.CanvasDocument
	if err := json.Unmarshal(docData, &snapshot); err != nil {
		sender.SendError("snapshot document: " + err.Error())
		return
	}

	go func() {
		result, err := r.enhancer.Enhance(context.Background(), &snapshot, req.FrameID)
		if err != nil {
			r.logger.Warn("enhancement failed",
				"frame_id", req.FrameID, "user", sender.UserID, "error", err)
			sender.SendError("enhancement failed: " + err.Error())
			return
		}

		r.mu.Lock()
		if el, ok := r.editor.Document().Elements[req.FrameID]; ok {
			if result.Script != "" {
				el.Script = result.Script
			}
			if result.Style != "" {
				el.Style = result.Style
			}
			r.editor.Document().Elements[req.FrameID] = el
			r.editor.RefreshPreview(req.FrameID)
		}
		docData, _ := json.Marshal(r.editor.Document())
		r.mu.Unlock()

		r.broadcastJSON(TypeEnhanceResult, result)
		r.broadcast(&Message{Type: TypeDocSync, ProjectID: r.ProjectID, Payload: docData}, "")
	}()
}
