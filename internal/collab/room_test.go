package collab

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/config"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/enhance"
)

func roomDoc() *document.CanvasDocument {
	doc := document.NewEmptyDocument("proj_room", "Room", "root")
	frame := document.NewElement("frame1", document.KindFrame,
		document.Geometry{Left: 100, Top: 100, Width: 300, Height: 200})
	frame.Title = "Frame"
	doc.Attach(frame, "root")
	note := document.NewElement("note1", document.KindFreeFloating,
		document.Geometry{Left: 140, Top: 360, Width: 160, Height: 40})
	doc.Attach(note, "root")
	return doc
}

func testClient(id string) *Client {
	return &Client{
		ClientID:    id,
		UserID:      "user_" + id,
		DisplayName: id,
		ProjectID:   "proj_room",
		send:        make(chan []byte, 64),
	}
}

func input(t *testing.T, msgType string, payload any) *Message {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &Message{Type: msgType, Payload: data}
}

// drain decodes every message currently buffered for the client.
func drain(t *testing.T, c *Client) []Message {
	t.Helper()
	var out []Message
	for {
		select {
		case data := <-c.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("decode outbound message: %v", err)
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

// waitFor blocks until a message of the given type arrives for the
// client, discarding everything else.
func waitFor(t *testing.T, c *Client, msgType string) Message {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case data := <-c.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("decode outbound message: %v", err)
			}
			if msg.Type == msgType {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", msgType)
		}
	}
}

func hasType(msgs []Message, msgType string) bool {
	for _, m := range msgs {
		if m.Type == msgType {
			return true
		}
	}
	return false
}

func TestRoomAppliesPointerInput(t *testing.T) {
	room := NewRoom("proj_room", roomDoc(), nil, nil)
	c := testClient("c1")
	room.addClient(c)

	room.HandleInput(c, input(t, TypePointerDown, PointerPayload{X: 150, Y: 120}))
	room.HandleInput(c, input(t, TypePointerMove, PointerPayload{X: 200, Y: 100}))
	room.HandleInput(c, input(t, TypePointerUp, PointerPayload{X: 200, Y: 100}))

	g := room.Editor().Document().Elements["frame1"].Geometry
	if g.Left != 150 || g.Top != 80 {
		t.Fatalf("frame at (%v,%v), want (150,80)", g.Left, g.Top)
	}
	if room.Log().Len() != 1 {
		t.Fatalf("expected 1 logged operation, got %d", room.Log().Len())
	}
}

func TestRoomBroadcastsStateChanges(t *testing.T) {
	room := NewRoom("proj_room", roomDoc(), nil, nil)
	c1 := testClient("c1")
	c2 := testClient("c2")
	room.addClient(c1)
	room.addClient(c2)

	room.HandleInput(c1, input(t, TypePointerDown, PointerPayload{X: 150, Y: 120}))
	room.HandleInput(c1, input(t, TypePointerMove, PointerPayload{X: 200, Y: 100}))
	room.HandleInput(c1, input(t, TypePointerUp, PointerPayload{X: 200, Y: 100}))

	msgs := drain(t, c2)
	for _, want := range []string{TypeSelectionState, TypeDocSync, TypeOpBroadcast} {
		if !hasType(msgs, want) {
			t.Fatalf("peer missing %q, got %v", want, msgs)
		}
	}
	// Editor state fans out to the sender too.
	if own := drain(t, c1); !hasType(own, TypeDocSync) {
		t.Fatalf("sender missing doc sync, got %v", own)
	}
}

func TestRoomViewportAndModeInput(t *testing.T) {
	room := NewRoom("proj_room", roomDoc(), nil, nil)
	c := testClient("c1")
	room.addClient(c)

	room.HandleInput(c, input(t, TypeViewportZoom, ZoomPayload{Zoom: 2, AnchorX: 0, AnchorY: 0}))
	if got := room.Editor().Viewport().Zoom; got != 2 {
		t.Fatalf("zoom %v", got)
	}
	room.HandleInput(c, input(t, TypeViewportPan, PanPayload{DX: 10, DY: -5}))
	if got := room.Editor().Viewport().TranslateX; got != 10 {
		t.Fatalf("translate %v", got)
	}

	room.HandleInput(c, input(t, TypeCanvasMode, ModePayload{Mode: "interactive"}))
	if got := string(room.Editor().CanvasMode()); got != "interactive" {
		t.Fatalf("mode %q", got)
	}
	msgs := drain(t, c)
	if !hasType(msgs, TypeModeState) || !hasType(msgs, TypePreviewState) {
		t.Fatalf("mode switch broadcasts missing: %v", msgs)
	}
}

func TestRoomTextEditInput(t *testing.T) {
	room := NewRoom("proj_room", roomDoc(), nil, nil)
	c := testClient("c1")
	room.addClient(c)

	room.HandleInput(c, input(t, TypeTextEditBegin, TextPayload{ElementID: "note1"}))
	room.HandleInput(c, input(t, TypeTextEditSet, TextPayload{ElementID: "note1", Text: "hello"}))
	room.HandleInput(c, input(t, TypeTextEditEnd, struct{}{}))

	if got := room.Editor().Document().Elements["note1"].Text; got != "hello" {
		t.Fatalf("text %q", got)
	}
}

func TestRoomInvalidPayloadSendsError(t *testing.T) {
	room := NewRoom("proj_room", roomDoc(), nil, nil)
	c := testClient("c1")
	room.addClient(c)

	room.HandleInput(c, &Message{Type: TypePointerDown, Payload: json.RawMessage(`"nope"`)})

	msgs := drain(t, c)
	if !hasType(msgs, TypeError) {
		t.Fatalf("expected an error message, got %v", msgs)
	}
}

func TestWelcomePushesFullState(t *testing.T) {
	room := NewRoom("proj_room", roomDoc(), nil, nil)
	c := testClient("c1")
	room.addClient(c)

	room.welcome(c)

	msgs := drain(t, c)
	for _, want := range []string{TypeDocSync, TypeViewportState, TypeSelectionState, TypeModeState, TypePresenceState} {
		if !hasType(msgs, want) {
			t.Fatalf("welcome missing %q, got %v", want, msgs)
		}
	}
	if msgs[0].Type != TypeDocSync {
		t.Fatalf("welcome should lead with the document, got %q", msgs[0].Type)
	}

	var doc document.CanvasDocument
	if err := json.Unmarshal(msgs[0].Payload, &doc); err != nil {
		t.Fatalf("welcome document: %v", err)
	}
	if _, ok := doc.Elements["frame1"]; !ok {
		t.Fatalf("welcome document incomplete")
	}
}

func TestPresenceUpdateExcludesSender(t *testing.T) {
	room := NewRoom("proj_room", roomDoc(), nil, nil)
	c1 := testClient("c1")
	c2 := testClient("c2")
	room.addClient(c1)
	room.addClient(c2)

	room.HandleInput(c1, input(t, TypePresenceUpdate, PresencePayload{
		Cursor: &CursorPos{X: 10, Y: 20},
	}))

	peer := drain(t, c2)
	if !hasType(peer, TypePresenceUpdate) {
		t.Fatalf("peer missing presence update: %v", peer)
	}
	if own := drain(t, c1); hasType(own, TypePresenceUpdate) {
		t.Fatalf("presence echoed back to sender")
	}

	var got PresencePayload
	for _, m := range peer {
		if m.Type == TypePresenceUpdate {
			if err := json.Unmarshal(m.Payload, &got); err != nil {
				t.Fatalf("presence payload: %v", err)
			}
		}
	}
	if got.DisplayName != "c1" {
		t.Fatalf("display name not stamped by the server: %+v", got)
	}
	if got.Cursor == nil || got.Cursor.X != 10 {
		t.Fatalf("cursor lost: %+v", got)
	}
}

func TestEnhanceRequestUpdatesFrame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"<script>done();</script><style>.y{}</style>"}}]}`))
	}))
	defer srv.Close()

	enhancer := enhance.NewService(config.Config{EnhanceEndpoint: srv.URL, EnhanceModel: "m"}, nil)
	room := NewRoom("proj_room", roomDoc(), enhancer, nil)
	c := testClient("c1")
	room.addClient(c)

	room.HandleInput(c, input(t, TypeEnhanceRequest, EnhancePayload{FrameID: "frame1"}))

	result := waitFor(t, c, TypeEnhanceResult)
	var res enhance.Result
	if err := json.Unmarshal(result.Payload, &res); err != nil {
		t.Fatalf("result payload: %v", err)
	}
	if res.Script != "done();" || res.Style != ".y{}" {
		t.Fatalf("result %+v", res)
	}

	waitFor(t, c, TypeDocSync)
	room.mu.Lock()
	frame := room.Editor().Document().Elements["frame1"]
	room.mu.Unlock()
	if frame.Script != "done();" || frame.Style != ".y{}" {
		t.Fatalf("frame not updated: script=%q style=%q", frame.Script, frame.Style)
	}
}

func TestEnhanceRequestRejectsNonFrame(t *testing.T) {
	room := NewRoom("proj_room", roomDoc(), nil, nil)
	c := testClient("c1")
	room.addClient(c)

	room.HandleInput(c, input(t, TypeEnhanceRequest, EnhancePayload{FrameID: "note1"}))

	msgs := drain(t, c)
	if !hasType(msgs, TypeError) {
		t.Fatalf("expected an error for a non-frame, got %v", msgs)
	}
}
