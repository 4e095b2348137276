package collab

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
)

type savedDocs struct {
	mu   sync.Mutex
	docs map[string]*document.CanvasDocument
}

func (s *savedDocs) save(projectID string, doc *document.CanvasDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[projectID] = doc
	return nil
}

func (s *savedDocs) get(projectID string) *document.CanvasDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[projectID]
}

func newTestHub(t *testing.T) (*Hub, *savedDocs) {
	t.Helper()
	saved := &savedDocs{docs: make(map[string]*document.CanvasDocument)}
	hub := NewHub(
		func(projectID string) (*document.CanvasDocument, error) {
			if projectID == "proj_missing" {
				return nil, errors.New("no such project")
			}
			return roomDoc(), nil
		},
		saved.save,
		nil, nil,
	)
	go hub.Run()
	return hub, saved
}

func waitUntil(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestHubCreatesRoomOnFirstClient(t *testing.T) {
	hub, _ := newTestHub(t)
	c := testClient("c1")

	hub.Register(c)
	waitFor(t, c, TypeDocSync)

	if hub.Room("proj_room") == nil {
		t.Fatalf("no room after first client")
	}
	if c.room == nil {
		t.Fatalf("client not wired to its room")
	}
}

func TestHubSharesRoomBetweenClients(t *testing.T) {
	hub, _ := newTestHub(t)
	c1 := testClient("c1")
	c2 := testClient("c2")

	hub.Register(c1)
	waitFor(t, c1, TypeDocSync)
	hub.Register(c2)
	waitFor(t, c2, TypeDocSync)

	if c1.room != c2.room {
		t.Fatalf("clients in the same project got different rooms")
	}
	// The first client hears the second one join.
	waitFor(t, c1, TypePresenceJoin)
}

func TestHubPersistsWhenRoomEmpties(t *testing.T) {
	hub, saved := newTestHub(t)
	c := testClient("c1")

	hub.Register(c)
	waitFor(t, c, TypeDocSync)

	// Move the frame so the persisted document differs from the loaded
	// one.
	room := hub.Room("proj_room")
	room.HandleInput(c, input(t, TypePointerDown, PointerPayload{X: 150, Y: 120}))
	room.HandleInput(c, input(t, TypePointerMove, PointerPayload{X: 200, Y: 100}))
	room.HandleInput(c, input(t, TypePointerUp, PointerPayload{X: 200, Y: 100}))

	hub.unregister <- c
	waitUntil(t, func() bool { return saved.get("proj_room") != nil }, "document persisted")

	if hub.Room("proj_room") != nil {
		t.Fatalf("empty room not torn down")
	}
	doc := saved.get("proj_room")
	if g := doc.Elements["frame1"].Geometry; g.Left != 150 || g.Top != 80 {
		t.Fatalf("persisted document stale: (%v,%v)", g.Left, g.Top)
	}
}

func TestHubRejectsUnloadableProject(t *testing.T) {
	hub, _ := newTestHub(t)
	c := testClient("c1")
	c.ProjectID = "proj_missing"

	hub.Register(c)
	waitFor(t, c, TypeError)

	if hub.Room("proj_missing") != nil {
		t.Fatalf("room created for an unloadable project")
	}
}

func TestHubPersistAllKeepsRoomsAlive(t *testing.T) {
	hub, saved := newTestHub(t)
	c := testClient("c1")

	hub.Register(c)
	waitFor(t, c, TypeDocSync)

	hub.PersistAll()

	if saved.get("proj_room") == nil {
		t.Fatalf("autosave did not persist the live room")
	}
	if hub.Room("proj_room") == nil {
		t.Fatalf("autosave tore the room down")
	}
}

func TestHubStopPersistsLiveRooms(t *testing.T) {
	hub, saved := newTestHub(t)
	c := testClient("c1")

	hub.Register(c)
	waitFor(t, c, TypeDocSync)

	hub.Stop()

	if saved.get("proj_room") == nil {
		t.Fatalf("stop did not persist the live room")
	}
	if hub.Room("proj_room") != nil {
		t.Fatalf("stop left the room registered")
	}
}
