package collab

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/enhance"
)

// DocLoader fetches a project's document when its room spins up.
type DocLoader func(projectID string) (*document.CanvasDocument, error)

// DocSaver persists a project's document when its room winds down.
type DocSaver func(projectID string, doc *document.CanvasDocument) error

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room // projectID -> room

	register   chan *Client
	unregister chan *Client

	loadDoc  DocLoader
	saveDoc  DocSaver
	enhancer *enhance.Service
	logger   *slog.Logger
}

func NewHub(loadDoc DocLoader, saveDoc DocSaver, enhancer *enhance.Service, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		loadDoc:    loadDoc,
		saveDoc:    saveDoc,
		enhancer:   enhancer,
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Room returns the live room for a project, or nil when no client is
// connected to it.
func (h *Hub) Room(projectID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[projectID]
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		doc, err := h.loadDoc(client.ProjectID)
		if err != nil {
			h.mu.Unlock()
			h.logger.Error("load project document",
				"project", client.ProjectID, "error", err)
			client.SendError("project unavailable")
			close(client.send)
			return
		}
		room = NewRoom(client.ProjectID, doc, h.enhancer, h.logger)
		h.rooms[client.ProjectID] = room
	}
	h.mu.Unlock()

	client.room = room
	room.addClient(client)
	room.welcome(client)

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	room.broadcast(&Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}, client.ClientID)

	h.logger.Info("client joined", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) removeClient(client *Client) {
	room := client.room
	if room == nil {
		return
	}

	remaining := room.removeClient(client)
	close(client.send)
	room.presence.Remove(client.UserID)

	if remaining == 0 {
		h.mu.Lock()
		delete(h.rooms, client.ProjectID)
		h.mu.Unlock()
		h.persistRoom(room)
	}

	leavePayload, _ := json.Marshal(PresenceLeavePayload{UserID: client.UserID})
	room.broadcast(&Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}, "")

	h.logger.Info("client left", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) persistRoom(room *Room) {
	if h.saveDoc == nil {
		return
	}
	room.mu.Lock()
	doc := room.editor.Document()
	err := h.saveDoc(room.ProjectID, doc)
	room.mu.Unlock()
	if err != nil {
		h.logger.Error("persist project document",
			"project", room.ProjectID, "error", err)
		return
	}
	h.logger.Info("project document persisted",
		"project", room.ProjectID, "ops", room.log.Len())
}

// PersistAll flushes every live room's document without tearing the
// rooms down. The server's autosave loop calls it on a timer.
func (h *Hub) PersistAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.RUnlock()

	for _, room := range rooms {
		h.persistRoom(room)
	}
}

// Stop persists every live room's document. Called during server
// shutdown after new connections have stopped arriving.
func (h *Hub) Stop() {
	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.rooms = make(map[string]*Room)
	h.mu.Unlock()

	for _, room := range rooms {
		h.persistRoom(room)
	}
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	if sender.room == nil {
		return
	}
	sender.room.HandleInput(sender, msg)
}
