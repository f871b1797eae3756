package sse

import (
	"encoding/json"
	"sync"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ContentEventData struct {
	ContentID   int64  `json:"content_id"`
	WorkspaceID int64  `json:"workspace_id"`
	ContentType string `json:"content_type"`
	Label       string `json:"label"`
	AuthorID    int64  `json:"author_id"`
}

type RoleGrantedData struct {
	UserID      int64  `json:"user_id"`
	WorkspaceID int64  `json:"workspace_id"`
	Role        string `json:"role"`
}

type Client struct {
	ID         string
	UserID     int64
	Workspaces map[int64]bool
	Send       chan []byte
}

type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *WorkspaceMessage
	mu         sync.RWMutex
}

type WorkspaceMessage struct {
	WorkspaceID int64
	Event       Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *WorkspaceMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Event)
			for _, client := range h.clients {
				if client.Workspaces[msg.WorkspaceID] {
					select {
					case client.Send <- data:
					default:
						// Client buffer full, skip
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) SubscribeToWorkspace(clientID string, workspaceID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		client.Workspaces[workspaceID] = true
	}
}

func (h *Hub) UnsubscribeFromWorkspace(clientID string, workspaceID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Workspaces, workspaceID)
	}
}

func (h *Hub) BroadcastContentCreated(workspaceID, contentID, authorID int64, contentType, label string) {
	h.broadcast <- &WorkspaceMessage{
		WorkspaceID: workspaceID,
		Event: Event{
			Type: "content_created",
			Data: ContentEventData{
				ContentID:   contentID,
				WorkspaceID: workspaceID,
				ContentType: contentType,
				Label:       label,
				AuthorID:    authorID,
			},
		},
	}
}

func (h *Hub) BroadcastContentUpdated(workspaceID, contentID, authorID int64, contentType, label string) {
	h.broadcast <- &WorkspaceMessage{
		WorkspaceID: workspaceID,
		Event: Event{
			Type: "content_updated",
			Data: ContentEventData{
				ContentID:   contentID,
				WorkspaceID: workspaceID,
				ContentType: contentType,
				Label:       label,
				AuthorID:    authorID,
			},
		},
	}
}

func (h *Hub) BroadcastRoleGranted(workspaceID, userID int64, roleSlug string) {
	h.broadcast <- &WorkspaceMessage{
		WorkspaceID: workspaceID,
		Event: Event{
			Type: "role_granted",
			Data: RoleGrantedData{
				UserID:      userID,
				WorkspaceID: workspaceID,
				Role:        roleSlug,
			},
		},
	}
}
