package sse

import (
	"context"
	"sync"

	"bookingdesk/internal/domain"
	"bookingdesk/internal/metrics"
	"bookingdesk/internal/model"
)

// Recipient is the principal a stream connection was authenticated as.
type Recipient struct {
	PrincipalID string
	Role        string
}

func (r Recipient) room() string {
	return domain.Room(r.Role, r.PrincipalID)
}

// Client is one open stream. It receives nothing until it is bound to a
// recipient.
type Client struct {
	ID string
	Ch chan model.Notification

	recipient *Recipient
}

type bindRequest struct {
	clientID  string
	recipient Recipient
	result    chan bool
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	bind       chan bindRequest
	broadcast  chan model.Notification
	clients    map[string]*Client
	rooms      map[string]map[*Client]struct{}
	mu         sync.RWMutex
	metrics    *metrics.Server
}

func NewHub(m *metrics.Server) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		bind:       make(chan bindRequest),
		broadcast:  make(chan model.Notification, 64),
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[*Client]struct{}),
		metrics:    m,
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Bind routes the recipient's notifications to the client. Rebinding moves
// the client to the new room. It reports false for unknown clients.
func (h *Hub) Bind(ctx context.Context, clientID string, recipient Recipient) bool {
	req := bindRequest{clientID: clientID, recipient: recipient, result: make(chan bool, 1)}
	select {
	case h.bind <- req:
	case <-ctx.Done():
		return false
	}
	select {
	case ok := <-req.result:
		return ok
	case <-ctx.Done():
		return false
	}
}

// Recipient returns the binding of clientID, if any.
func (h *Hub) Recipient(clientID string) (Recipient, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client := h.clients[clientID]
	if client == nil || client.recipient == nil {
		return Recipient{}, false
	}
	return *client.recipient, true
}

func (h *Hub) Broadcast(notification model.Notification) {
	h.broadcast <- notification
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case req := <-h.bind:
			req.result <- h.bindClient(req.clientID, req.recipient)
		case notification := <-h.broadcast:
			h.broadcastToRoom(notification)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	if h.metrics != nil {
		h.metrics.ActiveStreams.Inc()
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	h.leaveRoomLocked(client)
	if h.metrics != nil {
		h.metrics.ActiveStreams.Dec()
	}
}

func (h *Hub) bindClient(clientID string, recipient Recipient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	client := h.clients[clientID]
	if client == nil {
		return false
	}
	h.leaveRoomLocked(client)
	client.recipient = &recipient
	room := recipient.room()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
	return true
}

func (h *Hub) leaveRoomLocked(client *Client) {
	if client.recipient == nil {
		return
	}
	room := client.recipient.room()
	members := h.rooms[room]
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) broadcastToRoom(notification model.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[domain.Room(notification.RecipientRole, notification.RecipientID)] {
		select {
		case client.Ch <- notification:
		default:
			// Drop if the client is too slow.
		}
	}
}
