// internal/websocket/hub.go
package websocket

import (
	"context"
	"log"
	"sync"

	"pipeline-service/internal/domain/activity"
	wstypes "pipeline-service/internal/domain/websocket"
	"pipeline-service/internal/pkg/jwt"
)

// Hub fans pipeline activity out to every connected client of the same
// tenant. Clients are grouped by company so one tenant never sees
// another's events.
type Hub struct {
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	Register   chan *Client
	unregister chan *Client

	broadcast chan *BroadcastMessage

	jwtVerifier *jwt.Verifier
}

type BroadcastMessage struct {
	CompanyID string
	Message   *wstypes.WSMessage
}

func NewHub(jwtVerifier *jwt.Verifier) *Hub {
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		Register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *BroadcastMessage, 256),
		jwtVerifier: jwtVerifier,
	}
}

// AuthenticateClient validates the JWT token and creates an authenticated client
func (h *Hub) AuthenticateClient(token string) (*ClientAuth, error) {
	claims, err := h.jwtVerifier.Verify(token)
	if err != nil {
		return nil, err
	}

	return &ClientAuth{
		UserID:    claims.UserID,
		CompanyID: claims.CompanyID,
		Roles:     claims.Roles,
	}, nil
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// PublishActivity pushes a pipeline event to every client of the tenant.
// Safe to call from any goroutine; drops the event if the hub is backed up.
func (h *Hub) PublishActivity(companyID string, e *activity.Entry) {
	msg := wstypes.NewMessage(wstypes.EventTypeActivity, e)
	select {
	case h.broadcast <- &BroadcastMessage{CompanyID: companyID, Message: msg}:
	default:
		log.Printf("activity broadcast dropped: company=%s", companyID)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.companyID] == nil {
		h.clients[client.companyID] = make(map[*Client]bool)
	}
	h.clients[client.companyID][client] = true

	log.Printf("Client connected: company=%s, user=%s, total=%d",
		client.companyID, client.userID, h.totalClients())

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"user_id":    client.userID,
		"company_id": client.companyID,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.companyID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.companyID)
			}

			log.Printf("Client disconnected: company=%s, user=%s, total=%d",
				client.companyID, client.userID, h.totalClients())
		}
	}
}

func (h *Hub) broadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[msg.CompanyID] {
		client.SendMessage(msg.Message)
	}
}

// ConnectedClients reports the live connection count for a tenant.
func (h *Hub) ConnectedClients(companyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[companyID])
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
}
