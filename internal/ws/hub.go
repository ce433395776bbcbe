package ws

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type envelope struct {
	userID  uuid.UUID
	message []byte
}

// Hub tracks live connections per user and fans messages out to them.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	direct     chan envelope
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     logrus.FieldLogger
}

func NewHub(logger logrus.FieldLogger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		direct:     make(chan envelope, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger.WithField("component", "ws"),
	}
}

// Run serves the hub until ctx is done, then closes every connection's send
// queue.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for userID, set := range h.clients {
				for c := range set {
					close(c.send)
				}
				delete(h.clients, userID)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			conns := len(set)
			h.mutex.Unlock()
			h.logger.WithFields(logrus.Fields{"user_id": client.userID, "connections": conns}).Debug("connected")

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)
			h.logger.WithField("user_id", client.userID).Debug("disconnected")

		case env := <-h.direct:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients[env.userID]))
			for c := range h.clients[env.userID] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- env.message:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// SendToUser queues message for every live connection of userID. It never
// blocks; a full queue drops the message.
func (h *Hub) SendToUser(userID uuid.UUID, message []byte) bool {
	if h == nil {
		return false
	}
	select {
	case h.direct <- envelope{userID: userID, message: message}:
		return true
	default:
		h.logger.WithField("user_id", userID).Warn("message dropped, buffer full")
		return false
	}
}

func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}
