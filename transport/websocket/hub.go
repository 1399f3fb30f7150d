package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dotdotstudio/happycity/game/match"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Clients are served from arbitrary origins in development.
		return true
	},
}

// GameRegistry is the lobby surface clients drive over the socket.
type GameRegistry interface {
	CreateGame(name string, public bool) (*match.Match, error)
	Get(id string) (*match.Match, error)
}

// envelope is the wire form of every message in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outboundEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Hub tracks connected clients and named rooms and implements
// match.EventBus. All emits are non-blocking: a client that cannot keep up
// loses messages rather than stalling a match.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client          // by sid
	rooms   map[string]map[*Client]bool // by room name
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[*Client]bool),
	}
}

// ServeWS upgrades an HTTP request to a websocket client. The player
// identity is taken from the uid query parameter (one is minted when
// absent); the connection id is always freshly minted.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, games GameRegistry) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	uid := r.URL.Query().Get("uid")
	if uid == "" {
		uid = uuid.NewString()
	}
	c := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		uid:   uid,
		sid:   uuid.NewString(),
		games: games,
	}

	h.register(c)
	go c.writePump()
	go c.readPump()
}

// ToClient emits an event to a single connection.
func (h *Hub) ToClient(sid, event string, payload any) {
	h.mu.RLock()
	c := h.clients[sid]
	h.mu.RUnlock()
	if c == nil {
		return
	}
	data, err := json.Marshal(outboundEnvelope{Event: event, Data: payload})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event, err)
		return
	}
	c.enqueue(data)
}

// ToRoom emits an event to every client in a room, in emit order.
func (h *Hub) ToRoom(room, event string, payload any) {
	data, err := json.Marshal(outboundEnvelope{Event: event, Data: payload})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.enqueue(data)
	}
}

// JoinRoom adds the connection to a named room.
func (h *Hub) JoinRoom(sid, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.clients[sid]
	if c == nil {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
}

// LeaveRoom removes the connection from a named room.
func (h *Hub) LeaveRoom(sid, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.clients[sid]
	if c == nil {
		return
	}
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.sid] = c
	h.mu.Unlock()
	log.Printf("client %s connected (uid %s)", c.sid, c.uid)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.sid]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.sid)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
	c.closeSend()
	log.Printf("client %s disconnected", c.sid)
}
