package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dotdotstudio/happycity/game/match"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBufferSize = 256
)

// Client is one websocket connection: the transport handle the match
// runtime sees, plus the read/write pumps.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	games GameRegistry

	uid string
	sid string

	sendMu sync.Mutex
	closed bool

	matchMu sync.Mutex
	match   *match.Match
}

// UID returns the player identity.
func (c *Client) UID() string { return c.uid }

// SID returns the connection identity.
func (c *Client) SID() string { return c.sid }

// JoinMatch binds the connection to a match. Part of the match.Client
// contract; called by the runtime with its own lock held, so it only sets
// the field.
func (c *Client) JoinMatch(m *match.Match) {
	c.matchMu.Lock()
	c.match = m
	c.matchMu.Unlock()
}

// LeaveMatch clears the match binding.
func (c *Client) LeaveMatch() {
	c.matchMu.Lock()
	c.match = nil
	c.matchMu.Unlock()
}

// currentMatch snapshots the binding. Callers invoke match operations after
// releasing the client's own lock.
func (c *Client) currentMatch() *match.Match {
	c.matchMu.Lock()
	defer c.matchMu.Unlock()
	return c.match
}

// enqueue hands data to the write pump without blocking. Messages to a slow
// client are dropped and logged.
func (c *Client) enqueue(data []byte) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("client %s send buffer full, dropping message", c.sid)
	}
}

// closeSend marks the client closed and releases the write pump.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// emitError reports a refused operation back to this client.
func (c *Client) emitError(message string) {
	c.hub.ToClient(c.sid, "error", map[string]string{"message": message})
}

// readPump pumps inbound envelopes into lobby and match operations. A read
// error tears down the connection: a client that was in a match leaves it,
// which disposes a running game.
func (c *Client) readPump() {
	defer func() {
		if m := c.currentMatch(); m != nil {
			if err := m.Leave(c); err != nil {
				log.Printf("client %s leave on disconnect: %v", c.sid, err)
			}
			c.LeaveMatch()
		}
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("client %s read error: %v", c.sid, err)
			}
			return
		}
		var msg envelope
		if err := json.Unmarshal(data, &msg); err != nil {
			c.emitError("malformed message")
			continue
		}
		c.dispatch(&msg)
	}
}

// dispatch routes one inbound envelope to the corresponding operation.
func (c *Client) dispatch(msg *envelope) {
	var err error
	switch msg.Event {
	case "enter_lobby":
		c.hub.JoinRoom(c.sid, match.LobbyRoom)
	case "exit_lobby":
		c.hub.LeaveRoom(c.sid, match.LobbyRoom)
	case "create_game":
		err = c.handleCreateGame(msg.Data)
	case "join_game":
		err = c.handleJoinGame(msg.Data)
	case "leave_game":
		err = c.handleLeaveGame()
	case "update_settings":
		err = c.withMatch(func(m *match.Match) error {
			var req struct {
				Size   *int  `json:"size"`
				Public *bool `json:"public"`
			}
			if err := unmarshalData(msg.Data, &req); err != nil {
				return err
			}
			return m.UpdateSettings(req.Size, req.Public)
		})
	case "ready":
		err = c.withMatch(func(m *match.Match) error { return m.Ready(c) })
	case "start":
		err = c.withMatch(func(m *match.Match) error { return m.Start() })
	case "intro_done":
		err = c.withMatch(func(m *match.Match) error { return m.IntroDone(c) })
	case "do_command":
		err = c.withMatch(func(m *match.Match) error {
			var req struct {
				Name  string `json:"name"`
				Value any    `json:"value"`
			}
			if err := unmarshalData(msg.Data, &req); err != nil {
				return err
			}
			return m.DoCommand(c, req.Name, coerceValue(req.Value))
		})
	case "defeat_special":
		err = c.withMatch(func(m *match.Match) error {
			var req struct {
				BlackHole bool `json:"black_hole"`
			}
			if err := unmarshalData(msg.Data, &req); err != nil {
				return err
			}
			return m.DefeatSpecial(c, req.BlackHole)
		})
	default:
		c.emitError("unknown event: " + msg.Event)
		return
	}

	if err != nil {
		log.Printf("client %s %s refused: %v", c.sid, msg.Event, err)
		c.emitError(err.Error())
	}
}

func (c *Client) handleCreateGame(data json.RawMessage) error {
	var req struct {
		Name   string `json:"name"`
		Public bool   `json:"public"`
	}
	if err := unmarshalData(data, &req); err != nil {
		return err
	}
	m, err := c.games.CreateGame(req.Name, req.Public)
	if err != nil {
		return err
	}
	return m.Join(c)
}

func (c *Client) handleJoinGame(data json.RawMessage) error {
	var req struct {
		GameID string `json:"game_id"`
	}
	if err := unmarshalData(data, &req); err != nil {
		return err
	}
	m, err := c.games.Get(req.GameID)
	if err != nil {
		return err
	}
	return m.Join(c)
}

func (c *Client) handleLeaveGame() error {
	m := c.currentMatch()
	if m == nil {
		return match.ErrNotInMatch
	}
	if err := m.Leave(c); err != nil {
		return err
	}
	c.LeaveMatch()
	return nil
}

// withMatch runs fn against the client's bound match.
func (c *Client) withMatch(fn func(m *match.Match) error) error {
	m := c.currentMatch()
	if m == nil {
		return match.ErrNotInMatch
	}
	return fn(m)
}

func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// coerceValue turns integral JSON numbers into ints so slider values
// validate; other values pass through untouched.
func coerceValue(v any) any {
	if f, ok := v.(float64); ok && f == float64(int(f)) {
		return int(f)
	}
	return v
}

// writePump pumps queued messages to the websocket connection and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
