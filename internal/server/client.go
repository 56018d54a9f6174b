package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/aurceive/weaponmeta/internal/workspace"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 << 20 // whole weapons.meta files arrive in one message
	sendBufSize    = 64
)

// Client represents a WebSocket connection
type Client struct {
	id         string
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string

	// closed is guarded by hub.clientsMu.
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		id:         uuid.NewString(),
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("ws read", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
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

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.log.Error("marshal", zap.String("client", c.id), zap.Error(err))
		return
	}
	c.SendRaw(data)
}

// SendRaw queues pre-marshaled bytes unless the client is gone.
func (c *Client) SendRaw(data []byte) {
	c.hub.clientsMu.RLock()
	defer c.hub.clientsMu.RUnlock()
	c.trySend(data)
}

// trySend requires hub.clientsMu to be held.
func (c *Client) trySend(data []byte) {
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

func (c *Client) sendError(err error) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
}

// handleMessage routes incoming messages. Failures are reported to the sender only.
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.sendError(errors.New("malformed message"))
		return
	}

	var err error
	switch env.T {
	case MsgLoad:
		var msg LoadMsg
		if err = json.Unmarshal(env.D, &msg); err == nil {
			files := make([]workspace.File, 0, len(msg.Files))
			for _, f := range msg.Files {
				files = append(files, workspace.File{Name: f.Name, Content: []byte(f.Content)})
			}
			err = c.hub.Load(files)
		}
	case MsgSelect:
		var msg SelectMsg
		if err = json.Unmarshal(env.D, &msg); err == nil {
			err = c.hub.Select(msg)
		}
	case MsgEdit:
		var msg EditMsg
		if err = json.Unmarshal(env.D, &msg); err == nil {
			err = c.hub.Edit(msg)
		}
	case MsgEnv:
		var msg EnvMsg
		if err = json.Unmarshal(env.D, &msg); err == nil {
			err = c.hub.SetEnvironment(msg)
		}
	case MsgSave:
		var saved SavedMsg
		if saved, err = c.hub.Save(); err == nil {
			c.SendJSON(Envelope{T: MsgSaved, Data: saved})
		}
	case MsgReset:
		err = c.hub.Reset()
	default:
		c.hub.log.Debug("unknown message", zap.String("client", c.id), zap.String("t", env.T))
		return
	}
	if err != nil {
		c.hub.log.Debug("request failed", zap.String("client", c.id), zap.String("t", env.T), zap.Error(err))
		c.sendError(err)
	}
}
