package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aurceive/weaponmeta/internal/workspace"

	"go.uber.org/zap"
)

// Hub owns the shared workspace and fans state out to every connected client.
type Hub struct {
	log *zap.Logger

	// mu serializes all workspace access.
	mu sync.Mutex
	ws *workspace.Workspace

	clientsMu  sync.RWMutex
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub(ws *workspace.Workspace, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:        log,
		ws:         ws,
		clients:    make(map[string]*Client),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
	}
}

// Run processes register/unregister events until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.clientsMu.Lock()
			for id, c := range h.clients {
				delete(h.clients, id)
				h.closeClient(c)
			}
			h.clientsMu.Unlock()
			close(h.done)
			return

		case c := <-h.register:
			h.clientsMu.Lock()
			h.clients[c.id] = c
			h.clientsMu.Unlock()
			h.log.Info("client connected", zap.String("client", c.id), zap.String("addr", c.remoteAddr))
			c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{ID: c.id}})
			c.SendJSON(h.state(nil))

		case c := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				h.closeClient(c)
			}
			h.clientsMu.Unlock()
			h.log.Info("client disconnected", zap.String("client", c.id))
		}
	}
}

// join queues c for registration.
func (h *Hub) join(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		h.clientsMu.Lock()
		h.closeClient(c)
		h.clientsMu.Unlock()
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// closeClient requires clientsMu to be held for writing.
func (h *Hub) closeClient(c *Client) {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(msg Envelope) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal broadcast", zap.Error(err))
		return
	}
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for _, c := range h.clients {
		c.trySend(data)
	}
}

// state builds the current state message. loaded is attached after a load.
func (h *Hub) state(loaded []workspace.LoadResult) Envelope {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stateLocked(loaded)
}

func (h *Hub) stateLocked(loaded []workspace.LoadResult) Envelope {
	env := h.ws.Environment()
	msg := StateMsg{
		Weapons:      h.ws.Names(),
		TargetHealth: env.TargetHealth(),
		TargetArmor:  env.TargetArmor(),
		Report:       h.ws.Report(),
		Fields:       fieldInfos,
	}
	if p := h.ws.Primary(); p != nil {
		rec := *p
		msg.Primary = &rec
	}
	if c := h.ws.Compare(); c != nil {
		rec := *c
		msg.Compare = &rec
	}
	for _, r := range loaded {
		s := LoadStatus{File: r.File, Weapons: r.Weapons}
		if r.Err != nil {
			s.Error = r.Err.Error()
		}
		msg.Loaded = append(msg.Loaded, s)
	}
	return Envelope{T: MsgState, Data: msg}
}

// apply runs fn against the workspace and broadcasts the resulting state.
func (h *Hub) apply(fn func(ws *workspace.Workspace) ([]workspace.LoadResult, error)) error {
	h.mu.Lock()
	loaded, err := fn(h.ws)
	var msg Envelope
	if err == nil {
		msg = h.stateLocked(loaded)
	}
	h.mu.Unlock()
	if err != nil {
		return err
	}
	h.broadcast(msg)
	return nil
}

func (h *Hub) Load(files []workspace.File) error {
	return h.apply(func(ws *workspace.Workspace) ([]workspace.LoadResult, error) {
		return ws.Load(files...), nil
	})
}

// Select applies both slots or neither: every name is checked before the
// selection changes.
func (h *Hub) Select(msg SelectMsg) error {
	return h.apply(func(ws *workspace.Workspace) ([]workspace.LoadResult, error) {
		var errs []error
		for _, name := range []*string{msg.Primary, msg.Compare} {
			if name == nil || *name == "" {
				continue
			}
			if _, ok := ws.Find(*name); !ok {
				errs = append(errs, fmt.Errorf("%w: %q", workspace.ErrWeaponNotFound, *name))
			}
		}
		if err := errors.Join(errs...); err != nil {
			return nil, err
		}
		if msg.Primary != nil {
			errs = append(errs, ws.Select(workspace.SlotPrimary, *msg.Primary))
		}
		if msg.Compare != nil {
			errs = append(errs, ws.Select(workspace.SlotCompare, *msg.Compare))
		}
		return nil, errors.Join(errs...)
	})
}

func (h *Hub) Edit(msg EditMsg) error {
	return h.apply(func(ws *workspace.Workspace) ([]workspace.LoadResult, error) {
		raw := msg.rawValue()
		switch msg.Slot {
		case "":
			return nil, ws.Edit(msg.Weapon, msg.Field, raw)
		case workspace.SlotCompare.String():
			return nil, ws.EditSelected(workspace.SlotCompare, msg.Field, raw)
		default:
			return nil, ws.EditSelected(workspace.SlotPrimary, msg.Field, raw)
		}
	})
}

func (h *Hub) SetEnvironment(msg EnvMsg) error {
	return h.apply(func(ws *workspace.Workspace) ([]workspace.LoadResult, error) {
		if msg.Health != nil {
			ws.SetTargetHealth(*msg.Health)
		}
		if msg.Armor != nil {
			ws.SetTargetArmor(*msg.Armor)
		}
		if msg.Step != nil {
			ws.SetChartStep(*msg.Step)
		}
		return nil, nil
	})
}

func (h *Hub) Reset() error {
	return h.apply(func(ws *workspace.Workspace) ([]workspace.LoadResult, error) {
		ws.Reset()
		return nil, nil
	})
}

// Do runs fn with exclusive access to the workspace.
func (h *Hub) Do(fn func(ws *workspace.Workspace)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.ws)
}

// Save encodes the collection; only the requesting client gets the document.
func (h *Hub) Save() (SavedMsg, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, name, err := h.ws.Save()
	if err != nil {
		return SavedMsg{}, err
	}
	return SavedMsg{Filename: name, Content: string(b)}, nil
}
