package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/Hanan11240/chat-app/modules/chat"
	"github.com/go-monolith/mono/pkg/types"
)

// Default queue sizes.
const (
	DefaultQueueSize    = 1024
	DefaultClientBuffer = 256
)

// ErrHubStopped is returned when registering with a hub that has shut down.
var ErrHubStopped = errors.New("broadcast: hub stopped")

// Frame is the outbound wire format.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type opKind int

const (
	opRegister opKind = iota
	opUnregister
	opJoin
	opLeave
	opSend
)

type scope int

const (
	scopeOne scope = iota
	scopeRoom
	scopeAll
)

type command struct {
	op     opKind
	client *Client
	id     string
	room   string
	except string
	scope  scope
	frame  []byte
}

// Hub tracks connected clients and their room groups. All state changes and
// deliveries are applied by Run in the order they were issued.
type Hub struct {
	clients  map[string]*Client            // clientID -> Client
	rooms    map[string]map[string]*Client // room -> clientID -> Client
	commands chan command
	done     chan struct{}
	logger   types.Logger

	connected atomic.Int64
	dropped   atomic.Int64
	overflows atomic.Int64
}

var _ chat.Router = (*Hub)(nil)

// NewHub creates a new Hub whose command queue holds queueSize entries.
func NewHub(queueSize int, logger types.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Hub{
		clients:  make(map[string]*Client),
		rooms:    make(map[string]map[string]*Client),
		commands: make(chan command, queueSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Run starts the hub's main loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Hub shutting down", "clients", len(h.clients))
			h.closeAllClients()
			close(h.done)
			return
		case cmd := <-h.commands:
			h.apply(cmd)
		}
	}
}

// Done is closed once the hub has stopped.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	return int(h.connected.Load())
}

// DroppedFrames returns how many frames were discarded because a client's
// send queue was full.
func (h *Hub) DroppedFrames() int64 {
	return h.dropped.Load()
}

// QueueOverflows returns how many broadcasts were discarded because the
// hub's command queue was full.
func (h *Hub) QueueOverflows() int64 {
	return h.overflows.Load()
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) error {
	if !h.enqueue(command{op: opRegister, client: client}) {
		return ErrHubStopped
	}
	return nil
}

// Unregister removes a client and closes its send queue.
func (h *Hub) Unregister(id string) {
	h.enqueue(command{op: opUnregister, id: id})
}

// Join adds a client to a room group.
func (h *Hub) Join(id, room string) {
	h.enqueue(command{op: opJoin, id: id, room: room})
}

// Leave removes a client from a room group.
func (h *Hub) Leave(id, room string) {
	h.enqueue(command{op: opLeave, id: id, room: room})
}

// ToOne sends an event to a single client.
func (h *Hub) ToOne(id, event string, payload any) {
	h.send(command{scope: scopeOne, id: id}, event, payload)
}

// ToRoom sends an event to every client in room.
func (h *Hub) ToRoom(room, event string, payload any) {
	h.send(command{scope: scopeRoom, room: room}, event, payload)
}

// ToRoomExcept sends an event to every client in room except senderID.
func (h *Hub) ToRoomExcept(room, senderID, event string, payload any) {
	h.send(command{scope: scopeRoom, room: room, except: senderID}, event, payload)
}

// ToEveryone sends an event to every client.
func (h *Hub) ToEveryone(event string, payload any) {
	h.send(command{scope: scopeAll}, event, payload)
}

// ToEveryoneExcept sends an event to every client except senderID.
func (h *Hub) ToEveryoneExcept(senderID, event string, payload any) {
	h.send(command{scope: scopeAll, except: senderID}, event, payload)
}

// send encodes the frame immediately so the payload is captured as it is
// now. It never blocks: when the command queue is full the broadcast is
// discarded and counted.
func (h *Hub) send(cmd command, event string, payload any) {
	data, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		h.logger.Error("Failed to marshal broadcast frame", "event", event, "error", err)
		return
	}
	cmd.op = opSend
	cmd.frame = data

	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.commands <- cmd:
	default:
		h.overflows.Add(1)
		h.logger.Warn("Hub command queue full, dropping broadcast", "event", event)
	}
}

// enqueue waits for queue space. Membership changes must not be lost, and
// Run drains the queue without blocking, so the wait is bounded.
func (h *Hub) enqueue(cmd command) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.commands <- cmd:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) apply(cmd command) {
	switch cmd.op {
	case opRegister:
		h.handleRegister(cmd.client)
	case opUnregister:
		h.handleUnregister(cmd.id)
	case opJoin:
		h.handleJoin(cmd.id, cmd.room)
	case opLeave:
		h.handleLeave(cmd.id, cmd.room)
	case opSend:
		h.handleSend(cmd)
	}
}

func (h *Hub) handleRegister(client *Client) {
	if _, exists := h.clients[client.ID]; exists {
		h.logger.Warn("Client already registered", "clientID", client.ID)
		return
	}
	h.clients[client.ID] = client
	h.connected.Add(1)
	h.logger.Debug("Client registered", "clientID", client.ID)
}

func (h *Hub) handleUnregister(id string) {
	client, ok := h.clients[id]
	if !ok {
		return
	}
	for room := range client.rooms {
		h.removeFromRoom(client, room)
	}
	delete(h.clients, id)
	close(client.send)
	h.connected.Add(-1)
	h.logger.Debug("Client unregistered", "clientID", id)
}

func (h *Hub) handleJoin(id, room string) {
	client, ok := h.clients[id]
	if !ok {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][id] = client
	client.rooms[room] = struct{}{}
}

func (h *Hub) handleLeave(id, room string) {
	client, ok := h.clients[id]
	if !ok {
		return
	}
	h.removeFromRoom(client, room)
}

func (h *Hub) removeFromRoom(client *Client, room string) {
	delete(client.rooms, room)
	if members := h.rooms[room]; members != nil {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) handleSend(cmd command) {
	switch cmd.scope {
	case scopeOne:
		if client, ok := h.clients[cmd.id]; ok {
			h.deliver(client, cmd.frame)
		}
	case scopeRoom:
		for id, client := range h.rooms[cmd.room] {
			if id != cmd.except {
				h.deliver(client, cmd.frame)
			}
		}
	case scopeAll:
		for id, client := range h.clients {
			if id != cmd.except {
				h.deliver(client, cmd.frame)
			}
		}
	}
}

// deliver never blocks: a client that cannot keep up loses the frame.
func (h *Hub) deliver(client *Client, frame []byte) {
	select {
	case client.send <- frame:
	default:
		h.dropped.Add(1)
		h.logger.Warn("Client send queue full, dropping frame", "clientID", client.ID)
	}
}

func (h *Hub) closeAllClients() {
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
	h.rooms = make(map[string]map[string]*Client)
	h.connected.Store(0)
}
