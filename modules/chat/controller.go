package chat

import (
	"fmt"
	"sync"
	"time"

	domain "github.com/Hanan11240/chat-app/domain/chat"
	"github.com/Hanan11240/chat-app/events"
	"github.com/Hanan11240/chat-app/modules/presence"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// WelcomeText is sent to every new connection.
const WelcomeText = "Welcome to Chat App!!!"

// Controller runs the per-connection presence state machine. Every
// transition holds mu across its store mutation and the broadcasts that
// depend on it, so no broadcast carries a stale room or roster.
type Controller struct {
	mu        sync.Mutex
	store     *presence.Store
	router    Router
	publisher Publisher
	logger    types.Logger
}

// Publisher emits the events of completed transitions.
type Publisher interface {
	RoomEntered(event events.RoomEnteredEvent) error
	RoomLeft(event events.RoomLeftEvent) error
	MessagePosted(event events.MessagePostedEvent) error
}

// busPublisher publishes typed chat events on a mono EventBus.
type busPublisher struct {
	bus mono.EventBus
}

func (p busPublisher) RoomEntered(event events.RoomEnteredEvent) error {
	return events.RoomEnteredV1.Publish(p.bus, event, nil)
}

func (p busPublisher) RoomLeft(event events.RoomLeftEvent) error {
	return events.RoomLeftV1.Publish(p.bus, event, nil)
}

func (p busPublisher) MessagePosted(event events.MessagePostedEvent) error {
	return events.MessagePostedV1.Publish(p.bus, event, nil)
}

// NewController creates a controller over store that broadcasts through router.
func NewController(store *presence.Store, router Router, logger types.Logger) *Controller {
	return &Controller{
		store:  store,
		router: router,
		logger: logger,
	}
}

// SetEventBus enables publishing of presence events. A nil bus disables it.
func (c *Controller) SetEventBus(bus mono.EventBus) {
	if bus == nil {
		c.publisher = nil
		return
	}
	c.publisher = busPublisher{bus: bus}
}

// Connect greets a new connection. The store is not touched until the
// connection enters a room.
func (c *Controller) Connect(id string) {
	c.router.ToOne(id, domain.EventMessage, BuildEnvelope(domain.AdminName, WelcomeText))
	c.logger.Debug("Connection greeted", "connectionID", id)
}

// EnterRoom moves a connection into room under name. An empty room is a no-op.
func (c *Controller) EnterRoom(id, name, room string) {
	if room == "" {
		c.logger.Debug("Ignoring enterRoom without room", "connectionID", id)
		return
	}

	c.mu.Lock()

	prev, hadPrev := c.store.Get(id)
	if hadPrev {
		c.router.Leave(id, prev.Room)
		c.router.ToRoom(prev.Room, domain.EventMessage,
			BuildEnvelope(domain.AdminName, fmt.Sprintf("%s has left the room", prev.Name)))
	}

	user := c.store.Upsert(id, name, room)

	if hadPrev {
		c.router.ToRoom(prev.Room, domain.EventUserList, c.roster(prev.Room))
	}

	c.router.Join(id, user.Room)
	c.router.ToOne(id, domain.EventMessage,
		BuildEnvelope(domain.AdminName, fmt.Sprintf("You have joined %s chat room", user.Room)))
	c.router.ToEveryoneExcept(id, domain.EventMessage,
		BuildEnvelope(domain.AdminName, fmt.Sprintf("%s has joined the room", user.Name)))
	c.router.ToRoom(user.Room, domain.EventUserList, c.roster(user.Room))
	c.router.ToEveryone(domain.EventRoomList, c.roomList())

	c.mu.Unlock()

	c.logger.Info("User entered room", "connectionID", id, "name", user.Name, "room", user.Room)

	now := time.Now()
	if hadPrev {
		c.publishLeft(prev, events.LeaveReasonMoved, now)
	}
	c.publish("RoomEntered", func(p Publisher) error {
		return p.RoomEntered(events.RoomEnteredEvent{
			ConnectionID: id,
			Name:         user.Name,
			Room:         user.Room,
			PreviousRoom: prev.Room,
			Timestamp:    now,
		})
	})
}

// Message relays text to every connection in the caller's room, the caller
// included. Callers without a room are ignored.
func (c *Controller) Message(id, name, text string) {
	c.mu.Lock()
	user, ok := c.store.Get(id)
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("Dropping message from connection without room", "connectionID", id)
		return
	}
	c.router.ToRoom(user.Room, domain.EventMessage, BuildEnvelope(name, text))
	c.mu.Unlock()

	c.publish("MessagePosted", func(p Publisher) error {
		return p.MessagePosted(events.MessagePostedEvent{
			ConnectionID: id,
			Name:         name,
			Room:         user.Room,
			Length:       len(text),
			Timestamp:    time.Now(),
		})
	})
}

// Activity tells the rest of the caller's room that name is typing.
func (c *Controller) Activity(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.store.Get(id)
	if !ok {
		return
	}
	c.router.ToRoomExcept(user.Room, id, domain.EventActivity, name)
}

// Disconnect removes the connection's user and notifies its room. A
// connection that never entered a room produces no broadcasts.
func (c *Controller) Disconnect(id string) {
	c.mu.Lock()

	user, ok := c.store.Get(id)
	c.store.Remove(id)
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("Connection left without entering a room", "connectionID", id)
		return
	}

	c.router.ToRoom(user.Room, domain.EventMessage,
		BuildEnvelope(domain.AdminName, fmt.Sprintf("%s has left the room", user.Name)))
	c.router.ToRoom(user.Room, domain.EventUserList, c.roster(user.Room))
	c.router.ToEveryone(domain.EventRoomList, c.roomList())

	c.mu.Unlock()

	c.logger.Info("User disconnected", "connectionID", id, "name", user.Name, "room", user.Room)
	c.publishLeft(user, events.LeaveReasonDisconnected, time.Now())
}

func (c *Controller) roster(room string) domain.UserList {
	return domain.UserList{Users: presence.UsersInRoom(c.store, room)}
}

func (c *Controller) roomList() domain.RoomList {
	return domain.RoomList{Rooms: presence.ActiveRooms(c.store)}
}

func (c *Controller) publishLeft(user domain.User, reason string, at time.Time) {
	c.publish("RoomLeft", func(p Publisher) error {
		return p.RoomLeft(events.RoomLeftEvent{
			ConnectionID: user.ID,
			Name:         user.Name,
			Room:         user.Room,
			Reason:       reason,
			Timestamp:    at,
		})
	})
}

// publish is best-effort: a failure is logged and never reaches the caller.
func (c *Controller) publish(event string, fn func(Publisher) error) {
	if c.publisher == nil {
		return
	}
	if err := fn(c.publisher); err != nil {
		c.logger.Warn("Failed to publish event", "event", event, "error", err)
	}
}
