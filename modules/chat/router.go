package chat

// Router delivers outbound events to connections. Implementations must
// enqueue and return: no call may block on network I/O, and a failed
// delivery to one connection must not affect the others.
type Router interface {
	// ToOne sends to a single connection.
	ToOne(id, event string, payload any)
	// ToRoom sends to every connection in room.
	ToRoom(room, event string, payload any)
	// ToRoomExcept sends to every connection in room except senderID.
	ToRoomExcept(room, senderID, event string, payload any)
	// ToEveryone sends to every connection.
	ToEveryone(event string, payload any)
	// ToEveryoneExcept sends to every connection except senderID.
	ToEveryoneExcept(senderID, event string, payload any)

	// Join adds a connection to a room's delivery group.
	Join(id, room string)
	// Leave removes a connection from a room's delivery group.
	Leave(id, room string)
}
