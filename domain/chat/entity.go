package chat

// AdminName is the sender name used for system notices.
const AdminName = "Admin"

// Outbound event names.
const (
	EventMessage  = "message"
	EventUserList = "userList"
	EventRoomList = "roomList"
	EventActivity = "activity"
)

// Inbound event names.
const (
	EventEnterRoom = "enterRoom"
)

// User represents a connection that has entered a room.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Room string `json:"room"`
}

// Envelope is a timestamped, attributed chat message.
type Envelope struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// UserList is the roster payload for a single room.
type UserList struct {
	Users []User `json:"users"`
}

// RoomList is the payload listing every active room.
type RoomList struct {
	Rooms []string `json:"rooms"`
}
