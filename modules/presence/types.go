package presence

import domain "github.com/Hanan11240/chat-app/domain/chat"

// Service names registered by the presence module.
const (
	ServiceListRooms     = "list-rooms"
	ServiceListRoomUsers = "list-room-users"
	ServiceGetUser       = "get-user"
)

// ListRoomsRequest is the request for the list-rooms service.
type ListRoomsRequest struct{}

// ListRoomsResponse lists every active room.
type ListRoomsResponse struct {
	Rooms []RoomSummary `json:"rooms"`
}

// ListRoomUsersRequest is the request for the list-room-users service.
type ListRoomUsersRequest struct {
	Room string `json:"room"`
}

// ListRoomUsersResponse is the roster of a room.
type ListRoomUsersResponse struct {
	Room  string        `json:"room"`
	Users []domain.User `json:"users"`
}

// GetUserRequest is the request for the get-user service.
type GetUserRequest struct {
	ID string `json:"id"`
}

// GetUserResponse carries the user if present.
type GetUserResponse struct {
	Found bool        `json:"found"`
	User  domain.User `json:"user"`
}
