package api

import (
	"encoding/json"

	domain "github.com/Hanan11240/chat-app/domain/chat"
)

// InboundFrame is a client-to-server websocket frame.
type InboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// EnterRoomPayload is the data of an enterRoom frame.
type EnterRoomPayload struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

// MessagePayload is the data of a message frame.
type MessagePayload struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// RoomResponse is the API response for an active room.
type RoomResponse struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// RoomListResponse is the API response for listing rooms.
type RoomListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
	Total int            `json:"total"`
}

// RoomUsersResponse is the API response for a room roster.
type RoomUsersResponse struct {
	Room  string        `json:"room"`
	Users []domain.User `json:"users"`
	Total int           `json:"total"`
}

// ErrorResponse is the API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the API health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
