package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// Reasons a user leaves a room.
const (
	LeaveReasonMoved        = "moved"
	LeaveReasonDisconnected = "disconnected"
)

// RoomEnteredEvent is emitted when a connection enters a room.
type RoomEnteredEvent struct {
	ConnectionID string    `json:"connection_id"`
	Name         string    `json:"name"`
	Room         string    `json:"room"`
	PreviousRoom string    `json:"previous_room,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// RoomLeftEvent is emitted when a connection leaves a room, either by
// moving to another room or by disconnecting.
type RoomLeftEvent struct {
	ConnectionID string    `json:"connection_id"`
	Name         string    `json:"name"`
	Room         string    `json:"room"`
	Reason       string    `json:"reason"`
	Timestamp    time.Time `json:"timestamp"`
}

// MessagePostedEvent is emitted when a message is relayed to a room.
// The message text itself is not carried.
type MessagePostedEvent struct {
	ConnectionID string    `json:"connection_id"`
	Name         string    `json:"name"`
	Room         string    `json:"room"`
	Length       int       `json:"length"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event definitions for the chat domain.
var (
	RoomEnteredV1 = helper.EventDefinition[RoomEnteredEvent](
		"chat",
		"RoomEntered",
		"v1",
	)

	RoomLeftV1 = helper.EventDefinition[RoomLeftEvent](
		"chat",
		"RoomLeft",
		"v1",
	)

	MessagePostedV1 = helper.EventDefinition[MessagePostedEvent](
		"chat",
		"MessagePosted",
		"v1",
	)
)
