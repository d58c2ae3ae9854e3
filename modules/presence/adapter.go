package presence

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/Hanan11240/chat-app/domain/chat"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// PresencePort defines the read-only roster queries other modules may use.
type PresencePort interface {
	ListRooms(ctx context.Context) ([]RoomSummary, error)
	ListRoomUsers(ctx context.Context, room string) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, bool, error)
}

// presenceAdapter implements PresencePort over the presence ServiceContainer.
type presenceAdapter struct {
	container mono.ServiceContainer
}

// NewPresenceAdapter creates a new adapter for presence services.
func NewPresenceAdapter(container mono.ServiceContainer) PresencePort {
	if container == nil {
		panic("presence adapter requires non-nil ServiceContainer")
	}
	return &presenceAdapter{container: container}
}

// ListRooms returns every active room with its member count.
func (a *presenceAdapter) ListRooms(ctx context.Context) ([]RoomSummary, error) {
	req := ListRoomsRequest{}
	var resp ListRoomsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListRooms,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceListRooms, err)
	}
	return resp.Rooms, nil
}

// ListRoomUsers returns the roster of room.
func (a *presenceAdapter) ListRoomUsers(ctx context.Context, room string) ([]domain.User, error) {
	req := ListRoomUsersRequest{Room: room}
	var resp ListRoomUsersResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListRoomUsers,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceListRoomUsers, err)
	}
	return resp.Users, nil
}

// GetUser looks up a connection's user record.
func (a *presenceAdapter) GetUser(ctx context.Context, id string) (domain.User, bool, error) {
	req := GetUserRequest{ID: id}
	var resp GetUserResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGetUser,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return domain.User{}, false, fmt.Errorf("%s service call failed: %w", ServiceGetUser, err)
	}
	return resp.User, resp.Found, nil
}
