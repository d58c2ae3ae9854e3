package presence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module owns the process-wide presence store and exposes read-only
// roster queries to other modules.
type Module struct {
	store  *Store
	logger types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new presence module with an empty store.
func NewModule(logger types.Logger) *Module {
	return &Module{
		store:  NewStore(),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "presence"
}

// Store returns the presence store shared with the session controller.
func (m *Module) Store() *Store {
	return m.store
}

// RegisterServices registers the roster query services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListRooms, json.Unmarshal, json.Marshal, m.listRooms,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListRooms, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListRoomUsers, json.Unmarshal, json.Marshal, m.listRoomUsers,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListRoomUsers, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGetUser, json.Unmarshal, json.Marshal, m.getUser,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetUser, err)
	}

	m.logger.Info("Registered presence services",
		"services", []string{ServiceListRooms, ServiceListRoomUsers, ServiceGetUser})
	return nil
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Presence module started")
	return nil
}

// Stop discards all presence state.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Presence module stopped", "users", m.store.Len())
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"users": m.store.Len(),
			"rooms": len(ActiveRooms(m.store)),
		},
	}
}

func (m *Module) listRooms(_ context.Context, _ ListRoomsRequest, _ *mono.Msg) (ListRoomsResponse, error) {
	return ListRoomsResponse{Rooms: Summaries(m.store)}, nil
}

func (m *Module) listRoomUsers(_ context.Context, req ListRoomUsersRequest, _ *mono.Msg) (ListRoomUsersResponse, error) {
	return ListRoomUsersResponse{
		Room:  req.Room,
		Users: UsersInRoom(m.store, req.Room),
	}, nil
}

func (m *Module) getUser(_ context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, ok := m.store.Get(req.ID)
	return GetUserResponse{Found: ok, User: user}, nil
}
