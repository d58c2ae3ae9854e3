package stats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Hanan11240/chat-app/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module keeps room activity counters fed by chat events.
type Module struct {
	recorder *Recorder
	logger   types.Logger
}

var _ mono.Module = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new stats module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		recorder: NewRecorder(DefaultMaxRooms),
		logger:   logger,
	}
}

func (m *Module) Name() string {
	return "stats"
}

func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.RoomEnteredV1, m.handleRoomEntered, m); err != nil {
		return fmt.Errorf("failed to register RoomEntered consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.RoomLeftV1, m.handleRoomLeft, m); err != nil {
		return fmt.Errorf("failed to register RoomLeft consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.MessagePostedV1, m.handleMessagePosted, m); err != nil {
		return fmt.Errorf("failed to register MessagePosted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"RoomEntered", "RoomLeft", "MessagePosted"})
	return nil
}

func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGetStats, json.Unmarshal, json.Marshal, m.getStats,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetStats, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGetRoomStats, json.Unmarshal, json.Marshal, m.getRoomStats,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetRoomStats, err)
	}
	return nil
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Stats module started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	totals := m.recorder.Totals()
	m.logger.Info("Stats module stopped", "messages", totals.Messages, "entries", totals.Entries)
	return nil
}

func (m *Module) Health(_ context.Context) mono.HealthStatus {
	totals := m.recorder.Totals()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"messages":      totals.Messages,
			"rooms_tracked": totals.RoomsTracked,
		},
	}
}

// Recorder returns the underlying counters.
func (m *Module) Recorder() *Recorder {
	return m.recorder
}

func (m *Module) handleRoomEntered(_ context.Context, event events.RoomEnteredEvent, _ *mono.Msg) error {
	m.recorder.RecordEntry(event.Room, event.Timestamp)
	m.logger.Debug("Recorded room entry", "room", event.Room, "connectionID", event.ConnectionID)
	return nil
}

func (m *Module) handleRoomLeft(_ context.Context, event events.RoomLeftEvent, _ *mono.Msg) error {
	m.recorder.RecordDeparture(event.Room, event.Reason == events.LeaveReasonDisconnected, event.Timestamp)
	m.logger.Debug("Recorded room departure", "room", event.Room, "reason", event.Reason)
	return nil
}

func (m *Module) handleMessagePosted(_ context.Context, event events.MessagePostedEvent, _ *mono.Msg) error {
	m.recorder.RecordMessage(event.Room, event.Length, event.Timestamp)
	return nil
}

func (m *Module) getStats(_ context.Context, _ GetStatsRequest, _ *mono.Msg) (GetStatsResponse, error) {
	totals, rooms := m.recorder.Snapshot()
	return GetStatsResponse{Totals: totals, Rooms: rooms}, nil
}

func (m *Module) getRoomStats(_ context.Context, req GetRoomStatsRequest, _ *mono.Msg) (GetRoomStatsResponse, error) {
	rs, ok := m.recorder.Room(req.Room)
	return GetRoomStatsResponse{Found: ok, Stats: rs}, nil
}
