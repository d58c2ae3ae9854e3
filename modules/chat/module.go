package chat

import (
	"context"
	"errors"

	"github.com/Hanan11240/chat-app/events"
	"github.com/Hanan11240/chat-app/modules/presence"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// ErrNoRouter is returned by Start when no broadcast router was supplied.
var ErrNoRouter = errors.New("chat: broadcast router not set")

// Module hosts the session controller and emits presence events.
type Module struct {
	controller *Controller
	router     Router
	logger     types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventBusAwareModule = (*Module)(nil)
	_ mono.EventEmitterModule  = (*Module)(nil)
)

// NewModule creates a new chat module over the given presence store and router.
func NewModule(store *presence.Store, router Router, logger types.Logger) *Module {
	return &Module{
		controller: NewController(store, router, logger),
		router:     router,
		logger:     logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "chat"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.controller.SetEventBus(bus)
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.RoomEnteredV1.ToBase(),
		events.RoomLeftV1.ToBase(),
		events.MessagePostedV1.ToBase(),
	}
}

// Start checks that the module is wired.
func (m *Module) Start(_ context.Context) error {
	if m.router == nil {
		return ErrNoRouter
	}
	m.logger.Info("Chat module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Chat module stopped")
	return nil
}

// Controller returns the session controller the transport drives.
func (m *Module) Controller() *Controller {
	return m.controller
}
