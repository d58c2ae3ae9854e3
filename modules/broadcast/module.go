package broadcast

import (
	"context"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Config sizes the hub's queues.
type Config struct {
	QueueSize    int
	ClientBuffer int
}

// BroadcastModule runs the websocket fan-out hub.
type BroadcastModule struct {
	hub       *Hub
	cfg       Config
	logger    types.Logger
	cancelHub context.CancelFunc
}

// Compile-time interface checks.
var _ mono.Module = (*BroadcastModule)(nil)
var _ mono.HealthCheckableModule = (*BroadcastModule)(nil)

// NewModule creates a new BroadcastModule.
func NewModule(cfg Config, logger types.Logger) *BroadcastModule {
	return &BroadcastModule{
		hub:    NewHub(cfg.QueueSize, logger),
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *BroadcastModule) Name() string {
	return "broadcast"
}

// Start initializes the module and starts the hub.
func (m *BroadcastModule) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	m.logger.Info("Broadcast module started - hub running")
	return nil
}

// Stop shuts down the hub and closes every client queue.
func (m *BroadcastModule) Stop(_ context.Context) error {
	clientCount := m.hub.ClientCount()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	m.logger.Info("Broadcast module stopped", "clients", clientCount)
	return nil
}

// Health returns the health status.
func (m *BroadcastModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
			"dropped_frames":    m.hub.DroppedFrames(),
			"queue_overflows":   m.hub.QueueOverflows(),
		},
	}
}

// GetHub returns the hub for the chat and API modules to use.
func (m *BroadcastModule) GetHub() *Hub {
	return m.hub
}

// ClientBuffer returns the per-client send queue size.
func (m *BroadcastModule) ClientBuffer() int {
	if m.cfg.ClientBuffer <= 0 {
		return DefaultClientBuffer
	}
	return m.cfg.ClientBuffer
}
