package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/Hanan11240/chat-app/modules/broadcast"
	"github.com/Hanan11240/chat-app/modules/presence"
	"github.com/Hanan11240/chat-app/modules/stats"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Errors returned by Start when wiring is incomplete.
var (
	ErrNoHub      = errors.New("api: broadcast hub dependency not set")
	ErrNoSessions = errors.New("api: session controller dependency not set")
	ErrNoPresence = errors.New("api: presence adapter dependency not set")
	ErrNoStats    = errors.New("api: stats adapter dependency not set")
)

// Sessions drives the chat state machine for one connection at a time.
type Sessions interface {
	Connect(id string)
	EnterRoom(id, name, room string)
	Message(id, name, text string)
	Activity(id, name string)
	Disconnect(id string)
}

// Config configures the HTTP server and websocket transport.
type Config struct {
	Port           string
	Production     bool
	AllowedOrigins []string
	PublicDir      string
	MaxFrameBytes  int
	MessageRate    int
	MessageBurst   int
}

// APIModule is the HTTP API module with WebSocket support.
type APIModule struct {
	cfg          Config
	app          *fiber.App
	listener     net.Listener
	hub          *broadcast.Hub
	clientBuffer int
	sessions     Sessions
	presence     presence.PresencePort
	stats        stats.StatsPort
	logger       types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule(cfg Config, logger types.Logger) *APIModule {
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.MaxFrameBytes <= 0 {
		cfg.MaxFrameBytes = defaultMaxFrameBytes
	}
	if cfg.MessageRate <= 0 {
		cfg.MessageRate = defaultMessageRate
	}
	if cfg.MessageBurst <= 0 {
		cfg.MessageBurst = defaultMessageBurst
	}
	return &APIModule{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"presence", "stats"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "presence":
		m.presence = presence.NewPresenceAdapter(container)
	case "stats":
		m.stats = stats.NewStatsAdapter(container)
	}
}

// SetHub sets the broadcast hub and the send queue size for new clients
// (called from main.go).
func (m *APIModule) SetHub(hub *broadcast.Hub, clientBuffer int) {
	m.hub = hub
	m.clientBuffer = clientBuffer
}

// SetSessions sets the session controller (called from main.go).
func (m *APIModule) SetSessions(sessions Sessions) {
	m.sessions = sessions
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	switch {
	case m.hub == nil:
		return ErrNoHub
	case m.sessions == nil:
		return ErrNoSessions
	case m.presence == nil:
		return ErrNoPresence
	case m.stats == nil:
		return ErrNoStats
	}

	m.app = m.newApp()

	ln, err := net.Listen("tcp", ":"+m.cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", m.cfg.Port, err)
	}
	m.listener = ln

	go func() {
		if err := m.app.Listener(ln); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", ln.Addr().String(), "production", m.cfg.Production)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	details := map[string]any{
		"port": m.cfg.Port,
	}
	if m.hub != nil {
		details["connected_clients"] = m.hub.ClientCount()
	}
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: details,
	}
}

// Addr returns the address the server is listening on, or nil before Start.
func (m *APIModule) Addr() net.Addr {
	if m.listener == nil {
		return nil
	}
	return m.listener.Addr()
}

func (m *APIModule) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Next: func(c *fiber.Ctx) bool {
			return websocket.IsWebSocketUpgrade(c)
		},
	}))

	// Cross-origin access is closed in production.
	if !m.cfg.Production && len(m.cfg.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(m.cfg.AllowedOrigins, ","),
			AllowMethods: "GET,HEAD,OPTIONS",
		}))
	}

	m.setupRoutes(app)

	if m.cfg.PublicDir != "" {
		app.Static("/", m.cfg.PublicDir)
	}
	return app
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
