package main

import (
	"context"
	"log"
	"os"

	"github.com/Hanan11240/chat-app/modules/api"
	"github.com/Hanan11240/chat-app/modules/broadcast"
	"github.com/Hanan11240/chat-app/modules/chat"
	"github.com/Hanan11240/chat-app/modules/presence"
	"github.com/Hanan11240/chat-app/modules/stats"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg := loadConfig()

	log.Println("=== Chat App - Fiber WebSocket rooms ===")
	log.Printf("Port: %s", cfg.Port)
	log.Printf("Production: %t", cfg.Production)
	log.Printf("Public dir: %s", cfg.PublicDir)

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	// Create modules
	presenceModule := presence.NewModule(logger)
	broadcastModule := broadcast.NewModule(broadcast.Config{
		QueueSize:    cfg.HubQueueSize,
		ClientBuffer: cfg.ClientBuffer,
	}, logger)
	chatModule := chat.NewModule(presenceModule.Store(), broadcastModule.GetHub(), logger)
	statsModule := stats.NewModule(logger)
	apiModule := api.NewModule(api.Config{
		Port:           cfg.Port,
		Production:     cfg.Production,
		AllowedOrigins: cfg.AllowedOrigins,
		PublicDir:      cfg.PublicDir,
		MaxFrameBytes:  cfg.MaxFrameBytes,
		MessageRate:    cfg.MessageRate,
		MessageBurst:   cfg.MessageBurst,
	}, logger)

	// The hub and the session controller are in-process objects, not
	// services, so they are injected directly.
	apiModule.SetHub(broadcastModule.GetHub(), broadcastModule.ClientBuffer())
	apiModule.SetSessions(chatModule.Controller())

	// Register modules with the framework.
	// - presence: Presence store + room directory (ServiceProviderModule)
	// - broadcast: WebSocket fan-out hub
	// - chat: Session controller (EventEmitterModule)
	// - stats: Room activity counters (EventConsumerModule + ServiceProviderModule)
	// - api: Driving adapter (Fiber HTTP/WebSocket server, depends on presence and stats)
	for _, module := range []mono.Module{
		presenceModule,
		broadcastModule,
		chatModule,
		statsModule,
		apiModule,
	} {
		if err := app.Register(module); err != nil {
			log.Fatalf("Failed to register %s module: %v", module.Name(), err)
		}
	}

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg Config) {
	port := cfg.Port
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  GET    /health                      - Health check")
	log.Println("  GET    /api/v1/rooms                - Active rooms with member counts")
	log.Println("  GET    /api/v1/rooms/:room/users    - Room roster")
	log.Println("  GET    /api/v1/users/:id            - Connected user by connection ID")
	log.Println("  GET    /api/v1/stats                - Room activity counters")
	log.Println("  GET    /api/v1/stats/rooms/:room    - Activity counters for one room")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws):", port)
	log.Println(`  Frames: {"event": "enterRoom", "data": {"name": "...", "room": "..."}}`)
	log.Println(`          {"event": "message", "data": {"name": "...", "text": "..."}}`)
	log.Println(`          {"event": "activity", "data": "<name>"}`)
	log.Printf("  Message frames over %d/s (burst %d) per connection are dropped", cfg.MessageRate, cfg.MessageBurst)
	log.Printf("  Frames larger than %d bytes close the connection", cfg.MaxFrameBytes)
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
