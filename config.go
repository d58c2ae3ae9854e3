package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds process settings read from the environment.
type Config struct {
	Port            string
	Production      bool
	AllowedOrigins  []string
	PublicDir       string
	HubQueueSize    int
	ClientBuffer    int
	MaxFrameBytes   int
	MessageRate     int
	MessageBurst    int
	ShutdownTimeout time.Duration
}

const (
	defaultPort            = "3000"
	defaultAllowedOrigins  = "http://localhost:5500,http://127.0.0.1:5500"
	defaultPublicDir       = "./public"
	defaultHubQueueSize    = 1024
	defaultClientBuffer    = 256
	defaultMaxFrameBytes   = 1 << 20
	defaultMessageRate     = 10
	defaultMessageBurst    = 20
	defaultShutdownTimeout = 30 * time.Second
)

func loadConfig() Config {
	return Config{
		Port:            getEnvPort("PORT", defaultPort),
		Production:      getEnv("NODE_ENV", "development") == "production",
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins)),
		PublicDir:       getEnv("PUBLIC_DIR", defaultPublicDir),
		HubQueueSize:    getEnvInt("HUB_QUEUE_SIZE", defaultHubQueueSize),
		ClientBuffer:    getEnvInt("CLIENT_SEND_BUFFER", defaultClientBuffer),
		MaxFrameBytes:   getEnvInt("MAX_FRAME_BYTES", defaultMaxFrameBytes),
		MessageRate:     getEnvInt("MESSAGE_RATE", defaultMessageRate),
		MessageBurst:    getEnvInt("MESSAGE_BURST", defaultMessageBurst),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
}

// getEnv returns environment variable or default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as a positive int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvPort returns environment variable as a TCP port or default.
func getEnvPort(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		if port, err := strconv.Atoi(value); err == nil && port >= 0 && port <= 65535 {
			return value
		}
		log.Printf("Warning: invalid port for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as a duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
		log.Printf("Warning: invalid duration for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
