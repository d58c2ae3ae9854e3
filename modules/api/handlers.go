package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	// Health check
	app.Get("/health", m.healthHandler)

	// WebSocket endpoint
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(m.handleWebSocket))

	// REST API v1
	api := app.Group("/api/v1")

	api.Get("/rooms", m.listRooms)
	api.Get("/rooms/:room/users", m.listRoomUsers)
	api.Get("/users/:id", m.getUser)
	api.Get("/stats", m.getStats)
	api.Get("/stats/rooms/:room", m.getRoomStats)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":            "api",
			"connected_clients": m.hub.ClientCount(),
			"dropped_frames":    m.hub.DroppedFrames(),
		},
	})
}

// listRooms handles GET /api/v1/rooms.
func (m *APIModule) listRooms(c *fiber.Ctx) error {
	rooms, err := m.presence.ListRooms(c.UserContext())
	if err != nil {
		m.logger.Error("Failed to list rooms", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to list rooms",
		})
	}

	response := RoomListResponse{
		Rooms: make([]RoomResponse, 0, len(rooms)),
		Total: len(rooms),
	}
	for _, room := range rooms {
		response.Rooms = append(response.Rooms, RoomResponse{
			Name:    room.Name,
			Members: room.Members,
		})
	}

	return c.JSON(response)
}

// listRoomUsers handles GET /api/v1/rooms/:room/users.
func (m *APIModule) listRoomUsers(c *fiber.Ctx) error {
	room := c.Params("room")

	users, err := m.presence.ListRoomUsers(c.UserContext(), room)
	if err != nil {
		m.logger.Error("Failed to list room users", "room", room, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to list room users",
		})
	}
	if len(users) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Room not active",
		})
	}

	return c.JSON(RoomUsersResponse{
		Room:  room,
		Users: users,
		Total: len(users),
	})
}

// getUser handles GET /api/v1/users/:id.
func (m *APIModule) getUser(c *fiber.Ctx) error {
	id := c.Params("id")

	user, found, err := m.presence.GetUser(c.UserContext(), id)
	if err != nil {
		m.logger.Error("Failed to get user", "userID", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "lookup_failed",
			Message: "Failed to get user",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "User not found",
		})
	}

	return c.JSON(user)
}

// getStats handles GET /api/v1/stats.
func (m *APIModule) getStats(c *fiber.Ctx) error {
	resp, err := m.stats.GetStats(c.UserContext())
	if err != nil {
		m.logger.Error("Failed to get stats", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "stats_failed",
			Message: "Failed to get stats",
		})
	}
	return c.JSON(resp)
}

// getRoomStats handles GET /api/v1/stats/rooms/:room.
func (m *APIModule) getRoomStats(c *fiber.Ctx) error {
	room := c.Params("room")

	rs, found, err := m.stats.GetRoomStats(c.UserContext(), room)
	if err != nil {
		m.logger.Error("Failed to get room stats", "room", room, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "stats_failed",
			Message: "Failed to get room stats",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "No activity recorded for room",
		})
	}

	return c.JSON(rs)
}
