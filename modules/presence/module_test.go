package presence

import (
	"context"
	"testing"

	"github.com/go-monolith/mono/pkg/types"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

func TestModule_Name(t *testing.T) {
	m := NewModule(&mockLogger{})
	if name := m.Name(); name != "presence" {
		t.Errorf("Name() = %q, want 'presence'", name)
	}
}

func TestModule_Services(t *testing.T) {
	ctx := context.Background()
	m := NewModule(&mockLogger{})
	m.Store().Upsert("a", "Alice", "lobby")
	m.Store().Upsert("b", "Bob", "game")

	rooms, err := m.listRooms(ctx, ListRoomsRequest{}, nil)
	if err != nil {
		t.Fatalf("listRooms() error = %v", err)
	}
	if len(rooms.Rooms) != 2 {
		t.Errorf("Expected 2 rooms, got %d", len(rooms.Rooms))
	}

	roster, err := m.listRoomUsers(ctx, ListRoomUsersRequest{Room: "lobby"}, nil)
	if err != nil {
		t.Fatalf("listRoomUsers() error = %v", err)
	}
	if roster.Room != "lobby" || len(roster.Users) != 1 || roster.Users[0].Name != "Alice" {
		t.Errorf("Unexpected roster %+v", roster)
	}

	found, err := m.getUser(ctx, GetUserRequest{ID: "b"}, nil)
	if err != nil {
		t.Fatalf("getUser() error = %v", err)
	}
	if !found.Found || found.User.Room != "game" {
		t.Errorf("Expected Bob in game, got %+v", found)
	}

	missing, _ := m.getUser(ctx, GetUserRequest{ID: "zzz"}, nil)
	if missing.Found {
		t.Error("Expected unknown user to be reported as not found")
	}
}

func TestModule_Health(t *testing.T) {
	m := NewModule(&mockLogger{})
	m.Store().Upsert("a", "Alice", "lobby")

	health := m.Health(context.Background())
	if !health.Healthy {
		t.Error("Expected module to be healthy")
	}
	if health.Details["users"] != 1 {
		t.Errorf("Expected 1 user in health details, got %v", health.Details["users"])
	}
}
