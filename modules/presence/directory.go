package presence

import domain "github.com/Hanan11240/chat-app/domain/chat"

// Snapshotter is the read side of a presence store.
type Snapshotter interface {
	All() []domain.User
}

// UsersInRoom returns every user whose room equals room.
func UsersInRoom(store Snapshotter, room string) []domain.User {
	users := make([]domain.User, 0)
	for _, u := range store.All() {
		if u.Room == room {
			users = append(users, u)
		}
	}
	return users
}

// ActiveRooms returns the distinct rooms referenced by at least one user,
// in order of first appearance.
func ActiveRooms(store Snapshotter) []string {
	seen := make(map[string]struct{})
	rooms := make([]string, 0)
	for _, u := range store.All() {
		if _, ok := seen[u.Room]; ok {
			continue
		}
		seen[u.Room] = struct{}{}
		rooms = append(rooms, u.Room)
	}
	return rooms
}

// RoomSummary is a room together with its current member count.
type RoomSummary struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// Summaries returns every active room with its member count.
func Summaries(store Snapshotter) []RoomSummary {
	counts := make(map[string]int)
	summaries := make([]RoomSummary, 0)
	for _, u := range store.All() {
		if _, ok := counts[u.Room]; !ok {
			summaries = append(summaries, RoomSummary{Name: u.Room})
		}
		counts[u.Room]++
	}
	for i := range summaries {
		summaries[i].Members = counts[summaries[i].Name]
	}
	return summaries
}
