package stats

import (
	"sort"
	"sync"
	"time"
)

// DefaultMaxRooms caps how many rooms a Recorder tracks at once.
const DefaultMaxRooms = 10000

// RoomStats counts activity in one room while it is occupied.
type RoomStats struct {
	Room         string    `json:"room"`
	Occupants    int       `json:"occupants"`
	Entries      int       `json:"entries"`
	Departures   int       `json:"departures"`
	Messages     int       `json:"messages"`
	MessageBytes int       `json:"message_bytes"`
	LastActivity time.Time `json:"last_activity"`
}

// Totals aggregates activity across all rooms since the process started.
type Totals struct {
	Entries       int `json:"entries"`
	Departures    int `json:"departures"`
	Disconnects   int `json:"disconnects"`
	Messages      int `json:"messages"`
	RoomsObserved int `json:"rooms_observed"`
	RoomsTracked  int `json:"rooms_tracked"`
	RoomsEvicted  int `json:"rooms_evicted"`
}

// Recorder accumulates per-room counters. A room's counters are dropped
// when its last occupant leaves; at most maxRooms rooms are tracked, and
// the least recently active room is evicted to make space.
type Recorder struct {
	mu       sync.RWMutex
	rooms    map[string]*RoomStats
	totals   Totals
	maxRooms int
}

// NewRecorder creates an empty recorder tracking at most maxRooms rooms.
func NewRecorder(maxRooms int) *Recorder {
	if maxRooms <= 0 {
		maxRooms = DefaultMaxRooms
	}
	return &Recorder{
		rooms:    make(map[string]*RoomStats),
		maxRooms: maxRooms,
	}
}

// track returns the counters for name, creating them if needed.
func (r *Recorder) track(name string, at time.Time) *RoomStats {
	rs, ok := r.rooms[name]
	if !ok {
		if len(r.rooms) >= r.maxRooms {
			r.evictOldest()
		}
		rs = &RoomStats{Room: name}
		r.rooms[name] = rs
		r.totals.RoomsObserved++
	}
	touch(rs, at)
	return rs
}

func (r *Recorder) evictOldest() {
	var oldest *RoomStats
	for _, rs := range r.rooms {
		if oldest == nil || rs.LastActivity.Before(oldest.LastActivity) {
			oldest = rs
		}
	}
	if oldest != nil {
		delete(r.rooms, oldest.Room)
		r.totals.RoomsEvicted++
	}
}

func touch(rs *RoomStats, at time.Time) {
	if at.After(rs.LastActivity) {
		rs.LastActivity = at
	}
}

// RecordEntry counts a user entering room.
func (r *Recorder) RecordEntry(room string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rs := r.track(room, at)
	rs.Entries++
	rs.Occupants++
	r.totals.Entries++
}

// RecordDeparture counts a user leaving room. The room's counters are
// dropped once it has no occupants left.
func (r *Recorder) RecordDeparture(room string, disconnected bool, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals.Departures++
	if disconnected {
		r.totals.Disconnects++
	}

	rs, ok := r.rooms[room]
	if !ok {
		return
	}
	touch(rs, at)
	rs.Departures++
	if rs.Occupants > 0 {
		rs.Occupants--
	}
	if rs.Occupants == 0 {
		delete(r.rooms, room)
	}
}

// RecordMessage counts a message of length bytes relayed to room. Messages
// for an untracked room only reach the totals.
func (r *Recorder) RecordMessage(room string, length int, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals.Messages++
	if rs, ok := r.rooms[room]; ok {
		touch(rs, at)
		rs.Messages++
		rs.MessageBytes += length
	}
}

// Room returns the counters for room.
func (r *Recorder) Room(name string) (RoomStats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.rooms[name]
	if !ok {
		return RoomStats{}, false
	}
	return *rs, true
}

// Totals returns the aggregate counters.
func (r *Recorder) Totals() Totals {
	r.mu.RLock()
	defer r.mu.RUnlock()
	totals := r.totals
	totals.RoomsTracked = len(r.rooms)
	return totals
}

// Snapshot returns totals and every tracked room's counters sorted by room name.
func (r *Recorder) Snapshot() (Totals, []RoomStats) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]RoomStats, 0, len(r.rooms))
	for _, rs := range r.rooms {
		rooms = append(rooms, *rs)
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].Room < rooms[j].Room
	})
	totals := r.totals
	totals.RoomsTracked = len(r.rooms)
	return totals, rooms
}
