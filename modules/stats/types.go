package stats

// Service names registered by the stats module.
const (
	ServiceGetStats     = "get-stats"
	ServiceGetRoomStats = "get-room-stats"
)

// GetStatsRequest is the request for the get-stats service.
type GetStatsRequest struct{}

// GetStatsResponse carries the totals and every room's counters.
type GetStatsResponse struct {
	Totals Totals      `json:"totals"`
	Rooms  []RoomStats `json:"rooms"`
}

// GetRoomStatsRequest is the request for the get-room-stats service.
type GetRoomStatsRequest struct {
	Room string `json:"room"`
}

// GetRoomStatsResponse carries one room's counters.
type GetRoomStatsResponse struct {
	Found bool      `json:"found"`
	Stats RoomStats `json:"stats"`
}
