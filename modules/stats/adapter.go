package stats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// StatsPort defines the stats queries available to other modules.
type StatsPort interface {
	GetStats(ctx context.Context) (*GetStatsResponse, error)
	GetRoomStats(ctx context.Context, room string) (RoomStats, bool, error)
}

type statsAdapter struct {
	container mono.ServiceContainer
}

// NewStatsAdapter creates a new adapter for stats services.
func NewStatsAdapter(container mono.ServiceContainer) StatsPort {
	if container == nil {
		panic("stats adapter requires non-nil ServiceContainer")
	}
	return &statsAdapter{container: container}
}

func (a *statsAdapter) GetStats(ctx context.Context) (*GetStatsResponse, error) {
	req := GetStatsRequest{}
	var resp GetStatsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGetStats,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceGetStats, err)
	}
	return &resp, nil
}

func (a *statsAdapter) GetRoomStats(ctx context.Context, room string) (RoomStats, bool, error) {
	req := GetRoomStatsRequest{Room: room}
	var resp GetRoomStatsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGetRoomStats,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return RoomStats{}, false, fmt.Errorf("%s service call failed: %w", ServiceGetRoomStats, err)
	}
	return resp.Stats, resp.Found, nil
}
