package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/synccube/server/internal/repository/room"
	"github.com/synccube/server/pkg/wsrouter"
)

type UpdatePlayerParams struct {
	RoomId      string
	CurrentTime float64
	SenderId    string
}

type UpdatePlayerResponse struct {
	CurrentTime float64
	// Conns are the connections of every member except the sender.
	Conns []*wsrouter.Conn
}

func (s service) PlayerPlay(ctx context.Context, params *UpdatePlayerParams) (UpdatePlayerResponse, error) {
	isPlaying := true
	return s.updatePlayer(ctx, params, &isPlaying)
}

func (s service) PlayerPause(ctx context.Context, params *UpdatePlayerParams) (UpdatePlayerResponse, error) {
	isPlaying := false
	return s.updatePlayer(ctx, params, &isPlaying)
}

func (s service) PlayerSeek(ctx context.Context, params *UpdatePlayerParams) (UpdatePlayerResponse, error) {
	return s.updatePlayer(ctx, params, nil)
}

// updatePlayer applies a playback action to the room's canonical state.
// Actions against an unknown room are dropped without an error to the
// sender. Conflicting actions are applied in arrival order, last write
// wins; the losing sender just receives the other's broadcast.
func (s service) updatePlayer(ctx context.Context, params *UpdatePlayerParams, isPlaying *bool) (UpdatePlayerResponse, error) {
	currentTime := params.CurrentTime
	if currentTime < 0 {
		currentTime = 0
	}

	res, err := s.roomRepo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{
		RoomId:      params.RoomId,
		IsPlaying:   isPlaying,
		CurrentTime: currentTime,
		UpdatedAt:   s.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			s.logger.DebugContext(ctx, "player action for unknown room dropped", "room_id", params.RoomId)
			return UpdatePlayerResponse{}, nil
		}

		return UpdatePlayerResponse{}, fmt.Errorf("failed to update player state: %w", err)
	}

	return UpdatePlayerResponse{
		CurrentTime: res.Player.CurrentTime,
		Conns:       s.getConns(ctx, res.Users, params.SenderId),
	}, nil
}
