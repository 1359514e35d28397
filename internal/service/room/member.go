package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/synccube/server/internal/repository/connection"
	"github.com/synccube/server/internal/repository/room"
	"github.com/synccube/server/pkg/wsrouter"
)

type LeftRoom struct {
	RoomId string
	UserId string
	// Users is the remaining membership; empty when the room was destroyed.
	Users []User
	// Conns are the connections of the remaining members.
	Conns     []*wsrouter.Conn
	Destroyed bool
	NewHostId string
}

type DisconnectResponse struct {
	Left []LeftRoom
}

// Disconnect removes the client from every room it had joined and discards
// its connection entry. Emptied rooms are destroyed; a departing host is
// replaced by the first remaining member.
func (s service) Disconnect(ctx context.Context, clientId string) (DisconnectResponse, error) {
	roomIds, err := s.connRepo.Remove(clientId)
	if err != nil {
		if errors.Is(err, connection.ErrNotFound) {
			return DisconnectResponse{}, nil
		}

		return DisconnectResponse{}, fmt.Errorf("failed to remove connection: %w", err)
	}

	left := make([]LeftRoom, 0, len(roomIds))
	for _, roomId := range roomIds {
		res, err := s.roomRepo.RemoveUser(ctx, &room.RemoveUserParams{
			RoomId: roomId,
			UserId: clientId,
		})
		if err != nil || !res.Removed {
			continue
		}

		if res.Destroyed {
			s.logger.InfoContext(ctx, "room destroyed", "room_id", roomId)
			left = append(left, LeftRoom{
				RoomId:    roomId,
				UserId:    clientId,
				Destroyed: true,
			})
			continue
		}

		s.logger.InfoContext(ctx, "user left room",
			"room_id", roomId,
			"client_id", clientId,
			"host_id", res.NewHostId,
			"users_left", len(res.Users),
		)

		left = append(left, LeftRoom{
			RoomId:    roomId,
			UserId:    clientId,
			Users:     toUsers(res.Users),
			Conns:     s.getConns(ctx, res.Users, clientId),
			NewHostId: res.NewHostId,
		})
	}

	s.logger.InfoContext(ctx, "client disconnected", "client_id", clientId)
	s.logActiveRooms(ctx)

	return DisconnectResponse{Left: left}, nil
}
