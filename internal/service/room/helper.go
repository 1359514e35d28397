package room

import (
	"context"
	"fmt"

	"github.com/synccube/server/internal/repository/room"
	"github.com/synccube/server/pkg/wsrouter"
)

func (s service) deriveUsername(clientId string) string {
	id := clientId
	if len(id) > derivedUsernameIdSize {
		id = id[:derivedUsernameIdSize]
	}

	return "User-" + id
}

func (s service) shareUrl(roomId string) *string {
	if s.publicUrl == "" {
		return nil
	}

	url := fmt.Sprintf("%s/room/%s", s.publicUrl, roomId)

	return &url
}

// getConns resolves the live connections of every user except exceptId.
// Users without a live connection are skipped; delivery is best effort.
func (s service) getConns(ctx context.Context, users []room.User, exceptId string) []*wsrouter.Conn {
	conns := make([]*wsrouter.Conn, 0, len(users))
	for _, u := range users {
		if u.Id == exceptId {
			continue
		}

		conn, err := s.connRepo.GetConn(u.Id)
		if err != nil {
			s.logger.DebugContext(ctx, "no live connection for user", "client_id", u.Id)
			continue
		}

		conns = append(conns, conn)
	}

	return conns
}

func toUsers(users []room.User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, User{Id: u.Id, Username: u.Username})
	}

	return out
}

func toPlayerState(p room.PlayerState) PlayerState {
	return PlayerState{
		IsPlaying:   p.IsPlaying,
		CurrentTime: p.CurrentTime,
		LastUpdated: p.LastUpdated.UnixMilli(),
	}
}

func (s service) logActiveRooms(ctx context.Context) {
	s.logger.DebugContext(ctx, "active rooms",
		"room_ids", s.roomRepo.GetRoomIds(ctx),
		"connections", s.connRepo.Len(),
	)
}
