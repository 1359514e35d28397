package room

import (
	"context"
	"slices"
)

type StatusResponse struct {
	PublicUrl       *string
	ActiveRoomIds   []string
	ConnectionCount int
}

// Status is a read-only report for the introspection endpoint.
func (s service) Status(ctx context.Context) StatusResponse {
	roomIds := s.roomRepo.GetRoomIds(ctx)
	slices.Sort(roomIds)

	var publicUrl *string
	if s.publicUrl != "" {
		publicUrl = &s.publicUrl
	}

	return StatusResponse{
		PublicUrl:       publicUrl,
		ActiveRoomIds:   roomIds,
		ConnectionCount: s.connRepo.Len(),
	}
}
