package inmemory

import (
	"context"
	"slices"
	"sync"

	"github.com/synccube/server/internal/repository/room"
)

// Repo is the authoritative in-memory room registry. Every operation
// mutates a room under one lock, so observers never see a room mid-update
// (for example users changed but host not yet reassigned).
type Repo struct {
	rooms map[string]*room.Room
	mu    sync.RWMutex
}

func NewRepo() *Repo {
	return &Repo{
		rooms: make(map[string]*room.Room),
	}
}

func (r *Repo) SetRoom(_ context.Context, params *room.SetRoomParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[params.RoomId]; ok {
		return room.ErrRoomAlreadyExists
	}

	r.rooms[params.RoomId] = &room.Room{
		Id:       params.RoomId,
		VideoUrl: params.VideoUrl,
		HostId:   params.Creator.Id,
		Users:    []room.User{params.Creator},
		Player: room.PlayerState{
			IsPlaying:   false,
			CurrentTime: 0,
			LastUpdated: params.CreatedAt,
		},
	}

	return nil
}

func (r *Repo) GetRoom(_ context.Context, roomId string) (room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.rooms[roomId]
	if !ok {
		return room.Room{}, room.ErrRoomNotFound
	}

	return snapshot(stored), nil
}

func (r *Repo) AddUser(_ context.Context, params *room.AddUserParams) (room.AddUserResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rooms[params.RoomId]
	if !ok {
		return room.AddUserResult{}, room.ErrRoomNotFound
	}

	// rejoin with a known id must not duplicate membership
	if slices.ContainsFunc(stored.Users, func(u room.User) bool { return u.Id == params.User.Id }) {
		return room.AddUserResult{Room: snapshot(stored), Rejoined: true}, nil
	}

	stored.Users = append(stored.Users, params.User)

	return room.AddUserResult{Room: snapshot(stored)}, nil
}

func (r *Repo) RemoveUser(_ context.Context, params *room.RemoveUserParams) (room.RemoveUserResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rooms[params.RoomId]
	if !ok {
		return room.RemoveUserResult{}, room.ErrRoomNotFound
	}

	idx := slices.IndexFunc(stored.Users, func(u room.User) bool { return u.Id == params.UserId })
	if idx == -1 {
		return room.RemoveUserResult{}, nil
	}

	stored.Users = slices.Delete(stored.Users, idx, idx+1)

	if len(stored.Users) == 0 {
		delete(r.rooms, params.RoomId)
		return room.RemoveUserResult{Removed: true, Destroyed: true}, nil
	}

	// insertion order is stable, so the new host is deterministic
	if stored.HostId == params.UserId {
		stored.HostId = stored.Users[0].Id
	}

	return room.RemoveUserResult{
		Removed:   true,
		NewHostId: stored.HostId,
		Users:     slices.Clone(stored.Users),
	}, nil
}

func (r *Repo) UpdatePlayerState(_ context.Context, params *room.UpdatePlayerStateParams) (room.UpdatePlayerStateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rooms[params.RoomId]
	if !ok {
		return room.UpdatePlayerStateResult{}, room.ErrRoomNotFound
	}

	if params.IsPlaying != nil {
		stored.Player.IsPlaying = *params.IsPlaying
	}
	stored.Player.CurrentTime = params.CurrentTime
	// LastUpdated never goes backwards
	if params.UpdatedAt.After(stored.Player.LastUpdated) {
		stored.Player.LastUpdated = params.UpdatedAt
	}

	return room.UpdatePlayerStateResult{
		Player: stored.Player,
		Users:  slices.Clone(stored.Users),
	}, nil
}

func (r *Repo) GetRoomIds(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}

	return ids
}

func snapshot(stored *room.Room) room.Room {
	copied := *stored
	copied.Users = slices.Clone(stored.Users)

	return copied
}
