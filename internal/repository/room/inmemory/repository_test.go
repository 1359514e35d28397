package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synccube/server/internal/repository/room"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestSetRoom(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()
	createdAt := time.Now()

	err := repo.SetRoom(ctx, &room.SetRoomParams{
		RoomId:    "abc123",
		VideoUrl:  "https://youtu.be/abc123",
		Creator:   room.User{Id: "user-a", Username: "User-a"},
		CreatedAt: createdAt,
	})
	require.NoError(t, err)

	stored, err := repo.GetRoom(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc123", stored.VideoUrl)
	assert.Equal(t, "user-a", stored.HostId)
	assert.Len(t, stored.Users, 1)
	assert.False(t, stored.Player.IsPlaying)
	assert.Zero(t, stored.Player.CurrentTime)
	assert.Equal(t, createdAt, stored.Player.LastUpdated)

	err = repo.SetRoom(ctx, &room.SetRoomParams{
		RoomId:  "abc123",
		Creator: room.User{Id: "user-b"},
	})
	assert.ErrorIs(t, err, room.ErrRoomAlreadyExists)
}

func TestGetRoomNotFound(t *testing.T) {
	repo := NewRepo()

	_, err := repo.GetRoom(context.Background(), "nosuch")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestAddUser(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()

	require.NoError(t, repo.SetRoom(ctx, &room.SetRoomParams{
		RoomId:  "abc123",
		Creator: room.User{Id: "user-a", Username: "User-a"},
	}))

	_, err := repo.AddUser(ctx, &room.AddUserParams{
		RoomId: "nosuch",
		User:   room.User{Id: "user-b"},
	})
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	res, err := repo.AddUser(ctx, &room.AddUserParams{
		RoomId: "abc123",
		User:   room.User{Id: "user-b", Username: "Bo"},
	})
	require.NoError(t, err)
	assert.False(t, res.Rejoined)
	assert.Len(t, res.Room.Users, 2)
	assert.Equal(t, "user-b", res.Room.Users[1].Id)

	// rejoin with the same id must not duplicate membership
	res, err = repo.AddUser(ctx, &room.AddUserParams{
		RoomId: "abc123",
		User:   room.User{Id: "user-b", Username: "Bo"},
	})
	require.NoError(t, err)
	assert.True(t, res.Rejoined)
	assert.Len(t, res.Room.Users, 2)
}

func TestRemoveUserHostMigration(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()

	require.NoError(t, repo.SetRoom(ctx, &room.SetRoomParams{
		RoomId:  "abc123",
		Creator: room.User{Id: "user-a"},
	}))
	for _, id := range []string{"user-b", "user-c"} {
		_, err := repo.AddUser(ctx, &room.AddUserParams{
			RoomId: "abc123",
			User:   room.User{Id: id},
		})
		require.NoError(t, err)
	}

	res, err := repo.RemoveUser(ctx, &room.RemoveUserParams{RoomId: "abc123", UserId: "user-a"})
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.False(t, res.Destroyed)
	// host goes to the previously-second member, not an arbitrary one
	assert.Equal(t, "user-b", res.NewHostId)
	assert.Equal(t, []room.User{{Id: "user-b"}, {Id: "user-c"}}, res.Users)
}

func TestRemoveUserKeepsHost(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()

	require.NoError(t, repo.SetRoom(ctx, &room.SetRoomParams{
		RoomId:  "abc123",
		Creator: room.User{Id: "user-a"},
	}))
	_, err := repo.AddUser(ctx, &room.AddUserParams{
		RoomId: "abc123",
		User:   room.User{Id: "user-b"},
	})
	require.NoError(t, err)

	res, err := repo.RemoveUser(ctx, &room.RemoveUserParams{RoomId: "abc123", UserId: "user-b"})
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Equal(t, "user-a", res.NewHostId)
}

func TestRemoveUserDestroysEmptyRoom(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()

	require.NoError(t, repo.SetRoom(ctx, &room.SetRoomParams{
		RoomId:  "abc123",
		Creator: room.User{Id: "user-a"},
	}))

	res, err := repo.RemoveUser(ctx, &room.RemoveUserParams{RoomId: "abc123", UserId: "user-a"})
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.True(t, res.Destroyed)

	_, err = repo.GetRoom(ctx, "abc123")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestRemoveUserUnknownMember(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()

	require.NoError(t, repo.SetRoom(ctx, &room.SetRoomParams{
		RoomId:  "abc123",
		Creator: room.User{Id: "user-a"},
	}))

	res, err := repo.RemoveUser(ctx, &room.RemoveUserParams{RoomId: "abc123", UserId: "nosuch"})
	require.NoError(t, err)
	assert.False(t, res.Removed)

	stored, err := repo.GetRoom(ctx, "abc123")
	require.NoError(t, err)
	assert.Len(t, stored.Users, 1)
}

func TestUpdatePlayerState(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, repo.SetRoom(ctx, &room.SetRoomParams{
		RoomId:    "abc123",
		Creator:   room.User{Id: "user-a"},
		CreatedAt: base,
	}))

	res, err := repo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{
		RoomId:      "abc123",
		IsPlaying:   boolPtr(true),
		CurrentTime: 12.5,
		UpdatedAt:   base.Add(time.Second),
	})
	require.NoError(t, err)
	assert.True(t, res.Player.IsPlaying)
	assert.Equal(t, 12.5, res.Player.CurrentTime)
	assert.Equal(t, base.Add(time.Second), res.Player.LastUpdated)

	// nil IsPlaying is a seek and leaves the verb untouched
	res, err = repo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{
		RoomId:      "abc123",
		CurrentTime: 60,
		UpdatedAt:   base.Add(2 * time.Second),
	})
	require.NoError(t, err)
	assert.True(t, res.Player.IsPlaying)
	assert.Equal(t, float64(60), res.Player.CurrentTime)

	// LastUpdated never goes backwards
	res, err = repo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{
		RoomId:      "abc123",
		IsPlaying:   boolPtr(false),
		CurrentTime: 61,
		UpdatedAt:   base.Add(-time.Minute),
	})
	require.NoError(t, err)
	assert.False(t, res.Player.IsPlaying)
	assert.Equal(t, base.Add(2*time.Second), res.Player.LastUpdated)
}

func TestUpdatePlayerStateRoomNotFound(t *testing.T) {
	repo := NewRepo()

	_, err := repo.UpdatePlayerState(context.Background(), &room.UpdatePlayerStateParams{
		RoomId:      "nosuch",
		CurrentTime: 1,
		UpdatedAt:   time.Now(),
	})
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}
