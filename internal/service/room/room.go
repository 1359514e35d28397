package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/synccube/server/internal/repository/room"
	"github.com/synccube/server/pkg/wsrouter"
)

// Connect registers a live transport connection and assigns it a client id.
func (s service) Connect(ctx context.Context, conn *wsrouter.Conn) (string, error) {
	clientId := uuid.NewString()
	if err := s.connRepo.Add(conn, clientId); err != nil {
		return "", fmt.Errorf("failed to register connection: %w", err)
	}

	s.logger.InfoContext(ctx, "client connected", "client_id", clientId)

	return clientId, nil
}

type CreateRoomParams struct {
	VideoUrl string
	ClientId string
}

type CreateRoomResponse struct {
	RoomId   string
	VideoUrl string
	ShareUrl *string
}

func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (CreateRoomResponse, error) {
	creator := room.User{
		Id:       params.ClientId,
		Username: s.deriveUsername(params.ClientId),
	}

	var roomId string
	for attempt := 0; ; attempt++ {
		if attempt == setRoomMaxAttempts {
			return CreateRoomResponse{}, fmt.Errorf("failed to generate unique room id after %d attempts", setRoomMaxAttempts)
		}

		roomId = s.generator.GenerateRandomString(s.roomIdLength)
		err := s.roomRepo.SetRoom(ctx, &room.SetRoomParams{
			RoomId:    roomId,
			VideoUrl:  params.VideoUrl,
			Creator:   creator,
			CreatedAt: s.clock.Now(),
		})
		if err == nil {
			break
		}
		if !errors.Is(err, room.ErrRoomAlreadyExists) {
			return CreateRoomResponse{}, fmt.Errorf("failed to set room: %w", err)
		}

		s.logger.InfoContext(ctx, "room id collision, retrying", "room_id", roomId)
	}

	if err := s.connRepo.AddRoom(params.ClientId, roomId); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to record room membership: %w", err)
	}

	s.logger.InfoContext(ctx, "room created", "room_id", roomId, "video_url", params.VideoUrl)
	s.logActiveRooms(ctx)

	return CreateRoomResponse{
		RoomId:   roomId,
		VideoUrl: params.VideoUrl,
		ShareUrl: s.shareUrl(roomId),
	}, nil
}

type JoinRoomParams struct {
	RoomId   string
	ClientId string
	Username string
}

type JoinRoomResponse struct {
	RoomId     string
	VideoUrl   string
	Player     PlayerState
	Users      []User
	ShareUrl   *string
	JoinedUser User
	// Conns are the connections of every other member.
	Conns []*wsrouter.Conn
	// Rejoined is true when the client was already a member; the snapshot
	// is returned unchanged and no user_joined broadcast is due.
	Rejoined bool
}

func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	username := params.Username
	if username == "" {
		username = s.deriveUsername(params.ClientId)
	}

	joinedUser := room.User{
		Id:       params.ClientId,
		Username: username,
	}

	res, err := s.roomRepo.AddUser(ctx, &room.AddUserParams{
		RoomId: params.RoomId,
		User:   joinedUser,
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			s.logger.InfoContext(ctx, "join failed, room not found", "room_id", params.RoomId)
			return JoinRoomResponse{}, ErrRoomNotFound
		}

		return JoinRoomResponse{}, fmt.Errorf("failed to add user: %w", err)
	}

	if !res.Rejoined {
		if err := s.connRepo.AddRoom(params.ClientId, params.RoomId); err != nil {
			return JoinRoomResponse{}, fmt.Errorf("failed to record room membership: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "user joined room",
		"room_id", params.RoomId,
		"client_id", params.ClientId,
		"rejoined", res.Rejoined,
	)
	s.logActiveRooms(ctx)

	if res.Rejoined {
		joinedUser.Username = usernameOf(res.Room.Users, params.ClientId)
	}

	return JoinRoomResponse{
		RoomId:     params.RoomId,
		VideoUrl:   res.Room.VideoUrl,
		Player:     toPlayerState(res.Room.Player),
		Users:      toUsers(res.Room.Users),
		ShareUrl:   s.shareUrl(params.RoomId),
		JoinedUser: User{Id: joinedUser.Id, Username: joinedUser.Username},
		Conns:      s.getConns(ctx, res.Room.Users, params.ClientId),
		Rejoined:   res.Rejoined,
	}, nil
}

func usernameOf(users []room.User, id string) string {
	for _, u := range users {
		if u.Id == id {
			return u.Username
		}
	}

	return ""
}
