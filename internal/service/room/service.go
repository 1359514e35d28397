package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/synccube/server/internal/repository/room"
	"github.com/synccube/server/pkg/randstr"
	"github.com/synccube/server/pkg/wsrouter"
)

var ErrRoomNotFound = errors.New("room not found")

const (
	defaultRoomIdLength   = 6
	setRoomMaxAttempts    = 10
	derivedUsernameIdSize = 5
)

type iRoomRepo interface {
	SetRoom(context.Context, *room.SetRoomParams) error
	AddUser(context.Context, *room.AddUserParams) (room.AddUserResult, error)
	RemoveUser(context.Context, *room.RemoveUserParams) (room.RemoveUserResult, error)
	UpdatePlayerState(context.Context, *room.UpdatePlayerStateParams) (room.UpdatePlayerStateResult, error)
	GetRoomIds(context.Context) []string
}

type iConnRepo interface {
	Add(*wsrouter.Conn, string) error
	AddRoom(clientId string, roomId string) error
	Remove(clientId string) ([]string, error)
	GetConn(clientId string) (*wsrouter.Conn, error)
	Len() int
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	// PublicUrl is the externally reachable base url announced to clients.
	// Empty disables share links and the public_url announcement.
	PublicUrl    string
	RoomIdLength int
}

type service struct {
	roomRepo     iRoomRepo
	connRepo     iConnRepo
	generator    iGenerator
	clock        clockwork.Clock
	logger       *slog.Logger
	publicUrl    string
	roomIdLength int
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, clock clockwork.Clock, cfg *Config, logger *slog.Logger) *service {
	roomIdLength := cfg.RoomIdLength
	if roomIdLength <= 0 {
		roomIdLength = defaultRoomIdLength
	}

	letterBytes := []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

	return &service{
		roomRepo:     roomRepo,
		connRepo:     connRepo,
		generator:    randstr.New(letterBytes),
		clock:        clock,
		logger:       logger,
		publicUrl:    cfg.PublicUrl,
		roomIdLength: roomIdLength,
	}
}
