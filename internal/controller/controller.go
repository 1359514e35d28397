package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/synccube/server/internal/service/room"
	"github.com/synccube/server/pkg/validator"
	"github.com/synccube/server/pkg/wsrouter"
)

type iRoomService interface {
	Connect(ctx context.Context, conn *wsrouter.Conn) (string, error)
	Disconnect(ctx context.Context, clientId string) (room.DisconnectResponse, error)
	CreateRoom(context.Context, *room.CreateRoomParams) (room.CreateRoomResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	PlayerPlay(context.Context, *room.UpdatePlayerParams) (room.UpdatePlayerResponse, error)
	PlayerPause(context.Context, *room.UpdatePlayerParams) (room.UpdatePlayerResponse, error)
	PlayerSeek(context.Context, *room.UpdatePlayerParams) (room.UpdatePlayerResponse, error)
	Status(ctx context.Context) room.StatusResponse
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
	publicUrl   string
}

func NewController(roomService iRoomService, publicUrl string, logger *slog.Logger) *controller {
	return &controller{
		roomService: roomService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:  validator.NewValidator(),
		logger:    logger,
		publicUrl: publicUrl,
	}
}
