package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/synccube/server/internal/service/room"
	"github.com/synccube/server/pkg/ctxlogger"
	"github.com/synccube/server/pkg/wsrouter"
)

func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	conn := wsrouter.NewConn(ws)
	defer conn.Close()

	ctx := r.Context()
	clientId, err := c.roomService.Connect(ctx, conn)
	if err != nil {
		c.logger.InfoContext(ctx, "failed to register connection", "error", err)
		return
	}

	ctx = context.WithValue(ctx, clientIdCtxKey, clientId)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("client_id", clientId))

	// deferred so cleanup also runs when the serve loop panics
	defer c.handleDisconnect(ctx, clientId)

	if c.publicUrl != "" {
		c.writeToConn(ctx, conn, &Output{
			Type:    "public_url",
			Payload: map[string]any{"url": c.publicUrl},
		})
	}

	if err := c.getWSRouter().ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "websocket connection closed", "error", err)
	}
}

// handleDisconnect runs uniformly for every disconnect cause.
func (c controller) handleDisconnect(ctx context.Context, clientId string) {
	disconnectResp, err := c.roomService.Disconnect(ctx, clientId)
	if err != nil {
		c.logger.InfoContext(ctx, "failed to disconnect client", "error", err)
		return
	}

	for _, left := range disconnectResp.Left {
		if left.Destroyed {
			continue
		}

		c.broadcast(ctx, left.Conns, &Output{
			Type: "user_left",
			Payload: map[string]any{
				"user_id": left.UserId,
				"users":   left.Users,
			},
		})
	}
}

type CreateRoomInput struct {
	VideoUrl string `json:"video_url" validate:"required"`
}

func (c controller) handleCreateRoom(ctx context.Context, conn *wsrouter.Conn, input CreateRoomInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	createRoomResp, err := c.roomService.CreateRoom(ctx, &room.CreateRoomParams{
		VideoUrl: input.VideoUrl,
		ClientId: c.getClientIdFromCtx(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	c.writeToConn(ctx, conn, &Output{
		Type: "room_created",
		Payload: map[string]any{
			"room_id":   createRoomResp.RoomId,
			"video_url": createRoomResp.VideoUrl,
			"share_url": createRoomResp.ShareUrl,
		},
	})

	return nil
}

type JoinRoomInput struct {
	RoomId   string `json:"room_id" validate:"required"`
	Username string `json:"username" validate:"omitempty,max=32"`
}

func (c controller) handleJoinRoom(ctx context.Context, conn *wsrouter.Conn, input JoinRoomInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	joinRoomResp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		RoomId:   input.RoomId,
		ClientId: c.getClientIdFromCtx(ctx),
		Username: input.Username,
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			c.writeToConn(ctx, conn, &Output{
				Type:    "room_not_found",
				Payload: map[string]any{"room_id": input.RoomId},
			})
			return nil
		}

		return fmt.Errorf("failed to join room: %w", err)
	}

	c.writeToConn(ctx, conn, &Output{
		Type: "room_joined",
		Payload: map[string]any{
			"room_id":      joinRoomResp.RoomId,
			"video_url":    joinRoomResp.VideoUrl,
			"player_state": joinRoomResp.Player,
			"users":        joinRoomResp.Users,
			"share_url":    joinRoomResp.ShareUrl,
		},
	})

	if !joinRoomResp.Rejoined {
		c.broadcast(ctx, joinRoomResp.Conns, &Output{
			Type: "user_joined",
			Payload: map[string]any{
				"user_id":  joinRoomResp.JoinedUser.Id,
				"username": joinRoomResp.JoinedUser.Username,
				"users":    joinRoomResp.Users,
			},
		})
	}

	return nil
}

type PlayerActionInput struct {
	RoomId      string  `json:"room_id" validate:"required"`
	CurrentTime float64 `json:"current_time" validate:"gte=0"`
}

func (c controller) handleVideoPlay(ctx context.Context, _ *wsrouter.Conn, input PlayerActionInput) error {
	return c.handlePlayerAction(ctx, "video_play", c.roomService.PlayerPlay, input)
}

func (c controller) handleVideoPause(ctx context.Context, _ *wsrouter.Conn, input PlayerActionInput) error {
	return c.handlePlayerAction(ctx, "video_pause", c.roomService.PlayerPause, input)
}

func (c controller) handleVideoSeek(ctx context.Context, _ *wsrouter.Conn, input PlayerActionInput) error {
	return c.handlePlayerAction(ctx, "video_seek", c.roomService.PlayerSeek, input)
}

type playerActionFunc func(context.Context, *room.UpdatePlayerParams) (room.UpdatePlayerResponse, error)

func (c controller) handlePlayerAction(ctx context.Context, messageType string, action playerActionFunc, input PlayerActionInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	resp, err := action(ctx, &room.UpdatePlayerParams{
		RoomId:      input.RoomId,
		CurrentTime: input.CurrentTime,
		SenderId:    c.getClientIdFromCtx(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to apply %s: %w", messageType, err)
	}

	c.broadcast(ctx, resp.Conns, &Output{
		Type:    messageType,
		Payload: map[string]any{"current_time": resp.CurrentTime},
	})

	return nil
}
