package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/synccube/server/internal/service/room"
	"github.com/synccube/server/pkg/wsrouter"
)

type panickyRoomService struct {
	disconnected chan string
}

func (s *panickyRoomService) Connect(context.Context, *wsrouter.Conn) (string, error) {
	return "client-1", nil
}

func (s *panickyRoomService) Disconnect(_ context.Context, clientId string) (room.DisconnectResponse, error) {
	s.disconnected <- clientId
	return room.DisconnectResponse{}, nil
}

func (s *panickyRoomService) JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error) {
	panic("join blew up")
}

func (s *panickyRoomService) CreateRoom(context.Context, *room.CreateRoomParams) (room.CreateRoomResponse, error) {
	return room.CreateRoomResponse{}, nil
}

func (s *panickyRoomService) PlayerPlay(context.Context, *room.UpdatePlayerParams) (room.UpdatePlayerResponse, error) {
	return room.UpdatePlayerResponse{}, nil
}

func (s *panickyRoomService) PlayerPause(context.Context, *room.UpdatePlayerParams) (room.UpdatePlayerResponse, error) {
	return room.UpdatePlayerResponse{}, nil
}

func (s *panickyRoomService) PlayerSeek(context.Context, *room.UpdatePlayerParams) (room.UpdatePlayerResponse, error) {
	return room.UpdatePlayerResponse{}, nil
}

func (s *panickyRoomService) Status(context.Context) room.StatusResponse {
	return room.StatusResponse{}
}

// A handler panic must not leave the client registered: disconnect
// cleanup runs even when the serve loop dies mid-message.
func TestDisconnectCleanupRunsOnPanic(t *testing.T) {
	svc := &panickyRoomService{disconnected: make(chan string, 1)}
	c := NewController(svc, "", slog.Default())

	srv := httptest.NewServer(c.GetMux())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	payload, err := json.Marshal(map[string]any{"room_id": "abc123"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "join_room",
		"payload": json.RawMessage(payload),
	}))

	select {
	case clientId := <-svc.disconnected:
		require.Equal(t, "client-1", clientId)
	case <-time.After(3 * time.Second):
		t.Fatal("disconnect cleanup did not run after the handler panic")
	}
}
