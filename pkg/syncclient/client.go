package syncclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Handlers are optional callbacks for room events that concern the
// embedding application rather than the reconciler.
type Handlers struct {
	OnRoomCreated  func(RoomCreated)
	OnRoomJoined   func(RoomJoined)
	OnRoomNotFound func(RoomNotFound)
	OnUserJoined   func(UserJoined)
	OnUserLeft     func(UserLeft)
	OnPublicUrl    func(PublicUrl)
}

// Client is one logical connection to the sync server. Remote playback
// events are fed to the reconciler; local native events go out through
// NativePlay, NativePause and NativeSeek, which consult the reconciler so
// applied remote instructions are not re-emitted.
type Client struct {
	conn       *websocket.Conn
	reconciler *Reconciler
	handlers   Handlers
	logger     *slog.Logger

	mu     sync.Mutex
	roomId string
}

func Dial(ctx context.Context, url string, reconciler *Reconciler, handlers Handlers, logger *slog.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	return &Client{
		conn:       conn,
		reconciler: reconciler,
		handlers:   handlers,
		logger:     logger,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Listen reads messages until the connection fails or ctx is done.
func (c *Client) Listen(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var msg envelope
		if err := c.conn.ReadJSON(&msg); err != nil {
			return err
		}

		if err := c.route(msg); err != nil {
			c.logger.Info("failed to handle message", "type", msg.Type, "error", err)
		}
	}
}

func (c *Client) route(msg envelope) error {
	switch msg.Type {
	case "room_created":
		var payload RoomCreated
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		c.setRoomId(payload.RoomId)
		if c.handlers.OnRoomCreated != nil {
			c.handlers.OnRoomCreated(payload)
		}

	case "room_joined":
		var payload RoomJoined
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		c.setRoomId(payload.RoomId)
		c.reconciler.Bootstrap(Snapshot{
			IsPlaying:   payload.PlayerState.IsPlaying,
			CurrentTime: payload.PlayerState.CurrentTime,
		})
		if c.handlers.OnRoomJoined != nil {
			c.handlers.OnRoomJoined(payload)
		}

	case "room_not_found":
		var payload RoomNotFound
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		if c.handlers.OnRoomNotFound != nil {
			c.handlers.OnRoomNotFound(payload)
		}

	case "user_joined":
		var payload UserJoined
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		if c.handlers.OnUserJoined != nil {
			c.handlers.OnUserJoined(payload)
		}

	case "user_left":
		var payload UserLeft
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		if c.handlers.OnUserLeft != nil {
			c.handlers.OnUserLeft(payload)
		}

	case "public_url":
		var payload PublicUrl
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		if c.handlers.OnPublicUrl != nil {
			c.handlers.OnPublicUrl(payload)
		}

	case "video_play", "video_pause", "video_seek":
		var payload playerEvent
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		switch msg.Type {
		case "video_play":
			c.reconciler.ApplyRemotePlay(payload.CurrentTime)
		case "video_pause":
			c.reconciler.ApplyRemotePause(payload.CurrentTime)
		case "video_seek":
			c.reconciler.ApplyRemoteSeek(payload.CurrentTime)
		}

	default:
		c.logger.Debug("ignoring unknown message", "type", msg.Type)
	}

	return nil
}

func (c *Client) CreateRoom(videoUrl string) error {
	return c.send("create_room", createRoomPayload{VideoUrl: videoUrl})
}

func (c *Client) JoinRoom(roomId string, username string) error {
	return c.send("join_room", joinRoomPayload{RoomId: roomId, Username: username})
}

// NativePlay reports a native play event. The event is emitted to the room
// unless the reconciler marks it as the echo of a remote instruction.
func (c *Client) NativePlay(currentTime float64) error {
	if !c.reconciler.OnNativePlay() {
		return nil
	}

	return c.send("video_play", playerActionPayload{RoomId: c.getRoomId(), CurrentTime: currentTime})
}

// NativePause is the pause counterpart of NativePlay.
func (c *Client) NativePause(currentTime float64) error {
	if !c.reconciler.OnNativePause() {
		return nil
	}

	return c.send("video_pause", playerActionPayload{RoomId: c.getRoomId(), CurrentTime: currentTime})
}

// NativeSeek reports a user-initiated reposition. Seeks applied by the
// reconciler go through Player.SeekTo and never reach this path, so there
// is nothing to suppress.
func (c *Client) NativeSeek(currentTime float64) error {
	return c.send("video_seek", playerActionPayload{RoomId: c.getRoomId(), CurrentTime: currentTime})
}

func (c *Client) send(messageType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.WriteJSON(envelope{Type: messageType, Payload: raw}); err != nil {
		return fmt.Errorf("failed to send %s: %w", messageType, err)
	}

	return nil
}

func (c *Client) setRoomId(roomId string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomId = roomId
}

func (c *Client) getRoomId() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomId
}
