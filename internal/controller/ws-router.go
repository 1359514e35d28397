package controller

import (
	"context"

	"github.com/synccube/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.wsRequestIdWSMw())
	mux.Use(c.loggerWSMw())
	mux.SetErrorHandler(func(ctx context.Context, conn *wsrouter.Conn, err error) {
		c.logger.InfoContext(ctx, "websocket message error", "error", err)
		c.writeToConn(ctx, conn, &Output{
			Type:    "error",
			Payload: map[string]any{"message": err.Error()},
		})
	})

	// room lifecycle
	wsrouter.Handle(mux, "create_room", c.handleCreateRoom)
	wsrouter.Handle(mux, "join_room", c.handleJoinRoom)

	// playback
	wsrouter.Handle(mux, "video_play", c.handleVideoPlay)
	wsrouter.Handle(mux, "video_pause", c.handleVideoPause)
	wsrouter.Handle(mux, "video_seek", c.handleVideoSeek)

	return mux
}
