package controller

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/synccube/server/pkg/wsrouter"
)

var ErrValidationError = errors.New("validation error")

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (c controller) writeToConn(ctx context.Context, conn *wsrouter.Conn, output *Output) {
	if err := conn.WriteJSON(output); err != nil {
		c.logger.InfoContext(ctx, "failed to write to conn",
			"message_type", output.Type,
			"error", err,
		)
	}
}

// broadcast delivers the output to each conn, fire-and-forget. A member
// that is slow or already gone simply misses the message.
func (c controller) broadcast(ctx context.Context, conns []*wsrouter.Conn, output *Output) {
	for _, conn := range conns {
		c.writeToConn(ctx, conn, output)
	}
}

func (c controller) generateTimeBasedId() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}
