package wsrouter

import (
	"context"
	"encoding/json"
	"fmt"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// HandlerFunc handles a single decoded message. Registered handlers are
// typed; middlewares see the payload as any.
type HandlerFunc[T any] func(ctx context.Context, conn *Conn, input T) error

type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

// ErrorHandlerFunc is invoked when a handler returns an error or a message
// cannot be decoded or routed.
type ErrorHandlerFunc func(ctx context.Context, conn *Conn, err error)

type WSRouter struct {
	routes       map[string]HandlerFunc[any]
	middlewares  []Middleware
	errorHandler ErrorHandlerFunc
}

func New() *WSRouter {
	return &WSRouter{
		routes:       make(map[string]HandlerFunc[any]),
		errorHandler: func(context.Context, *Conn, error) {},
	}
}

func (r *WSRouter) Use(mw ...Middleware) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *WSRouter) SetErrorHandler(h ErrorHandlerFunc) {
	r.errorHandler = h
}

// Handle registers a typed handler for a message type. The raw payload is
// unmarshalled into T before the handler is called.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	r.routes[messageType] = func(ctx context.Context, conn *Conn, payload any) error {
		raw, ok := payload.(json.RawMessage)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", payload)
		}

		var input T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &input); err != nil {
				return fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		return handler(ctx, conn, input)
	}
}

// ServeConn reads messages from the connection until it fails and routes
// each one to its registered handler. Messages are processed one at a time
// in arrival order.
func (r *WSRouter) ServeConn(ctx context.Context, conn *Conn) error {
	// the middleware chain is fixed for the lifetime of the connection,
	// so compose it around each route once up front
	handlers := make(map[string]HandlerFunc[any], len(r.routes))
	for messageType, handler := range r.routes {
		for i := len(r.middlewares) - 1; i >= 0; i-- {
			handler = r.middlewares[i](handler)
		}
		handlers[messageType] = handler
	}

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)

		handler, exists := handlers[msg.Type]
		if !exists {
			r.errorHandler(msgCtx, conn, fmt.Errorf("unknown message type %q", msg.Type))
			continue
		}

		if err := handler(msgCtx, conn, json.RawMessage(msg.Payload)); err != nil {
			r.errorHandler(msgCtx, conn, err)
		}
	}
}
