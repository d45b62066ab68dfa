// Package transport defines the realtime channel the inbox listens on.
package transport

import (
	"context"

	"bookingdesk/internal/model"
)

// Handler receives pushed notifications. Only one handler is active at a
// time.
type Handler func(model.Notification)

type Transport interface {
	// Connect opens the push connection. Calling it again while connected
	// is a no-op.
	Connect(ctx context.Context) error
	// Authenticate binds the connection to a recipient. The binding is
	// re-sent after every reconnect.
	Authenticate(ctx context.Context, principalID, role string) error
	// Subscribe replaces the active handler.
	Subscribe(h Handler)
	Unsubscribe()
	// MarkRead signals the server without waiting for an answer.
	MarkRead(notificationID string)
	Close() error
}
