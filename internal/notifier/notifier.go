// Package notifier abstracts the desktop notification capability so the
// realtime adapter never touches a platform API directly.
package notifier

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

type Notifier interface {
	Permission() Permission
	RequestPermission(ctx context.Context) (Permission, error)
	Show(title, body string) error
}

// LogNotifier "displays" notifications by logging them. Permission is
// granted on request when enabled and denied otherwise.
type LogNotifier struct {
	enabled bool
	log     *zap.Logger

	mu         sync.Mutex
	permission Permission
	shown      []string
}

func NewLogNotifier(enabled bool, logger *zap.Logger) *LogNotifier {
	return &LogNotifier{
		enabled:    enabled,
		log:        logger,
		permission: PermissionDefault,
	}
}

func (n *LogNotifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

func (n *LogNotifier) RequestPermission(_ context.Context) (Permission, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.permission != PermissionDefault {
		return n.permission, nil
	}
	if n.enabled {
		n.permission = PermissionGranted
	} else {
		n.permission = PermissionDenied
	}
	n.log.Info("notification permission decided", zap.String("permission", string(n.permission)))
	return n.permission, nil
}

func (n *LogNotifier) Show(title, body string) error {
	n.mu.Lock()
	granted := n.permission == PermissionGranted
	if granted {
		n.shown = append(n.shown, title)
	}
	n.mu.Unlock()
	if !granted {
		return nil
	}
	n.log.Info("notification", zap.String("title", title), zap.String("body", body))
	return nil
}

// Shown returns the titles displayed so far, oldest first.
func (n *LogNotifier) Shown() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.shown...)
}
