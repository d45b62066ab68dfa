package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogNotifier_PermissionDecidedOnce(t *testing.T) {
	n := NewLogNotifier(true, zap.NewNop())
	require.Equal(t, PermissionDefault, n.Permission())

	p, err := n.RequestPermission(context.Background())
	require.NoError(t, err)
	require.Equal(t, PermissionGranted, p)
	require.Equal(t, PermissionGranted, n.Permission())
}

func TestLogNotifier_DisabledIsDenied(t *testing.T) {
	n := NewLogNotifier(false, zap.NewNop())

	p, err := n.RequestPermission(context.Background())
	require.NoError(t, err)
	require.Equal(t, PermissionDenied, p)

	require.NoError(t, n.Show("hidden", ""))
	require.Empty(t, n.Shown())
}

func TestLogNotifier_ShowRequiresPermission(t *testing.T) {
	n := NewLogNotifier(true, zap.NewNop())
	require.NoError(t, n.Show("before", ""))
	require.Empty(t, n.Shown())

	_, _ = n.RequestPermission(context.Background())
	require.NoError(t, n.Show("after", "body"))
	require.Equal(t, []string{"after"}, n.Shown())
}
