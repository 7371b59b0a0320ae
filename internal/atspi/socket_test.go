package atspi

import (
	"errors"
	"testing"
	"time"

	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/GNOME/gtk-sub066/internal/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const embeddedMethod = ifaceSocket + ".Embedded"

func TestValidBusName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{":1.42", true},
		{"org.example.Plugin", true},
		{"org.example.my-plugin_2", true},
		{":1.0.x", true},
		{"", false},
		{"org", false},
		{"org..example", false},
		{".org.example", false},
		{"org.2example", false},
		{"org.exa mple", false},
		{":", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidBusName(tt.name))
		})
	}
}

func TestNewSocket_Validation(t *testing.T) {
	f := newFixture(registryBus())

	_, err := NewSocket(f.root, f.panel, "not a name", "/org/example/a11y")
	assert.ErrorIs(t, err, errdefs.ErrInvalidBusName)

	_, err = NewSocket(f.root, f.panel, "org.example.Plugin", "relative/path")
	assert.ErrorIs(t, err, errdefs.ErrInvalidObjectPath)

	_, err = NewSocket(f.root, nil, "org.example.Plugin", "/org/example/a11y")
	assert.ErrorIs(t, err, errdefs.ErrNoParent)

	_, err = NewSocket(nil, f.panel, "org.example.Plugin", "/org/example/a11y")
	assert.ErrorIs(t, err, errdefs.ErrBackendUnavailable)

	other := NewRoot(RootOptions{Backend: "test"})
	_, err = NewSocket(other, f.panel, "org.example.Plugin", "/org/example/a11y")
	assert.ErrorIs(t, err, errdefs.ErrBackendUnavailable)
}

func TestNewSocket_HiddenLeafWithParentBounds(t *testing.T) {
	f := newFixture(registryBus())

	s, err := NewSocket(f.root, f.panel, "org.example.Plugin", "/org/example/a11y")
	require.NoError(t, err)

	node := s.Node()
	assert.Equal(t, a11y.KindSocket, node.Kind())
	assert.NotZero(t, node.PlatformState()&a11y.PlatformStateHidden)
	assert.Nil(t, node.FirstAccessibleChild())
	assert.Equal(t, SocketNotEmbedded, s.State())

	panelBounds, _ := f.panel.Bounds()
	got, ok := node.Bounds()
	assert.True(t, ok)
	assert.Equal(t, panelBounds, got)
}

func TestSocket_EmbedSuccess(t *testing.T) {
	f := newFixture(registryBus())
	f.realize(f.window)
	remote := newFakeBus()
	remote.reply(embeddedMethod)

	s, err := NewSocket(f.root, f.panel, "org.example.Plugin", "/org/example/a11y")
	require.NoError(t, err)

	s.Embed(remote)
	f.root.loop.Drain()

	assert.Equal(t, SocketEmbedded, s.State())
	assert.True(t, s.Embedded())
	assert.Zero(t, s.Node().PlatformState()&a11y.PlatformStateHidden)

	calls := remote.callsTo(embeddedMethod)
	require.Len(t, calls, 1)
	assert.Equal(t, "org.example.Plugin", calls[0].Destination)
	assert.Equal(t, []any{string(contextOf(s.Node()).Path())}, calls[0].Args)

	s.Embed(remote)
	assert.Len(t, remote.callsTo(embeddedMethod), 1, "already embedded")
}

func TestSocket_EmbedTwiceIsOneCall(t *testing.T) {
	f := newFixture(registryBus())
	remote := newFakeBus()
	remote.hold(embeddedMethod)

	s, err := NewSocket(f.root, f.panel, "org.example.Plugin", "/org/example/a11y")
	require.NoError(t, err)

	s.Embed(remote)
	s.Embed(remote)
	f.root.loop.Drain()

	assert.Len(t, remote.callsTo(embeddedMethod), 1)
	assert.Equal(t, SocketEmbedding, s.State())

	remote.complete(embeddedMethod, nil)
	require.Eventually(t, func() bool {
		f.root.loop.Drain()
		return s.Embedded()
	}, time.Second, 5*time.Millisecond)
}

func TestSocket_CancelIsSilent(t *testing.T) {
	logs := captureLog(t)
	f := newFixture(registryBus())
	remote := newFakeBus()
	remote.hold(embeddedMethod)

	s, err := NewSocket(f.root, f.panel, "org.example.Plugin", "/org/example/a11y")
	require.NoError(t, err)

	s.Embed(remote)
	s.Close()

	require.Eventually(t, func() bool {
		f.root.loop.Drain()
		return s.State() == SocketNotEmbedded
	}, time.Second, 5*time.Millisecond)

	assert.NotContains(t, logs.String(), "Error embedding socket")
	assert.NotZero(t, s.Node().PlatformState()&a11y.PlatformStateHidden)
}

func TestSocket_FailureRevertsAndWarns(t *testing.T) {
	logs := captureLog(t)
	f := newFixture(registryBus())
	remote := newFakeBus()
	remote.fail(embeddedMethod, errors.New("no such object"))

	s, err := NewSocket(f.root, f.panel, "org.example.Plugin", "/org/example/a11y")
	require.NoError(t, err)

	s.Embed(remote)
	f.root.loop.Drain()

	assert.Equal(t, SocketNotEmbedded, s.State())
	assert.NotZero(t, s.Node().PlatformState()&a11y.PlatformStateHidden)
	assert.Contains(t, logs.String(), "Error embedding socket")

	remote.reply(embeddedMethod)
	s.Embed(remote)
	f.root.loop.Drain()
	assert.True(t, s.Embedded(), "a failed attempt can be retried")
}

func TestAttachSocket(t *testing.T) {
	f := newFixture(registryBus())
	node := f.tree.NewSocketNode(f.panel, "plugin")

	s, err := AttachSocket(f.root, node, "org.example.Plugin", "/org/example/a11y")
	require.NoError(t, err)
	assert.Same(t, node, s.Node())
	assert.Equal(t, "org.example.Plugin", s.BusName())

	_, err = AttachSocket(f.root, f.button, "org.example.Plugin", "/org/example/a11y")
	assert.Error(t, err)

	orphan := f.tree.NewSocketNode(nil, "orphan")
	_, err = AttachSocket(f.root, orphan, "org.example.Plugin", "/org/example/a11y")
	assert.ErrorIs(t, err, errdefs.ErrNoParent)
}
