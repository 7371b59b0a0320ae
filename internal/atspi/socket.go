package atspi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/GNOME/gtk-sub066/internal/errdefs"
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/godbus/dbus/v5"
)

type SocketState int

const (
	SocketNotEmbedded SocketState = iota
	SocketEmbedding
	SocketEmbedded
)

func (s SocketState) String() string {
	switch s {
	case SocketEmbedding:
		return "embedding"
	case SocketEmbedded:
		return "embedded"
	}
	return "not-embedded"
}

// Socket stands in for an accessible subtree owned by another process,
// reachable at (busName, objectPath).
type Socket struct {
	root       *Root
	node       *a11y.Node
	busName    string
	objectPath dbus.ObjectPath
	state      SocketState
	cancel     context.CancelFunc
}

// NewSocket creates a socket node under parent. Sockets only exist on the
// AT-SPI backend.
func NewSocket(root *Root, parent *a11y.Node, busName string, objectPath string) (*Socket, error) {
	if err := checkSocket(root, busName, objectPath); err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, errdefs.ErrNoParent
	}
	return newSocket(root, parent.Tree().NewSocketNode(parent, busName), busName, objectPath), nil
}

// AttachSocket wraps a socket node that is already part of a tree, such as
// one created by a tree file.
func AttachSocket(root *Root, node *a11y.Node, busName string, objectPath string) (*Socket, error) {
	if err := checkSocket(root, busName, objectPath); err != nil {
		return nil, err
	}
	if node == nil || node.Kind() != a11y.KindSocket {
		return nil, fmt.Errorf("accessible is not a socket")
	}
	if node.Parent() == nil {
		return nil, errdefs.ErrNoParent
	}
	return newSocket(root, node, busName, objectPath), nil
}

func checkSocket(root *Root, busName, objectPath string) error {
	if root == nil || root.Backend() != BackendATSPI {
		return fmt.Errorf("sockets need the %s backend: %w", BackendATSPI, errdefs.ErrBackendUnavailable)
	}
	if !ValidBusName(busName) {
		return fmt.Errorf("bus name %q: %w", busName, errdefs.ErrInvalidBusName)
	}
	if !dbus.ObjectPath(objectPath).IsValid() {
		return fmt.Errorf("object path %q: %w", objectPath, errdefs.ErrInvalidObjectPath)
	}
	return nil
}

func newSocket(root *Root, node *a11y.Node, busName, objectPath string) *Socket {
	return &Socket{
		root:       root,
		node:       node,
		busName:    busName,
		objectPath: dbus.ObjectPath(objectPath),
	}
}

func (s *Socket) Node() *a11y.Node { return s.node }

func (s *Socket) BusName() string { return s.busName }

func (s *Socket) ObjectPath() dbus.ObjectPath { return s.objectPath }

func (s *Socket) State() SocketState { return s.state }

func (s *Socket) Embedded() bool { return s.state == SocketEmbedded }

// Embed tells the remote side which object hosts it. Calls made while
// embedded or while an attempt is outstanding are ignored.
func (s *Socket) Embed(bus Bus) {
	if s.state != SocketNotEmbedded {
		return
	}
	if bus == nil {
		log.Warnf("[AT-SPI] Cannot embed socket (%s, %s) without a bus connection", s.busName, s.objectPath)
		return
	}

	atc, ok := s.node.ATContext().(*Context)
	if !ok {
		log.Warnf("[AT-SPI] Socket (%s, %s) has no AT-SPI context", s.busName, s.objectPath)
		return
	}
	if !atc.IsRealized() {
		atc.Realize()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.state = SocketEmbedding
	s.cancel = cancel

	call := bus.CallAsync(ctx, s.busName, s.objectPath, ifaceSocket+".Embedded", string(atc.Path()))
	s.root.loop.Await(call, s.onEmbedded)
}

func (s *Socket) onEmbedded(call *dbus.Call) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if call.Err != nil {
		s.state = SocketNotEmbedded
		if errors.Is(call.Err, context.Canceled) {
			return
		}
		log.Warnf("[AT-SPI] Error embedding socket (%s, %s): %v", s.busName, s.objectPath, call.Err)
		return
	}

	s.state = SocketEmbedded
	s.node.SetPlatformState(a11y.PlatformStateHidden, false)
}

// Close cancels an outstanding Embed and removes the socket node.
func (s *Socket) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.node.Tree().Remove(s.node)
}

// ValidBusName reports whether name is a unique (":1.42") or well-known
// ("org.example.App") D-Bus name.
func ValidBusName(name string) bool {
	if name == "" || len(name) > 255 {
		return false
	}
	unique := strings.HasPrefix(name, ":")
	if unique {
		name = name[1:]
	}

	elems := strings.Split(name, ".")
	if len(elems) < 2 {
		return false
	}
	for _, e := range elems {
		if e == "" {
			return false
		}
		if !unique && e[0] >= '0' && e[0] <= '9' {
			return false
		}
		for i := 0; i < len(e); i++ {
			c := e[i]
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
			default:
				return false
			}
		}
	}
	return true
}
