package atspi

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Bus is the slice of a D-Bus connection the bridge uses.
type Bus interface {
	UniqueName() string
	Export(v any, path dbus.ObjectPath, iface string) error
	Unexport(path dbus.ObjectPath, iface string) error
	Emit(path dbus.ObjectPath, name string, values ...any) error
	// CallAsync starts a method call; the returned call's Done channel
	// fires once it completes or ctx is cancelled.
	CallAsync(ctx context.Context, dest string, path dbus.ObjectPath, method string, args ...any) *dbus.Call
	// Subscribe delivers signals matching sender, path and iface whose
	// member is one of members.
	Subscribe(sender string, path dbus.ObjectPath, iface string, members ...string) (<-chan *dbus.Signal, func(), error)
	Close() error
}

type dbusBus struct {
	conn *dbus.Conn
}

// ConnectAddress opens a private connection to the bus at address.
func ConnectAddress(address string) (Bus, error) {
	conn, err := dbus.Connect(address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return &dbusBus{conn: conn}, nil
}

// ConnectSession opens a private session bus connection.
func ConnectSession() (Bus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &dbusBus{conn: conn}, nil
}

func (b *dbusBus) UniqueName() string {
	names := b.conn.Names()
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func (b *dbusBus) Export(v any, path dbus.ObjectPath, iface string) error {
	return b.conn.Export(v, path, iface)
}

func (b *dbusBus) Unexport(path dbus.ObjectPath, iface string) error {
	return b.conn.Export(nil, path, iface)
}

func (b *dbusBus) Emit(path dbus.ObjectPath, name string, values ...any) error {
	return b.conn.Emit(path, name, values...)
}

func (b *dbusBus) CallAsync(ctx context.Context, dest string, path dbus.ObjectPath, method string, args ...any) *dbus.Call {
	obj := b.conn.Object(dest, path)
	return obj.GoWithContext(ctx, method, 0, make(chan *dbus.Call, 1), args...)
}

func (b *dbusBus) Subscribe(sender string, path dbus.ObjectPath, iface string, members ...string) (<-chan *dbus.Signal, func(), error) {
	var rules [][]dbus.MatchOption
	for _, member := range members {
		opts := []dbus.MatchOption{
			dbus.WithMatchSender(sender),
			dbus.WithMatchObjectPath(path),
			dbus.WithMatchInterface(iface),
			dbus.WithMatchMember(member),
		}
		if err := b.conn.AddMatchSignal(opts...); err != nil {
			return nil, nil, fmt.Errorf("failed to add match for %s.%s: %w", iface, member, err)
		}
		rules = append(rules, opts)
	}

	raw := make(chan *dbus.Signal, 64)
	out := make(chan *dbus.Signal, 64)
	b.conn.Signal(raw)

	done := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case sig, ok := <-raw:
				if !ok {
					return
				}
				if sig.Path != path {
					continue
				}
				if !slices.Contains(members, signalMember(sig.Name, iface)) {
					continue
				}
				select {
				case out <- sig:
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			b.conn.RemoveSignal(raw)
			for _, opts := range rules {
				_ = b.conn.RemoveMatchSignal(opts...)
			}
		})
	}
	return out, stop, nil
}

func (b *dbusBus) Close() error {
	return b.conn.Close()
}

// signalMember strips iface from a fully qualified signal name; it returns
// "" when the signal belongs to another interface.
func signalMember(name, iface string) string {
	prefix := iface + "."
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return ""
	}
	return name[len(prefix):]
}
