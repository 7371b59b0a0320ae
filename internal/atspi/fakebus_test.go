package atspi

import (
	"context"
	"errors"
	"sync"

	"github.com/godbus/dbus/v5"
)

type emitted struct {
	path dbus.ObjectPath
	name string
	body []any
}

type fakeReply struct {
	body []any
	err  error
	// pending leaves the call outstanding until complete or its context
	// is cancelled.
	pending bool
}

type pendingCall struct {
	call     *dbus.Call
	once     sync.Once
	finished chan struct{}
}

func (p *pendingCall) finish(body []any, err error) {
	p.once.Do(func() {
		p.call.Body = body
		p.call.Err = err
		p.call.Done <- p.call
		close(p.finished)
	})
}

// fakeBus is an in-memory Bus. Replies are programmed per method; calls
// without a reply fail with UnknownMethod.
type fakeBus struct {
	mu       sync.Mutex
	name     string
	exported map[dbus.ObjectPath]map[string]any
	emitted  []emitted
	calls    []*dbus.Call
	replies  map[string]fakeReply
	pending  map[string][]*pendingCall
	signals  map[string]chan *dbus.Signal
	closed   bool

	exportErr error
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		name:     ":1.42",
		exported: make(map[dbus.ObjectPath]map[string]any),
		replies:  make(map[string]fakeReply),
		pending:  make(map[string][]*pendingCall),
		signals:  make(map[string]chan *dbus.Signal),
	}
}

// registryBus answers Embed and GetRegisteredEvents like a live registry.
func registryBus() *fakeBus {
	b := newFakeBus()
	b.reply(ifaceSocket+".Embed", Ref{Name: ":1.0", Path: RootPath})
	b.reply(ifaceRegistry+".GetRegisteredEvents", []registeredEvent{})
	return b
}

func (b *fakeBus) reply(method string, body ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[method] = fakeReply{body: body}
}

func (b *fakeBus) fail(method string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[method] = fakeReply{err: err}
}

func (b *fakeBus) hold(method string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[method] = fakeReply{pending: true}
}

// complete finishes the oldest outstanding call to method.
func (b *fakeBus) complete(method string, err error, body ...any) {
	b.mu.Lock()
	queue := b.pending[method]
	if len(queue) == 0 {
		b.mu.Unlock()
		return
	}
	p := queue[0]
	b.pending[method] = queue[1:]
	b.mu.Unlock()
	p.finish(body, err)
}

func (b *fakeBus) UniqueName() string { return b.name }

func (b *fakeBus) Export(v any, path dbus.ObjectPath, iface string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.exportErr != nil {
		return b.exportErr
	}
	if b.exported[path] == nil {
		b.exported[path] = make(map[string]any)
	}
	b.exported[path][iface] = v
	return nil
}

func (b *fakeBus) Unexport(path dbus.ObjectPath, iface string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.exported[path], iface)
	if len(b.exported[path]) == 0 {
		delete(b.exported, path)
	}
	return nil
}

func (b *fakeBus) object(path dbus.ObjectPath, iface string) any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exported[path][iface]
}

func (b *fakeBus) Emit(path dbus.ObjectPath, name string, values ...any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.emitted = append(b.emitted, emitted{path: path, name: name, body: values})
	return nil
}

func (b *fakeBus) signalsNamed(name string) []emitted {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []emitted
	for _, e := range b.emitted {
		if e.name == name {
			out = append(out, e)
		}
	}
	return out
}

func (b *fakeBus) CallAsync(ctx context.Context, dest string, path dbus.ObjectPath, method string, args ...any) *dbus.Call {
	call := &dbus.Call{
		Destination: dest,
		Path:        path,
		Method:      method,
		Args:        args,
		Done:        make(chan *dbus.Call, 1),
	}

	b.mu.Lock()
	b.calls = append(b.calls, call)
	r, ok := b.replies[method]
	if ok && r.pending {
		p := &pendingCall{call: call, finished: make(chan struct{})}
		b.pending[method] = append(b.pending[method], p)
		b.mu.Unlock()
		go func() {
			select {
			case <-ctx.Done():
				p.finish(nil, ctx.Err())
			case <-p.finished:
			}
		}()
		return call
	}
	b.mu.Unlock()

	switch {
	case !ok:
		call.Err = dbus.NewError("org.freedesktop.DBus.Error.UnknownMethod", []any{method})
	case r.err != nil:
		call.Err = r.err
	default:
		call.Body = r.body
	}
	call.Done <- call
	return call
}

func (b *fakeBus) callsTo(method string) []*dbus.Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []*dbus.Call
	for _, c := range b.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (b *fakeBus) Subscribe(sender string, path dbus.ObjectPath, iface string, members ...string) (<-chan *dbus.Signal, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *dbus.Signal, 16)
	b.signals[iface] = ch
	var once sync.Once
	return ch, func() { once.Do(func() { close(ch) }) }, nil
}

func (b *fakeBus) subscribed(iface string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.signals[iface]
	return ok
}

func (b *fakeBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("already closed")
	}
	b.closed = true
	return nil
}
