package atspi

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/GNOME/gtk-sub066/internal/log"
)

type fixture struct {
	bus       *fakeBus
	root      *Root
	tree      *a11y.Tree
	toplevels *a11y.Toplevels
	window    *a11y.Node
	panel     *a11y.Node
	button    *a11y.Node
}

// newFixture builds window -> panel -> button with the panel at
// (0,0,200,100) and the button at (10,10,50,20), both parent-relative.
func newFixture(bus *fakeBus) *fixture {
	toplevels := a11y.NewToplevels()
	opts := RootOptions{Toplevels: toplevels, ProgramName: "demo"}
	if bus != nil {
		opts.Bus = bus
	}
	root := NewRoot(opts)

	tree := a11y.NewTree()
	tree.SetContextFactory(root.ContextFactory())

	window := tree.NewNode(nil, a11y.RoleWindow, "main")
	panel := tree.NewNode(window, a11y.RoleGroup, "panel")
	panel.SetBounds(a11y.Rect{X: 0, Y: 0, Width: 200, Height: 100})
	button := tree.NewNode(panel, a11y.RoleButton, "ok")
	button.SetBounds(a11y.Rect{X: 10, Y: 10, Width: 50, Height: 20})
	toplevels.Add(window)

	return &fixture{
		bus:       bus,
		root:      root,
		tree:      tree,
		toplevels: toplevels,
		window:    window,
		panel:     panel,
		button:    button,
	}
}

func contextOf(n *a11y.Node) *Context {
	return n.ATContext().(*Context)
}

// realize realizes n's context and runs the loop until registration
// settles.
func (f *fixture) realize(nodes ...*a11y.Node) {
	for _, n := range nodes {
		contextOf(n).Realize()
	}
	f.root.loop.Drain()
}

// serve runs the loop in the background so bus handlers can Invoke.
func (f *fixture) serve(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = f.root.loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
}

// captureLog collects log output for the rest of the test.
func captureLog(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	log.SetOutput(buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
