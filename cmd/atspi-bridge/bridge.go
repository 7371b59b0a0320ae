package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/GNOME/gtk-sub066/internal/atspi"
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/fsnotify/fsnotify"
)

const toplevelSubscriber = "bridge"

// bridge publishes the tree built from a tree file through a Root. All
// methods except watch run on the root's loop.
type bridge struct {
	root      *atspi.Root
	tree      *a11y.Tree
	toplevels *a11y.Toplevels
	sockets   []*atspi.Socket
}

func newBridge(root *atspi.Root, toplevels *a11y.Toplevels) *bridge {
	tree := a11y.NewTree()
	tree.SetContextFactory(root.ContextFactory())
	return &bridge{
		root:      root,
		tree:      tree,
		toplevels: toplevels,
	}
}

func (b *bridge) load(spec *a11y.TreeSpec) error {
	built, err := spec.Build(b.tree)
	if err != nil {
		return err
	}

	for _, w := range built.Toplevels {
		b.toplevels.Add(w)
		a11y.Walk(w, func(acc a11y.Accessible) bool {
			if n, ok := acc.(*a11y.Node); ok {
				n.SetActionHandler(activationLogger(n))
			}
			if atc := acc.ATContext(); atc != nil && !atc.IsRealized() {
				atc.Realize()
			}
			return true
		})
	}

	for _, ss := range built.Sockets {
		s, err := atspi.AttachSocket(b.root, ss.Node, ss.BusName, ss.ObjectPath)
		if err != nil {
			log.Warnf("[Bridge] Skipping socket %q: %v", ss.Node.Name(), err)
			continue
		}
		s.Embed(b.root.Bus())
		b.sockets = append(b.sockets, s)
	}

	log.Infof("[Bridge] Loaded %d toplevels, %d sockets, %d accessibles", len(built.Toplevels), len(b.sockets), b.tree.Len())
	return nil
}

// activationLogger acknowledges every action requested on n. Tree files
// describe no behavior, so activating only gets logged.
func activationLogger(n *a11y.Node) func(string) bool {
	return func(action string) bool {
		log.Infof("[Bridge] %s %q: %s", n.AccessibleRole(), n.Name(), action)
		return true
	}
}

// registration describes how the root is known to the registry.
func (b *bridge) registration() string {
	if !b.root.Registered() {
		return "not registered"
	}
	d := b.root.Desktop()
	return fmt.Sprintf("application %d under desktop %s%s", b.root.ApplicationID(), d.Name, d.Path)
}

// clear withdraws every toplevel and socket.
func (b *bridge) clear() {
	for _, s := range b.sockets {
		s.Close()
	}
	b.sockets = nil

	for _, w := range b.toplevels.Items() {
		b.toplevels.Remove(w)
		if n, ok := w.(*a11y.Node); ok {
			b.tree.Remove(n)
		}
	}
}

func (b *bridge) reload(path string) {
	spec, err := a11y.LoadTreeFile(path)
	if err != nil {
		log.Errorf("[Bridge] Keeping current tree: %v", err)
		return
	}
	b.clear()
	if err := b.load(spec); err != nil {
		log.Errorf("[Bridge] Failed to rebuild tree from %s: %v", path, err)
	}
}

// forwardToplevels announces toplevel changes on the root. Removed windows
// have lost their contexts by the time the event is handled, so they go out
// as the null reference.
func (b *bridge) forwardToplevels(ctx context.Context) {
	events := b.toplevels.Subscribe(toplevelSubscriber)
	loop := b.root.Loop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				loop.Post(func() {
					b.root.ChildChanged(ev.Change, ev.Toplevel)
				})
			}
		}
	}()
}

// watch reloads path whenever it changes. The directory is watched so that
// editors replacing the file are noticed.
func (b *bridge) watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	target := filepath.Clean(path)
	loop := b.root.Loop()

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				log.Debugf("[Bridge] %s changed (%s)", path, event.Op)
				loop.Post(func() { b.reload(path) })
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("[Bridge] Watch error: %v", err)
			}
		}
	}()
	return nil
}

func (b *bridge) close() {
	b.toplevels.Unsubscribe(toplevelSubscriber)
	b.clear()
	b.root.Teardown()
}
