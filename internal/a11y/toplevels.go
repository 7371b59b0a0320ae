package a11y

import (
	"slices"

	"github.com/GNOME/gtk-sub066/pkg/syncmap"
)

type ToplevelEvent struct {
	Change   ChildChange
	Toplevel Accessible
}

// Toplevels is the ordered, observable list of application windows.
type Toplevels struct {
	items       []Accessible
	subscribers syncmap.Map[string, chan ToplevelEvent]
}

func NewToplevels() *Toplevels {
	return &Toplevels{}
}

// Items returns a snapshot of the toplevels in order.
func (t *Toplevels) Items() []Accessible {
	return slices.Clone(t.items)
}

func (t *Toplevels) Len() int {
	return len(t.items)
}

func (t *Toplevels) Contains(acc Accessible) bool {
	return slices.Contains(t.items, acc)
}

func (t *Toplevels) Add(acc Accessible) {
	if acc == nil || t.Contains(acc) {
		return
	}
	t.items = append(t.items, acc)
	t.notify(ToplevelEvent{Change: ChildAdded, Toplevel: acc})
}

func (t *Toplevels) Remove(acc Accessible) {
	idx := slices.Index(t.items, acc)
	if idx < 0 {
		return
	}
	t.items = slices.Delete(t.items, idx, idx+1)
	t.notify(ToplevelEvent{Change: ChildRemoved, Toplevel: acc})
}

func (t *Toplevels) Subscribe(id string) chan ToplevelEvent {
	ch := make(chan ToplevelEvent, 64)
	t.subscribers.Store(id, ch)
	return ch
}

func (t *Toplevels) Unsubscribe(id string) {
	if ch, ok := t.subscribers.LoadAndDelete(id); ok {
		close(ch)
	}
}

func (t *Toplevels) notify(ev ToplevelEvent) {
	t.subscribers.Range(func(_ string, ch chan ToplevelEvent) bool {
		select {
		case ch <- ev:
		default:
		}
		return true
	})
}
