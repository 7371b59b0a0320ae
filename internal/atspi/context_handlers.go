package atspi

import (
	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/godbus/dbus/v5"
)

// AT-SPI state bits reported by GetState.
const (
	stateEnabled   = 8
	stateFocusable = 11
	stateSensitive = 24
	stateShowing   = 25
	stateVisible   = 30
)

type accessibleHandler struct {
	ctx *Context
}

func (h *accessibleHandler) run(fn func(acc a11y.Accessible)) {
	h.ctx.root.loop.Invoke(func() { fn(h.ctx.acc) })
}

func (h *accessibleHandler) GetRole() (uint32, *dbus.Error) {
	var role WireRole
	h.run(func(acc a11y.Accessible) { role = WireRoleFor(acc) })
	return uint32(role), nil
}

func (h *accessibleHandler) GetRoleName() (string, *dbus.Error) {
	var name string
	h.run(func(acc a11y.Accessible) { name = WireRoleFor(acc).String() })
	return name, nil
}

func (h *accessibleHandler) GetLocalizedRoleName() (string, *dbus.Error) {
	return h.GetRoleName()
}

func (h *accessibleHandler) GetState() ([]uint32, *dbus.Error) {
	var bits uint64
	h.run(func(acc a11y.Accessible) {
		if acc.Sensitive() {
			bits |= 1<<stateEnabled | 1<<stateSensitive
		}
		if acc.Visible() {
			bits |= 1 << stateVisible
		}
		if acc.ShouldPresent() && acc.PlatformState()&a11y.PlatformStateHidden == 0 {
			bits |= 1 << stateShowing
		}
		if acc.Kind() == a11y.KindPasswordEntry {
			bits |= 1 << stateFocusable
		}
	})
	return []uint32{uint32(bits), uint32(bits >> 32)}, nil
}

func (h *accessibleHandler) GetAttributes() (map[string]string, *dbus.Error) {
	attrs := map[string]string{"toolkit": toolkitName}
	h.run(func(acc a11y.Accessible) {
		if d := acc.Description(); d != "" {
			attrs["description"] = d
		}
	})
	return attrs, nil
}

func (h *accessibleHandler) GetApplication() (Ref, *dbus.Error) {
	var ref Ref
	h.run(func(a11y.Accessible) { ref = h.ctx.root.ToRef() })
	return ref, nil
}

func (h *accessibleHandler) GetChildAtIndex(idx int32) (Ref, *dbus.Error) {
	ref := NullRef()
	h.run(func(acc a11y.Accessible) {
		children := presentChildren(acc)
		if idx < 0 || int(idx) >= len(children) {
			return
		}
		ref = refFor(children[idx])
	})
	return ref, nil
}

func (h *accessibleHandler) GetChildren() ([]Ref, *dbus.Error) {
	refs := []Ref{}
	h.run(func(acc a11y.Accessible) {
		for _, child := range presentChildren(acc) {
			refs = append(refs, refFor(child))
		}
	})
	return refs, nil
}

func (h *accessibleHandler) GetIndexInParent() (int32, *dbus.Error) {
	var idx int
	h.run(func(acc a11y.Accessible) {
		parent := acc.AccessibleParent()
		if parent == nil {
			idx = indexIn(h.ctx.root.visibleToplevels(), acc)
			return
		}
		idx = indexIn(presentChildren(parent), acc)
	})
	return int32(idx), nil
}

func (h *accessibleHandler) GetRelationSet() ([]relation, *dbus.Error) {
	return []relation{}, nil
}

func (h *accessibleHandler) GetInterfaces() ([]string, *dbus.Error) {
	ifaces := []string{ifaceAccessible, ifaceComponent}
	h.run(func(acc a11y.Accessible) {
		if actionsFor(acc) != nil {
			ifaces = append(ifaces, ifaceAction)
		}
	})
	return ifaces, nil
}

// presentChildren lists the children an AT should see.
func presentChildren(acc a11y.Accessible) []a11y.Accessible {
	var out []a11y.Accessible
	for c := acc.FirstAccessibleChild(); c != nil; c = c.NextAccessibleSibling() {
		if c.ShouldPresent() {
			out = append(out, c)
		}
	}
	return out
}

func indexIn(list []a11y.Accessible, acc a11y.Accessible) int {
	for i, item := range list {
		if item == acc {
			return i
		}
	}
	return -1
}
