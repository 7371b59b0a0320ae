package atspi

import (
	"fmt"

	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/godbus/dbus/v5"
)

// Layer is AtspiComponentLayer.
type Layer uint32

const (
	LayerWidget Layer = 3
	LayerPopup  Layer = 5
	LayerWindow Layer = 7
)

func (l Layer) String() string {
	switch l {
	case LayerWidget:
		return "widget"
	case LayerPopup:
		return "popup"
	case LayerWindow:
		return "window"
	}
	return fmt.Sprintf("layer(%d)", uint32(l))
}

// extents is marshalled as (iiii).
type extents struct {
	X, Y, Width, Height int32
}

// componentTarget resolves the accessible that answers spatial queries:
// a socket has no geometry of its own and defers to its host.
func componentTarget(acc a11y.Accessible) a11y.Accessible {
	for acc != nil && acc.Kind() == a11y.KindSocket {
		acc = acc.AccessibleParent()
	}
	return acc
}

func inside(b a11y.Rect, x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// Contains reports whether the point (x, y) in space lies inside acc.
func Contains(acc a11y.Accessible, x, y int, space CoordType) bool {
	b, ok := acc.Bounds()
	if !ok {
		return false
	}
	lx, ly := TranslateToAccessible(acc, space, x, y)
	return inside(b, lx, ly)
}

// AccessibleAtPoint returns the deepest presented descendant of acc under
// the point, or nil. When siblings overlap the last one wins, since it is
// drawn on top.
func AccessibleAtPoint(acc a11y.Accessible, x, y int, space CoordType) a11y.Accessible {
	lx, ly := TranslateToAccessible(acc, space, x, y)
	return accessibleAtPoint(acc, lx, ly, true)
}

func accessibleAtPoint(parent a11y.Accessible, x, y int, childrenOnly bool) a11y.Accessible {
	if !childrenOnly {
		b, ok := parent.Bounds()
		if !ok || !inside(b, x, y) {
			return nil
		}
	}

	var result a11y.Accessible
	for child := parent.FirstAccessibleChild(); child != nil; child = child.NextAccessibleSibling() {
		if !child.ShouldPresent() || child.PlatformState()&a11y.PlatformStateHidden != 0 {
			continue
		}
		b, ok := child.Bounds()
		if !ok {
			continue
		}
		if found := accessibleAtPoint(child, x-b.X, y-b.Y, false); found != nil {
			result = found
		}
	}

	if result == nil && !childrenOnly {
		return parent
	}
	return result
}

// Extents returns the bounds of acc with the origin expressed in space.
func Extents(acc a11y.Accessible, space CoordType) (a11y.Rect, bool) {
	b, ok := acc.Bounds()
	if !ok {
		return a11y.Rect{}, false
	}
	x, y := TranslateFromAccessible(acc, space, 0, 0)
	return a11y.Rect{X: x, Y: y, Width: b.Width, Height: b.Height}, true
}

func LayerOf(acc a11y.Accessible) Layer {
	switch acc.Kind() {
	case a11y.KindPopover:
		return LayerPopup
	case a11y.KindWindow:
		return LayerWindow
	}
	return LayerWidget
}

// Alpha is the widget opacity, or fully opaque for accessibles that are
// not widgets.
func Alpha(acc a11y.Accessible) float64 {
	if alpha, ok := acc.Opacity(); ok {
		return alpha
	}
	return 1
}

type componentHandler struct {
	ctx *Context
}

// run executes fn on the loop against the accessible that answers spatial
// queries for this context.
func (h *componentHandler) run(fn func(acc a11y.Accessible)) *dbus.Error {
	var derr *dbus.Error
	h.ctx.root.loop.Invoke(func() {
		acc := componentTarget(h.ctx.acc)
		if acc == nil {
			derr = errFailed("Socket has no host accessible")
			return
		}
		fn(acc)
	})
	return derr
}

func coordArg(coordType uint32) (CoordType, *dbus.Error) {
	space := CoordType(coordType)
	if !space.valid() {
		return 0, errInvalidArgs("Unknown coordinate type %d", coordType)
	}
	return space, nil
}

func (h *componentHandler) Contains(x, y int32, coordType uint32) (bool, *dbus.Error) {
	space, derr := coordArg(coordType)
	if derr != nil {
		return false, derr
	}
	var ok bool
	derr = h.run(func(acc a11y.Accessible) { ok = Contains(acc, int(x), int(y), space) })
	return ok, derr
}

func (h *componentHandler) GetAccessibleAtPoint(x, y int32, coordType uint32) (Ref, *dbus.Error) {
	space, derr := coordArg(coordType)
	if derr != nil {
		return NullRef(), derr
	}
	ref := NullRef()
	derr = h.run(func(acc a11y.Accessible) {
		if found := AccessibleAtPoint(acc, int(x), int(y), space); found != nil {
			ref = refFor(found)
		}
	})
	return ref, derr
}

func (h *componentHandler) GetExtents(coordType uint32) (extents, *dbus.Error) {
	space, derr := coordArg(coordType)
	if derr != nil {
		return extents{}, derr
	}
	var e extents
	derr = h.run(func(acc a11y.Accessible) {
		if r, ok := Extents(acc, space); ok {
			e = extents{X: int32(r.X), Y: int32(r.Y), Width: int32(r.Width), Height: int32(r.Height)}
		}
	})
	return e, derr
}

func (h *componentHandler) GetPosition(coordType uint32) (int32, int32, *dbus.Error) {
	space, derr := coordArg(coordType)
	if derr != nil {
		return 0, 0, derr
	}
	var x, y int
	derr = h.run(func(acc a11y.Accessible) {
		if _, ok := acc.Bounds(); ok {
			x, y = TranslateFromAccessible(acc, space, 0, 0)
		}
	})
	return int32(x), int32(y), derr
}

func (h *componentHandler) GetSize() (int32, int32, *dbus.Error) {
	var b a11y.Rect
	derr := h.run(func(acc a11y.Accessible) { b, _ = acc.Bounds() })
	return int32(b.Width), int32(b.Height), derr
}

func (h *componentHandler) GetLayer() (uint32, *dbus.Error) {
	var l Layer
	derr := h.run(func(acc a11y.Accessible) { l = LayerOf(acc) })
	return uint32(l), derr
}

func (h *componentHandler) GetMDIZOrder() (int16, *dbus.Error) {
	return 0, nil
}

func (h *componentHandler) GetAlpha() (float64, *dbus.Error) {
	var alpha float64
	derr := h.run(func(acc a11y.Accessible) { alpha = Alpha(acc) })
	return alpha, derr
}

func (h *componentHandler) GrabFocus() (bool, *dbus.Error) {
	return false, errNotSupported("GrabFocus is not supported")
}

func (h *componentHandler) SetExtents(x, y, width, height int32, coordType uint32) (bool, *dbus.Error) {
	return false, errNotSupported("SetExtents is not supported")
}

func (h *componentHandler) SetPosition(x, y int32, coordType uint32) (bool, *dbus.Error) {
	return false, errNotSupported("SetPosition is not supported")
}

func (h *componentHandler) SetSize(width, height int32) (bool, *dbus.Error) {
	return false, errNotSupported("SetSize is not supported")
}

func (h *componentHandler) ScrollTo(scrollType uint32) (bool, *dbus.Error) {
	return false, errNotSupported("ScrollTo is not supported")
}

func (h *componentHandler) ScrollToPoint(coordType uint32, x, y int32) (bool, *dbus.Error) {
	return false, errNotSupported("ScrollToPoint is not supported")
}
