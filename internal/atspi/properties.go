package atspi

import (
	"fmt"

	"github.com/GNOME/gtk-sub066/internal/errdefs"
	"github.com/godbus/dbus/v5"
)

func errNotSupported(format string, args ...any) *dbus.Error {
	return dbus.NewError(errdefs.DBusErrNotSupported, []any{fmt.Sprintf(format, args...)})
}

func errInvalidArgs(format string, args ...any) *dbus.Error {
	return dbus.NewError(errdefs.DBusErrInvalidArgs, []any{fmt.Sprintf(format, args...)})
}

func errFailed(format string, args ...any) *dbus.Error {
	return dbus.NewError(errdefs.DBusErrFailed, []any{fmt.Sprintf(format, args...)})
}

func errUnknownProperty(name string) *dbus.Error {
	return dbus.NewError(errdefs.DBusErrUnknownProperty, []any{fmt.Sprintf("Unknown property '%s'", name)})
}

// propertySet serves the properties of one interface. A nil set makes every
// property read-only.
type propertySet struct {
	names []string
	get   func(name string) (dbus.Variant, *dbus.Error)
	set   func(name string, value dbus.Variant) *dbus.Error
}

// propertiesHandler implements org.freedesktop.DBus.Properties for an
// object, answering on the bridge loop.
type propertiesHandler struct {
	loop   *Loop
	ifaces map[string]propertySet
}

func exportProperties(bus Bus, loop *Loop, path dbus.ObjectPath, ifaces map[string]propertySet) error {
	h := &propertiesHandler{loop: loop, ifaces: ifaces}
	return bus.Export(h, path, ifaceProperties)
}

func (h *propertiesHandler) lookup(iface string) (propertySet, *dbus.Error) {
	ps, ok := h.ifaces[iface]
	if !ok {
		return propertySet{}, dbus.NewError(errdefs.DBusErrUnknownIface, []any{fmt.Sprintf("Unknown interface '%s'", iface)})
	}
	return ps, nil
}

func (h *propertiesHandler) Get(iface, name string) (dbus.Variant, *dbus.Error) {
	ps, derr := h.lookup(iface)
	if derr != nil {
		return dbus.Variant{}, derr
	}
	var v dbus.Variant
	h.loop.Invoke(func() { v, derr = ps.get(name) })
	return v, derr
}

func (h *propertiesHandler) Set(iface, name string, value dbus.Variant) *dbus.Error {
	ps, derr := h.lookup(iface)
	if derr != nil {
		return derr
	}
	if ps.set == nil {
		return dbus.NewError(errdefs.DBusErrPropReadOnly, []any{fmt.Sprintf("Property '%s' is read-only", name)})
	}
	h.loop.Invoke(func() { derr = ps.set(name, value) })
	return derr
}

func (h *propertiesHandler) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	ps, derr := h.lookup(iface)
	if derr != nil {
		return nil, derr
	}
	out := make(map[string]dbus.Variant, len(ps.names))
	h.loop.Invoke(func() {
		for _, name := range ps.names {
			v, err := ps.get(name)
			if err != nil {
				continue
			}
			out[name] = v
		}
	})
	return out, nil
}
