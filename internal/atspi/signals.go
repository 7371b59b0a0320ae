package atspi

import (
	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/godbus/dbus/v5"
)

// emitChildrenChanged sends Event.Object.ChildrenChanged with the body
// (s i i v (so)): change, index, 0, child reference, sender reference.
func emitChildrenChanged(bus Bus, path dbus.ObjectPath, change a11y.ChildChange, idx int, child, sender Ref) {
	err := bus.Emit(path, ifaceEventObject+".ChildrenChanged",
		change.String(), int32(idx), int32(0), child.Variant(), sender)
	if err != nil {
		log.Warnf("[AT-SPI] Failed to emit ChildrenChanged on %s: %v", path, err)
	}
}
