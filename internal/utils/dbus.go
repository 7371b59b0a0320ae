package utils

import (
	"slices"

	"github.com/godbus/dbus/v5"
)

// IsDBusServiceAvailable reports whether busName has an owner on the
// session bus.
func IsDBusServiceAvailable(busName string) bool {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return false
	}
	defer conn.Close()
	return NameHasOwner(conn, busName)
}

// IsDBusServiceActivatable reports whether the session bus can start
// busName on demand.
func IsDBusServiceActivatable(busName string) bool {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return false
	}
	defer conn.Close()
	return IsActivatable(conn, busName)
}

func NameHasOwner(conn *dbus.Conn, busName string) bool {
	obj := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	var owned bool
	if err := obj.Call("org.freedesktop.DBus.NameHasOwner", 0, busName).Store(&owned); err != nil {
		return false
	}
	return owned
}

func IsActivatable(conn *dbus.Conn, busName string) bool {
	obj := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	var activatable []string
	if err := obj.Call("org.freedesktop.DBus.ListActivatableNames", 0).Store(&activatable); err != nil {
		return false
	}
	return slices.Contains(activatable, busName)
}
