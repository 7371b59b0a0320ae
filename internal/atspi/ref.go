package atspi

import "github.com/godbus/dbus/v5"

// Ref is an AT-SPI object reference, marshalled as (so).
type Ref struct {
	Name string
	Path dbus.ObjectPath
}

// NullRef is the well-known reference to no object.
func NullRef() Ref {
	return Ref{Name: "", Path: NullPath}
}

func (r Ref) IsNull() bool {
	return r.Path == NullPath
}

func (r Ref) Variant() dbus.Variant {
	return dbus.MakeVariant(r)
}
