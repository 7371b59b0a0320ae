package atspi

import "github.com/godbus/dbus/v5"

const (
	atspiVersion = "2.1"
	toolkitName  = "GTK"

	pathPrefix                   = "/org/a11y/atspi"
	RootPath     dbus.ObjectPath = pathPrefix + "/accessible/root"
	CachePath    dbus.ObjectPath = pathPrefix + "/cache"
	RegistryPath dbus.ObjectPath = pathPrefix + "/registry"
	NullPath     dbus.ObjectPath = pathPrefix + "/null"

	registryName = "org.a11y.atspi.Registry"

	ifaceApplication = "org.a11y.atspi.Application"
	ifaceAccessible  = "org.a11y.atspi.Accessible"
	ifaceComponent   = "org.a11y.atspi.Component"
	ifaceCache       = "org.a11y.atspi.Cache"
	ifaceSocket      = "org.a11y.atspi.Socket"
	ifaceAction      = "org.a11y.atspi.Action"
	ifaceRegistry    = "org.a11y.atspi.Registry"
	ifaceEventObject = "org.a11y.atspi.Event.Object"

	ifaceProperties     = "org.freedesktop.DBus.Properties"
	ifaceIntrospectable = "org.freedesktop.DBus.Introspectable"

	a11yBusName  = "org.a11y.Bus"
	a11yBusPath  = dbus.ObjectPath("/org/a11y/bus")
	a11yBusIface = "org.a11y.Bus"

	flatpakPortalName  = "org.freedesktop.portal.Flatpak"
	flatpakPortalPath  = dbus.ObjectPath("/org/freedesktop/portal/Flatpak")
	flatpakPortalIface = "org.freedesktop.portal.Flatpak"

	// DefaultPortalVersion is the first Flatpak portal release that forwards
	// registry listener signals into the sandbox.
	DefaultPortalVersion uint32 = 7
)

// Version is reported as the toolkit version on the Application interface.
var Version = "4.17.0"
