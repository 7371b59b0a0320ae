package atspi

import (
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

func arg(name, typ, dir string) introspect.Arg {
	return introspect.Arg{Name: name, Type: typ, Direction: dir}
}

func prop(name, typ, access string) introspect.Property {
	return introspect.Property{Name: name, Type: typ, Access: access}
}

var applicationIntrospect = introspect.Interface{
	Name: ifaceApplication,
	Methods: []introspect.Method{
		{Name: "GetLocale", Args: []introspect.Arg{arg("lctype", "u", "in"), arg("locale", "s", "out")}},
		{Name: "GetApplicationBusAddress", Args: []introspect.Arg{arg("address", "s", "out")}},
	},
	Properties: []introspect.Property{
		prop("ToolkitName", "s", "read"),
		prop("Version", "s", "read"),
		prop("AtspiVersion", "s", "read"),
		prop("Id", "i", "readwrite"),
	},
}

var accessibleIntrospect = introspect.Interface{
	Name: ifaceAccessible,
	Methods: []introspect.Method{
		{Name: "GetChildAtIndex", Args: []introspect.Arg{arg("index", "i", "in"), arg("child", "(so)", "out")}},
		{Name: "GetChildren", Args: []introspect.Arg{arg("children", "a(so)", "out")}},
		{Name: "GetIndexInParent", Args: []introspect.Arg{arg("index", "i", "out")}},
		{Name: "GetRelationSet", Args: []introspect.Arg{arg("relations", "a(ua(so))", "out")}},
		{Name: "GetRole", Args: []introspect.Arg{arg("role", "u", "out")}},
		{Name: "GetRoleName", Args: []introspect.Arg{arg("name", "s", "out")}},
		{Name: "GetLocalizedRoleName", Args: []introspect.Arg{arg("name", "s", "out")}},
		{Name: "GetState", Args: []introspect.Arg{arg("state", "au", "out")}},
		{Name: "GetAttributes", Args: []introspect.Arg{arg("attributes", "a{ss}", "out")}},
		{Name: "GetApplication", Args: []introspect.Arg{arg("app", "(so)", "out")}},
		{Name: "GetInterfaces", Args: []introspect.Arg{arg("interfaces", "as", "out")}},
	},
	Properties: []introspect.Property{
		prop("Name", "s", "read"),
		prop("Description", "s", "read"),
		prop("Parent", "(so)", "read"),
		prop("ChildCount", "i", "read"),
		prop("Locale", "s", "read"),
		prop("AccessibleId", "s", "read"),
	},
}

var componentIntrospect = introspect.Interface{
	Name: ifaceComponent,
	Methods: []introspect.Method{
		{Name: "Contains", Args: []introspect.Arg{arg("x", "i", "in"), arg("y", "i", "in"), arg("coord_type", "u", "in"), arg("contains", "b", "out")}},
		{Name: "GetAccessibleAtPoint", Args: []introspect.Arg{arg("x", "i", "in"), arg("y", "i", "in"), arg("coord_type", "u", "in"), arg("child", "(so)", "out")}},
		{Name: "GetExtents", Args: []introspect.Arg{arg("coord_type", "u", "in"), arg("extents", "(iiii)", "out")}},
		{Name: "GetPosition", Args: []introspect.Arg{arg("coord_type", "u", "in"), arg("x", "i", "out"), arg("y", "i", "out")}},
		{Name: "GetSize", Args: []introspect.Arg{arg("width", "i", "out"), arg("height", "i", "out")}},
		{Name: "GetLayer", Args: []introspect.Arg{arg("layer", "u", "out")}},
		{Name: "GetMDIZOrder", Args: []introspect.Arg{arg("order", "n", "out")}},
		{Name: "GrabFocus", Args: []introspect.Arg{arg("ok", "b", "out")}},
		{Name: "GetAlpha", Args: []introspect.Arg{arg("alpha", "d", "out")}},
		{Name: "SetExtents", Args: []introspect.Arg{arg("x", "i", "in"), arg("y", "i", "in"), arg("width", "i", "in"), arg("height", "i", "in"), arg("coord_type", "u", "in"), arg("ok", "b", "out")}},
		{Name: "SetPosition", Args: []introspect.Arg{arg("x", "i", "in"), arg("y", "i", "in"), arg("coord_type", "u", "in"), arg("ok", "b", "out")}},
		{Name: "SetSize", Args: []introspect.Arg{arg("width", "i", "in"), arg("height", "i", "in"), arg("ok", "b", "out")}},
		{Name: "ScrollTo", Args: []introspect.Arg{arg("type", "u", "in"), arg("ok", "b", "out")}},
		{Name: "ScrollToPoint", Args: []introspect.Arg{arg("coord_type", "u", "in"), arg("x", "i", "in"), arg("y", "i", "in"), arg("ok", "b", "out")}},
	},
}

var cacheIntrospect = introspect.Interface{
	Name: ifaceCache,
	Methods: []introspect.Method{
		{Name: "GetItems", Args: []introspect.Arg{arg("nodes", "a((so)(so)(so)iiassusau)", "out")}},
	},
	Signals: []introspect.Signal{
		{Name: "AddAccessible", Args: []introspect.Arg{arg("node", "((so)(so)(so)iiassusau)", "")}},
		{Name: "RemoveAccessible", Args: []introspect.Arg{arg("node", "(so)", "")}},
	},
}

// exportIntrospection publishes introspection data for path; failures are
// logged because introspection is optional for AT clients.
func exportIntrospection(bus Bus, path dbus.ObjectPath, ifaces ...introspect.Interface) {
	node := &introspect.Node{
		Name:       string(path),
		Interfaces: append([]introspect.Interface{introspect.IntrospectData, propertiesIntrospect}, ifaces...),
	}
	if err := bus.Export(introspect.NewIntrospectable(node), path, ifaceIntrospectable); err != nil {
		log.Warnf("[AT-SPI] Failed to export introspectable on %s: %v", path, err)
	}
}

var propertiesIntrospect = introspect.Interface{
	Name: ifaceProperties,
	Methods: []introspect.Method{
		{Name: "Get", Args: []introspect.Arg{arg("interface_name", "s", "in"), arg("property_name", "s", "in"), arg("value", "v", "out")}},
		{Name: "Set", Args: []introspect.Arg{arg("interface_name", "s", "in"), arg("property_name", "s", "in"), arg("value", "v", "in")}},
		{Name: "GetAll", Args: []introspect.Arg{arg("interface_name", "s", "in"), arg("properties", "a{sv}", "out")}},
	},
}
