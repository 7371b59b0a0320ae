package atspi

import (
	"github.com/godbus/dbus/v5"
)

// relation is one entry of an AT-SPI relation set, marshalled as (ua(so)).
type relation struct {
	Type    uint32
	Targets []Ref
}

func (r *Root) exportRoot() error {
	app := &rootApplicationHandler{root: r}
	if err := r.bus.Export(app, r.rootPath, ifaceApplication); err != nil {
		return err
	}
	acc := &rootAccessibleHandler{root: r}
	if err := r.bus.Export(acc, r.rootPath, ifaceAccessible); err != nil {
		return err
	}
	if err := exportProperties(r.bus, r.loop, r.rootPath, map[string]propertySet{
		ifaceApplication: {
			names: []string{"Id", "ToolkitName", "Version", "AtspiVersion"},
			get:   r.applicationProperty,
			set:   r.setApplicationProperty,
		},
		ifaceAccessible: {
			names: []string{"Name", "Description", "Locale", "AccessibleId", "Parent", "ChildCount"},
			get:   r.accessibleProperty,
		},
	}); err != nil {
		return err
	}
	exportIntrospection(r.bus, r.rootPath, applicationIntrospect, accessibleIntrospect)
	return nil
}

func (r *Root) applicationProperty(name string) (dbus.Variant, *dbus.Error) {
	switch name {
	case "Id":
		return dbus.MakeVariant(r.applicationID), nil
	case "ToolkitName":
		return dbus.MakeVariant(toolkitName), nil
	case "Version":
		return dbus.MakeVariant(Version), nil
	case "AtspiVersion":
		return dbus.MakeVariant(atspiVersion), nil
	}
	return dbus.Variant{}, errUnknownProperty(name)
}

func (r *Root) setApplicationProperty(name string, value dbus.Variant) *dbus.Error {
	if name != "Id" {
		return errUnknownProperty(name)
	}
	id, ok := value.Value().(int32)
	if !ok {
		return errInvalidArgs("Id expects an int32, got %s", value.Signature())
	}
	r.applicationID = id
	return nil
}

func (r *Root) accessibleProperty(name string) (dbus.Variant, *dbus.Error) {
	switch name {
	case "Name":
		if r.programName == "" {
			return dbus.MakeVariant("Unnamed"), nil
		}
		return dbus.MakeVariant(r.programName), nil
	case "Description":
		if r.appName == "" {
			return dbus.MakeVariant("No description"), nil
		}
		return dbus.MakeVariant(r.appName), nil
	case "Locale":
		return dbus.MakeVariant(r.locales.locale(LocaleMessages)), nil
	case "AccessibleId":
		return dbus.MakeVariant(r.appID), nil
	case "Parent":
		return NullRef().Variant(), nil
	case "ChildCount":
		return dbus.MakeVariant(int32(len(r.visibleToplevels()))), nil
	}
	return dbus.Variant{}, errUnknownProperty(name)
}

type rootApplicationHandler struct {
	root *Root
}

func (h *rootApplicationHandler) GetLocale(lctype uint32) (string, *dbus.Error) {
	c := LocaleCategory(lctype)
	if !c.valid() {
		return "", errInvalidArgs("Unknown locale category %d", lctype)
	}
	var locale string
	h.root.loop.Invoke(func() { locale = h.root.locales.locale(c) })
	return locale, nil
}

func (h *rootApplicationHandler) GetApplicationBusAddress() (string, *dbus.Error) {
	var addr string
	h.root.loop.Invoke(func() { addr = h.root.busAddress })
	return addr, nil
}

type rootAccessibleHandler struct {
	root *Root
}

func (h *rootAccessibleHandler) GetRole() (uint32, *dbus.Error) {
	return uint32(WireRoleApplication), nil
}

func (h *rootAccessibleHandler) GetRoleName() (string, *dbus.Error) {
	return WireRoleApplication.String(), nil
}

func (h *rootAccessibleHandler) GetLocalizedRoleName() (string, *dbus.Error) {
	return WireRoleApplication.String(), nil
}

func (h *rootAccessibleHandler) GetState() ([]uint32, *dbus.Error) {
	return []uint32{0, 0}, nil
}

func (h *rootAccessibleHandler) GetAttributes() (map[string]string, *dbus.Error) {
	return map[string]string{"toolkit": toolkitName}, nil
}

func (h *rootAccessibleHandler) GetApplication() (Ref, *dbus.Error) {
	var ref Ref
	h.root.loop.Invoke(func() { ref = h.root.desktop })
	return ref, nil
}

func (h *rootAccessibleHandler) GetChildAtIndex(idx int32) (Ref, *dbus.Error) {
	ref := NullRef()
	h.root.loop.Invoke(func() {
		windows := h.root.visibleToplevels()
		if idx < 0 || int(idx) >= len(windows) {
			return
		}
		ref = refFor(windows[idx])
	})
	return ref, nil
}

func (h *rootAccessibleHandler) GetChildren() ([]Ref, *dbus.Error) {
	refs := []Ref{}
	h.root.loop.Invoke(func() {
		for _, w := range h.root.visibleToplevels() {
			refs = append(refs, refFor(w))
		}
	})
	return refs, nil
}

func (h *rootAccessibleHandler) GetIndexInParent() (int32, *dbus.Error) {
	return -1, nil
}

func (h *rootAccessibleHandler) GetRelationSet() ([]relation, *dbus.Error) {
	return []relation{}, nil
}

func (h *rootAccessibleHandler) GetInterfaces() ([]string, *dbus.Error) {
	return []string{ifaceAccessible, ifaceApplication}, nil
}
