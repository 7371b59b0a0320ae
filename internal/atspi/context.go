package atspi

import (
	"strings"

	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/google/uuid"
)

type contextState int

const (
	contextUnrealized contextState = iota
	contextQueued
	contextRegistered
	contextUnregistered
)

func (s contextState) String() string {
	switch s {
	case contextQueued:
		return "queued"
	case contextRegistered:
		return "registered"
	case contextUnregistered:
		return "unregistered"
	}
	return "unrealized"
}

// Context is the bus-side object of one accessible.
type Context struct {
	root  *Root
	acc   a11y.Accessible
	path  dbus.ObjectPath
	state contextState

	// exported lists the interfaces currently served at path.
	exported []string
}

func NewContext(root *Root, acc a11y.Accessible) *Context {
	return &Context{root: root, acc: acc}
}

// ContextFactory returns a factory for a11y trees whose contexts publish
// through r.
func (r *Root) ContextFactory() a11y.ContextFactory {
	return func(acc a11y.Accessible) a11y.ATContext {
		return NewContext(r, acc)
	}
}

func (c *Context) Accessible() a11y.Accessible { return c.acc }

func (c *Context) Root() *Root { return c.root }

// Path is empty until the context is realized.
func (c *Context) Path() dbus.ObjectPath { return c.path }

func (c *Context) Registered() bool { return c.state == contextRegistered }

func (c *Context) IsRealized() bool {
	return c.state == contextQueued || c.state == contextRegistered
}

// Realize assigns the object path and asks the root to register it.
func (c *Context) Realize() {
	if c.IsRealized() {
		return
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "_")
	c.path = dbus.ObjectPath(string(c.root.BasePath()) + "/" + id)
	c.state = contextQueued

	log.Debugf("[AT-SPI] Realizing context %s for %s '%s'", c.path, c.acc.AccessibleRole(), c.acc.Name())
	c.root.QueueRegister(c, registerContext)
}

func registerContext(root *Root, c *Context) {
	if c.state != contextQueued {
		return
	}
	if err := c.export(root.bus); err != nil {
		log.Warnf("[AT-SPI] Failed to export %s: %v", c.path, err)
	}
	c.state = contextRegistered
}

func (c *Context) export(bus Bus) error {
	c.exported = []string{ifaceAccessible, ifaceComponent, ifaceProperties, ifaceIntrospectable}
	if err := bus.Export(&accessibleHandler{ctx: c}, c.path, ifaceAccessible); err != nil {
		return err
	}
	if err := bus.Export(&componentHandler{ctx: c}, c.path, ifaceComponent); err != nil {
		return err
	}

	props := map[string]propertySet{
		ifaceAccessible: {
			names: []string{"Name", "Description", "Locale", "AccessibleId", "Parent", "ChildCount"},
			get:   c.accessibleProperty,
		},
		ifaceComponent: {
			get: func(name string) (dbus.Variant, *dbus.Error) { return dbus.Variant{}, errUnknownProperty(name) },
		},
	}
	ifaces := []introspect.Interface{accessibleIntrospect, componentIntrospect}

	if actions := actionsFor(c.acc); actions != nil {
		h := &actionHandler{ctx: c, actions: actions}
		if err := bus.Export(h, c.path, ifaceAction); err != nil {
			return err
		}
		props[ifaceAction] = propertySet{names: []string{"NActions"}, get: h.property}
		c.exported = append(c.exported, ifaceAction)
		ifaces = append(ifaces, actionIntrospect)
	}

	if err := exportProperties(bus, c.root.loop, c.path, props); err != nil {
		return err
	}
	exportIntrospection(bus, c.path, ifaces...)
	return nil
}


// Unrealize withdraws the context from the bus. Listeners are told the
// object went defunct first.
func (c *Context) Unrealize() {
	if !c.IsRealized() {
		return
	}

	if c.state == contextRegistered {
		if c.root.HasEventListeners() {
			c.emit("StateChanged", "defunct", 1, 0, dbus.MakeVariant("0"))
		}
		for _, iface := range c.exported {
			_ = c.root.bus.Unexport(c.path, iface)
		}
	}
	c.root.Unregister(c)

	log.Debugf("[AT-SPI] Unrealized context %s", c.path)
	c.path = ""
	c.exported = nil
	c.state = contextUnregistered
}

// ToRef returns the bus reference of the context, or the null reference
// while it has no path.
func (c *Context) ToRef() Ref {
	if c.path == "" || c.root.bus == nil {
		return NullRef()
	}
	return Ref{Name: c.root.bus.UniqueName(), Path: c.path}
}

// ChildChanged announces that child was added to or removed from this
// context's accessible. Only an added child gets realized; a removed one
// is reported with whatever reference it still has.
func (c *Context) ChildChanged(change a11y.ChildChange, child a11y.Accessible) {
	if !c.canEmit() {
		return
	}

	idx := -1
	ref := NullRef()
	if child != nil {
		switch parent := child.AccessibleParent(); {
		case parent == nil:
		case parent == c.acc:
			idx = a11y.IndexInParent(child)
		default:
			idx = 0
		}
		if change == a11y.ChildAdded {
			ref = refFor(child)
		} else {
			ref = currentRef(child)
		}
	}
	emitChildrenChanged(c.root.bus, c.path, change, idx, ref, c.ToRef())
}

// BoundsChanged announces new geometry for the accessible.
func (c *Context) BoundsChanged() {
	if !c.canEmit() {
		return
	}
	b, _ := c.acc.Bounds()
	rect := extents{X: int32(b.X), Y: int32(b.Y), Width: int32(b.Width), Height: int32(b.Height)}
	c.emit("BoundsChanged", "", 0, 0, dbus.MakeVariant(rect))
}

// StateChanged announces a flipped boolean state.
func (c *Context) StateChanged(state a11y.State, on bool) {
	if !c.canEmit() {
		return
	}
	var enabled int32
	if on {
		enabled = 1
	}
	c.emit("StateChanged", state.String(), enabled, 0, dbus.MakeVariant("0"))
}

// PropertyChanged announces a new name or description along with its value.
func (c *Context) PropertyChanged(prop a11y.Property) {
	if !c.canEmit() {
		return
	}
	value := c.acc.Name()
	if prop == a11y.PropertyDescription {
		value = c.acc.Description()
	}
	c.emit("PropertyChange", prop.String(), 0, 0, dbus.MakeVariant(value))
}

func (c *Context) canEmit() bool {
	return c.state == contextRegistered && c.root.HasEventListeners()
}

func (c *Context) emit(member, detail string, d1, d2 int32, value dbus.Variant) {
	if err := c.root.bus.Emit(c.path, ifaceEventObject+"."+member, detail, d1, d2, value, c.ToRef()); err != nil {
		log.Warnf("[AT-SPI] Failed to emit %s on %s: %v", member, c.path, err)
	}
}

func (c *Context) accessibleProperty(name string) (dbus.Variant, *dbus.Error) {
	switch name {
	case "Name":
		return dbus.MakeVariant(c.acc.Name()), nil
	case "Description":
		return dbus.MakeVariant(c.acc.Description()), nil
	case "Locale":
		return dbus.MakeVariant(c.root.locales.locale(LocaleMessages)), nil
	case "AccessibleId":
		return dbus.MakeVariant(""), nil
	case "Parent":
		return dbus.MakeVariant(c.parentRef()), nil
	case "ChildCount":
		return dbus.MakeVariant(int32(len(presentChildren(c.acc)))), nil
	}
	return dbus.Variant{}, errUnknownProperty(name)
}

// parentRef is the root for toplevels and the parent's context otherwise.
func (c *Context) parentRef() Ref {
	parent := c.acc.AccessibleParent()
	if parent == nil {
		return c.root.ToRef()
	}
	return refFor(parent)
}
