package atspi

import (
	"fmt"
	"slices"

	"github.com/GNOME/gtk-sub066/internal/errdefs"
	"github.com/GNOME/gtk-sub066/internal/log"
	"github.com/godbus/dbus/v5"
)

// Cache maps bus object paths to registered contexts. Its bus surface is
// deliberately unimplemented: clients get a NotSupported error instead of
// an item list.
type Cache struct {
	bus      Bus
	path     dbus.ObjectPath
	root     *Root
	contexts map[dbus.ObjectPath]*Context
	order    []dbus.ObjectPath
}

func NewCache(bus Bus, path dbus.ObjectPath, root *Root) (*Cache, error) {
	if bus == nil {
		return nil, errdefs.ErrNoConnection
	}
	if path == "" || !path.IsValid() {
		return nil, fmt.Errorf("cache path %q: %w", path, errdefs.ErrInvalidObjectPath)
	}

	c := &Cache{
		bus:      bus,
		path:     path,
		root:     root,
		contexts: make(map[dbus.ObjectPath]*Context),
	}

	if err := bus.Export(&cacheHandler{path: path}, path, ifaceCache); err != nil {
		return nil, fmt.Errorf("failed to export cache on %s: %w", path, err)
	}
	if err := exportProperties(bus, root.loop, path, map[string]propertySet{
		ifaceCache: {get: func(name string) (dbus.Variant, *dbus.Error) {
			return dbus.Variant{}, errUnknownProperty(name)
		}},
	}); err != nil {
		log.Warnf("[AT-SPI] Failed to export cache properties on %s: %v", path, err)
	}
	exportIntrospection(bus, path, cacheIntrospect)

	return c, nil
}

func (c *Cache) Path() dbus.ObjectPath { return c.path }

// Add registers ctx under path. Adding a path that is already present does
// nothing.
func (c *Cache) Add(path dbus.ObjectPath, ctx *Context) {
	if _, ok := c.contexts[path]; ok {
		return
	}
	c.contexts[path] = ctx
	c.order = append(c.order, path)
}

func (c *Cache) addContext(ctx *Context) {
	c.Add(ctx.Path(), ctx)
}

// Remove drops every path registered for ctx.
func (c *Cache) Remove(ctx *Context) {
	for path, v := range c.contexts {
		if v == ctx {
			delete(c.contexts, path)
			c.order = slices.DeleteFunc(c.order, func(p dbus.ObjectPath) bool { return p == path })
		}
	}
}

func (c *Cache) Lookup(path dbus.ObjectPath) (*Context, bool) {
	ctx, ok := c.contexts[path]
	return ctx, ok
}

func (c *Cache) Len() int {
	return len(c.contexts)
}

// Paths returns the registered paths in insertion order.
func (c *Cache) Paths() []dbus.ObjectPath {
	return slices.Clone(c.order)
}

func (c *Cache) close() {
	_ = c.bus.Unexport(c.path, ifaceCache)
	_ = c.bus.Unexport(c.path, ifaceProperties)
	_ = c.bus.Unexport(c.path, ifaceIntrospectable)
}

type cacheHandler struct {
	path dbus.ObjectPath
}

// GetItems is not implemented yet.
func (h *cacheHandler) GetItems(sender dbus.Sender) ([]cacheItem, *dbus.Error) {
	log.Infof("[Cache] Method 'GetItems' on interface '%s' for object '%s' from '%s'", ifaceCache, h.path, sender)
	return nil, errNotSupported("org.a11y.atspi.Cache.GetItems is not implemented")
}

// cacheItem is the AT-SPI cache entry layout, kept so the method signature
// matches the interface.
type cacheItem struct {
	Object      Ref
	Application Ref
	Parent      Ref
	Index       int32
	ChildCount  int32
	Interfaces  []string
	Name        string
	Role        uint32
	Description string
	States      []uint32
}
