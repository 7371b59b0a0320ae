package atspi

import (
	"testing"

	"github.com/GNOME/gtk-sub066/internal/errdefs"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCache_RequiresConnectionAndPath(t *testing.T) {
	root := NewRoot(RootOptions{})

	_, err := NewCache(nil, CachePath, root)
	assert.ErrorIs(t, err, errdefs.ErrNoConnection)

	_, err = NewCache(newFakeBus(), "", root)
	assert.ErrorIs(t, err, errdefs.ErrInvalidObjectPath)

	_, err = NewCache(newFakeBus(), "not/a/path", root)
	assert.ErrorIs(t, err, errdefs.ErrInvalidObjectPath)
}

func TestNewCache_ExportsStubInterface(t *testing.T) {
	bus := newFakeBus()
	cache, err := NewCache(bus, CachePath, NewRoot(RootOptions{}))
	require.NoError(t, err)

	assert.Equal(t, CachePath, cache.Path())
	assert.NotNil(t, bus.object(CachePath, ifaceCache))
	assert.NotNil(t, bus.object(CachePath, ifaceProperties))
	assert.NotNil(t, bus.object(CachePath, ifaceIntrospectable))
}

func TestCache_AddIsIdempotent(t *testing.T) {
	cache, err := NewCache(newFakeBus(), CachePath, NewRoot(RootOptions{}))
	require.NoError(t, err)

	ctx := &Context{path: "/org/gtk/application/demo/a11y/one"}
	cache.Add(ctx.path, ctx)
	once := cache.Paths()
	cache.Add(ctx.path, ctx)

	assert.Equal(t, once, cache.Paths())
	assert.Equal(t, 1, cache.Len())

	got, ok := cache.Lookup(ctx.path)
	assert.True(t, ok)
	assert.Same(t, ctx, got)
}

func TestCache_DuplicatePathKeepsFirstContext(t *testing.T) {
	cache, err := NewCache(newFakeBus(), CachePath, NewRoot(RootOptions{}))
	require.NoError(t, err)

	first := &Context{path: "/a/b"}
	second := &Context{path: "/a/b"}
	cache.Add(first.path, first)
	cache.Add(second.path, second)

	got, _ := cache.Lookup("/a/b")
	assert.Same(t, first, got)
}

func TestCache_RemoveAndOrder(t *testing.T) {
	cache, err := NewCache(newFakeBus(), CachePath, NewRoot(RootOptions{}))
	require.NoError(t, err)

	c1 := &Context{path: "/a/one"}
	c2 := &Context{path: "/a/two"}
	c3 := &Context{path: "/a/three"}
	for _, c := range []*Context{c1, c2, c3} {
		cache.addContext(c)
	}
	assert.Equal(t, []dbus.ObjectPath{"/a/one", "/a/two", "/a/three"}, cache.Paths())

	cache.Remove(c2)
	assert.Equal(t, []dbus.ObjectPath{"/a/one", "/a/three"}, cache.Paths())

	_, ok := cache.Lookup("/a/two")
	assert.False(t, ok)

	cache.Remove(c2)
	assert.Equal(t, 2, cache.Len())
}

func TestCacheHandler_GetItemsNotSupported(t *testing.T) {
	h := &cacheHandler{path: CachePath}

	items, derr := h.GetItems(dbus.Sender(":1.7"))
	assert.Nil(t, items)
	require.NotNil(t, derr)
	assert.Equal(t, errdefs.DBusErrNotSupported, derr.Name)
}

func TestCacheProperties_AlwaysUnknown(t *testing.T) {
	bus := newFakeBus()
	root := NewRoot(RootOptions{})
	_, err := NewCache(bus, CachePath, root)
	require.NoError(t, err)

	go func() { _ = root.loop.Run(t.Context()) }()

	props := bus.object(CachePath, ifaceProperties).(*propertiesHandler)
	_, derr := props.Get(ifaceCache, "Items")
	require.NotNil(t, derr)
	assert.Equal(t, errdefs.DBusErrUnknownProperty, derr.Name)

	all, derr := props.GetAll(ifaceCache)
	assert.Nil(t, derr)
	assert.Empty(t, all)
}
