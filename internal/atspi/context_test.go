package atspi

import (
	"regexp"
	"testing"

	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_RealizeAssignsPath(t *testing.T) {
	f := newFixture(registryBus())
	ctx := contextOf(f.button)

	assert.False(t, ctx.IsRealized())
	assert.Equal(t, NullRef(), ctx.ToRef())

	ctx.Realize()
	assert.True(t, ctx.IsRealized())
	assert.False(t, ctx.Registered())
	assert.Regexp(t, regexp.MustCompile(`^/org/gtk/application/demo/a11y/[0-9a-f]{8}(_[0-9a-f]{4}){3}_[0-9a-f]{12}$`), string(ctx.Path()))
	assert.True(t, ctx.Path().IsValid())

	path := ctx.Path()
	ctx.Realize()
	assert.Equal(t, path, ctx.Path(), "realize is idempotent")

	f.root.loop.Drain()
	assert.True(t, ctx.Registered())
	assert.Equal(t, Ref{Name: ":1.42", Path: path}, ctx.ToRef())
}

func TestContext_OnePerAccessible(t *testing.T) {
	f := newFixture(nil)
	assert.Same(t, contextOf(f.button), contextOf(f.button))
	assert.NotSame(t, contextOf(f.button), contextOf(f.panel))
}

func TestContext_UnrealizeEmitsDefunct(t *testing.T) {
	f := newFixture(registryBus())
	f.realize(f.window, f.button)
	ctx := contextOf(f.button)
	path := ctx.Path()
	require.NotNil(t, f.bus.object(path, ifaceAccessible))
	f.root.handleRegistrySignal(registrySignal("EventListenerRegistered", ":1.5", "object:"))

	ctx.Unrealize()

	assert.False(t, ctx.IsRealized())
	assert.Equal(t, dbus.ObjectPath(""), ctx.Path())
	assert.Nil(t, f.bus.object(path, ifaceAccessible))
	_, cached := f.root.Cache().Lookup(path)
	assert.False(t, cached)

	sigs := f.bus.signalsNamed(ifaceEventObject + ".StateChanged")
	require.Len(t, sigs, 1)
	assert.Equal(t, path, sigs[0].path)
	assert.Equal(t, "defunct", sigs[0].body[0])
	assert.Equal(t, int32(1), sigs[0].body[1])

	assert.NotPanics(t, ctx.Unrealize)
}

func TestContext_EventsSkippedWithoutListeners(t *testing.T) {
	f := newFixture(registryBus())
	f.realize(f.window, f.panel)
	require.False(t, f.root.HasEventListeners())

	contextOf(f.panel).ChildChanged(a11y.ChildAdded, f.button)
	contextOf(f.panel).BoundsChanged()
	contextOf(f.panel).Unrealize()

	assert.Empty(t, f.bus.emitted)
}

func TestContext_ChildChangedAndBounds(t *testing.T) {
	f := newFixture(registryBus())
	f.realize(f.window, f.panel)
	f.root.handleRegistrySignal(registrySignal("EventListenerRegistered", ":1.5", "object:"))

	extra := f.tree.NewNode(f.panel, a11y.RoleLabel, "extra")

	sigs := f.bus.signalsNamed(ifaceEventObject + ".ChildrenChanged")
	require.Len(t, sigs, 1)
	assert.Equal(t, contextOf(f.panel).Path(), sigs[0].path)
	assert.Equal(t, "add", sigs[0].body[0])
	assert.Equal(t, int32(1), sigs[0].body[1])
	assert.Equal(t, contextOf(extra).ToRef().Variant(), sigs[0].body[3])
	assert.Equal(t, contextOf(f.panel).ToRef(), sigs[0].body[4])

	f.panel.SetBounds(a11y.Rect{X: 5, Y: 6, Width: 200, Height: 100})
	bounds := f.bus.signalsNamed(ifaceEventObject + ".BoundsChanged")
	require.Len(t, bounds, 1)
	assert.Equal(t, contextOf(f.panel).Path(), bounds[0].path)
	assert.Equal(t, dbus.MakeVariant(extents{X: 5, Y: 6, Width: 200, Height: 100}), bounds[0].body[3])
}

func TestContext_ChildRemovedKeepsDeadChildUnrealized(t *testing.T) {
	f := newFixture(registryBus())
	f.realize(f.window, f.panel)
	f.root.handleRegistrySignal(registrySignal("EventListenerRegistered", ":1.5", "object:"))

	gone := f.tree.NewNode(f.panel, a11y.RoleLabel, "gone")
	f.root.loop.Drain()
	goneRef := contextOf(gone).ToRef()
	before := f.root.Cache().Len()

	f.tree.Remove(gone)
	f.root.loop.Drain()

	sigs := f.bus.signalsNamed(ifaceEventObject + ".ChildrenChanged")
	require.Len(t, sigs, 2)
	removed := sigs[1]
	assert.Equal(t, "remove", removed.body[0])
	assert.Equal(t, int32(1), removed.body[1], "index among the parent's children")
	assert.Equal(t, goneRef.Variant(), removed.body[3], "reported with the reference it had")

	assert.False(t, contextOf(gone).IsRealized())
	assert.Equal(t, before-1, f.root.Cache().Len())

	contextOf(f.panel).ChildChanged(a11y.ChildRemoved, gone)
	f.root.loop.Drain()

	sigs = f.bus.signalsNamed(ifaceEventObject + ".ChildrenChanged")
	require.Len(t, sigs, 3)
	assert.Equal(t, int32(-1), sigs[2].body[1], "a detached child has no index")
	assert.Equal(t, NullRef().Variant(), sigs[2].body[3])
	assert.False(t, contextOf(gone).IsRealized(), "a removed child is never realized again")
	assert.Equal(t, before-1, f.root.Cache().Len())
}

func TestContext_ChildChangedIndex(t *testing.T) {
	f := newFixture(registryBus())
	f.realize(f.window, f.panel)
	f.root.handleRegistrySignal(registrySignal("EventListenerRegistered", ":1.5", "object:"))

	tests := []struct {
		name  string
		child *a11y.Node
		want  int32
	}{
		{"own child", f.button, 0},
		{"someone else's child", f.panel, 0},
		{"toplevel", f.window, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.bus.emitted = nil
			contextOf(f.panel).ChildChanged(a11y.ChildRemoved, tt.child)
			sigs := f.bus.signalsNamed(ifaceEventObject + ".ChildrenChanged")
			require.Len(t, sigs, 1)
			assert.Equal(t, tt.want, sigs[0].body[1])
		})
	}
	assert.False(t, contextOf(f.button).IsRealized(), "removal never realizes")
}

func TestContext_StateAndPropertyChanges(t *testing.T) {
	f := newFixture(registryBus())
	f.realize(f.window, f.button)
	f.root.handleRegistrySignal(registrySignal("EventListenerRegistered", ":1.5", "object:"))
	path := contextOf(f.button).Path()

	f.button.SetSensitive(false)
	f.button.SetVisible(false)
	f.button.SetName("Confirm")
	f.button.SetDescription("Saves the document")

	states := f.bus.signalsNamed(ifaceEventObject + ".StateChanged")
	require.Len(t, states, 3)
	assert.Equal(t, []any{"sensitive", int32(0), int32(0), dbus.MakeVariant("0"), contextOf(f.button).ToRef()}, states[0].body)
	assert.Equal(t, "visible", states[1].body[0])
	assert.Equal(t, "showing", states[2].body[0])
	assert.Equal(t, path, states[2].path)

	props := f.bus.signalsNamed(ifaceEventObject + ".PropertyChange")
	require.Len(t, props, 2)
	assert.Equal(t, "accessible-name", props[0].body[0])
	assert.Equal(t, dbus.MakeVariant("Confirm"), props[0].body[3])
	assert.Equal(t, "accessible-description", props[1].body[0])
	assert.Equal(t, dbus.MakeVariant("Saves the document"), props[1].body[3])
}

func TestAccessibleHandler(t *testing.T) {
	f := newFixture(registryBus())
	f.panel.SetDescription("Main panel")
	hiddenChild := f.tree.NewNode(f.panel, a11y.RoleLabel, "ghost")
	hiddenChild.SetShouldPresent(false)
	label := f.tree.NewNode(f.panel, a11y.RoleLabel, "caption")
	f.realize(f.window, f.panel)
	f.serve(t)

	h := f.bus.object(contextOf(f.panel).Path(), ifaceAccessible).(*accessibleHandler)
	props := f.bus.object(contextOf(f.panel).Path(), ifaceProperties).(*propertiesHandler)

	role, _ := h.GetRole()
	assert.Equal(t, uint32(WireRolePanel), role)
	name, _ := h.GetRoleName()
	assert.Equal(t, "panel", name)

	children, derr := h.GetChildren()
	require.Nil(t, derr)
	require.Len(t, children, 2)
	assert.Equal(t, contextOf(f.button).ToRef(), children[0])
	assert.Equal(t, contextOf(label).ToRef(), children[1])

	ref, _ := h.GetChildAtIndex(5)
	assert.Equal(t, NullRef(), ref)

	idx, _ := h.GetIndexInParent()
	assert.Equal(t, int32(0), idx)

	app, _ := h.GetApplication()
	assert.Equal(t, f.root.ToRef(), app)

	attrs, _ := h.GetAttributes()
	assert.Equal(t, "Main panel", attrs["description"])

	state, _ := h.GetState()
	require.Len(t, state, 2)
	assert.NotZero(t, state[0]&(1<<stateShowing))
	assert.NotZero(t, state[0]&(1<<stateVisible))

	all, derr := props.GetAll(ifaceAccessible)
	require.Nil(t, derr)
	assert.Equal(t, "panel", all["Name"].Value())
	assert.Equal(t, "Main panel", all["Description"].Value())
	assert.Equal(t, int32(2), all["ChildCount"].Value())
	assert.Equal(t, dbus.MakeVariant(contextOf(f.window).ToRef()), all["Parent"])

	top := f.bus.object(contextOf(f.window).Path(), ifaceProperties).(*propertiesHandler)
	parent, _ := top.Get(ifaceAccessible, "Parent")
	assert.Equal(t, dbus.MakeVariant(f.root.ToRef()), parent)
}
