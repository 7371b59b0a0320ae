package atspi

import (
	"github.com/GNOME/gtk-sub066/internal/a11y"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

type action struct {
	name          string
	localizedName string
	description   string
	keybinding    string
}

// actionInfo is marshalled as (sss) by GetActions.
type actionInfo struct {
	LocalizedName string
	Description   string
	KeyBinding    string
}

var (
	activateEntry = action{"activate", "Activate", "Activates the entry", "<Return>"}

	buttonActions = []action{
		{"click", "Click", "Clicks the button", "<Space>"},
	}
	switchActions = []action{
		{"toggle", "Toggle", "Toggles the switch", "<Space>"},
	}
	entryActions         = []action{activateEntry}
	passwordEntryActions = []action{
		activateEntry,
		{"peek", "Peek", "Shows the contents of the password entry", "<VoidSymbol>"},
	}
	searchEntryActions = []action{
		activateEntry,
		{"clear", "Clear", "Clears the contents of the entry", "<VoidSymbol>"},
	}
)

// actionsFor picks the action table for acc, or nil when it has none.
func actionsFor(acc a11y.Accessible) []action {
	if acc.Kind() == a11y.KindPasswordEntry {
		return passwordEntryActions
	}
	switch acc.AccessibleRole() {
	case a11y.RoleButton, a11y.RoleToggleButton:
		return buttonActions
	case a11y.RoleSwitch:
		return switchActions
	case a11y.RoleSearchBox:
		return searchEntryActions
	case a11y.RoleTextBox:
		return entryActions
	}
	return nil
}

type actionHandler struct {
	ctx     *Context
	actions []action
}

func (h *actionHandler) lookup(idx int32) (action, *dbus.Error) {
	if idx < 0 || int(idx) >= len(h.actions) {
		return action{}, errInvalidArgs("Unknown action %d", idx)
	}
	return h.actions[idx], nil
}

func (h *actionHandler) GetName(idx int32) (string, *dbus.Error) {
	a, derr := h.lookup(idx)
	return a.name, derr
}

func (h *actionHandler) GetLocalizedName(idx int32) (string, *dbus.Error) {
	a, derr := h.lookup(idx)
	return a.localizedName, derr
}

func (h *actionHandler) GetDescription(idx int32) (string, *dbus.Error) {
	a, derr := h.lookup(idx)
	return a.description, derr
}

func (h *actionHandler) GetKeyBinding(idx int32) (string, *dbus.Error) {
	a, derr := h.lookup(idx)
	return a.keybinding, derr
}

func (h *actionHandler) GetActions() ([]actionInfo, *dbus.Error) {
	out := make([]actionInfo, 0, len(h.actions))
	for _, a := range h.actions {
		out = append(out, actionInfo{LocalizedName: a.localizedName, Description: a.description, KeyBinding: a.keybinding})
	}
	return out, nil
}

// DoAction runs the action on the loop. Hidden or insensitive accessibles
// refuse every action.
func (h *actionHandler) DoAction(idx int32) (bool, *dbus.Error) {
	var (
		ok   bool
		derr *dbus.Error
	)
	h.ctx.root.loop.Invoke(func() {
		acc := h.ctx.acc
		if !acc.Sensitive() || !acc.Visible() {
			return
		}
		var a action
		if a, derr = h.lookup(idx); derr != nil {
			return
		}
		if activator, can := acc.(a11y.Activator); can {
			ok = activator.Activate(a.name)
		}
	})
	return ok, derr
}

func (h *actionHandler) property(name string) (dbus.Variant, *dbus.Error) {
	if name == "NActions" {
		return dbus.MakeVariant(int32(len(h.actions))), nil
	}
	return dbus.Variant{}, errUnknownProperty(name)
}

var actionIntrospect = introspect.Interface{
	Name: ifaceAction,
	Methods: []introspect.Method{
		{Name: "GetName", Args: []introspect.Arg{arg("index", "i", "in"), arg("name", "s", "out")}},
		{Name: "GetLocalizedName", Args: []introspect.Arg{arg("index", "i", "in"), arg("name", "s", "out")}},
		{Name: "GetDescription", Args: []introspect.Arg{arg("index", "i", "in"), arg("description", "s", "out")}},
		{Name: "GetKeyBinding", Args: []introspect.Arg{arg("index", "i", "in"), arg("keybinding", "s", "out")}},
		{Name: "GetActions", Args: []introspect.Arg{arg("actions", "a(sss)", "out")}},
		{Name: "DoAction", Args: []introspect.Arg{arg("index", "i", "in"), arg("ok", "b", "out")}},
	},
	Properties: []introspect.Property{
		prop("NActions", "i", "read"),
	},
}
