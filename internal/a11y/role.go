package a11y

import (
	"fmt"
	"strings"
)

// Role is the toolkit-side accessible role, independent of any platform
// accessibility protocol.
type Role int

const (
	RoleAlert Role = iota
	RoleAlertDialog
	RoleBanner
	RoleButton
	RoleCaption
	RoleCell
	RoleCheckbox
	RoleColumnHeader
	RoleComboBox
	RoleCommand
	RoleComposite
	RoleDialog
	RoleDocument
	RoleFeed
	RoleForm
	RoleGeneric
	RoleGrid
	RoleGridCell
	RoleGroup
	RoleHeading
	RoleImg
	RoleInput
	RoleLabel
	RoleLandmark
	RoleLegend
	RoleLink
	RoleList
	RoleListBox
	RoleListItem
	RoleLog
	RoleMain
	RoleMarquee
	RoleMath
	RoleMeter
	RoleMenu
	RoleMenuBar
	RoleMenuItem
	RoleMenuItemCheckbox
	RoleMenuItemRadio
	RoleNavigation
	RoleNone
	RoleNote
	RoleOption
	RolePresentation
	RoleProgressBar
	RoleRadio
	RoleRadioGroup
	RoleRange
	RoleRegion
	RoleRow
	RoleRowGroup
	RoleRowHeader
	RoleScrollbar
	RoleSearch
	RoleSearchBox
	RoleSection
	RoleSectionHead
	RoleSelect
	RoleSeparator
	RoleSlider
	RoleSpinButton
	RoleStatus
	RoleStructure
	RoleSwitch
	RoleTab
	RoleTable
	RoleTabList
	RoleTabPanel
	RoleTextBox
	RoleTime
	RoleTimer
	RoleToolbar
	RoleTooltip
	RoleTree
	RoleTreeGrid
	RoleTreeItem
	RoleWidget
	RoleWindow
	RoleToggleButton
	RoleApplication
	RoleParagraph
	RoleBlockQuote
	RoleArticle
	RoleComment
	RoleTerminal

	roleCount
)

var roleNames = [roleCount]string{
	"alert", "alert-dialog", "banner", "button", "caption", "cell", "checkbox",
	"column-header", "combo-box", "command", "composite", "dialog", "document",
	"feed", "form", "generic", "grid", "grid-cell", "group", "heading", "img",
	"input", "label", "landmark", "legend", "link", "list", "list-box",
	"list-item", "log", "main", "marquee", "math", "meter", "menu", "menu-bar",
	"menu-item", "menu-item-checkbox", "menu-item-radio", "navigation", "none",
	"note", "option", "presentation", "progress-bar", "radio", "radio-group",
	"range", "region", "row", "row-group", "row-header", "scrollbar", "search",
	"search-box", "section", "section-head", "select", "separator", "slider",
	"spin-button", "status", "structure", "switch", "tab", "table", "tab-list",
	"tab-panel", "text-box", "time", "timer", "toolbar", "tooltip", "tree",
	"tree-grid", "tree-item", "widget", "window", "toggle-button",
	"application", "paragraph", "block-quote", "article", "comment", "terminal",
}

// Roles returns every defined role in declaration order.
func Roles() []Role {
	roles := make([]Role, roleCount)
	for i := range roles {
		roles[i] = Role(i)
	}
	return roles
}

func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleNames[r]
}

func ParseRole(s string) (Role, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, n := range roleNames {
		if n == name {
			return Role(i), nil
		}
	}
	return RoleNone, fmt.Errorf("unknown accessible role %q", s)
}

// Kind tags the concrete widget variant behind an accessible. A few
// variants change how the accessible is presented regardless of its role.
type Kind int

const (
	KindWidget Kind = iota
	KindWindow
	KindPasswordEntry
	KindScrolledWindow
	KindPopover
	KindSocket
)

var kindNames = map[Kind]string{
	KindWidget:         "widget",
	KindWindow:         "window",
	KindPasswordEntry:  "password-entry",
	KindScrolledWindow: "scrolled-window",
	KindPopover:        "popover",
	KindSocket:         "socket",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindWidget, fmt.Errorf("unknown widget kind %q", s)
}
