package atspi

import (
	"fmt"

	"github.com/GNOME/gtk-sub066/internal/a11y"
)

// WireRole is the AT-SPI role enumeration (AtspiRole).
type WireRole uint32

const (
	WireRoleInvalid WireRole = iota
	WireRoleAcceleratorLabel
	WireRoleAlert
	WireRoleAnimation
	WireRoleArrow
	WireRoleCalendar
	WireRoleCanvas
	WireRoleCheckBox
	WireRoleCheckMenuItem
	WireRoleColorChooser
	WireRoleColumnHeader
	WireRoleComboBox
	WireRoleDateEditor
	WireRoleDesktopIcon
	WireRoleDesktopFrame
	WireRoleDial
	WireRoleDialog
	WireRoleDirectoryPane
	WireRoleDrawingArea
	WireRoleFileChooser
	WireRoleFiller
	WireRoleFocusTraversable
	WireRoleFontChooser
	WireRoleFrame
	WireRoleGlassPane
	WireRoleHTMLContainer
	WireRoleIcon
	WireRoleImage
	WireRoleInternalFrame
	WireRoleLabel
	WireRoleLayeredPane
	WireRoleList
	WireRoleListItem
	WireRoleMenu
	WireRoleMenuBar
	WireRoleMenuItem
	WireRoleOptionPane
	WireRolePageTab
	WireRolePageTabList
	WireRolePanel
	WireRolePasswordText
	WireRolePopupMenu
	WireRoleProgressBar
	WireRoleButton
	WireRoleRadioButton
	WireRoleRadioMenuItem
	WireRoleRootPane
	WireRoleRowHeader
	WireRoleScrollBar
	WireRoleScrollPane
	WireRoleSeparator
	WireRoleSlider
	WireRoleSpinButton
	WireRoleSplitPane
	WireRoleStatusBar
	WireRoleTable
	WireRoleTableCell
	WireRoleTableColumnHeader
	WireRoleTableRowHeader
	WireRoleTearoffMenuItem
	WireRoleTerminal
	WireRoleText
	WireRoleToggleButton
	WireRoleToolBar
	WireRoleToolTip
	WireRoleTree
	WireRoleTreeTable
	WireRoleUnknown
	WireRoleViewport
	WireRoleWindow
	WireRoleExtended
	WireRoleHeader
	WireRoleFooter
	WireRoleParagraph
	WireRoleRuler
	WireRoleApplication
	WireRoleAutocomplete
	WireRoleEditbar
	WireRoleEmbedded
	WireRoleEntry
	WireRoleChart
	WireRoleCaption
	WireRoleDocumentFrame
	WireRoleHeading
	WireRolePage
	WireRoleSection
	WireRoleRedundantObject
	WireRoleForm
	WireRoleLink
	WireRoleInputMethodWindow
	WireRoleTableRow
	WireRoleTreeItem
	WireRoleDocumentSpreadsheet
	WireRoleDocumentPresentation
	WireRoleDocumentText
	WireRoleDocumentWeb
	WireRoleDocumentEmail
	WireRoleComment
	WireRoleListBox
	WireRoleGrouping
	WireRoleImageMap
	WireRoleNotification
	WireRoleInfoBar
	WireRoleLevelBar
	WireRoleTitleBar
	WireRoleBlockQuote
	WireRoleAudio
	WireRoleVideo
	WireRoleDefinition
	WireRoleArticle
	WireRoleLandmark
	WireRoleLog
	WireRoleMarquee
	WireRoleMath
	WireRoleRating
	WireRoleTimer
	WireRoleStatic
	WireRoleMathFraction
	WireRoleMathRoot
	WireRoleSubscript
	WireRoleSuperscript
	WireRoleDescriptionList
	WireRoleDescriptionTerm
	WireRoleDescriptionValue
	WireRoleFootnote
	WireRoleContentDeletion
	WireRoleContentInsertion
	WireRoleMark
	WireRoleSuggestion
	WireRolePushButtonMenu
	WireRoleSwitch

	wireRoleCount
)

var wireRoleNames = [wireRoleCount]string{
	"invalid", "accelerator label", "alert", "animation", "arrow", "calendar",
	"canvas", "check box", "check menu item", "color chooser", "column header",
	"combo box", "date editor", "desktop icon", "desktop frame", "dial",
	"dialog", "directory pane", "drawing area", "file chooser", "filler",
	"focus traversable", "font chooser", "frame", "glass pane",
	"html container", "icon", "image", "internal frame", "label",
	"layered pane", "list", "list item", "menu", "menu bar", "menu item",
	"option pane", "page tab", "page tab list", "panel", "password text",
	"popup menu", "progress bar", "push button", "radio button",
	"radio menu item", "root pane", "row header", "scroll bar", "scroll pane",
	"separator", "slider", "spin button", "split pane", "status bar", "table",
	"table cell", "table column header", "table row header",
	"tearoff menu item", "terminal", "text", "toggle button", "tool bar",
	"tool tip", "tree", "tree table", "unknown", "viewport", "window",
	"extended", "header", "footer", "paragraph", "ruler", "application",
	"autocomplete", "edit bar", "embedded", "entry", "chart", "caption",
	"document frame", "heading", "page", "section", "redundant object", "form",
	"link", "input method window", "table row", "tree item",
	"document spreadsheet", "document presentation", "document text",
	"document web", "document email", "comment", "list box", "grouping",
	"image map", "notification", "info bar", "level bar", "title bar",
	"block quote", "audio", "video", "definition", "article", "landmark",
	"log", "marquee", "math", "rating", "timer", "static", "math fraction",
	"math root", "subscript", "superscript", "description list",
	"description term", "description value", "footnote", "content deletion",
	"content insertion", "mark", "suggestion", "push button menu", "switch",
}

func (r WireRole) String() string {
	if r >= wireRoleCount {
		return fmt.Sprintf("role(%d)", uint32(r))
	}
	return wireRoleNames[r]
}

var roleTable = map[a11y.Role]WireRole{
	a11y.RoleAlert:            WireRoleNotification,
	a11y.RoleAlertDialog:      WireRoleAlert,
	a11y.RoleButton:           WireRoleButton,
	a11y.RoleCaption:          WireRoleCaption,
	a11y.RoleCell:             WireRoleTableCell,
	a11y.RoleCheckbox:         WireRoleCheckBox,
	a11y.RoleColumnHeader:     WireRoleColumnHeader,
	a11y.RoleComboBox:         WireRoleComboBox,
	a11y.RoleDialog:           WireRoleDialog,
	a11y.RoleDocument:         WireRoleDocumentText,
	a11y.RoleForm:             WireRoleForm,
	a11y.RoleGrid:             WireRoleTable,
	a11y.RoleGridCell:         WireRoleTableCell,
	a11y.RoleGroup:            WireRolePanel,
	a11y.RoleHeading:          WireRoleHeading,
	a11y.RoleImg:              WireRoleImage,
	a11y.RoleInput:            WireRoleEntry,
	a11y.RoleLabel:            WireRoleLabel,
	a11y.RoleLandmark:         WireRoleLandmark,
	a11y.RoleLegend:           WireRoleLabel,
	a11y.RoleLink:             WireRoleLink,
	a11y.RoleList:             WireRoleList,
	a11y.RoleListBox:          WireRoleListBox,
	a11y.RoleListItem:         WireRoleListItem,
	a11y.RoleLog:              WireRoleLog,
	a11y.RoleMain:             WireRoleLandmark,
	a11y.RoleMarquee:          WireRoleMarquee,
	a11y.RoleMath:             WireRoleMath,
	a11y.RoleMeter:            WireRoleLevelBar,
	a11y.RoleMenu:             WireRoleMenu,
	a11y.RoleMenuBar:          WireRoleMenuBar,
	a11y.RoleMenuItem:         WireRoleMenuItem,
	a11y.RoleMenuItemCheckbox: WireRoleCheckMenuItem,
	a11y.RoleMenuItemRadio:    WireRoleRadioMenuItem,
	a11y.RoleNavigation:       WireRoleLandmark,
	a11y.RoleNote:             WireRoleComment,
	a11y.RoleOption:           WireRoleListItem,
	a11y.RoleProgressBar:      WireRoleProgressBar,
	a11y.RoleRadio:            WireRoleRadioButton,
	a11y.RoleRadioGroup:       WireRoleGrouping,
	a11y.RoleRegion:           WireRoleLandmark,
	a11y.RoleRow:              WireRoleTableRow,
	a11y.RoleRowGroup:         WireRoleGrouping,
	a11y.RoleRowHeader:        WireRoleRowHeader,
	a11y.RoleScrollbar:        WireRoleScrollBar,
	a11y.RoleSearch:           WireRoleLandmark,
	a11y.RoleSearchBox:        WireRoleEntry,
	a11y.RoleSection:          WireRoleSection,
	a11y.RoleSeparator:        WireRoleSeparator,
	a11y.RoleSlider:           WireRoleSlider,
	a11y.RoleSpinButton:       WireRoleSpinButton,
	a11y.RoleStatus:           WireRoleStatusBar,
	a11y.RoleSwitch:           WireRoleSwitch,
	a11y.RoleTab:              WireRolePageTab,
	a11y.RoleTable:            WireRoleTable,
	a11y.RoleTabList:          WireRolePageTabList,
	a11y.RoleTabPanel:         WireRolePanel,
	a11y.RoleTextBox:          WireRoleText,
	a11y.RoleTimer:            WireRoleTimer,
	a11y.RoleToolbar:          WireRoleToolBar,
	a11y.RoleTooltip:          WireRoleToolTip,
	a11y.RoleTree:             WireRoleTree,
	a11y.RoleTreeGrid:         WireRoleTreeTable,
	a11y.RoleTreeItem:         WireRoleTreeItem,
	a11y.RoleWindow:           WireRoleFrame,
	a11y.RoleToggleButton:     WireRoleToggleButton,
	a11y.RoleApplication:      WireRoleApplication,
	a11y.RoleParagraph:        WireRoleParagraph,
	a11y.RoleBlockQuote:       WireRoleBlockQuote,
	a11y.RoleArticle:          WireRoleArticle,
	a11y.RoleComment:          WireRoleComment,
	a11y.RoleTerminal:         WireRoleTerminal,
}

// RoleToWire maps a toolkit role to its AT-SPI role. Abstract and unmapped
// roles become filler.
func RoleToWire(role a11y.Role) WireRole {
	if r, ok := roleTable[role]; ok {
		return r
	}
	return WireRoleFiller
}

// WireRoleFor maps an accessible to its AT-SPI role. Password entries and
// scrolled windows present as their widget type whatever their role.
func WireRoleFor(acc a11y.Accessible) WireRole {
	switch acc.Kind() {
	case a11y.KindPasswordEntry:
		return WireRolePasswordText
	case a11y.KindScrolledWindow:
		return WireRoleScrollPane
	}
	return RoleToWire(acc.AccessibleRole())
}
