// Package a11y models the in-process accessible tree that platform
// accessibility bridges expose.
package a11y

// Rect is a rectangle in pixels, relative to the accessible parent.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// PlatformState carries flags owned by the platform bridge rather than the
// widget.
type PlatformState uint8

const (
	PlatformStateHidden PlatformState = 1 << iota
)

// ChildChange says whether a child was added to or removed from its
// parent.
type ChildChange int

const (
	ChildAdded ChildChange = iota
	ChildRemoved
)

func (c ChildChange) String() string {
	if c == ChildRemoved {
		return "remove"
	}
	return "add"
}

// State is a boolean state announced to assistive technologies when it
// flips.
type State int

const (
	StateVisible State = iota
	StateShowing
	StateSensitive
)

func (s State) String() string {
	switch s {
	case StateShowing:
		return "showing"
	case StateSensitive:
		return "sensitive"
	}
	return "visible"
}

// Property is a text property announced when it changes.
type Property int

const (
	PropertyName Property = iota
	PropertyDescription
)

func (p Property) String() string {
	if p == PropertyDescription {
		return "accessible-description"
	}
	return "accessible-name"
}

// ATContext is the platform-side object bound to a single accessible. The
// tree calls the change hooks only while the context is realized, after
// the change has been applied, except for ChildRemoved which is reported
// while the child is still attached.
type ATContext interface {
	Realize()
	Unrealize()
	IsRealized() bool

	ChildChanged(change ChildChange, child Accessible)
	BoundsChanged()
	StateChanged(state State, on bool)
	PropertyChanged(prop Property)
}

// Activator is implemented by accessibles that can perform named actions.
type Activator interface {
	Activate(action string) bool
}

// ContextFactory creates the AT context for an accessible. It is called at
// most once per accessible.
type ContextFactory func(acc Accessible) ATContext

// Accessible is the capability set a bridge needs from a node of the UI
// tree. Parent links are lookups, never ownership.
type Accessible interface {
	AccessibleRole() Role
	Kind() Kind
	Name() string
	Description() string

	// Bounds reports the rectangle relative to the accessible parent; ok is
	// false when the accessible has no geometry.
	Bounds() (r Rect, ok bool)

	AccessibleParent() Accessible
	FirstAccessibleChild() Accessible
	NextAccessibleSibling() Accessible

	ShouldPresent() bool
	Visible() bool
	Sensitive() bool

	// Opacity reports the widget opacity; ok is false when the accessible is
	// not backed by an on-screen widget.
	Opacity() (alpha float64, ok bool)

	PlatformState() PlatformState

	// ATContext returns the AT context, creating it on first use. It returns
	// nil when no bridge is installed.
	ATContext() ATContext
}

// Children collects the accessible children of acc in order.
func Children(acc Accessible) []Accessible {
	var out []Accessible
	for c := acc.FirstAccessibleChild(); c != nil; c = c.NextAccessibleSibling() {
		out = append(out, c)
	}
	return out
}

// IndexInParent returns the position of acc among its parent's children, or
// -1 when acc has no parent.
func IndexInParent(acc Accessible) int {
	parent := acc.AccessibleParent()
	if parent == nil {
		return -1
	}
	idx := 0
	for c := parent.FirstAccessibleChild(); c != nil; c = c.NextAccessibleSibling() {
		if c == acc {
			return idx
		}
		idx++
	}
	return -1
}
