package atspi

import (
	"fmt"

	"github.com/GNOME/gtk-sub066/internal/a11y"
)

// CoordType is AtspiCoordType.
type CoordType uint32

const (
	CoordTypeScreen CoordType = iota
	CoordTypeWindow
	CoordTypeParent
)

func (c CoordType) String() string {
	switch c {
	case CoordTypeScreen:
		return "screen"
	case CoordTypeWindow:
		return "window"
	case CoordTypeParent:
		return "parent"
	}
	return fmt.Sprintf("coord-type(%d)", uint32(c))
}

func ParseCoordType(s string) (CoordType, error) {
	for _, c := range []CoordType{CoordTypeScreen, CoordTypeWindow, CoordTypeParent} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown coordinate space %q", s)
}

func (c CoordType) valid() bool {
	return c <= CoordTypeParent
}

// TranslateToAccessible converts a point in the given coordinate space into
// the accessible's own space. Screen coordinates are not known at this
// layer and always yield the origin.
func TranslateToAccessible(acc a11y.Accessible, space CoordType, x, y int) (int, int) {
	return translate(acc, space, x, y, -1)
}

// TranslateFromAccessible is the inverse of TranslateToAccessible.
func TranslateFromAccessible(acc a11y.Accessible, space CoordType, x, y int) (int, int) {
	return translate(acc, space, x, y, 1)
}

func translate(acc a11y.Accessible, space CoordType, x, y, sign int) (int, int) {
	if !space.valid() {
		panic(fmt.Sprintf("atspi: invalid coordinate type %d", uint32(space)))
	}
	if space == CoordTypeScreen {
		return 0, 0
	}

	b, ok := acc.Bounds()
	if !ok {
		return x, y
	}
	x += sign * b.X
	y += sign * b.Y
	if space == CoordTypeParent {
		return x, y
	}

	for parent := acc.AccessibleParent(); parent != nil; parent = parent.AccessibleParent() {
		b, ok := parent.Bounds()
		if !ok {
			break
		}
		x += sign * b.X
		y += sign * b.Y
	}
	return x, y
}
