package a11y

import "slices"

// ID identifies a node within its Tree. The zero ID means "no node".
type ID uint32

// Tree owns a set of nodes. Nodes reference each other by ID only, so a
// parent link can never keep a removed node alive.
type Tree struct {
	nodes   map[ID]*Node
	nextID  ID
	factory ContextFactory
}

func NewTree() *Tree {
	return &Tree{nodes: make(map[ID]*Node)}
}

// SetContextFactory installs the bridge used to create AT contexts.
// Contexts that already exist are kept.
func (t *Tree) SetContextFactory(f ContextFactory) {
	t.factory = f
}

// NewNode creates a node under parent; a nil parent creates a toplevel.
func (t *Tree) NewNode(parent *Node, role Role, name string) *Node {
	return t.newNode(parent, role, KindWidget, name)
}

// NewSocketNode creates a childless, hidden node standing in for a remote
// subtree.
func (t *Tree) NewSocketNode(parent *Node, name string) *Node {
	n := t.newNode(parent, RoleNone, KindSocket, name)
	n.state |= PlatformStateHidden
	return n
}

func (t *Tree) newNode(parent *Node, role Role, kind Kind, name string) *Node {
	if parent != nil && parent.kind == KindSocket {
		panic("a11y: socket nodes cannot have children")
	}
	t.nextID++
	n := &Node{
		tree:    t,
		id:      t.nextID,
		role:    role,
		kind:    kind,
		name:    name,
		visible:   true,
		present:   true,
		sensitive: true,
	}
	if kind != KindSocket {
		n.opacity = 1
		n.hasOpacity = true
	}
	if role == RoleWindow && kind == KindWidget {
		n.kind = KindWindow
	}
	t.nodes[n.id] = n
	if parent != nil {
		n.parent = parent.id
		parent.children = append(parent.children, n.id)
		if atc := parent.realizedContext(); atc != nil {
			atc.ChildChanged(ChildAdded, n)
		}
	}
	return n
}

func (t *Tree) Lookup(id ID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// Remove detaches n from its parent and drops its subtree, unrealizing any
// AT contexts on the way.
func (t *Tree) Remove(n *Node) {
	if n == nil || n.tree != t {
		return
	}
	if p, ok := t.nodes[n.parent]; ok {
		if atc := p.realizedContext(); atc != nil {
			atc.ChildChanged(ChildRemoved, n)
		}
		p.children = slices.DeleteFunc(p.children, func(id ID) bool { return id == n.id })
	}
	t.drop(n)
}

func (t *Tree) drop(n *Node) {
	for _, id := range n.children {
		if c, ok := t.nodes[id]; ok {
			t.drop(c)
		}
	}
	if n.ctx != nil && n.ctx.IsRealized() {
		n.ctx.Unrealize()
	}
	delete(t.nodes, n.id)
	n.parent = 0
	n.children = nil
}

// Walk visits n and its descendants depth first until fn returns false.
func Walk(acc Accessible, fn func(Accessible) bool) bool {
	if !fn(acc) {
		return false
	}
	for c := acc.FirstAccessibleChild(); c != nil; c = c.NextAccessibleSibling() {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// Node is the concrete Accessible kept by a Tree.
type Node struct {
	tree     *Tree
	id       ID
	parent   ID
	children []ID

	role        Role
	kind        Kind
	name        string
	description string

	bounds    Rect
	hasBounds bool
	visible   bool
	present   bool
	sensitive bool

	opacity    float64
	hasOpacity bool

	state PlatformState
	ctx   ATContext

	onActivate func(action string) bool
}

func (n *Node) ID() ID { return n.id }

func (n *Node) Tree() *Tree { return n.tree }

func (n *Node) AccessibleRole() Role { return n.role }

func (n *Node) Kind() Kind { return n.kind }

func (n *Node) SetKind(k Kind) {
	if k == KindSocket || n.kind == KindSocket {
		panic("a11y: socket kind is fixed at creation")
	}
	n.kind = k
}

func (n *Node) Name() string { return n.name }

func (n *Node) SetName(name string) {
	if name == n.name {
		return
	}
	n.name = name
	if atc := n.realizedContext(); atc != nil {
		atc.PropertyChanged(PropertyName)
	}
}

func (n *Node) Description() string { return n.description }

func (n *Node) SetDescription(d string) {
	if d == n.description {
		return
	}
	n.description = d
	if atc := n.realizedContext(); atc != nil {
		atc.PropertyChanged(PropertyDescription)
	}
}

// Bounds of a socket cover its host: same size, at the host's origin.
func (n *Node) Bounds() (Rect, bool) {
	if n.kind == KindSocket {
		parent, ok := n.tree.nodes[n.parent]
		if !ok {
			return Rect{}, false
		}
		b, ok := parent.Bounds()
		if !ok {
			return Rect{}, false
		}
		return Rect{Width: b.Width, Height: b.Height}, true
	}
	return n.bounds, n.hasBounds
}

func (n *Node) SetBounds(r Rect) {
	if n.hasBounds && n.bounds == r {
		return
	}
	n.bounds = r
	n.hasBounds = true
	n.boundsChanged()
}

func (n *Node) ClearBounds() {
	if !n.hasBounds {
		return
	}
	n.bounds = Rect{}
	n.hasBounds = false
	n.boundsChanged()
}

func (n *Node) boundsChanged() {
	if atc := n.realizedContext(); atc != nil {
		atc.BoundsChanged()
	}
}

func (n *Node) Parent() *Node {
	p, ok := n.tree.nodes[n.parent]
	if !ok {
		return nil
	}
	return p
}

func (n *Node) AccessibleParent() Accessible {
	if p := n.Parent(); p != nil {
		return p
	}
	return nil
}

func (n *Node) childNodes() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		if c, ok := n.tree.nodes[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) FirstAccessibleChild() Accessible {
	for _, id := range n.children {
		if c, ok := n.tree.nodes[id]; ok {
			return c
		}
	}
	return nil
}

func (n *Node) NextAccessibleSibling() Accessible {
	p, ok := n.tree.nodes[n.parent]
	if !ok {
		return nil
	}
	idx := slices.Index(p.children, n.id)
	if idx < 0 {
		return nil
	}
	for _, id := range p.children[idx+1:] {
		if c, ok := n.tree.nodes[id]; ok {
			return c
		}
	}
	return nil
}

func (n *Node) ShouldPresent() bool { return n.present && n.visible }

func (n *Node) SetShouldPresent(present bool) {
	if present == n.present {
		return
	}
	showing := n.ShouldPresent()
	n.present = present
	n.showingChanged(showing)
}

func (n *Node) Visible() bool { return n.visible }

func (n *Node) SetVisible(visible bool) {
	if visible == n.visible {
		return
	}
	showing := n.ShouldPresent()
	n.visible = visible
	if atc := n.realizedContext(); atc != nil {
		atc.StateChanged(StateVisible, visible)
	}
	n.showingChanged(showing)
}

func (n *Node) showingChanged(was bool) {
	if now := n.ShouldPresent(); now != was {
		if atc := n.realizedContext(); atc != nil {
			atc.StateChanged(StateShowing, now)
		}
	}
}

func (n *Node) Sensitive() bool { return n.sensitive }

func (n *Node) SetSensitive(sensitive bool) {
	if sensitive == n.sensitive {
		return
	}
	n.sensitive = sensitive
	if atc := n.realizedContext(); atc != nil {
		atc.StateChanged(StateSensitive, sensitive)
	}
}

// SetActionHandler installs the function run by Activate.
func (n *Node) SetActionHandler(fn func(action string) bool) {
	n.onActivate = fn
}

// Activate performs action. Nodes without a handler refuse every action.
func (n *Node) Activate(action string) bool {
	if n.onActivate == nil {
		return false
	}
	return n.onActivate(action)
}

func (n *Node) Opacity() (float64, bool) {
	return n.opacity, n.hasOpacity
}

func (n *Node) SetOpacity(alpha float64) {
	n.opacity = min(max(alpha, 0), 1)
	n.hasOpacity = true
}

func (n *Node) PlatformState() PlatformState { return n.state }

func (n *Node) SetPlatformState(flag PlatformState, on bool) {
	if on {
		n.state |= flag
	} else {
		n.state &^= flag
	}
}

// realizedContext returns the context only once a bridge has realized it.
func (n *Node) realizedContext() ATContext {
	if n.ctx == nil || !n.ctx.IsRealized() {
		return nil
	}
	return n.ctx
}

func (n *Node) ATContext() ATContext {
	if n.ctx == nil && n.tree.factory != nil {
		n.ctx = n.tree.factory(n)
	}
	return n.ctx
}
