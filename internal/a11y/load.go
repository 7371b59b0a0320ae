package a11y

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/GNOME/gtk-sub066/internal/errdefs"
	"github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
	"gopkg.in/yaml.v3"
)

// NodeSpec describes one accessible in a tree file.
type NodeSpec struct {
	Role        string     `yaml:"role"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Kind        string     `yaml:"kind,omitempty"`
	Bounds      []int      `yaml:"bounds,omitempty,flow"`
	Visible     *bool      `yaml:"visible,omitempty"`
	Present     *bool      `yaml:"present,omitempty"`
	Sensitive   *bool      `yaml:"sensitive,omitempty"`
	Opacity     *float64   `yaml:"opacity,omitempty"`
	BusName     string     `yaml:"bus_name,omitempty"`
	ObjectPath  string     `yaml:"object_path,omitempty"`
	Children    []NodeSpec `yaml:"children,omitempty"`
}

type TreeSpec struct {
	Toplevels []NodeSpec `yaml:"toplevels"`
}

// LoadTreeFile reads a tree description, choosing the format from the file
// extension.
func LoadTreeFile(path string) (*TreeSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	case ".kdl":
		return ParseKDL(f)
	default:
		return nil, fmt.Errorf("%s: %w", path, errdefs.ErrUnknownTreeFormat)
	}
}

func ParseYAML(r io.Reader) (*TreeSpec, error) {
	var spec TreeSpec
	if err := yaml.NewDecoder(r).Decode(&spec); err != nil {
		if err == io.EOF {
			return &spec, nil
		}
		return nil, fmt.Errorf("failed to parse YAML tree: %w", err)
	}
	return &spec, nil
}

// ParseKDL reads a tree where each node's name is its role and its first
// argument its accessible name. The reserved child nodes bounds, bus, kind,
// description, visible, present and opacity set attributes. A node named
// socket stands for an embedded remote subtree.
func ParseKDL(r io.Reader) (*TreeSpec, error) {
	doc, err := kdl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL tree: %w", err)
	}

	spec := &TreeSpec{}
	for _, node := range doc.Nodes {
		ns, err := kdlNodeSpec(node)
		if err != nil {
			return nil, err
		}
		spec.Toplevels = append(spec.Toplevels, ns)
	}
	return spec, nil
}

func kdlNodeSpec(node *document.Node) (NodeSpec, error) {
	ns := NodeSpec{Role: kdlString(node.Name)}
	if len(node.Arguments) > 0 {
		ns.Name = kdlString(node.Arguments[0])
	}
	if ns.Role == KindSocket.String() {
		ns.Kind = ns.Role
		ns.Role = ""
	}

	for _, child := range node.Children {
		switch name := kdlString(child.Name); name {
		case "bounds":
			if len(child.Arguments) != 4 {
				return ns, fmt.Errorf("%s %q: bounds needs 4 arguments, got %d", ns.Role, ns.Name, len(child.Arguments))
			}
			for _, arg := range child.Arguments {
				v, err := strconv.Atoi(kdlString(arg))
				if err != nil {
					return ns, fmt.Errorf("%s %q: invalid bounds value: %w", ns.Role, ns.Name, err)
				}
				ns.Bounds = append(ns.Bounds, v)
			}
		case "bus":
			if len(child.Arguments) != 2 {
				return ns, fmt.Errorf("%s %q: bus needs a name and an object path", ns.Role, ns.Name)
			}
			ns.BusName = kdlString(child.Arguments[0])
			ns.ObjectPath = kdlString(child.Arguments[1])
		case "kind":
			ns.Kind = kdlFirstArg(child)
		case "description":
			ns.Description = kdlFirstArg(child)
		case "visible", "present", "sensitive":
			b, err := strconv.ParseBool(kdlFirstArg(child))
			if err != nil {
				return ns, fmt.Errorf("%s %q: invalid %s value: %w", ns.Role, ns.Name, name, err)
			}
			switch name {
			case "visible":
				ns.Visible = &b
			case "present":
				ns.Present = &b
			default:
				ns.Sensitive = &b
			}
		case "opacity":
			v, err := strconv.ParseFloat(kdlFirstArg(child), 64)
			if err != nil {
				return ns, fmt.Errorf("%s %q: invalid opacity: %w", ns.Role, ns.Name, err)
			}
			ns.Opacity = &v
		default:
			cs, err := kdlNodeSpec(child)
			if err != nil {
				return ns, err
			}
			ns.Children = append(ns.Children, cs)
		}
	}
	return ns, nil
}

func kdlString(v *document.Value) string {
	if v == nil {
		return ""
	}
	return strings.TrimPrefix(strings.Trim(v.String(), "\""), "#")
}

func kdlFirstArg(node *document.Node) string {
	if len(node.Arguments) == 0 {
		return ""
	}
	return kdlString(node.Arguments[0])
}

// SocketSpec is a socket found while building; the bridge turns it into a
// live socket once a bus is available.
type SocketSpec struct {
	Node       *Node
	BusName    string
	ObjectPath string
}

type Built struct {
	Toplevels []*Node
	Sockets   []SocketSpec
}

// Build creates the described nodes in tree. On error every node created
// so far is removed again.
func (s *TreeSpec) Build(tree *Tree) (*Built, error) {
	out := &Built{}
	for _, ns := range s.Toplevels {
		n, err := ns.build(tree, nil, out)
		if n != nil {
			out.Toplevels = append(out.Toplevels, n)
		}
		if err != nil {
			for _, w := range out.Toplevels {
				tree.Remove(w)
			}
			return nil, err
		}
	}
	return out, nil
}

// build returns the node it created even when a later step fails, so the
// caller can remove the partial subtree.

func (s NodeSpec) build(tree *Tree, parent *Node, out *Built) (*Node, error) {
	var n *Node
	if strings.EqualFold(s.Kind, KindSocket.String()) {
		if parent == nil {
			return nil, fmt.Errorf("socket %q must have a parent", s.Name)
		}
		if len(s.Children) > 0 {
			return nil, fmt.Errorf("socket %q cannot have children", s.Name)
		}
		n = tree.NewSocketNode(parent, s.Name)
		out.Sockets = append(out.Sockets, SocketSpec{Node: n, BusName: s.BusName, ObjectPath: s.ObjectPath})
		return n, nil
	}

	role, err := ParseRole(s.Role)
	if err != nil {
		return nil, err
	}
	n = tree.NewNode(parent, role, s.Name)
	if s.Kind != "" {
		kind, err := ParseKind(s.Kind)
		if err != nil {
			return n, err
		}
		n.SetKind(kind)
	}

	n.SetDescription(s.Description)
	switch len(s.Bounds) {
	case 0:
	case 4:
		n.SetBounds(Rect{X: s.Bounds[0], Y: s.Bounds[1], Width: s.Bounds[2], Height: s.Bounds[3]})
	default:
		return n, fmt.Errorf("%s %q: bounds needs 4 values, got %d", s.Role, s.Name, len(s.Bounds))
	}
	if s.Visible != nil {
		n.SetVisible(*s.Visible)
	}
	if s.Present != nil {
		n.SetShouldPresent(*s.Present)
	}
	if s.Sensitive != nil {
		n.SetSensitive(*s.Sensitive)
	}
	if s.Opacity != nil {
		n.SetOpacity(*s.Opacity)
	}

	for _, cs := range s.Children {
		if _, err := cs.build(tree, n, out); err != nil {
			return n, err
		}
	}
	return n, nil
}
