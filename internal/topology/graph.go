// Package topology builds the link/joint tree for a robot configuration.
// One of three fixed topologies is selected per request based on the drive
// type; there are no runtime transitions.
package topology

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/robodesc/urdfgen/internal/inertia"
	"github.com/robodesc/urdfgen/internal/robot"
)

// StructuralError reports a violated topology invariant. If it occurs
// after validation has passed it is an internal-invariant failure, not a
// user error.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string {
	return "invalid topology: " + e.Msg
}

// ShapeKind discriminates the primitive geometry of a link.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCylinder
)

// Shape is the visual/collision primitive of a link.
type Shape struct {
	Kind ShapeKind
	// Box edge lengths.
	SizeX, SizeY, SizeZ float64
	// Cylinder dimensions.
	Radius, Length float64
}

// BoxShape returns a box primitive.
func BoxShape(x, y, z float64) *Shape {
	return &Shape{Kind: ShapeBox, SizeX: x, SizeY: y, SizeZ: z}
}

// CylinderShape returns a cylinder primitive.
func CylinderShape(radius, length float64) *Shape {
	return &Shape{Kind: ShapeCylinder, Radius: radius, Length: length}
}

// Link is one rigid body in the kinematic tree. Shape is nil for
// frame-only links (base_link, steering knuckles) that carry only a
// nominal inertial.
type Link struct {
	Name       string
	Shape      *Shape
	Mass       float64
	Inertia    inertia.Tensor
	Material   string
	VisualRoll float64 // rpy roll applied to visual/collision geometry
}

// JointType is the URDF joint class.
type JointType string

const (
	JointFixed      JointType = "fixed"
	JointContinuous JointType = "continuous"
	JointRevolute   JointType = "revolute"
)

// JointLimit bounds a revolute joint. Required by the document format for
// revolute joints.
type JointLimit struct {
	Lower    float64
	Upper    float64
	Effort   float64
	Velocity float64
}

// Joint connects a parent link to a child link.
type Joint struct {
	Name   string
	Type   JointType
	Parent string
	Child  string
	Origin r3.Vec
	Axis   r3.Vec // zero for fixed joints
	Limit  *JointLimit
}

// Graph is the kinematic tree for one robot: an ordered set of links and
// joints. Order is deterministic and drives serialization order.
type Graph struct {
	RobotName string
	DriveType robot.DriveType
	Links     []Link
	Joints    []Joint
}

// Link returns the named link, or nil.
func (g *Graph) Link(name string) *Link {
	for i := range g.Links {
		if g.Links[i].Name == name {
			return &g.Links[i]
		}
	}
	return nil
}

// Root returns the single link that is no joint's child. It errors when
// zero or more than one root exists.
func (g *Graph) Root() (string, error) {
	children := make(map[string]bool, len(g.Joints))
	for _, j := range g.Joints {
		children[j.Child] = true
	}
	var roots []string
	for _, l := range g.Links {
		if !children[l.Name] {
			roots = append(roots, l.Name)
		}
	}
	if len(roots) != 1 {
		return "", &StructuralError{Msg: fmt.Sprintf("expected exactly one root link, found %d", len(roots))}
	}
	return roots[0], nil
}

// Validate checks the tree invariants: unique link names, every joint
// endpoint defined, every child link parented exactly once, a single root
// named RootLinkName, and no cycles (every link reachable from the root).
func (g *Graph) Validate() error {
	names := make(map[string]bool, len(g.Links))
	for _, l := range g.Links {
		if names[l.Name] {
			return &StructuralError{Msg: fmt.Sprintf("duplicate link name %q", l.Name)}
		}
		names[l.Name] = true
	}

	childCount := make(map[string]int, len(g.Joints))
	childrenOf := make(map[string][]string, len(g.Joints))
	for _, j := range g.Joints {
		if !names[j.Parent] {
			return &StructuralError{Msg: fmt.Sprintf("joint %q references undefined parent link %q", j.Name, j.Parent)}
		}
		if !names[j.Child] {
			return &StructuralError{Msg: fmt.Sprintf("joint %q references undefined child link %q", j.Name, j.Child)}
		}
		childCount[j.Child]++
		if childCount[j.Child] > 1 {
			return &StructuralError{Msg: fmt.Sprintf("link %q has more than one parent", j.Child)}
		}
		childrenOf[j.Parent] = append(childrenOf[j.Parent], j.Child)
	}

	root, err := g.Root()
	if err != nil {
		return err
	}
	if root != RootLinkName {
		return &StructuralError{Msg: fmt.Sprintf("root link is %q, want %q", root, RootLinkName)}
	}

	// Walk from the root; an unreached link means a cycle or island.
	reached := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range childrenOf[cur] {
			if !reached[c] {
				reached[c] = true
				queue = append(queue, c)
			}
		}
	}
	if len(reached) != len(g.Links) {
		return &StructuralError{Msg: fmt.Sprintf("%d link(s) unreachable from %s (cycle or disconnected subtree)", len(g.Links)-len(reached), RootLinkName)}
	}
	return nil
}
