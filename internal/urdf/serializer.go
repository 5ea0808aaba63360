// Package urdf renders a composed robot model into the xacro-flavoured
// URDF document consumed by downstream simulation and visualization
// tooling, and inspects existing documents for structural problems.
package urdf

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/robodesc/urdfgen/internal/geometry"
	"github.com/robodesc/urdfgen/internal/inertia"
	"github.com/robodesc/urdfgen/internal/robot"
	"github.com/robodesc/urdfgen/internal/topology"
)

// SerializationError reports that a document could not be rendered. After
// validation has passed this should be unreachable; treat it as an
// internal-invariant failure.
type SerializationError struct {
	Msg string
	Err error
}

func (e *SerializationError) Error() string {
	if e.Err != nil {
		return "serialization failed: " + e.Msg + ": " + e.Err.Error()
	}
	return "serialization failed: " + e.Msg
}

func (e *SerializationError) Unwrap() error { return e.Err }

// material is one named colour in the document palette.
type material struct {
	name string
	rgba string
}

// basePalette is emitted into every document, in declaration order.
var basePalette = []material{
	{"white", "1 1 1 1"},
	{"orange", "1 0.3 0.1 1"},
	{"red", "1 0 0 1"},
	{"blue", "0.0 0.0 0.8 1.0"},
	{"green", "0.2 0.9 0.2 1"},
	{"darkgrey", "0.1 0.1 0.1 1.0"},
	{"grey", "0.5 0.5 0.5 1.0"},
	{"black", "0 0 0 1"},
}

// mecanumPalette tags left and right wheels with distinct materials so the
// roller chirality survives into downstream tooling.
var mecanumPalette = []material{
	{topology.MaterialMecanumLeft, "0.3 0.3 0.3 1.0"},
	{topology.MaterialMecanumRight, "0.15 0.15 0.15 1.0"},
}

// Render serializes the model to the final document text. Output is
// deterministic: rendering the same model twice yields byte-identical
// documents. The graph is re-checked first; a structurally invalid graph
// yields a *SerializationError.
func Render(cfg robot.Config, frame geometry.Frame, g *topology.Graph) (string, error) {
	if g == nil {
		return "", &SerializationError{Msg: "nil topology graph"}
	}
	if err := g.Validate(); err != nil {
		return "", &SerializationError{Msg: "topology graph failed validation", Err: err}
	}
	root, err := g.Root()
	if err != nil {
		return "", &SerializationError{Msg: "no unique root link", Err: err}
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(&b, "<robot xmlns:xacro=\"http://ros.org/wiki/xacro\" name=\"%s_robot\">\n\n", cfg.Name)

	writeIncludes(&b, cfg)
	writeParameters(&b, cfg)
	writeMaterials(&b, cfg)

	// Declaration order: root link first, then each joint followed by its
	// child link. Graph order is fixed by the builder (chassis, wheels in
	// placement order, then sensors), which keeps re-serialization
	// byte-identical.
	rootLink := g.Link(root)
	if rootLink == nil {
		return "", &SerializationError{Msg: fmt.Sprintf("root link %q missing from link set", root)}
	}
	fmt.Fprintf(&b, "  <!-- %s -->\n", root)
	writeLink(&b, *rootLink)
	for _, j := range g.Joints {
		child := g.Link(j.Child)
		if child == nil {
			return "", &SerializationError{Msg: fmt.Sprintf("joint %q child link %q missing from link set", j.Name, j.Child)}
		}
		b.WriteString("\n")
		writeJoint(&b, j)
		b.WriteString("\n")
		writeLink(&b, *child)
	}

	writeControl(&b, cfg, g)

	b.WriteString("\n</robot>\n")
	return b.String(), nil
}

// fnum formats user-supplied dimensions with the shortest exact
// representation so document values match the input config.
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func xyz(v r3.Vec) string {
	return fnum(v.X) + " " + fnum(v.Y) + " " + fnum(v.Z)
}

func writeIncludes(b *strings.Builder, cfg robot.Config) {
	b.WriteString("  <xacro:include filename=\"inertial_macros.xacro\"/>\n")
	if cfg.DriveType == robot.DriveDifferential {
		b.WriteString("  <xacro:include filename=\"gazebo_control.xacro\"/>\n")
	}
	b.WriteString("\n")
}

func writeParameters(b *strings.Builder, cfg robot.Config) {
	prop := func(name string, value string) {
		fmt.Fprintf(b, "  <xacro:property name=\"%s\" value=\"%s\"/>\n", name, value)
	}

	b.WriteString("  <!-- Parameters -->\n")
	prop("wheel_radius", fnum(cfg.Wheels.Radius))
	prop("wheel_thickness", fnum(cfg.Wheels.Thickness))
	prop("chassis_length", fnum(cfg.Chassis.Length))
	prop("chassis_width", fnum(cfg.Chassis.Width))
	prop("chassis_height", fnum(cfg.Chassis.Height))
	prop("ground_clearance", fnum(cfg.GroundClearance))
	prop("wheel_z_offset", fnum(cfg.Wheels.ZOffset))
	b.WriteString("\n  <!-- Derived positioning parameters -->\n")
	prop("chassis_half_length", "${chassis_length/2}")
	prop("chassis_half_width", "${chassis_width/2}")
	prop("chassis_z_offset", "${ground_clearance + chassis_height/2}")

	switch cfg.DriveType {
	case robot.DriveMecanum, robot.DriveAckermann:
		b.WriteString("\n")
		prop("wheel_separation_length", fnum(cfg.Wheels.SeparationLength))
		prop("wheel_separation_width", fnum(cfg.Wheels.SeparationWidth))
		prop("wheel_x_offset", "${wheel_separation_length/2}")
		prop("wheel_y_offset", "${wheel_separation_width/2}")
	case robot.DriveDifferential:
		b.WriteString("\n")
		prop("wheel_separation", fnum(cfg.Wheels.Separation))
		prop("wheel_y_offset", "${wheel_separation/2}")
	}
	b.WriteString("\n")
}

func writeMaterials(b *strings.Builder, cfg robot.Config) {
	b.WriteString("  <!-- Define Colors -->\n")
	palette := basePalette
	if cfg.DriveType == robot.DriveMecanum {
		palette = append(append([]material{}, basePalette...), mecanumPalette...)
	}
	for i, m := range palette {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "  <material name=\"%s\">\n", m.name)
		fmt.Fprintf(b, "    <color rgba=\"%s\"/>\n", m.rgba)
		b.WriteString("  </material>\n")
	}
	b.WriteString("\n")
}

func writeInertia(b *strings.Builder, t inertia.Tensor) {
	fmt.Fprintf(b, "      <inertia\n")
	fmt.Fprintf(b, "        ixx=\"%.6f\" ixy=\"%.6f\" ixz=\"%.6f\"\n", t.Ixx, t.Ixy, t.Ixz)
	fmt.Fprintf(b, "        iyy=\"%.6f\" iyz=\"%.6f\"\n", t.Iyy, t.Iyz)
	fmt.Fprintf(b, "        izz=\"%.6f\"/>\n", t.Izz)
}

func shapeElement(s *topology.Shape) string {
	if s.Kind == topology.ShapeCylinder {
		return fmt.Sprintf("<cylinder radius=\"%s\" length=\"%s\"/>", fnum(s.Radius), fnum(s.Length))
	}
	return fmt.Sprintf("<box size=\"%s %s %s\"/>", fnum(s.SizeX), fnum(s.SizeY), fnum(s.SizeZ))
}

func writeLink(b *strings.Builder, l topology.Link) {
	fmt.Fprintf(b, "  <link name=\"%s\">\n", l.Name)
	b.WriteString("    <inertial>\n")
	b.WriteString("      <origin xyz=\"0 0 0\" rpy=\"0 0 0\"/>\n")
	fmt.Fprintf(b, "      <mass value=\"%s\"/>\n", fnum(l.Mass))
	writeInertia(b, l.Inertia)
	b.WriteString("    </inertial>\n")

	if l.Shape != nil {
		rpy := fnum(l.VisualRoll) + " 0 0"
		geom := shapeElement(l.Shape)

		b.WriteString("    <visual>\n")
		fmt.Fprintf(b, "      <origin xyz=\"0 0 0\" rpy=\"%s\"/>\n", rpy)
		b.WriteString("      <geometry>\n")
		fmt.Fprintf(b, "        %s\n", geom)
		b.WriteString("      </geometry>\n")
		if l.Material != "" {
			fmt.Fprintf(b, "      <material name=\"%s\"/>\n", l.Material)
		}
		b.WriteString("    </visual>\n")
		b.WriteString("    <collision>\n")
		fmt.Fprintf(b, "      <origin xyz=\"0 0 0\" rpy=\"%s\"/>\n", rpy)
		b.WriteString("      <geometry>\n")
		fmt.Fprintf(b, "        %s\n", geom)
		b.WriteString("      </geometry>\n")
		b.WriteString("    </collision>\n")
	}
	b.WriteString("  </link>\n")
}

func writeJoint(b *strings.Builder, j topology.Joint) {
	fmt.Fprintf(b, "  <joint name=\"%s\" type=\"%s\">\n", j.Name, j.Type)
	fmt.Fprintf(b, "    <parent link=\"%s\"/>\n", j.Parent)
	fmt.Fprintf(b, "    <child link=\"%s\"/>\n", j.Child)
	fmt.Fprintf(b, "    <origin xyz=\"%s\" rpy=\"0 0 0\"/>\n", xyz(j.Origin))
	if j.Type != topology.JointFixed {
		fmt.Fprintf(b, "    <axis xyz=\"%s\"/>\n", xyz(j.Axis))
	}
	if j.Limit != nil {
		fmt.Fprintf(b, "    <limit lower=\"%s\" upper=\"%s\" effort=\"%s\" velocity=\"%s\"/>\n",
			fnum(j.Limit.Lower), fnum(j.Limit.Upper), fnum(j.Limit.Effort), fnum(j.Limit.Velocity))
	}
	b.WriteString("  </joint>\n")
}

// writeControl emits the ros2_control block: velocity interfaces for every
// driven (continuous) wheel joint and position interfaces for steering
// (revolute) joints, in graph order.
func writeControl(b *strings.Builder, cfg robot.Config, g *topology.Graph) {
	name := controlName(cfg.DriveType)
	hardwareClass := fmt.Sprintf("%s_hardware_interface/%sHardware", cfg.Name, capitalize(cfg.Name))

	b.WriteString("\n")
	fmt.Fprintf(b, "  <ros2_control name=\"%s\" type=\"system\">\n", name)
	b.WriteString("    <hardware>\n")
	fmt.Fprintf(b, "      <plugin>%s</plugin>\n", hardwareClass)
	b.WriteString("    </hardware>\n")
	for _, j := range g.Joints {
		switch j.Type {
		case topology.JointContinuous:
			b.WriteString("\n")
			fmt.Fprintf(b, "    <joint name=\"%s\">\n", j.Name)
			b.WriteString("      <command_interface name=\"velocity\"/>\n")
			b.WriteString("      <state_interface name=\"velocity\"/>\n")
			b.WriteString("      <state_interface name=\"position\"/>\n")
			b.WriteString("    </joint>\n")
		case topology.JointRevolute:
			b.WriteString("\n")
			fmt.Fprintf(b, "    <joint name=\"%s\">\n", j.Name)
			b.WriteString("      <command_interface name=\"position\"/>\n")
			b.WriteString("      <state_interface name=\"position\"/>\n")
			b.WriteString("    </joint>\n")
		}
	}
	b.WriteString("  </ros2_control>\n")
}

func controlName(d robot.DriveType) string {
	switch d {
	case robot.DriveMecanum:
		return "MecanumRobot"
	case robot.DriveAckermann:
		return "AckermannRobot"
	default:
		return "DifferentialRobot"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
