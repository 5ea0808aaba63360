package topology

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/robodesc/urdfgen/internal/geometry"
	"github.com/robodesc/urdfgen/internal/inertia"
	"github.com/robodesc/urdfgen/internal/robot"
)

const (
	// RootLinkName is the single root of every generated tree.
	RootLinkName = "base_link"
	// ChassisLinkName carries the chassis body and parents all wheels
	// and sensors.
	ChassisLinkName = "chassis_link"

	// WheelVisualRoll rotates the wheel cylinder geometry so its
	// symmetry axis lines up with geometry.WheelSpinAxis (+Y).
	WheelVisualRoll = 1.5708

	// Nominal inertial for frame-only links (base_link, steering
	// knuckles). Simulators reject massless links.
	frameLinkMass    = 0.1
	frameLinkInertia = 0.001
)

// Steering joint limits for ackermann front axles.
const (
	SteerLowerLimit = -0.6
	SteerUpperLimit = 0.6
	SteerEffort     = 5.0
	SteerVelocity   = 3.0
)

// Material names used by the builder. The serializer defines the palette.
const (
	MaterialChassis      = "green"
	MaterialWheel        = "grey"
	MaterialMecanumLeft  = "mecanum_left"
	MaterialMecanumRight = "mecanum_right"
)

// frameLinkTensor is the nominal inertia of frame-only links.
func frameLinkTensor() inertia.Tensor {
	return inertia.Tensor{Ixx: frameLinkInertia, Iyy: frameLinkInertia, Izz: frameLinkInertia}
}

// Build produces the kinematic tree for cfg: base_link and chassis, then
// the drive-type-specific wheel arrangement. Wheel joints rotate about
// geometry.WheelSpinAxis; ackermann front wheels hang off revolute
// steering knuckles, giving a two-level joint chain.
func Build(cfg robot.Config, frame geometry.Frame, chassisTensor, wheelTensor inertia.Tensor) (*Graph, error) {
	if !cfg.DriveType.Valid() {
		return nil, &robot.ConfigError{Field: "driveType", Reason: fmt.Sprintf("unrecognized drive type %q", string(cfg.DriveType))}
	}

	g := &Graph{
		RobotName: cfg.Name,
		DriveType: cfg.DriveType,
	}

	g.Links = append(g.Links, Link{
		Name:    RootLinkName,
		Mass:    frameLinkMass,
		Inertia: frameLinkTensor(),
	})

	g.Joints = append(g.Joints, Joint{
		Name:   "base_to_chassis",
		Type:   JointFixed,
		Parent: RootLinkName,
		Child:  ChassisLinkName,
		Origin: r3.Vec{Z: frame.ChassisZ},
	})
	g.Links = append(g.Links, Link{
		Name:     ChassisLinkName,
		Shape:    BoxShape(cfg.Chassis.Length, cfg.Chassis.Width, cfg.Chassis.Height),
		Mass:     cfg.Chassis.Mass,
		Inertia:  chassisTensor,
		Material: MaterialChassis,
	})

	spin := geometry.WheelSpinAxis.Vec()
	for _, p := range frame.Wheels {
		wheelParent := ChassisLinkName
		wheelOrigin := r3.Vec{X: p.X, Y: p.Y, Z: frame.WheelZ}

		if p.Steerable {
			steerName := strings.TrimSuffix(p.Name, "_wheel") + "_steer"
			g.Joints = append(g.Joints, Joint{
				Name:   steerName + "_joint",
				Type:   JointRevolute,
				Parent: ChassisLinkName,
				Child:  steerName,
				Origin: wheelOrigin,
				Axis:   geometry.AxisZ.Vec(),
				Limit: &JointLimit{
					Lower:    SteerLowerLimit,
					Upper:    SteerUpperLimit,
					Effort:   SteerEffort,
					Velocity: SteerVelocity,
				},
			})
			g.Links = append(g.Links, Link{
				Name:    steerName,
				Mass:    frameLinkMass,
				Inertia: frameLinkTensor(),
			})
			wheelParent = steerName
			wheelOrigin = r3.Vec{}
		}

		g.Joints = append(g.Joints, Joint{
			Name:   p.Name + "_joint",
			Type:   JointContinuous,
			Parent: wheelParent,
			Child:  p.Name,
			Origin: wheelOrigin,
			Axis:   spin,
		})
		g.Links = append(g.Links, Link{
			Name:       p.Name,
			Shape:      CylinderShape(cfg.Wheels.Radius, cfg.Wheels.Thickness),
			Mass:       cfg.Wheels.Mass,
			Inertia:    wheelTensor,
			Material:   wheelMaterial(cfg.DriveType, p),
			VisualRoll: WheelVisualRoll,
		})
	}

	return g, nil
}

// wheelMaterial tags mecanum wheels by side so downstream control
// descriptions can tell left and right roller chirality apart. Mecanum
// rollers are handed; a wheel mounted on the wrong side drives sideways.
func wheelMaterial(drive robot.DriveType, p geometry.WheelPlacement) string {
	if drive != robot.DriveMecanum {
		return MaterialWheel
	}
	if p.Y > 0 {
		return MaterialMecanumLeft
	}
	return MaterialMecanumRight
}
