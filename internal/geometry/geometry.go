// Package geometry derives frame offsets from primitive robot dimensions:
// where the chassis sits above the ground plane, where the wheel axles
// run, and where each wheel is placed for the selected drive type.
//
// All functions are pure; the resolved frame is recomputed from scratch on
// every generation request.
package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/robodesc/urdfgen/internal/robot"
)

// Axis identifies a body-frame coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Vec returns the unit vector for the axis.
func (a Axis) Vec() r3.Vec {
	switch a {
	case AxisX:
		return r3.Vec{X: 1}
	case AxisY:
		return r3.Vec{Y: 1}
	default:
		return r3.Vec{Z: 1}
	}
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "z"
	}
}

// WheelSpinAxis is the rotation axis of every wheel joint, in the wheel
// link frame. The inertia calculator places the cylinder's m*r^2/2 term on
// this axis and the topology builder emits it as the joint axis; the two
// must agree or the wheel gets the wrong spin inertia.
const WheelSpinAxis = AxisY

// WheelPlacement locates one wheel relative to the chassis origin.
// Steerable marks front wheels that hang off a steering joint
// (ackermann only).
type WheelPlacement struct {
	Name      string
	X         float64
	Y         float64
	Steerable bool
}

// Frame holds the derived vertical offsets and wheel placements for a
// configuration. Z values are absolute heights above the ground plane
// except WheelZ, which is the wheel joint origin relative to the chassis
// frame.
type Frame struct {
	ChassisZ     float64 // chassis centre above ground
	AxleZ        float64 // wheel axle height above ground
	WheelBottomZ float64 // lowest wheel surface; 0 means touching ground
	WheelZ       float64 // axle offset in the chassis frame
	Wheels       []WheelPlacement
}

// Resolve computes the frame offsets for cfg. It fails with a
// *robot.ConfigError when a field required by the selected drive type is
// absent.
func Resolve(cfg robot.Config) (Frame, error) {
	f := Frame{
		ChassisZ:     cfg.GroundClearance + cfg.Chassis.Height/2,
		AxleZ:        cfg.GroundClearance + cfg.Wheels.ZOffset,
		WheelBottomZ: cfg.GroundClearance + cfg.Wheels.ZOffset - cfg.Wheels.Radius,
	}
	f.WheelZ = f.AxleZ - f.ChassisZ

	switch cfg.DriveType {
	case robot.DriveDifferential:
		if cfg.Wheels.Separation <= 0 {
			return Frame{}, &robot.ConfigError{Field: "wheels.separation", Reason: "required for differential drive"}
		}
		half := cfg.Wheels.Separation / 2
		f.Wheels = []WheelPlacement{
			{Name: "left_wheel", X: 0, Y: half},
			{Name: "right_wheel", X: 0, Y: -half},
		}

	case robot.DriveMecanum, robot.DriveAckermann:
		if cfg.Wheels.SeparationLength <= 0 {
			return Frame{}, &robot.ConfigError{Field: "wheels.separationLength", Reason: fmt.Sprintf("required for %s drive", cfg.DriveType)}
		}
		if cfg.Wheels.SeparationWidth <= 0 {
			return Frame{}, &robot.ConfigError{Field: "wheels.separationWidth", Reason: fmt.Sprintf("required for %s drive", cfg.DriveType)}
		}
		halfL := cfg.Wheels.SeparationLength / 2
		halfW := cfg.Wheels.SeparationWidth / 2
		steer := cfg.DriveType == robot.DriveAckermann
		f.Wheels = []WheelPlacement{
			{Name: "front_left_wheel", X: halfL, Y: halfW, Steerable: steer},
			{Name: "front_right_wheel", X: halfL, Y: -halfW, Steerable: steer},
			{Name: "rear_left_wheel", X: -halfL, Y: halfW},
			{Name: "rear_right_wheel", X: -halfL, Y: -halfW},
		}

	default:
		return Frame{}, &robot.ConfigError{Field: "driveType", Reason: fmt.Sprintf("unrecognized drive type %q", string(cfg.DriveType))}
	}

	return f, nil
}
