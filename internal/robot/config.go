// Package robot defines the robot configuration model: the immutable
// snapshot of chassis, wheel, drive-train and sensor parameters that one
// generation request operates on. Configs are value types; every request
// works on its own copy and nothing is mutated across requests.
package robot

import "fmt"

// DriveType selects the wheel/steering arrangement. It is a closed set:
// topology generation dispatches on it exactly once per request.
type DriveType string

const (
	DriveDifferential DriveType = "differential"
	DriveMecanum      DriveType = "mecanum"
	DriveAckermann    DriveType = "ackermann"
)

// DriveTypes lists all recognised drive types in presentation order.
var DriveTypes = []DriveType{DriveMecanum, DriveDifferential, DriveAckermann}

// Valid reports whether d is a recognised drive type.
func (d DriveType) Valid() bool {
	switch d {
	case DriveDifferential, DriveMecanum, DriveAckermann:
		return true
	}
	return false
}

// ConfigError reports a missing or out-of-domain configuration field.
// It is fatal: generation aborts before any geometry or inertia work.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// Chassis describes the box-shaped robot body. All values are metres and
// kilograms and must be strictly positive.
type Chassis struct {
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Mass   float64 `json:"mass" yaml:"mass"`
}

// WheelSet describes the wheels shared by all drive positions.
// SeparationLength/SeparationWidth apply to four-wheel drive types,
// Separation to differential drive. ZOffset is the axle height above the
// ground-clearance plane (the chassis underside).
type WheelSet struct {
	Radius           float64 `json:"radius" yaml:"radius"`
	Thickness        float64 `json:"thickness" yaml:"thickness"`
	Mass             float64 `json:"mass" yaml:"mass"`
	SeparationLength float64 `json:"separationLength,omitempty" yaml:"separationLength,omitempty"`
	SeparationWidth  float64 `json:"separationWidth,omitempty" yaml:"separationWidth,omitempty"`
	Separation       float64 `json:"separation,omitempty" yaml:"separation,omitempty"`
	ZOffset          float64 `json:"zOffset" yaml:"zOffset"`
}

// SensorMount is an optional sensor attachment point. The offset is
// relative to the chassis origin (chassis centre).
type SensorMount struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Z       float64 `json:"z" yaml:"z"`
}

// SensorSet holds the optional sensors a robot can carry.
type SensorSet struct {
	Lidar  SensorMount `json:"lidar" yaml:"lidar"`
	Camera SensorMount `json:"camera" yaml:"camera"`
	IMU    SensorMount `json:"imu" yaml:"imu"`
}

// Config is one robot configuration snapshot.
type Config struct {
	Name            string    `json:"name" yaml:"name"`
	DriveType       DriveType `json:"driveType" yaml:"driveType"`
	Chassis         Chassis   `json:"chassis" yaml:"chassis"`
	Wheels          WheelSet  `json:"wheels" yaml:"wheels"`
	GroundClearance float64   `json:"groundClearance" yaml:"groundClearance"`
	Sensors         SensorSet `json:"sensors" yaml:"sensors"`
}

// Default returns the reference configuration: a small mecanum platform
// with all sensors disabled.
func Default() Config {
	return Config{
		Name:      "meccabot",
		DriveType: DriveMecanum,
		Chassis: Chassis{
			Length: 0.275,
			Width:  0.145,
			Height: 0.125,
			Mass:   5.0,
		},
		Wheels: WheelSet{
			Radius:           0.050,
			Thickness:        0.03,
			Mass:             0.5,
			SeparationLength: 0.175,
			SeparationWidth:  0.175,
			Separation:       0.22,
			ZOffset:          0.017,
		},
		GroundClearance: 0.033,
		Sensors: SensorSet{
			Lidar:  SensorMount{X: -0.05, Y: 0.0, Z: 0.14},
			Camera: SensorMount{X: 0.1, Y: 0.0, Z: 0.1},
			IMU:    SensorMount{},
		},
	}
}

// Validate checks that every field required for the selected drive type is
// present and in domain. It returns the first problem as a *ConfigError;
// generation must not proceed past a failed Validate.
func (c Config) Validate() error {
	if c.Name == "" {
		return &ConfigError{Field: "name", Reason: "must not be empty"}
	}
	if !c.DriveType.Valid() {
		return &ConfigError{Field: "driveType", Reason: fmt.Sprintf("unrecognized drive type %q", string(c.DriveType))}
	}
	if c.Chassis.Length <= 0 {
		return &ConfigError{Field: "chassis.length", Reason: "must be positive"}
	}
	if c.Chassis.Width <= 0 {
		return &ConfigError{Field: "chassis.width", Reason: "must be positive"}
	}
	if c.Chassis.Height <= 0 {
		return &ConfigError{Field: "chassis.height", Reason: "must be positive"}
	}
	if c.Chassis.Mass <= 0 {
		return &ConfigError{Field: "chassis.mass", Reason: "must be positive"}
	}
	if c.Wheels.Radius <= 0 {
		return &ConfigError{Field: "wheels.radius", Reason: "must be positive"}
	}
	if c.Wheels.Thickness <= 0 {
		return &ConfigError{Field: "wheels.thickness", Reason: "must be positive"}
	}
	if c.Wheels.Mass <= 0 {
		return &ConfigError{Field: "wheels.mass", Reason: "must be positive"}
	}
	if c.GroundClearance < 0 {
		return &ConfigError{Field: "groundClearance", Reason: "must not be negative"}
	}
	if c.Wheels.ZOffset < 0 {
		return &ConfigError{Field: "wheels.zOffset", Reason: "must not be negative"}
	}
	switch c.DriveType {
	case DriveDifferential:
		if c.Wheels.Separation <= 0 {
			return &ConfigError{Field: "wheels.separation", Reason: "required for differential drive"}
		}
	case DriveMecanum, DriveAckermann:
		if c.Wheels.SeparationLength <= 0 {
			return &ConfigError{Field: "wheels.separationLength", Reason: fmt.Sprintf("required for %s drive", c.DriveType)}
		}
		if c.Wheels.SeparationWidth <= 0 {
			return &ConfigError{Field: "wheels.separationWidth", Reason: fmt.Sprintf("required for %s drive", c.DriveType)}
		}
	}
	return nil
}
