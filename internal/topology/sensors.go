package topology

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/robodesc/urdfgen/internal/report"
	"github.com/robodesc/urdfgen/internal/robot"
)

// SensorMountMargin expands the chassis bounding box before the mount
// plausibility check. Sensors commonly overhang the chassis edge a little
// (bumper cameras, mast lidars), so the box is grown by 50% per
// half-extent before an offset is flagged.
const SensorMountMargin = 1.5

// sensorSpec fixes the geometry, material and nominal mass for each
// sensor class.
type sensorSpec struct {
	key      string // config field name
	link     string
	shape    *Shape
	material string
	mass     float64
}

// sensorSpecs is iterated in declaration order so sensor links always
// serialize in the same sequence.
func sensorSpecs(s robot.SensorSet) []struct {
	spec  sensorSpec
	mount robot.SensorMount
} {
	return []struct {
		spec  sensorSpec
		mount robot.SensorMount
	}{
		{sensorSpec{key: "lidar", link: "lidar_link", shape: CylinderShape(0.04, 0.05), material: "red", mass: 0.1}, s.Lidar},
		{sensorSpec{key: "camera", link: "camera_link", shape: BoxShape(0.025, 0.05, 0.015), material: "blue", mass: 0.05}, s.Camera},
		{sensorSpec{key: "imu", link: "imu_link", shape: BoxShape(0.02, 0.02, 0.01), material: "orange", mass: 0.01}, s.IMU},
	}
}

// MountSensors attaches a fixed joint from the chassis link to a new link
// for each enabled sensor, at the configured offset relative to the
// chassis origin. Offsets outside the chassis bounding box (expanded by
// SensorMountMargin) produce warning-severity issues; mounting never
// fails.
func MountSensors(g *Graph, cfg robot.Config) []report.Issue {
	var issues []report.Issue

	for _, entry := range sensorSpecs(cfg.Sensors) {
		if !entry.mount.Enabled {
			continue
		}
		spec := entry.spec
		m := entry.mount

		g.Joints = append(g.Joints, Joint{
			Name:   spec.key + "_joint",
			Type:   JointFixed,
			Parent: ChassisLinkName,
			Child:  spec.link,
			Origin: r3.Vec{X: m.X, Y: m.Y, Z: m.Z},
		})
		g.Links = append(g.Links, Link{
			Name:     spec.link,
			Shape:    spec.shape,
			Mass:     spec.mass,
			Inertia:  frameLinkTensor(),
			Material: spec.material,
		})

		if issue, ok := checkMountBounds(spec.key, m, cfg.Chassis); !ok {
			issues = append(issues, issue)
		}
	}

	return issues
}

// checkMountBounds flags mount offsets outside the expanded chassis box.
func checkMountBounds(key string, m robot.SensorMount, c robot.Chassis) (report.Issue, bool) {
	limX := c.Length / 2 * SensorMountMargin
	limY := c.Width / 2 * SensorMountMargin
	limZ := c.Height / 2 * SensorMountMargin

	var off []string
	if math.Abs(m.X) > limX {
		off = append(off, fmt.Sprintf("x=%.3fm exceeds ±%.3fm", m.X, limX))
	}
	if math.Abs(m.Y) > limY {
		off = append(off, fmt.Sprintf("y=%.3fm exceeds ±%.3fm", m.Y, limY))
	}
	if math.Abs(m.Z) > limZ {
		off = append(off, fmt.Sprintf("z=%.3fm exceeds ±%.3fm", m.Z, limZ))
	}
	if len(off) == 0 {
		return report.Issue{}, true
	}
	field := "sensors." + key
	return report.Warningf(field, "%s mount is outside the chassis bounds: %s", key, joinAnd(off)), false
}

func joinAnd(parts []string) string {
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		out := ""
		for i, p := range parts {
			if i == len(parts)-1 {
				out += "and " + p
			} else {
				out += p + ", "
			}
		}
		return out
	}
}
