package urdf

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robodesc/urdfgen/internal/geometry"
	"github.com/robodesc/urdfgen/internal/inertia"
	"github.com/robodesc/urdfgen/internal/robot"
	"github.com/robodesc/urdfgen/internal/topology"
)

// renderFor runs the full model composition and serialization for cfg.
func renderFor(t *testing.T, cfg robot.Config) string {
	t.Helper()

	frame, err := geometry.Resolve(cfg)
	require.NoError(t, err)
	chassisTensor, err := inertia.Box("chassis", cfg.Chassis.Mass,
		cfg.Chassis.Length, cfg.Chassis.Width, cfg.Chassis.Height)
	require.NoError(t, err)
	wheelTensor, err := inertia.Cylinder("wheels", cfg.Wheels.Mass,
		cfg.Wheels.Radius, cfg.Wheels.Thickness, geometry.WheelSpinAxis)
	require.NoError(t, err)
	g, err := topology.Build(cfg, frame, chassisTensor, wheelTensor)
	require.NoError(t, err)
	topology.MountSensors(g, cfg)

	doc, err := Render(cfg, frame, g)
	require.NoError(t, err)
	return doc
}

func TestRenderDocumentShape(t *testing.T) {
	t.Parallel()
	cfg := robot.Default()
	doc := renderFor(t, cfg)

	assert.True(t, strings.HasPrefix(doc, "<?xml version=\"1.0\"?>\n"))
	assert.Contains(t, doc, `<robot xmlns:xacro="http://ros.org/wiki/xacro" name="meccabot_robot">`)
	assert.True(t, strings.HasSuffix(doc, "</robot>\n"))

	// Parameters reflect the config with exact values.
	assert.Contains(t, doc, `<xacro:property name="wheel_radius" value="0.05"/>`)
	assert.Contains(t, doc, `<xacro:property name="chassis_length" value="0.275"/>`)
	assert.Contains(t, doc, `<xacro:property name="wheel_separation_width" value="0.175"/>`)

	// Root link leads, wheels follow.
	rootIdx := strings.Index(doc, `<link name="base_link">`)
	wheelIdx := strings.Index(doc, `<link name="front_left_wheel">`)
	require.GreaterOrEqual(t, rootIdx, 0)
	require.GreaterOrEqual(t, wheelIdx, 0)
	assert.Less(t, rootIdx, wheelIdx)
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()
	cfg := robot.Default()
	cfg.Sensors.Lidar.Enabled = true
	cfg.Sensors.Camera.Enabled = true

	first := renderFor(t, cfg)
	second := renderFor(t, cfg)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated serialization differs (-first +second):\n%s", diff)
	}
}

func TestRenderPerDriveContent(t *testing.T) {
	t.Parallel()

	t.Run("differential includes gazebo control and separation", func(t *testing.T) {
		t.Parallel()
		cfg := robot.Default()
		cfg.DriveType = robot.DriveDifferential

		doc := renderFor(t, cfg)
		assert.Contains(t, doc, `<xacro:include filename="gazebo_control.xacro"/>`)
		assert.Contains(t, doc, `<xacro:property name="wheel_separation" value="0.22"/>`)
		assert.Contains(t, doc, `<ros2_control name="DifferentialRobot" type="system">`)
		assert.NotContains(t, doc, "mecanum_left")
	})

	t.Run("mecanum tags wheels by side", func(t *testing.T) {
		t.Parallel()
		doc := renderFor(t, robot.Default())

		assert.Contains(t, doc, `<material name="mecanum_left">`)
		assert.Contains(t, doc, `<material name="mecanum_right">`)
		assert.Contains(t, doc, `<ros2_control name="MecanumRobot" type="system">`)
		assert.NotContains(t, doc, "gazebo_control.xacro")
	})

	t.Run("ackermann emits steering joints with limits", func(t *testing.T) {
		t.Parallel()
		cfg := robot.Default()
		cfg.DriveType = robot.DriveAckermann

		doc := renderFor(t, cfg)
		assert.Contains(t, doc, `<joint name="front_left_steer_joint" type="revolute">`)
		assert.Contains(t, doc, `<limit lower="-0.6" upper="0.6" effort="5" velocity="3"/>`)
		assert.Contains(t, doc, `<ros2_control name="AckermannRobot" type="system">`)
		assert.Contains(t, doc, `<command_interface name="position"/>`)
	})
}

func TestRenderControlInterfaces(t *testing.T) {
	t.Parallel()
	doc := renderFor(t, robot.Default())

	assert.Contains(t, doc, `<plugin>meccabot_hardware_interface/MeccabotHardware</plugin>`)
	assert.Equal(t, 4, strings.Count(doc, `<command_interface name="velocity"/>`))
}

func TestRenderSensorLinks(t *testing.T) {
	t.Parallel()
	cfg := robot.Default()
	cfg.Sensors.Lidar.Enabled = true
	cfg.Sensors.IMU.Enabled = true

	doc := renderFor(t, cfg)
	assert.Contains(t, doc, `<link name="lidar_link">`)
	assert.Contains(t, doc, `<joint name="lidar_joint" type="fixed">`)
	assert.Contains(t, doc, `<link name="imu_link">`)
	assert.NotContains(t, doc, "camera_link")
}

func TestRenderRejectsBrokenGraph(t *testing.T) {
	t.Parallel()
	cfg := robot.Default()
	frame, err := geometry.Resolve(cfg)
	require.NoError(t, err)

	t.Run("nil graph", func(t *testing.T) {
		t.Parallel()
		_, err := Render(cfg, frame, nil)
		var se *SerializationError
		require.ErrorAs(t, err, &se)
	})

	t.Run("invalid tree", func(t *testing.T) {
		t.Parallel()
		g := &topology.Graph{
			Links: []topology.Link{{Name: "a"}, {Name: "a"}},
		}
		_, err := Render(cfg, frame, g)
		var se *SerializationError
		require.ErrorAs(t, err, &se)
		var ste *topology.StructuralError
		assert.ErrorAs(t, err, &ste)
	})
}

func TestFnum(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0.05, "0.05"},
		{0.275, "0.275"},
		{0, "0"},
		{-0.0455, "-0.0455"},
		{1.5708, "1.5708"},
	}
	for _, tt := range tests {
		if got := fnum(tt.value); got != tt.expected {
			t.Errorf("fnum(%v) = %q, want %q", tt.value, got, tt.expected)
		}
	}
}
