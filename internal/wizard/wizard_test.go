package wizard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robodesc/urdfgen/internal/robot"
)

// script joins one answer per prompt, in prompt order.
func script(answers ...string) *strings.Reader {
	return strings.NewReader(strings.Join(answers, "\n") + "\n")
}

func TestRunKeepsDefaultsOnEmptyInput(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	// Mecanum prompts: name, drive, 4 chassis fields, 4 wheel fields,
	// 2 separations, 3 sensors.
	cfg, err := Run(script("", "", "", "", "", "", "", "", "", "", "", "", "", "", ""), &out, robot.Default())
	require.NoError(t, err)

	assert.Equal(t, robot.Default(), cfg)
	assert.Contains(t, out.String(), "Interactive Mode")
}

func TestRunEditsFields(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	answers := script(
		"rover", // name
		"2",     // differential
		"0.4",   // length
		"0.3",   // width
		"0.15",  // height
		"6",     // mass
		"0.06",  // radius
		"0.025", // thickness
		"0.04",  // ground clearance
		"0.02",  // z offset
		"0.33",  // separation (differential)
		"y",     // lidar
		"n",     // camera
		"Y",     // imu, case-insensitive
	)

	cfg, err := Run(answers, &out, robot.Default())
	require.NoError(t, err)

	assert.Equal(t, "rover", cfg.Name)
	assert.Equal(t, robot.DriveDifferential, cfg.DriveType)
	assert.Equal(t, 0.4, cfg.Chassis.Length)
	assert.Equal(t, 6.0, cfg.Chassis.Mass)
	assert.Equal(t, 0.33, cfg.Wheels.Separation)
	assert.True(t, cfg.Sensors.Lidar.Enabled)
	assert.False(t, cfg.Sensors.Camera.Enabled)
	assert.True(t, cfg.Sensors.IMU.Enabled)
}

func TestRunRejectsBadInput(t *testing.T) {
	t.Parallel()

	t.Run("unknown drive choice", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		_, err := Run(script("rover", "9"), &out, robot.Default())
		var ce *robot.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "driveType", ce.Field)
	})

	t.Run("non-numeric dimension", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		_, err := Run(script("rover", "1", "wide"), &out, robot.Default())
		var ce *robot.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "chassis.length", ce.Field)
	})

	t.Run("result is validated", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		// Zero out the chassis mass; everything else keeps the default.
		answers := script("", "", "", "", "", "0", "", "", "", "", "", "", "", "", "")
		_, err := Run(answers, &out, robot.Default())
		var ce *robot.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "chassis.mass", ce.Field)
	})
}

func TestRunDoesNotMutateBase(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	base := robot.Default()

	_, err := Run(script("changed", "", "", "", "", "", "", "", "", "", "", "", "", "", ""), &out, base)
	require.NoError(t, err)
	assert.Equal(t, robot.Default(), base)
}
