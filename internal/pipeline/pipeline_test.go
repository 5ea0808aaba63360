package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robodesc/urdfgen/internal/report"
	"github.com/robodesc/urdfgen/internal/robot"
)

// scenarioConfig is the shared base for the end-to-end scenarios: a small
// mecanum platform whose wheel track fits the chassis.
func scenarioConfig() robot.Config {
	cfg := robot.Default()
	cfg.Chassis.Width = 0.2
	return cfg
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("clean config yields a document with no issues", func(t *testing.T) {
		t.Parallel()
		res, err := Generate(scenarioConfig())
		require.NoError(t, err)
		assert.Empty(t, res.Issues)
		assert.False(t, res.HasErrors())
		assert.True(t, strings.HasPrefix(res.Document, "<?xml"))
	})

	t.Run("floating wheels warn but still generate", func(t *testing.T) {
		t.Parallel()
		cfg := scenarioConfig()
		cfg.GroundClearance = 0.015 // wheel bottom at -18mm

		res, err := Generate(cfg)
		require.NoError(t, err)
		assert.False(t, res.HasErrors())
		assert.NotEmpty(t, res.Document)

		require.Len(t, res.Issues, 1)
		assert.Equal(t, report.SeverityWarning, res.Issues[0].Severity)
		assert.Contains(t, res.Issues[0].Message, "ground")
	})

	t.Run("corrected z offset clears the warning", func(t *testing.T) {
		t.Parallel()
		cfg := scenarioConfig()
		cfg.GroundClearance = 0.015
		cfg.Wheels.ZOffset = 0.035 // 0.015 + 0.035 - 0.05 = 0

		res, err := Generate(cfg)
		require.NoError(t, err)
		assert.Empty(t, res.Issues)
	})

	t.Run("wide differential track warns", func(t *testing.T) {
		t.Parallel()
		cfg := scenarioConfig()
		cfg.DriveType = robot.DriveDifferential
		cfg.Chassis.Width = 0.145
		cfg.Wheels.Separation = 0.22

		res, err := Generate(cfg)
		require.NoError(t, err)
		assert.False(t, res.HasErrors())

		found := false
		for _, i := range res.Issues {
			if i.Field == "wheels.separation" {
				found = true
			}
		}
		assert.True(t, found, "expected a track-vs-chassis warning, got %v", res.Issues)
	})

	t.Run("zero chassis mass aborts with no document", func(t *testing.T) {
		t.Parallel()
		cfg := scenarioConfig()
		cfg.Chassis.Mass = 0

		res, err := Generate(cfg)
		assert.Nil(t, res)

		var ce *robot.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "chassis.mass", ce.Field)
	})

	t.Run("out-of-bounds sensor mount is reported", func(t *testing.T) {
		t.Parallel()
		cfg := scenarioConfig()
		cfg.Sensors.Lidar.Enabled = true
		cfg.Sensors.Lidar.X = 2.0

		res, err := Generate(cfg)
		require.NoError(t, err)
		assert.False(t, res.HasErrors())
		assert.NotEmpty(t, res.Document)

		found := false
		for _, i := range res.Issues {
			if i.Field == "sensors.lidar" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestGenerateAllDriveTypes(t *testing.T) {
	t.Parallel()

	for _, drive := range robot.DriveTypes {
		drive := drive
		t.Run(string(drive), func(t *testing.T) {
			t.Parallel()
			cfg := scenarioConfig()
			cfg.DriveType = drive

			res, err := Generate(cfg)
			require.NoError(t, err)
			assert.False(t, res.HasErrors())
			assert.NotEmpty(t, res.Document)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("clean config has no findings", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, Validate(scenarioConfig()))
	})

	t.Run("bad fields come back as accumulated errors", func(t *testing.T) {
		t.Parallel()
		cfg := scenarioConfig()
		cfg.Chassis.Mass = 0
		cfg.Wheels.Radius = 0

		issues := Validate(cfg)
		assert.True(t, report.HasErrors(issues))
		assert.GreaterOrEqual(t, len(issues), 2)
	})

	t.Run("geometry rules run once structure is clean", func(t *testing.T) {
		t.Parallel()
		cfg := scenarioConfig()
		cfg.GroundClearance = 0.015

		issues := Validate(cfg)
		assert.False(t, report.HasErrors(issues))
		require.Len(t, issues, 1)
		assert.Equal(t, report.SeverityWarning, issues[0].Severity)
	})

	t.Run("sensor bounds are checked without generating", func(t *testing.T) {
		t.Parallel()
		cfg := scenarioConfig()
		cfg.Sensors.Camera.Enabled = true
		cfg.Sensors.Camera.Y = 1.0

		issues := Validate(cfg)
		found := false
		for _, i := range issues {
			if i.Field == "sensors.camera" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

// Repeated generation of the same snapshot yields byte-identical output;
// the pipeline holds no state between calls.
func TestGenerateIsIdempotent(t *testing.T) {
	t.Parallel()
	cfg := scenarioConfig()
	cfg.Sensors.IMU.Enabled = true

	first, err := Generate(cfg)
	require.NoError(t, err)
	second, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, first.Document, second.Document)
}
