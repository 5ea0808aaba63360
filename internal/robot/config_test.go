package robot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriveTypeValid(t *testing.T) {
	tests := []struct {
		name     string
		drive    DriveType
		expected bool
	}{
		{"differential", DriveDifferential, true},
		{"mecanum", DriveMecanum, true},
		{"ackermann", DriveAckermann, true},
		{"empty", DriveType(""), false},
		{"unknown", DriveType("tank"), false},
		{"case sensitive", DriveType("Mecanum"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.drive.Valid(); got != tt.expected {
				t.Errorf("Valid(%q) = %v, want %v", tt.drive, got, tt.expected)
			}
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "meccabot", cfg.Name)
	assert.Equal(t, DriveMecanum, cfg.DriveType)
}

func TestValidateRejectsBadFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"empty name", func(c *Config) { c.Name = "" }, "name"},
		{"unknown drive", func(c *Config) { c.DriveType = "hover" }, "driveType"},
		{"zero chassis length", func(c *Config) { c.Chassis.Length = 0 }, "chassis.length"},
		{"negative chassis width", func(c *Config) { c.Chassis.Width = -0.1 }, "chassis.width"},
		{"zero chassis height", func(c *Config) { c.Chassis.Height = 0 }, "chassis.height"},
		{"zero chassis mass", func(c *Config) { c.Chassis.Mass = 0 }, "chassis.mass"},
		{"zero wheel radius", func(c *Config) { c.Wheels.Radius = 0 }, "wheels.radius"},
		{"zero wheel thickness", func(c *Config) { c.Wheels.Thickness = 0 }, "wheels.thickness"},
		{"zero wheel mass", func(c *Config) { c.Wheels.Mass = 0 }, "wheels.mass"},
		{"negative ground clearance", func(c *Config) { c.GroundClearance = -0.01 }, "groundClearance"},
		{"negative z offset", func(c *Config) { c.Wheels.ZOffset = -0.01 }, "wheels.zOffset"},
		{"mecanum without separation length", func(c *Config) { c.Wheels.SeparationLength = 0 }, "wheels.separationLength"},
		{"mecanum without separation width", func(c *Config) { c.Wheels.SeparationWidth = 0 }, "wheels.separationWidth"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantField, ce.Field)
		})
	}
}

func TestValidateDifferentialRequiresSeparation(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.DriveType = DriveDifferential
	cfg.Wheels.Separation = 0

	err := cfg.Validate()
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "wheels.separation", ce.Field)

	cfg.Wheels.Separation = 0.22
	// Differential drive ignores the four-wheel separations entirely.
	cfg.Wheels.SeparationLength = 0
	cfg.Wheels.SeparationWidth = 0
	assert.NoError(t, cfg.Validate())
}

func TestConfigErrorMessage(t *testing.T) {
	t.Parallel()
	err := &ConfigError{Field: "chassis.mass", Reason: "must be positive"}
	assert.Equal(t, "invalid config: chassis.mass: must be positive", err.Error())
}
