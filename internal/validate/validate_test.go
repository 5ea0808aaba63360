package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robodesc/urdfgen/internal/geometry"
	"github.com/robodesc/urdfgen/internal/inertia"
	"github.com/robodesc/urdfgen/internal/report"
	"github.com/robodesc/urdfgen/internal/robot"
	"github.com/robodesc/urdfgen/internal/topology"
)

// cleanConfig widens the default chassis so the wheel track fits inside
// it; the result passes every rule with no findings.
func cleanConfig() robot.Config {
	cfg := robot.Default()
	cfg.Chassis.Width = 0.2
	return cfg
}

func resolveFrame(t *testing.T, cfg robot.Config) geometry.Frame {
	t.Helper()
	frame, err := geometry.Resolve(cfg)
	require.NoError(t, err)
	return frame
}

func findIssue(issues []report.Issue, field string) (report.Issue, bool) {
	for _, i := range issues {
		if i.Field == field {
			return i, true
		}
	}
	return report.Issue{}, false
}

func TestGroundContact(t *testing.T) {
	t.Parallel()

	t.Run("wheel bottom off the ground warns", func(t *testing.T) {
		t.Parallel()
		cfg := robot.Default()
		cfg.GroundClearance = 0.015 // bottom at -18mm

		issues := Check(cfg, resolveFrame(t, cfg), nil)
		issue, ok := findIssue(issues, "wheels.zOffset")
		require.True(t, ok, "expected a ground-contact warning")
		assert.Equal(t, report.SeverityWarning, issue.Severity)
		assert.Contains(t, issue.Message, "-18.0mm")
	})

	t.Run("exact contact passes", func(t *testing.T) {
		t.Parallel()
		cfg := robot.Default()
		cfg.GroundClearance = 0.015
		cfg.Wheels.ZOffset = 0.035 // 0.015 + 0.035 - 0.05 = 0

		issues := Check(cfg, resolveFrame(t, cfg), nil)
		_, ok := findIssue(issues, "wheels.zOffset")
		assert.False(t, ok)
	})

	t.Run("sub-epsilon deviation passes", func(t *testing.T) {
		t.Parallel()
		cfg := robot.Default()
		cfg.GroundClearance = 0.033 + GeometryEpsilon/2

		issues := Check(cfg, resolveFrame(t, cfg), nil)
		_, ok := findIssue(issues, "wheels.zOffset")
		assert.False(t, ok)
	})
}

func TestPlausibilityBounds(t *testing.T) {
	t.Parallel()

	t.Run("tiny chassis warns", func(t *testing.T) {
		t.Parallel()
		cfg := robot.Default()
		cfg.Chassis.Height = 0.01

		issues := Check(cfg, resolveFrame(t, cfg), nil)
		issue, ok := findIssue(issues, "chassis.height")
		require.True(t, ok)
		assert.Equal(t, report.SeverityWarning, issue.Severity)
	})

	t.Run("huge wheel warns", func(t *testing.T) {
		t.Parallel()
		cfg := robot.Default()
		cfg.Wheels.Radius = 0.8

		issues := Check(cfg, resolveFrame(t, cfg), nil)
		_, ok := findIssue(issues, "wheels.radius")
		assert.True(t, ok)
	})
}

func TestSeparationVsChassis(t *testing.T) {
	t.Parallel()

	t.Run("differential track wider than chassis warns", func(t *testing.T) {
		t.Parallel()
		cfg := robot.Default()
		cfg.DriveType = robot.DriveDifferential
		cfg.Wheels.Separation = 0.22 // chassis width 0.145

		issues := Check(cfg, resolveFrame(t, cfg), nil)
		issue, ok := findIssue(issues, "wheels.separation")
		require.True(t, ok)
		assert.Equal(t, report.SeverityWarning, issue.Severity)
		assert.Contains(t, issue.Message, "exceeds chassis width")
	})

	t.Run("wheelbase within chassis passes", func(t *testing.T) {
		t.Parallel()
		cfg := robot.Default()
		cfg.Chassis.Width = 0.2 // wider than the 0.175 track

		issues := Check(cfg, resolveFrame(t, cfg), nil)
		_, ok := findIssue(issues, "wheels.separationWidth")
		assert.False(t, ok)
		_, ok = findIssue(issues, "wheels.separationLength")
		assert.False(t, ok)
	})
}

func TestStructuralIssuesAccumulate(t *testing.T) {
	t.Parallel()

	cfg := robot.Config{} // everything missing

	issues := StructuralIssues(cfg)
	assert.True(t, report.HasErrors(issues))
	// Name, drive type and all seven positive dimension fields at least.
	assert.GreaterOrEqual(t, len(issues), 9)

	for _, field := range []string{"name", "driveType", "chassis.mass", "wheels.radius"} {
		_, ok := findIssue(issues, field)
		assert.True(t, ok, "missing issue for %s", field)
	}
}

func TestInertiaConsistency(t *testing.T) {
	t.Parallel()

	t.Run("well-formed links pass", func(t *testing.T) {
		t.Parallel()
		tensor, err := inertia.Box("chassis", 5, 0.275, 0.145, 0.125)
		require.NoError(t, err)
		g := &topology.Graph{
			Links: []topology.Link{
				{Name: topology.RootLinkName, Mass: 0.1, Inertia: inertia.Tensor{Ixx: 0.001, Iyy: 0.001, Izz: 0.001}},
				{Name: topology.ChassisLinkName, Mass: 5, Inertia: tensor},
			},
			Joints: []topology.Joint{
				{Name: "base_to_chassis", Type: topology.JointFixed, Parent: topology.RootLinkName, Child: topology.ChassisLinkName},
			},
		}

		assert.Empty(t, Check(cleanConfig(), resolveFrame(t, cleanConfig()), g))
	})

	t.Run("non-positive-definite tensor is an error", func(t *testing.T) {
		t.Parallel()
		g := &topology.Graph{
			Links: []topology.Link{
				{Name: topology.RootLinkName, Mass: 0.1, Inertia: inertia.Tensor{Ixx: -1, Iyy: 1, Izz: 1}},
			},
		}

		issues := Check(cleanConfig(), resolveFrame(t, cleanConfig()), g)
		require.NotEmpty(t, issues)
		assert.True(t, report.HasErrors(issues))
	})

	t.Run("massless link is an error", func(t *testing.T) {
		t.Parallel()
		g := &topology.Graph{
			Links: []topology.Link{{Name: topology.RootLinkName, Mass: 0}},
		}

		issues := Check(cleanConfig(), resolveFrame(t, cleanConfig()), g)
		assert.True(t, report.HasErrors(issues))
	})
}

func TestTreeStructureRule(t *testing.T) {
	t.Parallel()

	g := &topology.Graph{
		Links: []topology.Link{
			{Name: topology.RootLinkName, Mass: 0.1, Inertia: inertia.Tensor{Ixx: 0.001, Iyy: 0.001, Izz: 0.001}},
			{Name: "wheel", Mass: 0.5, Inertia: inertia.Tensor{Ixx: 0.001, Iyy: 0.001, Izz: 0.001}},
			{Name: "wheel"}, // duplicate
		},
	}

	issues := Check(cleanConfig(), resolveFrame(t, cleanConfig()), g)
	assert.True(t, report.HasErrors(issues))
}
