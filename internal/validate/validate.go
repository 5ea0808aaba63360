// Package validate runs plausibility and consistency rules over a
// resolved robot model. Rules are independent and always all run; the
// result is an accumulated, severity-tagged issue list. Error-severity
// issues block serialization, warnings accompany the output.
package validate

import (
	"gonum.org/v1/gonum/mat"

	"github.com/robodesc/urdfgen/internal/geometry"
	"github.com/robodesc/urdfgen/internal/report"
	"github.com/robodesc/urdfgen/internal/robot"
	"github.com/robodesc/urdfgen/internal/topology"
)

// GeometryEpsilon is the shared tolerance for geometric consistency
// checks, 1mm. The ground-contact rule fires when the wheel bottom
// deviates from the ground plane by more than this.
const GeometryEpsilon = 0.001

// Plausibility bounds for primitive dimensions, metres.
const (
	ChassisDimMin  = 0.05
	ChassisDimMax  = 3.0
	WheelRadiusMin = 0.005
	WheelRadiusMax = 0.5
)

// Check runs the full rule list over a composed model and returns every
// issue found. It never halts early.
func Check(cfg robot.Config, frame geometry.Frame, g *topology.Graph) []report.Issue {
	var issues []report.Issue
	issues = append(issues, StructuralIssues(cfg)...)
	issues = append(issues, groundContact(frame)...)
	issues = append(issues, chassisPlausibility(cfg.Chassis)...)
	issues = append(issues, wheelPlausibility(cfg.Wheels)...)
	issues = append(issues, separationVsChassis(cfg)...)
	if g != nil {
		issues = append(issues, inertiaConsistency(g)...)
		issues = append(issues, treeStructure(g)...)
	}
	return issues
}

// StructuralIssues accumulates every missing or non-positive required
// field as an error-severity issue. Unlike Config.Validate, which aborts
// on the first problem, this reports them all; it backs the
// validate-without-generating operation.
func StructuralIssues(cfg robot.Config) []report.Issue {
	var issues []report.Issue

	if cfg.Name == "" {
		issues = append(issues, report.Errorf("name", "robot name must not be empty"))
	}
	if !cfg.DriveType.Valid() {
		issues = append(issues, report.Errorf("driveType", "unrecognized drive type %q", string(cfg.DriveType)))
	}

	positives := []struct {
		field string
		value float64
	}{
		{"chassis.length", cfg.Chassis.Length},
		{"chassis.width", cfg.Chassis.Width},
		{"chassis.height", cfg.Chassis.Height},
		{"chassis.mass", cfg.Chassis.Mass},
		{"wheels.radius", cfg.Wheels.Radius},
		{"wheels.thickness", cfg.Wheels.Thickness},
		{"wheels.mass", cfg.Wheels.Mass},
	}
	for _, p := range positives {
		if p.value <= 0 {
			issues = append(issues, report.Errorf(p.field, "must be positive, got %g", p.value))
		}
	}
	if cfg.GroundClearance < 0 {
		issues = append(issues, report.Errorf("groundClearance", "must not be negative, got %g", cfg.GroundClearance))
	}
	if cfg.Wheels.ZOffset < 0 {
		issues = append(issues, report.Errorf("wheels.zOffset", "must not be negative, got %g", cfg.Wheels.ZOffset))
	}

	switch cfg.DriveType {
	case robot.DriveDifferential:
		if cfg.Wheels.Separation <= 0 {
			issues = append(issues, report.Errorf("wheels.separation", "required for differential drive"))
		}
	case robot.DriveMecanum, robot.DriveAckermann:
		if cfg.Wheels.SeparationLength <= 0 {
			issues = append(issues, report.Errorf("wheels.separationLength", "required for %s drive", cfg.DriveType))
		}
		if cfg.Wheels.SeparationWidth <= 0 {
			issues = append(issues, report.Errorf("wheels.separationWidth", "required for %s drive", cfg.DriveType))
		}
	}

	return issues
}

// groundContact warns when the wheel bottom misses the ground plane by
// more than GeometryEpsilon. A robot that fails this floats above or
// clips through the ground in simulation.
func groundContact(frame geometry.Frame) []report.Issue {
	if frame.WheelBottomZ > GeometryEpsilon || frame.WheelBottomZ < -GeometryEpsilon {
		return []report.Issue{report.Warningf("wheels.zOffset",
			"wheels don't touch the ground properly (wheel bottom at %.1fmm)", frame.WheelBottomZ*1000)}
	}
	return nil
}

func chassisPlausibility(c robot.Chassis) []report.Issue {
	var issues []report.Issue
	dims := []struct {
		field string
		value float64
	}{
		{"chassis.length", c.Length},
		{"chassis.width", c.Width},
		{"chassis.height", c.Height},
	}
	for _, d := range dims {
		if d.value > 0 && (d.value < ChassisDimMin || d.value > ChassisDimMax) {
			issues = append(issues, report.Warningf(d.field,
				"%g m is outside the plausible range [%g, %g] m", d.value, ChassisDimMin, ChassisDimMax))
		}
	}
	return issues
}

func wheelPlausibility(w robot.WheelSet) []report.Issue {
	if w.Radius > 0 && (w.Radius < WheelRadiusMin || w.Radius > WheelRadiusMax) {
		return []report.Issue{report.Warningf("wheels.radius",
			"%g m is outside the plausible range [%g, %g] m", w.Radius, WheelRadiusMin, WheelRadiusMax)}
	}
	return nil
}

// separationVsChassis warns when the wheel track or wheelbase extends
// beyond the chassis footprint.
func separationVsChassis(cfg robot.Config) []report.Issue {
	var issues []report.Issue
	switch cfg.DriveType {
	case robot.DriveDifferential:
		if cfg.Wheels.Separation > cfg.Chassis.Width {
			issues = append(issues, report.Warningf("wheels.separation",
				"wheel track (%g m) exceeds chassis width (%g m)", cfg.Wheels.Separation, cfg.Chassis.Width))
		}
	case robot.DriveMecanum, robot.DriveAckermann:
		if cfg.Wheels.SeparationWidth > cfg.Chassis.Width {
			issues = append(issues, report.Warningf("wheels.separationWidth",
				"wheel track (%g m) exceeds chassis width (%g m)", cfg.Wheels.SeparationWidth, cfg.Chassis.Width))
		}
		if cfg.Wheels.SeparationLength > cfg.Chassis.Length {
			issues = append(issues, report.Warningf("wheels.separationLength",
				"wheelbase (%g m) exceeds chassis length (%g m)", cfg.Wheels.SeparationLength, cfg.Chassis.Length))
		}
	}
	return issues
}

// inertiaConsistency verifies that every massive link carries a positive
// definite inertia tensor. A non-PD tensor means the calculator and the
// builder disagree about something fundamental, so it is error severity.
func inertiaConsistency(g *topology.Graph) []report.Issue {
	var issues []report.Issue
	for _, l := range g.Links {
		if l.Mass <= 0 {
			issues = append(issues, report.Errorf("", "link %q has non-positive mass %g", l.Name, l.Mass))
			continue
		}
		var es mat.EigenSym
		if !es.Factorize(l.Inertia.Sym(), false) {
			issues = append(issues, report.Errorf("", "link %q inertia tensor eigendecomposition failed", l.Name))
			continue
		}
		for _, ev := range es.Values(nil) {
			if ev <= 0 {
				issues = append(issues, report.Errorf("",
					"link %q inertia tensor is not positive definite (eigenvalue %g)", l.Name, ev))
				break
			}
		}
	}
	return issues
}

// treeStructure surfaces topology invariant violations as error issues.
func treeStructure(g *topology.Graph) []report.Issue {
	if err := g.Validate(); err != nil {
		return []report.Issue{report.Errorf("", "%s", err.Error())}
	}
	return nil
}
