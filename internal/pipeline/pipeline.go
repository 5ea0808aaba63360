// Package pipeline runs one generation pass: configuration in, document
// and validation report out. Each call works on its own immutable config
// snapshot and holds no state between invocations, so concurrent callers
// need no synchronization.
package pipeline

import (
	"github.com/robodesc/urdfgen/internal/geometry"
	"github.com/robodesc/urdfgen/internal/inertia"
	"github.com/robodesc/urdfgen/internal/report"
	"github.com/robodesc/urdfgen/internal/robot"
	"github.com/robodesc/urdfgen/internal/topology"
	"github.com/robodesc/urdfgen/internal/urdf"
	"github.com/robodesc/urdfgen/internal/validate"
)

// Result is the outcome of one generation pass. Document is empty when
// the issue list contains errors: a request either yields (document,
// warnings) or (no document, errors), never partial output.
type Result struct {
	Document string         `json:"document,omitempty"`
	Issues   []report.Issue `json:"issues"`
}

// HasErrors reports whether generation was blocked by error-severity
// issues.
func (r *Result) HasErrors() bool {
	return report.HasErrors(r.Issues)
}

// Generate runs the full pipeline over cfg. Missing or out-of-domain
// required fields abort immediately with a *robot.ConfigError before any
// geometry or inertia work; plausibility findings are collected into the
// result without aborting.
func Generate(cfg robot.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	frame, err := geometry.Resolve(cfg)
	if err != nil {
		return nil, err
	}

	chassisTensor, err := inertia.Box("chassis", cfg.Chassis.Mass,
		cfg.Chassis.Length, cfg.Chassis.Width, cfg.Chassis.Height)
	if err != nil {
		return nil, err
	}
	wheelTensor, err := inertia.Cylinder("wheels", cfg.Wheels.Mass,
		cfg.Wheels.Radius, cfg.Wheels.Thickness, geometry.WheelSpinAxis)
	if err != nil {
		return nil, err
	}

	graph, err := topology.Build(cfg, frame, chassisTensor, wheelTensor)
	if err != nil {
		return nil, err
	}
	issues := topology.MountSensors(graph, cfg)
	issues = append(issues, validate.Check(cfg, frame, graph)...)

	res := &Result{Issues: issues}
	if res.HasErrors() {
		return res, nil
	}

	doc, err := urdf.Render(cfg, frame, graph)
	if err != nil {
		// Unreachable after a clean validation pass; surface it as an
		// internal failure rather than a user-facing issue.
		return nil, err
	}
	res.Document = doc
	return res, nil
}

// Validate runs the rule set over cfg without generating a document.
// Unlike Generate it never aborts on bad fields: structural problems come
// back as error-severity issues. Geometry-dependent rules only run once
// the structural pass is clean, since they need resolvable offsets.
func Validate(cfg robot.Config) []report.Issue {
	issues := validate.StructuralIssues(cfg)
	if report.HasErrors(issues) {
		return issues
	}

	frame, err := geometry.Resolve(cfg)
	if err != nil {
		if ce, ok := err.(*robot.ConfigError); ok {
			return append(issues, report.Errorf(ce.Field, "%s", ce.Reason))
		}
		return append(issues, report.Errorf("", "%s", err.Error()))
	}

	// Sensor mount checks run against a scratch graph; only the issue
	// list is kept.
	scratch := &topology.Graph{}
	issues = append(issues, topology.MountSensors(scratch, cfg)...)
	issues = append(issues, validate.Check(cfg, frame, nil)...)
	return issues
}
