// Package wizard walks a user through building a robot configuration at a
// terminal. Prompts are written to out and answers read from in, so tests
// can script a full session.
package wizard

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robodesc/urdfgen/internal/robot"
)

// Run prompts for every configurable field, starting from base. Empty
// answers keep the base value. The edited copy is returned; base is never
// modified.
func Run(in io.Reader, out io.Writer, base robot.Config) (robot.Config, error) {
	w := &wizard{scanner: bufio.NewScanner(in), out: out}
	cfg := base

	fmt.Fprintf(out, "=== URDF Generator - Interactive Mode ===\n\n")

	if name := w.prompt("Robot name [%s]: ", cfg.Name); name != "" {
		cfg.Name = name
	}

	fmt.Fprintf(out, "\nDrive Types:\n")
	fmt.Fprintf(out, "1. Mecanum Drive (4 wheels)\n")
	fmt.Fprintf(out, "2. Differential Drive (2 wheels)\n")
	fmt.Fprintf(out, "3. Ackermann Steering (4 wheels)\n")
	if choice := w.prompt("Select drive type [1]: "); choice != "" {
		switch choice {
		case "1":
			cfg.DriveType = robot.DriveMecanum
		case "2":
			cfg.DriveType = robot.DriveDifferential
		case "3":
			cfg.DriveType = robot.DriveAckermann
		default:
			return robot.Config{}, &robot.ConfigError{Field: "driveType", Reason: fmt.Sprintf("unknown choice %q", choice)}
		}
	}

	fmt.Fprintf(out, "\nChassis Dimensions (current: %gm x %gm x %gm)\n",
		cfg.Chassis.Length, cfg.Chassis.Width, cfg.Chassis.Height)
	if err := w.promptFloat("Length (m) [%g]: ", "chassis.length", &cfg.Chassis.Length); err != nil {
		return robot.Config{}, err
	}
	if err := w.promptFloat("Width (m) [%g]: ", "chassis.width", &cfg.Chassis.Width); err != nil {
		return robot.Config{}, err
	}
	if err := w.promptFloat("Height (m) [%g]: ", "chassis.height", &cfg.Chassis.Height); err != nil {
		return robot.Config{}, err
	}
	if err := w.promptFloat("Chassis mass (kg) [%g]: ", "chassis.mass", &cfg.Chassis.Mass); err != nil {
		return robot.Config{}, err
	}

	fmt.Fprintf(out, "\nWheel Configuration:\n")
	fmt.Fprintf(out, "Current: radius=%gm, thickness=%gm\n", cfg.Wheels.Radius, cfg.Wheels.Thickness)
	fmt.Fprintf(out, "Ground clearance: %gm, Wheel Z-offset: %gm\n", cfg.GroundClearance, cfg.Wheels.ZOffset)
	if err := w.promptFloat("Wheel radius (m) [%g]: ", "wheels.radius", &cfg.Wheels.Radius); err != nil {
		return robot.Config{}, err
	}
	if err := w.promptFloat("Wheel thickness (m) [%g]: ", "wheels.thickness", &cfg.Wheels.Thickness); err != nil {
		return robot.Config{}, err
	}
	if err := w.promptFloat("Ground clearance (m) [%g]: ", "groundClearance", &cfg.GroundClearance); err != nil {
		return robot.Config{}, err
	}
	if err := w.promptFloat("Wheel Z-offset above chassis bottom (m) [%g]: ", "wheels.zOffset", &cfg.Wheels.ZOffset); err != nil {
		return robot.Config{}, err
	}

	switch cfg.DriveType {
	case robot.DriveDifferential:
		if err := w.promptFloat("Wheel separation (m) [%g]: ", "wheels.separation", &cfg.Wheels.Separation); err != nil {
			return robot.Config{}, err
		}
	case robot.DriveMecanum, robot.DriveAckermann:
		if err := w.promptFloat("Wheel separation length (m) [%g]: ", "wheels.separationLength", &cfg.Wheels.SeparationLength); err != nil {
			return robot.Config{}, err
		}
		if err := w.promptFloat("Wheel separation width (m) [%g]: ", "wheels.separationWidth", &cfg.Wheels.SeparationWidth); err != nil {
			return robot.Config{}, err
		}
	}

	fmt.Fprintf(out, "\nSensors:\n")
	cfg.Sensors.Lidar.Enabled = w.promptYesNo("Include LiDAR? (y/n) [n]: ")
	cfg.Sensors.Camera.Enabled = w.promptYesNo("Include camera? (y/n) [n]: ")
	cfg.Sensors.IMU.Enabled = w.promptYesNo("Include IMU? (y/n) [n]: ")

	if err := cfg.Validate(); err != nil {
		return robot.Config{}, err
	}
	return cfg, nil
}

type wizard struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (w *wizard) prompt(format string, args ...interface{}) string {
	fmt.Fprintf(w.out, format, args...)
	if !w.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(w.scanner.Text())
}

// promptFloat shows the current value as the default and overwrites it
// when the user types a parseable number.
func (w *wizard) promptFloat(format, field string, value *float64) error {
	answer := w.prompt(format, *value)
	if answer == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return &robot.ConfigError{Field: field, Reason: fmt.Sprintf("not a number: %q", answer)}
	}
	*value = parsed
	return nil
}

func (w *wizard) promptYesNo(format string) bool {
	return strings.EqualFold(w.prompt(format), "y")
}
