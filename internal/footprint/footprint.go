// Package footprint renders a top-down view of the robot's ground plan:
// chassis outline, wheel contact patches and sensor mount positions. The
// plot is the quickest way to spot a track width or wheelbase that
// doesn't match the chassis before the robot ever reaches a simulator.
package footprint

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/robodesc/urdfgen/internal/geometry"
	"github.com/robodesc/urdfgen/internal/robot"
)

var (
	chassisColor = color.RGBA{R: 40, G: 160, B: 60, A: 255}
	wheelColor   = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	sensorColor  = color.RGBA{R: 200, G: 40, B: 40, A: 255}
)

// Render writes a top-view footprint plot for cfg to path. The output
// format follows the file extension (.png, .svg, .pdf).
func Render(cfg robot.Config, frame geometry.Frame, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s footprint (%s)", cfg.Name, cfg.DriveType)
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.Add(plotter.NewGrid())

	chassis, err := rectangle(0, 0, cfg.Chassis.Length, cfg.Chassis.Width, chassisColor, vg.Points(2))
	if err != nil {
		return fmt.Errorf("failed to plot chassis outline: %w", err)
	}
	p.Add(chassis)
	p.Legend.Add("chassis", chassis)

	// Wheel contact patches: diameter along x, thickness along y.
	for i, wp := range frame.Wheels {
		wheel, err := rectangle(wp.X, wp.Y, 2*cfg.Wheels.Radius, cfg.Wheels.Thickness, wheelColor, vg.Points(1))
		if err != nil {
			return fmt.Errorf("failed to plot wheel %s: %w", wp.Name, err)
		}
		p.Add(wheel)
		if i == 0 {
			p.Legend.Add("wheels", wheel)
		}
	}

	if pts := sensorPoints(cfg.Sensors); len(pts) > 0 {
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("failed to plot sensors: %w", err)
		}
		scatter.GlyphStyle.Color = sensorColor
		scatter.GlyphStyle.Radius = vg.Points(4)
		p.Add(scatter)
		p.Legend.Add("sensors", scatter)
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save footprint plot: %w", err)
	}
	return nil
}

// rectangle builds a closed outline centred at (cx, cy).
func rectangle(cx, cy, width, height float64, c color.Color, lw vg.Length) (*plotter.Line, error) {
	halfW := width / 2
	halfH := height / 2
	pts := plotter.XYs{
		{X: cx - halfW, Y: cy - halfH},
		{X: cx + halfW, Y: cy - halfH},
		{X: cx + halfW, Y: cy + halfH},
		{X: cx - halfW, Y: cy + halfH},
		{X: cx - halfW, Y: cy - halfH},
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = lw
	return line, nil
}

func sensorPoints(s robot.SensorSet) plotter.XYs {
	var pts plotter.XYs
	for _, m := range []robot.SensorMount{s.Lidar, s.Camera, s.IMU} {
		if m.Enabled {
			pts = append(pts, plotter.XY{X: m.X, Y: m.Y})
		}
	}
	return pts
}
