// Package inertia computes mass moments of inertia for the primitive
// solids the generator emits: the box chassis and cylindrical wheels.
// Tensors are expressed in the body frame with principal axes aligned, so
// all off-diagonal terms are zero.
package inertia

import (
	"gonum.org/v1/gonum/mat"

	"github.com/robodesc/urdfgen/internal/geometry"
	"github.com/robodesc/urdfgen/internal/robot"
)

// Tensor is a symmetric 3x3 inertia tensor, kg*m^2.
type Tensor struct {
	Ixx, Ixy, Ixz float64
	Iyy, Iyz      float64
	Izz           float64
}

// Sym returns the tensor as a gonum symmetric matrix for numeric checks
// (eigenvalue tests in the validator).
func (t Tensor) Sym() *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		t.Ixx, t.Ixy, t.Ixz,
		t.Ixy, t.Iyy, t.Iyz,
		t.Ixz, t.Iyz, t.Izz,
	})
}

// Box computes the inertia tensor of a solid box of the given mass and
// edge lengths, about its centre. name prefixes the field in errors
// (e.g. "chassis").
func Box(name string, mass, length, width, height float64) (Tensor, error) {
	if mass <= 0 {
		return Tensor{}, &robot.ConfigError{Field: name + ".mass", Reason: "must be positive"}
	}
	if length <= 0 || width <= 0 || height <= 0 {
		return Tensor{}, &robot.ConfigError{Field: name, Reason: "all box dimensions must be positive"}
	}
	return Tensor{
		Ixx: mass / 12 * (width*width + height*height),
		Iyy: mass / 12 * (length*length + height*height),
		Izz: mass / 12 * (length*length + width*width),
	}, nil
}

// Cylinder computes the inertia tensor of a solid cylinder of the given
// mass, radius and length, about its centre, with its symmetry axis along
// spin. The wheel builder passes geometry.WheelSpinAxis here so the spin
// term lands on the same axis the joint rotates about.
func Cylinder(name string, mass, radius, length float64, spin geometry.Axis) (Tensor, error) {
	if mass <= 0 {
		return Tensor{}, &robot.ConfigError{Field: name + ".mass", Reason: "must be positive"}
	}
	if radius <= 0 || length <= 0 {
		return Tensor{}, &robot.ConfigError{Field: name, Reason: "radius and length must be positive"}
	}

	axial := mass * radius * radius / 2
	lateral := mass / 12 * (3*radius*radius + length*length)

	t := Tensor{Ixx: lateral, Iyy: lateral, Izz: lateral}
	switch spin {
	case geometry.AxisX:
		t.Ixx = axial
	case geometry.AxisY:
		t.Iyy = axial
	default:
		t.Izz = axial
	}
	return t, nil
}
