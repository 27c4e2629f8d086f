// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "math"

// Vec2 represents a 2D point or displacement vector.
type Vec2 struct {
	X, Y float64
}

// V2 is a convenience function to create a Vec2.
//
// Parameters:
//   - x: the X component
//   - y: the Y component
//
// Returns:
//   - Vec2: the constructed vector
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vec2) Mul(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(w Vec2) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Length returns the Euclidean length of the vector.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the Euclidean distance between two points.
func (v Vec2) Distance(w Vec2) float64 {
	return math.Hypot(v.X-w.X, v.Y-w.Y)
}

// Angle returns the angle of the vector in degrees, measured counter-clockwise from +X.
func (v Vec2) Angle() float64 {
	return RadToDeg(math.Atan2(v.Y, v.X))
}

// Transform represents a decomposed 2D transform used for bone poses.
// Rotation is stored in degrees so authored keyframe values round-trip exactly.
type Transform struct {
	// X and Y are the translation components.
	X, Y float64

	// Rotation is the rotation in degrees, counter-clockwise.
	Rotation float64

	// ScaleX and ScaleY are the scale factors along each local axis.
	ScaleX, ScaleY float64
}

// IdentityTransform returns the identity transform (zero translation and rotation, unit scale).
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Matrix composes the transform into a 2D affine matrix (translate * rotate * scale).
//
// Returns:
//   - Matrix: the equivalent affine matrix
func (t Transform) Matrix() Matrix {
	cos := math.Cos(DegToRad(t.Rotation))
	sin := math.Sin(DegToRad(t.Rotation))
	return Matrix{
		A: cos * t.ScaleX, B: -sin * t.ScaleY, C: t.X,
		D: sin * t.ScaleX, E: cos * t.ScaleY, F: t.Y,
	}
}

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// IdentityMatrix returns the identity transformation matrix.
//
// Returns:
//   - Matrix: the identity matrix
func IdentityMatrix() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Multiply multiplies two matrices (m * other).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformVector applies the transformation to a vector (no translation).
func (m Matrix) TransformVector(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
//
// Returns:
//   - Matrix: the inverse, or identity if the matrix is singular
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 {
		return IdentityMatrix()
	}

	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}
