package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RigidTolerance is the tolerance used when checking that a transform's
// rotation block is a proper rotation.
const RigidTolerance = 0.01

// Transform is a 4x4 homogeneous transform in row-major order:
// m00,m01,m02,m03, m10,... Rotation occupies the upper-left 3x3 block,
// translation the last column, and the bottom row is [0 0 0 1].
type Transform [16]float64

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a pure translation transform.
func Translation(offset r3.Vec) Transform {
	t := Identity()
	t[3], t[7], t[11] = offset.X, offset.Y, offset.Z
	return t
}

// RotationTransform builds a transform whose rotation block applies r
// and whose translation is zero. The columns of the rotation block are
// the images of the basis vectors under r.
func RotationTransform(r r3.Rotation) Transform {
	cx := r.Rotate(r3.Vec{X: 1})
	cy := r.Rotate(r3.Vec{Y: 1})
	cz := r.Rotate(r3.Vec{Z: 1})
	return Transform{
		cx.X, cy.X, cz.X, 0,
		cx.Y, cy.Y, cz.Y, 0,
		cx.Z, cy.Z, cz.Z, 0,
		0, 0, 0, 1,
	}
}

// Mul returns the composition t*o (o applied first).
func (t Transform) Mul(o Transform) Transform {
	var out Transform
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += t[row*4+k] * o[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// Apply transforms a single point.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: t[0]*p.X + t[1]*p.Y + t[2]*p.Z + t[3],
		Y: t[4]*p.X + t[5]*p.Y + t[6]*p.Z + t[7],
		Z: t[8]*p.X + t[9]*p.Y + t[10]*p.Z + t[11],
	}
}

// ApplyAll transforms every point, returning a fresh slice.
func (t Transform) ApplyAll(points []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = t.Apply(p)
	}
	return out
}

// ApplyBatch applies each of the N transforms to the shared point set,
// returning an NxP slice of transformed points. It is pure: neither
// input is modified. N and P may vary independently.
func ApplyBatch(transforms []Transform, points []r3.Vec) [][]r3.Vec {
	out := make([][]r3.Vec, len(transforms))
	for i, t := range transforms {
		out[i] = t.ApplyAll(points)
	}
	return out
}

// Position returns the translation column.
func (t Transform) Position() r3.Vec {
	return r3.Vec{X: t[3], Y: t[7], Z: t[11]}
}

// ZAxis returns the third column of the rotation block: the direction
// the local Z axis points in the parent frame.
func (t Transform) ZAxis() r3.Vec {
	return r3.Vec{X: t[2], Y: t[6], Z: t[10]}
}

// WithPosition returns a copy of t with the translation column replaced.
func (t Transform) WithPosition(p r3.Vec) Transform {
	t[3], t[7], t[11] = p.X, p.Y, p.Z
	return t
}

// RotationOnly returns a copy of t with the translation column zeroed.
func (t Transform) RotationOnly() Transform {
	t[3], t[7], t[11] = 0, 0, 0
	return t
}

// IsRigid checks that t is a valid rigid transform: the rotation block
// has determinant ~1 (proper rotation, not a reflection or scale) and
// the bottom row is [0 0 0 1].
func (t Transform) IsRigid() bool {
	r00, r01, r02 := t[0], t[1], t[2]
	r10, r11, r12 := t[4], t[5], t[6]
	r20, r21, r22 := t[8], t[9], t[10]

	det := r00*(r11*r22-r12*r21) - r01*(r10*r22-r12*r20) + r02*(r10*r21-r11*r20)
	if math.Abs(det-1.0) > RigidTolerance {
		return false
	}
	if t[12] != 0 || t[13] != 0 || t[14] != 0 || math.Abs(t[15]-1.0) > 0.001 {
		return false
	}
	return true
}

// String implements fmt.Stringer for debugging.
func (t Transform) String() string {
	return fmt.Sprintf("[%g %g %g %g; %g %g %g %g; %g %g %g %g; %g %g %g %g]",
		t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7],
		t[8], t[9], t[10], t[11], t[12], t[13], t[14], t[15])
}
