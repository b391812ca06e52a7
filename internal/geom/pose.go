package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// minQuatNorm is the smallest quaternion norm accepted before
// normalisation; anything below it cannot encode an orientation.
const minQuatNorm = 1e-12

// Pose is a rigid-body pose: a position and a unit quaternion. Construct
// poses with NewPose so the unit-norm invariant is enforced in one place
// rather than at every call site.
type Pose struct {
	Position r3.Vec
	Rotation quat.Number
}

// NewPose builds a Pose from a position and a quaternion given in
// (x, y, z, w) component order, the order used on the simulation side.
// The quaternion is normalised; a near-zero norm is rejected.
func NewPose(position r3.Vec, x, y, z, w float64) (Pose, error) {
	q := quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
	n := quat.Abs(q)
	if n < minQuatNorm {
		return Pose{}, fmt.Errorf("%w: zero-norm quaternion", ErrInvalidPose)
	}
	return Pose{
		Position: position,
		Rotation: quat.Scale(1/n, q),
	}, nil
}

// MustPose is NewPose for statically known inputs; it panics on error.
func MustPose(position r3.Vec, x, y, z, w float64) Pose {
	p, err := NewPose(position, x, y, z, w)
	if err != nil {
		panic(err)
	}
	return p
}

// IdentityPose returns the pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rotation: quat.Number{Real: 1}}
}

// Quat returns the rotation in (x, y, z, w) component order.
func (p Pose) Quat() (x, y, z, w float64) {
	return p.Rotation.Imag, p.Rotation.Jmag, p.Rotation.Kmag, p.Rotation.Real
}

// Transform converts the pose to its 4x4 homogeneous matrix.
func (p Pose) Transform() Transform {
	t := RotationTransform(r3.Rotation(p.Rotation))
	return t.WithPosition(p.Position)
}

// PoseFromTransform recovers a Pose from a rigid transform. The rotation
// block is converted back to a quaternion with Shepperd's method, picking
// the numerically largest component as pivot. The result is defined up to
// quaternion sign.
func PoseFromTransform(t Transform) Pose {
	r00, r01, r02 := t[0], t[1], t[2]
	r10, r11, r12 := t[4], t[5], t[6]
	r20, r21, r22 := t[8], t[9], t[10]

	var q quat.Number
	trace := r00 + r11 + r22
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1.0) * 2
		q = quat.Number{
			Real: 0.25 * s,
			Imag: (r21 - r12) / s,
			Jmag: (r02 - r20) / s,
			Kmag: (r10 - r01) / s,
		}
	case r00 > r11 && r00 > r22:
		s := math.Sqrt(1.0+r00-r11-r22) * 2
		q = quat.Number{
			Real: (r21 - r12) / s,
			Imag: 0.25 * s,
			Jmag: (r01 + r10) / s,
			Kmag: (r02 + r20) / s,
		}
	case r11 > r22:
		s := math.Sqrt(1.0+r11-r00-r22) * 2
		q = quat.Number{
			Real: (r02 - r20) / s,
			Imag: (r01 + r10) / s,
			Jmag: 0.25 * s,
			Kmag: (r12 + r21) / s,
		}
	default:
		s := math.Sqrt(1.0+r22-r00-r11) * 2
		q = quat.Number{
			Real: (r10 - r01) / s,
			Imag: (r02 + r20) / s,
			Jmag: (r12 + r21) / s,
			Kmag: 0.25 * s,
		}
	}
	return Pose{
		Position: t.Position(),
		Rotation: quat.Scale(1/quat.Abs(q), q),
	}
}

// BatchTransforms converts a batch of poses to their 4x4 matrices.
func BatchTransforms(poses []Pose) []Transform {
	out := make([]Transform, len(poses))
	for i, p := range poses {
		out[i] = p.Transform()
	}
	return out
}
