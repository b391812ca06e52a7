package contact

import (
	"math"

	"github.com/ismarou/extrinsic-contact/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// cosIdentityTol is the tolerance under which two Z directions are
// treated as already aligned. Within it the cross product is too small
// to normalise safely, so the delta rotation is the identity.
const cosIdentityTol = 1e-8

// EstimatePose produces a pose that tracks curr but is invariant to spin
// about the previous frame's local Z axis. Only the tilt of the Z axis
// is carried from curr: the delta rotation aligning prev's Z direction
// to curr's Z direction (minimal axis-angle rotation) is composed onto
// prev's rotation, and the position is taken directly from curr.
//
// Degenerate geometry is a designed fallback, not an error: when the Z
// directions are (anti-)parallel the cross product has zero norm and the
// delta is the identity rather than a NaN-producing normalisation.
func EstimatePose(curr, prev geom.Transform) geom.Transform {
	currZ := unitOrZero(curr.ZAxis())
	prevZ := prev.ZAxis()

	delta := geom.Identity()
	cosDist := clamp(r3.Dot(prevZ, currZ), -1, 1)
	if math.Abs(cosDist-1) > cosIdentityTol {
		axis := r3.Cross(prevZ, currZ)
		if n := r3.Norm(axis); n > 0 {
			angle := math.Acos(cosDist)
			delta = geom.RotationTransform(r3.NewRotation(angle, axis))
		}
	}

	tracked := delta.Mul(prev.RotationOnly())
	return tracked.WithPosition(curr.Position())
}

// EstimatePoseBatch is the batched form of EstimatePose, applying the
// identity fallback per instance. The two slices must be equal length.
func EstimatePoseBatch(curr, prev []geom.Transform) []geom.Transform {
	out := make([]geom.Transform, len(curr))
	for i := range curr {
		out[i] = EstimatePose(curr[i], prev[i])
	}
	return out
}

// Tracker carries the previous tracked pose per instance across steps.
// Before the first update the previous poses are identity transforms.
type Tracker struct {
	prev []geom.Transform
}

// NewTracker returns a tracker for n parallel instances.
func NewTracker(n int) *Tracker {
	t := &Tracker{prev: make([]geom.Transform, n)}
	t.Reset()
	return t
}

// Reset restores every previous pose to the identity transform.
func (t *Tracker) Reset() {
	for i := range t.prev {
		t.prev[i] = geom.Identity()
	}
}

// Len returns the instance count the tracker was built for.
func (t *Tracker) Len() int { return len(t.prev) }

// Update advances the tracker with the current raw poses and returns the
// tracked poses, which also become the next step's previous poses.
func (t *Tracker) Update(curr []geom.Transform) []geom.Transform {
	if len(curr) != len(t.prev) {
		panic("contact: tracker batch size mismatch")
	}
	t.prev = EstimatePoseBatch(curr, t.prev)
	out := make([]geom.Transform, len(t.prev))
	copy(out, t.prev)
	return out
}

func unitOrZero(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return v
	}
	return r3.Scale(1/n, v)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
