package contact

import (
	"math"
	"testing"

	"github.com/ismarou/extrinsic-contact/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

func rotZ(angle float64) geom.Transform {
	return geom.RotationTransform(r3.NewRotation(angle, r3.Vec{Z: 1}))
}

func rotX(angle float64) geom.Transform {
	return geom.RotationTransform(r3.NewRotation(angle, r3.Vec{X: 1}))
}

func transformNear(t *testing.T, got, want geom.Transform, tol float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("transforms differ at element %d:\ngot  %v\nwant %v", i, got, want)
		}
	}
}

func TestEstimatePose_SamePoseGivesPrevRotation(t *testing.T) {
	prev := rotX(0.3).WithPosition(r3.Vec{X: 1, Y: 2, Z: 3})
	curr := prev
	got := EstimatePose(curr, prev)
	transformNear(t, got, prev, 1e-12)
}

func TestEstimatePose_IgnoresSpinAboutZ(t *testing.T) {
	// Two current poses sharing the same Z axis but differing by a spin
	// about it must produce identical tracked poses.
	prev := geom.Identity()
	tilt := rotX(0.4)
	spun := tilt.Mul(rotZ(1.1))

	a := EstimatePose(tilt, prev)
	b := EstimatePose(spun, prev)
	transformNear(t, b, a, 1e-12)
}

func TestEstimatePose_TracksTilt(t *testing.T) {
	// From identity, tilting by 0.4 rad about X must be recovered exactly:
	// the minimal rotation taking +Z to the tilted Z is that same tilt.
	got := EstimatePose(rotX(0.4), geom.Identity())
	transformNear(t, got, rotX(0.4), 1e-12)
}

func TestEstimatePose_PositionFromCurrent(t *testing.T) {
	curr := geom.Translation(r3.Vec{X: 5, Y: -1, Z: 2})
	prev := geom.Translation(r3.Vec{X: 0, Y: 0, Z: 9})
	got := EstimatePose(curr, prev)
	if p := got.Position(); r3.Norm(r3.Sub(p, r3.Vec{X: 5, Y: -1, Z: 2})) > 1e-12 {
		t.Errorf("position = %+v, want current pose position", p)
	}
}

func TestEstimatePose_AntiParallelFallsBackToIdentityDelta(t *testing.T) {
	// An exact 180-degree flip has a zero cross product: no unique minimal
	// rotation exists, so the previous rotation is carried unchanged.
	prev := geom.Identity()
	curr := geom.Transform{
		1, 0, 0, 0,
		0, -1, 0, 0,
		0, 0, -1, 0,
		0, 0, 0, 1,
	}
	got := EstimatePose(curr, prev)
	transformNear(t, got, geom.Identity(), 1e-12)
}

func TestEstimatePose_ZeroZAxisFallsBackToIdentityDelta(t *testing.T) {
	var curr geom.Transform // all zeros: degenerate, no Z direction
	prev := rotX(0.2)
	got := EstimatePose(curr, prev)
	transformNear(t, got, rotX(0.2).WithPosition(r3.Vec{}), 1e-12)
}

func TestEstimatePoseBatch_MatchesSingle(t *testing.T) {
	curr := []geom.Transform{rotX(0.1), rotZ(0.5), geom.Identity()}
	prev := []geom.Transform{geom.Identity(), rotX(0.2), rotX(0.3)}
	got := EstimatePoseBatch(curr, prev)
	if len(got) != 3 {
		t.Fatalf("batch length = %d", len(got))
	}
	for i := range got {
		transformNear(t, got[i], EstimatePose(curr[i], prev[i]), 0)
	}
}

func TestTracker_AccumulatesAcrossSteps(t *testing.T) {
	tr := NewTracker(1)
	if tr.Len() != 1 {
		t.Fatalf("Len = %d", tr.Len())
	}

	// First step tilts by 0.3 about X; from identity that is tracked as-is.
	step1 := tr.Update([]geom.Transform{rotX(0.3)})
	transformNear(t, step1[0], rotX(0.3), 1e-12)

	// Second step tilts further to 0.5; the delta composes onto step1.
	step2 := tr.Update([]geom.Transform{rotX(0.5)})
	transformNear(t, step2[0], rotX(0.5), 1e-9)
}

func TestTracker_SpinDoesNotLeakIntoState(t *testing.T) {
	tr := NewTracker(1)
	tr.Update([]geom.Transform{rotX(0.3).Mul(rotZ(2.0))})
	// Staying at the same tilt, regardless of spin, keeps the tracked
	// pose where it was.
	got := tr.Update([]geom.Transform{rotX(0.3).Mul(rotZ(-1.0))})
	transformNear(t, got[0], rotX(0.3), 1e-9)
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker(2)
	tr.Update([]geom.Transform{rotX(0.4), rotZ(0.4)})
	tr.Reset()
	got := tr.Update([]geom.Transform{geom.Identity(), geom.Identity()})
	transformNear(t, got[0], geom.Identity(), 1e-12)
	transformNear(t, got[1], geom.Identity(), 1e-12)
}

func TestTracker_SizeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on batch size mismatch")
		}
	}()
	NewTracker(2).Update([]geom.Transform{geom.Identity()})
}
