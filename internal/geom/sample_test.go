package geom

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestSampleSurface_CountExact(t *testing.T) {
	m := unitQuad()
	rng := rand.New(rand.NewSource(1))
	for _, count := range []int{1, 7, 50, 500} {
		pts, err := SampleSurface(m, count, rng)
		if err != nil {
			t.Fatalf("count %d: %v", count, err)
		}
		if len(pts) != count {
			t.Errorf("count %d: got %d points", count, len(pts))
		}
	}
}

func TestSampleSurface_PointsOnSurface(t *testing.T) {
	m := unitQuad()
	rng := rand.New(rand.NewSource(2))
	pts, err := SampleSurface(m, 200, rng)
	if err != nil {
		t.Fatalf("SampleSurface: %v", err)
	}
	for i, p := range pts {
		if p.Z != 0 {
			t.Fatalf("point %d off plane: %+v", i, p)
		}
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			t.Fatalf("point %d outside quad: %+v", i, p)
		}
	}
}

func TestSampleSurface_AreaWeighted(t *testing.T) {
	// Two disjoint triangles, one with 9x the area of the other. The
	// sample counts should split roughly by area.
	m := &Mesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, // area 0.5
			{X: 10, Y: 0, Z: 0}, {X: 13, Y: 0, Z: 0}, {X: 10, Y: 3, Z: 0}, // area 4.5
		},
		Triangles: [][3]int{{0, 1, 2}, {3, 4, 5}},
	}
	rng := rand.New(rand.NewSource(3))
	pts, err := SampleSurface(m, 2000, rng)
	if err != nil {
		t.Fatalf("SampleSurface: %v", err)
	}
	var big int
	for _, p := range pts {
		if p.X >= 10 {
			big++
		}
	}
	frac := float64(big) / float64(len(pts))
	if math.Abs(frac-0.9) > 0.05 {
		t.Errorf("big triangle got fraction %.3f of samples, want ~0.9", frac)
	}
}

func TestSampleSurface_SeedDeterminism(t *testing.T) {
	m := unitQuad()
	a, err := SampleSurface(m, 25, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := SampleSurface(m, 25, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at point %d: %+v vs %+v", i, a[i], b[i])
		}
	}

	c, err := SampleSurface(m, 25, rand.New(rand.NewSource(43)))
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical samples")
	}
}

func TestSampleSurface_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	if _, err := SampleSurface(&Mesh{}, 10, rng); !errors.Is(err, ErrAssetLoad) {
		t.Errorf("empty mesh: got %v, want ErrAssetLoad", err)
	}

	if _, err := SampleSurface(unitQuad(), 0, rng); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("zero count: got %v, want ErrDimensionMismatch", err)
	}

	degenerate := &Mesh{
		Vertices:  []r3.Vec{{}, {X: 1}, {X: 2}},
		Triangles: [][3]int{{0, 1, 2}},
	}
	if _, err := SampleSurface(degenerate, 10, rng); !errors.Is(err, ErrAssetLoad) {
		t.Errorf("zero-area mesh: got %v, want ErrAssetLoad", err)
	}
}
