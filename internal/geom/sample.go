package geom

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// SampleSurface draws count points from the mesh surface, distributed
// approximately uniformly by area: a triangle is chosen with probability
// proportional to its area, then a point is placed uniformly inside it
// via barycentric coordinates. Exactly count points are returned.
//
// The caller supplies the randomness source; pass a seeded rand for
// reproducible output or a time-seeded one for the production default.
func SampleSurface(m *Mesh, count int, rng *rand.Rand) ([]r3.Vec, error) {
	if m.IsEmpty() {
		return nil, fmt.Errorf("%w: cannot sample empty mesh", ErrAssetLoad)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: sample count must be positive, got %d", ErrDimensionMismatch, count)
	}

	// Cumulative area table; triangle selection is a binary search into it.
	cum := make([]float64, m.TriangleCount())
	var total float64
	for i := range m.Triangles {
		total += m.TriangleArea(i)
		cum[i] = total
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: mesh has zero surface area", ErrAssetLoad)
	}

	points := make([]r3.Vec, count)
	for i := range points {
		tri := sort.SearchFloat64s(cum, rng.Float64()*total)
		if tri == len(cum) {
			tri--
		}
		points[i] = randomPointInTriangle(m, tri, rng)
	}
	return points, nil
}

// randomPointInTriangle places a point uniformly inside triangle tri
// using the reflected-parallelogram barycentric trick.
func randomPointInTriangle(m *Mesh, tri int, rng *rand.Rand) r3.Vec {
	a, b, c := m.TriangleVertices(tri)
	u := rng.Float64()
	v := rng.Float64()
	if u+v > 1 {
		u, v = 1-u, 1-v
	}
	return r3.Add(a, r3.Add(r3.Scale(u, r3.Sub(b, a)), r3.Scale(v, r3.Sub(c, a))))
}
