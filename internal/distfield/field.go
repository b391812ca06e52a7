// Package distfield answers nearest-surface-distance queries for batches
// of points against a triangle mesh. Build constructs a bounding-volume
// hierarchy once; queries then run in O(log T) expected time per point
// via branch-and-bound traversal, so the structure supports repeated
// per-step batch queries without rebuilding.
package distfield

import (
	"fmt"
	"math"

	"github.com/ismarou/extrinsic-contact/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Field is a distance-query structure over one triangle mesh. It is safe
// for concurrent readers; Rebuild must not run concurrently with queries
// (the owning component serialises that).
type Field struct {
	mesh  *geom.Mesh
	nodes []bvhNode
	order []int
}

// Build constructs a Field over a copy of the given mesh, so later
// mutation of the caller's mesh cannot desynchronise the hierarchy.
func Build(mesh *geom.Mesh) (*Field, error) {
	if mesh == nil || mesh.IsEmpty() {
		return nil, fmt.Errorf("%w: distance field needs a non-empty mesh", geom.ErrAssetLoad)
	}
	f := &Field{}
	f.rebuild(mesh)
	return f, nil
}

// Rebuild replaces the field's mesh and hierarchy entirely. No state
// from the previous mesh survives.
func (f *Field) Rebuild(mesh *geom.Mesh) error {
	if mesh == nil || mesh.IsEmpty() {
		return fmt.Errorf("%w: distance field needs a non-empty mesh", geom.ErrAssetLoad)
	}
	f.rebuild(mesh)
	return nil
}

func (f *Field) rebuild(mesh *geom.Mesh) {
	m := mesh.Copy()
	nodes, order := buildBVH(m)
	f.mesh = m
	f.nodes = nodes
	f.order = order
}

// TriangleCount returns the number of triangles in the indexed mesh.
func (f *Field) TriangleCount() int { return f.mesh.TriangleCount() }

// Nearest returns the closest point on the mesh surface to p and the
// unsigned Euclidean distance to it.
func (f *Field) Nearest(p r3.Vec) (r3.Vec, float64) {
	if len(f.nodes) == 0 {
		panic("distfield: query before Build")
	}

	best := math.Inf(1)
	var bestPoint r3.Vec

	// Explicit stack traversal, visiting the nearer child first so the
	// farther subtree is usually pruned by the AABB lower bound.
	stack := make([]int, 1, 64)
	stack[0] = 0
	for len(stack) > 0 {
		ni := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &f.nodes[ni]

		if distSqPointAABB(p, node.min, node.max) >= best {
			continue
		}

		if node.count > 0 {
			for _, ti := range f.order[node.start : node.start+node.count] {
				a, b, c := f.mesh.TriangleVertices(ti)
				q := closestPointOnTriangle(p, a, b, c)
				if d := r3.Norm2(r3.Sub(p, q)); d < best {
					best = d
					bestPoint = q
				}
			}
			continue
		}

		l, r := node.left, node.right
		dl := distSqPointAABB(p, f.nodes[l].min, f.nodes[l].max)
		dr := distSqPointAABB(p, f.nodes[r].min, f.nodes[r].max)
		if dl > dr {
			l, r = r, l
			dl, dr = dr, dl
		}
		if dr < best {
			stack = append(stack, r)
		}
		if dl < best {
			stack = append(stack, l)
		}
	}
	return bestPoint, math.Sqrt(best)
}

// NearestDistance returns, for each input point, the unsigned distance
// to the closest point on the mesh surface. Batches of any size are
// supported.
func (f *Field) NearestDistance(points []r3.Vec) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		_, out[i] = f.Nearest(p)
	}
	return out
}
