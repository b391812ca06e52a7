package distfield

import (
	"math"
	"sort"

	"github.com/ismarou/extrinsic-contact/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// bvhLeafSize is the maximum triangle count in a leaf node. Small leaves
// keep traversal pruning effective without bloating the node array.
const bvhLeafSize = 4

// bvhNode is one node of the bounding-volume hierarchy. Leaf nodes hold
// a [start,start+count) range into the field's triangle order; internal
// nodes reference their children by index and have count == 0.
type bvhNode struct {
	min, max    r3.Vec
	left, right int
	start       int
	count       int
}

// buildBVH constructs a hierarchy over the mesh triangles by recursive
// median split along the longest axis of the triangle centroids. It
// returns the node array (root at index 0) and the triangle ordering.
func buildBVH(mesh *geom.Mesh) (nodes []bvhNode, order []int) {
	n := mesh.TriangleCount()
	order = make([]int, n)
	centroids := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		order[i] = i
		a, b, c := mesh.TriangleVertices(i)
		centroids[i] = r3.Scale(1.0/3.0, r3.Add(a, r3.Add(b, c)))
	}

	b := &bvhBuilder{mesh: mesh, order: order, centroids: centroids}
	b.split(0, n)
	return b.nodes, order
}

type bvhBuilder struct {
	mesh      *geom.Mesh
	order     []int
	centroids []r3.Vec
	nodes     []bvhNode
}

// split builds the subtree covering order[start:end) and returns its
// node index.
func (b *bvhBuilder) split(start, end int) int {
	idx := len(b.nodes)
	node := bvhNode{start: start, count: end - start}
	node.min, node.max = b.bounds(start, end)
	b.nodes = append(b.nodes, node)

	if end-start <= bvhLeafSize {
		return idx
	}

	axis := longestAxis(node.min, node.max)
	seg := b.order[start:end]
	cen := b.centroids
	sort.Slice(seg, func(i, j int) bool {
		return axisValue(cen[seg[i]], axis) < axisValue(cen[seg[j]], axis)
	})

	mid := start + (end-start)/2
	left := b.split(start, mid)
	right := b.split(mid, end)

	b.nodes[idx].count = 0
	b.nodes[idx].left = left
	b.nodes[idx].right = right
	return idx
}

// bounds returns the AABB of the triangles in order[start:end).
func (b *bvhBuilder) bounds(start, end int) (min, max r3.Vec) {
	min = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, ti := range b.order[start:end] {
		va, vb, vc := b.mesh.TriangleVertices(ti)
		for _, v := range [3]r3.Vec{va, vb, vc} {
			min.X = math.Min(min.X, v.X)
			min.Y = math.Min(min.Y, v.Y)
			min.Z = math.Min(min.Z, v.Z)
			max.X = math.Max(max.X, v.X)
			max.Y = math.Max(max.Y, v.Y)
			max.Z = math.Max(max.Z, v.Z)
		}
	}
	return min, max
}

func longestAxis(min, max r3.Vec) int {
	dx, dy, dz := max.X-min.X, max.Y-min.Y, max.Z-min.Z
	if dx >= dy && dx >= dz {
		return 0
	}
	if dy >= dz {
		return 1
	}
	return 2
}

func axisValue(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
