package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is a triangle mesh: vertex positions plus triangle vertex indices.
// A Mesh is treated as immutable once constructed; Scaled and Translated
// return fresh copies with the derived vertex data, so an original can be
// kept around as a pristine base for later rebuilds.
type Mesh struct {
	Vertices  []r3.Vec
	Triangles [][3]int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Triangles) }

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 || len(m.Triangles) == 0 }

// Copy returns a deep copy of the mesh.
func (m *Mesh) Copy() *Mesh {
	out := &Mesh{
		Vertices:  make([]r3.Vec, len(m.Vertices)),
		Triangles: make([][3]int, len(m.Triangles)),
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Triangles, m.Triangles)
	return out
}

// Scaled returns a copy of the mesh with every vertex multiplied
// component-wise by scale. Pass equal components for uniform scaling.
func (m *Mesh) Scaled(scale r3.Vec) *Mesh {
	out := m.Copy()
	for i, v := range out.Vertices {
		out.Vertices[i] = r3.Vec{X: v.X * scale.X, Y: v.Y * scale.Y, Z: v.Z * scale.Z}
	}
	return out
}

// UniformScaled returns a copy of the mesh scaled uniformly by s.
func (m *Mesh) UniformScaled(s float64) *Mesh {
	return m.Scaled(r3.Vec{X: s, Y: s, Z: s})
}

// Translated returns a copy of the mesh with offset added to every vertex.
func (m *Mesh) Translated(offset r3.Vec) *Mesh {
	out := m.Copy()
	for i, v := range out.Vertices {
		out.Vertices[i] = r3.Add(v, offset)
	}
	return out
}

// TriangleVertices returns the three corner positions of triangle i.
func (m *Mesh) TriangleVertices(i int) (a, b, c r3.Vec) {
	t := m.Triangles[i]
	return m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
}

// TriangleArea returns the area of triangle i. Degenerate triangles
// yield zero.
func (m *Mesh) TriangleArea(i int) float64 {
	a, b, c := m.TriangleVertices(i)
	cross := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	return 0.5 * r3.Norm(cross)
}

// SurfaceArea returns the total area of all triangles.
func (m *Mesh) SurfaceArea() float64 {
	var sum float64
	for i := range m.Triangles {
		sum += m.TriangleArea(i)
	}
	return sum
}

// Bounds returns the axis-aligned bounding box of the mesh. An empty
// mesh returns zero vectors.
func (m *Mesh) Bounds() (min, max r3.Vec) {
	if len(m.Vertices) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	min = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range m.Vertices {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max
}
