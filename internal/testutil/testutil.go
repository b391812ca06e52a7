// Package testutil provides shared test fixtures and helpers.
//
// The mesh constructors build small analytic meshes (cubes, quads) whose
// surfaces and distances are easy to reason about in assertions, and can
// be written to disk as OBJ files for loader-facing tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ismarou/extrinsic-contact/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// CubeMesh returns an axis-aligned cube of the given side length centred
// at the origin: 8 vertices, 12 triangles with outward winding.
func CubeMesh(side float64) *geom.Mesh {
	h := side / 2
	return &geom.Mesh{
		Vertices: []r3.Vec{
			{X: -h, Y: -h, Z: -h},
			{X: h, Y: -h, Z: -h},
			{X: h, Y: h, Z: -h},
			{X: -h, Y: h, Z: -h},
			{X: -h, Y: -h, Z: h},
			{X: h, Y: -h, Z: h},
			{X: h, Y: h, Z: h},
			{X: -h, Y: h, Z: h},
		},
		Triangles: [][3]int{
			{0, 2, 1}, {0, 3, 2}, // bottom (z = -h)
			{4, 5, 6}, {4, 6, 7}, // top (z = +h)
			{0, 1, 5}, {0, 5, 4}, // front (y = -h)
			{2, 3, 7}, {2, 7, 6}, // back (y = +h)
			{1, 2, 6}, {1, 6, 5}, // right (x = +h)
			{3, 0, 4}, {3, 4, 7}, // left (x = -h)
		},
	}
}

// QuadMesh returns a single unit quad (two triangles) in the z=0 plane
// spanning [0,1]x[0,1].
func QuadMesh() *geom.Mesh {
	return &geom.Mesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

// WriteMeshOBJ writes the mesh to a temp OBJ file under t.TempDir and
// returns its path.
func WriteMeshOBJ(t *testing.T, m *geom.Mesh, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := geom.SaveOBJ(path, m); err != nil {
		t.Fatalf("failed to write mesh %s: %v", name, err)
	}
	return path
}

// WriteFile writes contents to a temp file and returns its path.
func WriteFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// OnCubeSurface reports whether p lies on the surface of an axis-aligned
// origin-centred cube of the given side, within tol.
func OnCubeSurface(p r3.Vec, side, tol float64) bool {
	h := side / 2
	inside := func(v float64) bool { return v >= -h-tol && v <= h+tol }
	if !inside(p.X) || !inside(p.Y) || !inside(p.Z) {
		return false
	}
	onFace := func(v float64) bool {
		return v >= h-tol || v <= -h+tol
	}
	return onFace(p.X) || onFace(p.Y) || onFace(p.Z)
}
