// genmesh generates OBJ triangle meshes for the contact estimator from
// SDF solids: a plain box, a cylinder, or a socket block with a
// rectangular cavity. Solids are tessellated with marching cubes, so the
// output is watertight and suitable for distance-field indexing.
//
// Usage:
//
//	genmesh -shape box -size 0.1 -out cube.obj
//	genmesh -shape socket -size 0.1 -cavity 0.05 -out socket.obj
package main

import (
	"flag"
	"log"
	"os"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ismarou/extrinsic-contact/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// meshCells controls marching cubes resolution. High enough for clean
// millimetre-scale parts without producing huge files.
const meshCells = 100

func main() {
	var (
		shape  = flag.String("shape", "box", "shape to generate: box, cylinder, socket")
		size   = flag.Float64("size", 0.1, "characteristic size (box side / cylinder height, m)")
		radius = flag.Float64("radius", 0.02, "cylinder radius (m)")
		cavity = flag.Float64("cavity", 0.05, "socket cavity side (m)")
		out    = flag.String("out", "", "output OBJ path (required)")
	)
	flag.Parse()

	if *out == "" {
		flag.Usage()
		os.Exit(1)
	}

	solid, err := buildSolid(*shape, *size, *radius, *cavity)
	if err != nil {
		log.Fatalf("build solid: %v", err)
	}

	mesh := tessellate(solid)
	if err := geom.SaveOBJ(*out, mesh); err != nil {
		log.Fatalf("save mesh: %v", err)
	}
	log.Printf("wrote %s: %d vertices, %d triangles", *out, mesh.VertexCount(), mesh.TriangleCount())
}

func buildSolid(shape string, size, radius, cavity float64) (sdf.SDF3, error) {
	switch shape {
	case "box":
		return sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, 0)
	case "cylinder":
		return sdf.Cylinder3D(size, radius, 0)
	case "socket":
		block, err := sdf.Box3D(v3.Vec{X: size * 1.5, Y: size * 1.5, Z: size * 0.5}, 0)
		if err != nil {
			return nil, err
		}
		hole, err := sdf.Box3D(v3.Vec{X: cavity, Y: cavity, Z: size}, 0)
		if err != nil {
			return nil, err
		}
		// Sink the cavity into the block's top face.
		m := sdf.Translate3d(v3.Vec{Z: size * 0.25})
		return sdf.Difference3D(block, sdf.Transform3D(hole, m)), nil
	default:
		return nil, os.ErrInvalid
	}
}

// tessellate runs marching cubes and converts the triangle soup to a
// geom.Mesh. Vertices are emitted per-corner without welding.
func tessellate(s sdf.SDF3) *geom.Mesh {
	renderer := render.NewMarchingCubesUniform(meshCells)
	triangles := render.ToTriangles(s, renderer)

	mesh := &geom.Mesh{
		Vertices:  make([]r3.Vec, 0, len(triangles)*3),
		Triangles: make([][3]int, 0, len(triangles)),
	}
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			mesh.Vertices = append(mesh.Vertices, r3.Vec{X: v.X, Y: v.Y, Z: v.Z})
		}
		mesh.Triangles = append(mesh.Triangles, [3]int{i * 3, i*3 + 1, i*3 + 2})
	}
	return mesh
}
