package geom

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// LoadOBJ reads a Wavefront OBJ file and returns its triangle mesh.
// Only vertex positions and faces are consumed; normals, texture
// coordinates, groups and materials are ignored. Polygon faces are fan
// triangulated. Failures wrap ErrAssetLoad.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrAssetLoad, path, err)
	}
	defer f.Close()

	mesh, err := ReadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrAssetLoad, path, err)
	}
	return mesh, nil
}

// ReadOBJ parses OBJ text from r.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	mesh := &Mesh{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var coords [3]float64
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad vertex coordinate %q", lineNo, fields[i+1])
				}
				coords[i] = v
			}
			mesh.Vertices = append(mesh.Vertices, r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, spec := range fields[1:] {
				i, err := parseFaceIndex(spec, len(mesh.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %v", lineNo, err)
				}
				idx = append(idx, i)
			}
			// Fan triangulation for quads and larger polygons.
			for i := 1; i < len(idx)-1; i++ {
				mesh.Triangles = append(mesh.Triangles, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if mesh.IsEmpty() {
		return nil, fmt.Errorf("no triangles found")
	}
	return mesh, nil
}

// parseFaceIndex resolves a face vertex spec ("7", "7/2", "7/2/3" or
// "7//3") to a zero-based vertex index. Negative indices count back from
// the most recently defined vertex, per the OBJ format.
func parseFaceIndex(spec string, vertexCount int) (int, error) {
	if slash := strings.IndexByte(spec, '/'); slash >= 0 {
		spec = spec[:slash]
	}
	i, err := strconv.Atoi(spec)
	if err != nil {
		return 0, fmt.Errorf("bad face index %q", spec)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += vertexCount
	default:
		return 0, fmt.Errorf("face index must not be zero")
	}
	if i < 0 || i >= vertexCount {
		return 0, fmt.Errorf("face index %q out of range (have %d vertices)", spec, vertexCount)
	}
	return i, nil
}

// SaveOBJ writes the mesh to path in OBJ format.
func SaveOBJ(path string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteOBJ(f, m); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteOBJ writes the mesh to w in OBJ format.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices {
		if _, err := fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	for _, t := range m.Triangles {
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1); err != nil {
			return err
		}
	}
	return bw.Flush()
}
