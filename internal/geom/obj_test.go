package geom

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const triangleOBJ = `# simple triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func writeTempOBJ(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mesh.obj")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write temp obj: %v", err)
	}
	return path
}

func TestLoadOBJ_Triangle(t *testing.T) {
	m, err := LoadOBJ(writeTempOBJ(t, triangleOBJ))
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Errorf("got %d vertices / %d triangles, want 3/1", m.VertexCount(), m.TriangleCount())
	}
	if m.Triangles[0] != [3]int{0, 1, 2} {
		t.Errorf("triangle indices = %v", m.Triangles[0])
	}
}

func TestLoadOBJ_MissingFile(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "nope.obj"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, ErrAssetLoad) {
		t.Errorf("error %v should wrap ErrAssetLoad", err)
	}
}

func TestLoadOBJ_Empty(t *testing.T) {
	_, err := LoadOBJ(writeTempOBJ(t, "# nothing here\n"))
	if !errors.Is(err, ErrAssetLoad) {
		t.Errorf("empty file: error %v should wrap ErrAssetLoad", err)
	}
}

func TestReadOBJ_QuadTriangulation(t *testing.T) {
	obj := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	m, err := ReadOBJ(strings.NewReader(obj))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Fatalf("quad should fan into 2 triangles, got %d", m.TriangleCount())
	}
	if m.Triangles[0] != [3]int{0, 1, 2} || m.Triangles[1] != [3]int{0, 2, 3} {
		t.Errorf("fan triangulation = %v", m.Triangles)
	}
}

func TestReadOBJ_FaceSpecVariants(t *testing.T) {
	obj := `v 0 0 0
v 1 0 0
v 0 1 0
f 1/10/20 2//5 -1
`
	m, err := ReadOBJ(strings.NewReader(obj))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if m.Triangles[0] != [3]int{0, 1, 2} {
		t.Errorf("triangle = %v, want [0 1 2]", m.Triangles[0])
	}
}

func TestReadOBJ_BadInput(t *testing.T) {
	tests := []struct {
		name string
		obj  string
	}{
		{"bad coordinate", "v 0 zero 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"},
		{"face index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"zero face index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"short vertex", "v 0 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadOBJ(strings.NewReader(tt.obj)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestWriteOBJ_RoundTrip(t *testing.T) {
	m1, err := ReadOBJ(strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, m1); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	m2, err := ReadOBJ(&buf)
	if err != nil {
		t.Fatalf("ReadOBJ round trip: %v", err)
	}

	if diff := cmp.Diff(m1, m2); diff != "" {
		t.Errorf("round trip mismatch (-wrote +read):\n%s", diff)
	}
}
