package distfield

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestClosestPointOnTriangle(t *testing.T) {
	a := r3.Vec{X: 0, Y: 0, Z: 0}
	b := r3.Vec{X: 2, Y: 0, Z: 0}
	c := r3.Vec{X: 0, Y: 2, Z: 0}

	tests := []struct {
		name string
		p    r3.Vec
		want r3.Vec
	}{
		{"above interior projects to face", r3.Vec{X: 0.5, Y: 0.5, Z: 3}, r3.Vec{X: 0.5, Y: 0.5}},
		{"vertex region A", r3.Vec{X: -1, Y: -1, Z: 0}, a},
		{"vertex region B", r3.Vec{X: 5, Y: -1, Z: 0}, b},
		{"vertex region C", r3.Vec{X: -1, Y: 5, Z: 0}, c},
		{"edge AB", r3.Vec{X: 1, Y: -2, Z: 0}, r3.Vec{X: 1}},
		{"edge AC", r3.Vec{X: -2, Y: 1, Z: 0}, r3.Vec{Y: 1}},
		{"edge BC", r3.Vec{X: 2, Y: 2, Z: 0}, r3.Vec{X: 1, Y: 1}},
		{"on surface", r3.Vec{X: 0.25, Y: 0.25, Z: 0}, r3.Vec{X: 0.25, Y: 0.25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := closestPointOnTriangle(tt.p, a, b, c)
			if r3.Norm(r3.Sub(got, tt.want)) > 1e-12 {
				t.Errorf("closest(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDistSqPointAABB(t *testing.T) {
	min := r3.Vec{X: 0, Y: 0, Z: 0}
	max := r3.Vec{X: 1, Y: 1, Z: 1}

	tests := []struct {
		name string
		p    r3.Vec
		want float64
	}{
		{"inside", r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, 0},
		{"on face", r3.Vec{X: 1, Y: 0.5, Z: 0.5}, 0},
		{"outside one axis", r3.Vec{X: 3, Y: 0.5, Z: 0.5}, 4},
		{"outside corner", r3.Vec{X: 2, Y: 2, Z: 2}, 3},
		{"below", r3.Vec{X: 0.5, Y: -2, Z: 0.5}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := distSqPointAABB(tt.p, min, max); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("distSq(%+v) = %g, want %g", tt.p, got, tt.want)
			}
		})
	}
}
