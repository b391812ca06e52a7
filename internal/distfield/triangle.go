package distfield

import "gonum.org/v1/gonum/spatial/r3"

// closestPointOnTriangle returns the point on triangle abc closest to p,
// by classifying p against the triangle's Voronoi regions (vertex, edge,
// face) and projecting accordingly.
func closestPointOnTriangle(p, a, b, c r3.Vec) r3.Vec {
	ab := r3.Sub(b, a)
	ac := r3.Sub(c, a)
	ap := r3.Sub(p, a)

	d1 := r3.Dot(ab, ap)
	d2 := r3.Dot(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a // vertex region A
	}

	bp := r3.Sub(p, b)
	d3 := r3.Dot(ab, bp)
	d4 := r3.Dot(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b // vertex region B
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return r3.Add(a, r3.Scale(v, ab)) // edge region AB
	}

	cp := r3.Sub(p, c)
	d5 := r3.Dot(ab, cp)
	d6 := r3.Dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c // vertex region C
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return r3.Add(a, r3.Scale(w, ac)) // edge region AC
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return r3.Add(b, r3.Scale(w, r3.Sub(c, b))) // edge region BC
	}

	// Face region: project onto the triangle plane.
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return r3.Add(a, r3.Add(r3.Scale(v, ab), r3.Scale(w, ac)))
}

// distSqPointAABB returns the squared distance from p to the axis-aligned
// box [min,max]; zero when p is inside.
func distSqPointAABB(p, min, max r3.Vec) float64 {
	var d float64
	for _, axis := range [3][3]float64{
		{p.X, min.X, max.X},
		{p.Y, min.Y, max.Y},
		{p.Z, min.Z, max.Z},
	} {
		v, lo, hi := axis[0], axis[1], axis[2]
		if v < lo {
			d += (lo - v) * (lo - v)
		} else if v > hi {
			d += (v - hi) * (v - hi)
		}
	}
	return d
}
