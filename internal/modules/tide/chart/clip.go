package chart

type xy struct {
	x, y float64
}

type rect struct {
	xMin, xMax, yMin, yMax float64
}

func (r rect) contains(p xy) bool {
	return p.x >= r.xMin && p.x <= r.xMax && p.y >= r.yMin && p.y <= r.yMax
}

// clipToBox cuts the polyline through pts to box. Segments crossing an edge
// end at the interpolated crossing point, and every unbroken stretch inside
// the box is returned as its own run. Values are never moved, so a reading
// past the band leaves the plot instead of flattening against its edge.
func clipToBox(pts []xy, box rect) [][]xy {
	if len(pts) == 1 {
		if box.contains(pts[0]) {
			return [][]xy{{pts[0]}}
		}
		return nil
	}

	var runs [][]xy
	var cur []xy
	flush := func() {
		if len(cur) > 0 {
			runs = append(runs, cur)
		}
		cur = nil
	}

	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		t0, t1, ok := clipSegment(a, b, box)
		if !ok || t0 >= t1 {
			flush()
			continue
		}
		// t0 == 0 means the segment starts where the current run ends.
		if cur == nil || t0 > 0 {
			flush()
			cur = []xy{lerp(a, b, t0)}
		}
		cur = append(cur, lerp(a, b, t1))
		if t1 < 1 {
			flush()
		}
	}
	flush()
	return runs
}

// clipSegment is Liang-Barsky: it returns the parameter interval of a->b
// that lies inside box.
func clipSegment(a, b xy, box rect) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	dx, dy := b.x-a.x, b.y-a.y
	edges := [4]struct{ p, q float64 }{
		{-dx, a.x - box.xMin},
		{dx, box.xMax - a.x},
		{-dy, a.y - box.yMin},
		{dy, box.yMax - a.y},
	}
	for _, e := range edges {
		if e.p == 0 {
			if e.q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := e.q / e.p
		if e.p < 0 {
			if r > t1 {
				return 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return t0, t1, true
}

func lerp(a, b xy, t float64) xy {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	return xy{x: a.x + t*(b.x-a.x), y: a.y + t*(b.y-a.y)}
}
