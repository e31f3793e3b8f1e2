package road

import "github.com/cityproc/citygen/pkg/geom"

// IntersectionKind classifies an endpoint shared by accepted roads.
type IntersectionKind string

const (
	// KindNormal is an endpoint touched by fewer than 3 distinct segment
	// orientations — a simple pass-through or dead end.
	KindNormal IntersectionKind = "normal"
	// KindIntersection is an endpoint where 3+ distinct orientations meet,
	// or a junction produced by segment splitting (spec §3).
	KindIntersection IntersectionKind = "intersection"
)

// Intersection is a Point together with the roads incident at it.
type Intersection struct {
	Point    geom.Point
	Incident []*Road
	Kind     IntersectionKind
}

// ClassifyIntersections groups every accepted road endpoint by location
// (rounded per geom.Point.Key, absorbing floating-point jitter) and
// classifies each group per spec §4.E. Splits performed during growth
// already share an exact endpoint, so no additional merge tolerance is
// applied here.
func ClassifyIntersections(m *Manager) []Intersection {
	groups := make(map[[2]float64]*Intersection)
	order := make([][2]float64, 0)

	add := func(p geom.Point, r *Road) {
		k := p.Key()
		ix, ok := groups[k]
		if !ok {
			ix = &Intersection{Point: p}
			groups[k] = ix
			order = append(order, k)
		}
		ix.Incident = append(ix.Incident, r)
	}

	for _, r := range m.All() {
		add(r.Segment.Start, r)
		add(r.Segment.End, r)
	}

	out := make([]Intersection, 0, len(order))
	for _, k := range order {
		ix := groups[k]
		ix.Kind = classify(ix)
		out = append(out, *ix)
	}
	return out
}

// classify applies the spec §3 rule: an intersection if 3+ distinct
// segment orientations meet at the point, otherwise normal. A split
// junction always has >=3 incident roads (the two split halves plus the
// crossing segment) so it falls out of the same orientation count.
func classify(ix *Intersection) IntersectionKind {
	seen := make(map[float64]bool)
	for _, r := range ix.Incident {
		a := r.Segment.Angle()
		if r.Segment.End.Equal(ix.Point) {
			a = geom.NormalizeDegrees(a + 180)
		}
		// Round to absorb jitter between near-duplicate orientations.
		seen[roundAngle(a)] = true
	}
	if len(seen) >= 3 {
		return KindIntersection
	}
	return KindNormal
}

func roundAngle(deg float64) float64 {
	const places = 100 // 0.01 degree resolution
	return float64(int(deg*places+0.5)) / places
}
