package geom

// Segment is an ordered pair of points with road-proposal metadata. T is
// the priority-queue delay used before acceptance; it is meaningless once
// the segment has been accepted into a RoadManager (spec §3).
type Segment struct {
	Start, End Point
	Highway    bool
	T          float64
}

// Angle returns the orientation of End-Start in degrees, in [0, 360).
func (s Segment) Angle() float64 { return Angle(s.Start, s.End) }

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 { return s.Start.Distance(s.End) }

// Midpoint returns the segment's midpoint.
func (s Segment) Midpoint() Point { return Lerp(s.Start, s.End, 0.5) }

// PointAt returns the point at parameter t in [0, 1] along the segment.
func (s Segment) PointAt(t float64) Point { return Lerp(s.Start, s.End, t) }

// AABB returns the axis-aligned bounding box of the segment, inflated by
// pad on every side. Road managers index segments by this box (inflated by
// a configured snap distance) so that growth proposals near an existing
// road are always found by the quadtree query.
func (s Segment) AABB(pad float64) Bounds {
	minX, maxX := s.Start.X, s.End.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := s.Start.Y, s.End.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Bounds{
		X:      minX - pad,
		Y:      minY - pad,
		Width:  (maxX - minX) + 2*pad,
		Height: (maxY - minY) + 2*pad,
	}
}

// safetyDepth is the half-width used to turn a zero-thickness road segment
// into a rectangle for road-building buffer checks (spec I4). Real road
// width is a rendering concern outside this package; the generator treats
// roads as a thin safety corridor of this nominal half-width around the
// centerline.
const safetyDepth = 3.0

// SafetyRect returns the oriented rectangle representing the segment's
// physical footprint plus half-width safetyDepth on either side, used for
// building/element placement buffer checks against roads (spec I4, §4.G).
func (s Segment) SafetyRect() Bounds {
	length := s.Length()
	if length < Epsilon {
		length = Epsilon
	}
	c := s.Midpoint()
	return Bounds{
		X:        c.X - length/2,
		Y:        c.Y - safetyDepth,
		Width:    length,
		Height:   safetyDepth * 2,
		Rotation: s.Angle(),
	}
}
