// Package geom provides the 2-D primitives shared by every placement
// decision in the city generator: points, oriented bounding boxes, segment
// intersection, angle math, and direction classification.
//
// All comparisons use explicit tolerances; nothing compares floating point
// coordinates with ==. Results are deterministic for identical inputs.
package geom

import "math"

// Epsilon is the default tolerance used for floating-point comparisons
// across the package (distance, parallelism, near-zero checks).
const Epsilon = 1e-6

// roundPlaces controls how Point hashing/equality absorbs floating-point
// jitter: coordinates are rounded to 4 decimal places before comparison.
const roundPlaces = 4

// Point is a 2-D coordinate. Equality and Key() round to 4 decimal places
// so that accumulated floating-point jitter doesn't defeat endpoint merging.
type Point struct {
	X, Y float64
}

// Key returns a rounded, hashable representation of the point suitable for
// use as a map key (endpoint merge detection, intersection classification).
func (p Point) Key() [2]float64 {
	return [2]float64{roundTo(p.X, roundPlaces), roundTo(p.Y, roundPlaces)}
}

// Equal reports whether two points are equal after rounding to 4 decimal
// places.
func (p Point) Equal(o Point) bool {
	return p.Key() == o.Key()
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q treated as vectors.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the 2-D cross product (z-component) of p and q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Length returns the Euclidean length of p treated as a vector from origin.
func (p Point) Length() float64 { return math.Hypot(p.X, p.Y) }

// Normalize returns p scaled to unit length. Returns the zero vector if p
// is (near) zero-length.
func (p Point) Normalize() Point {
	l := p.Length()
	if l < Epsilon {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return p.Sub(q).Length() }

// Lerp linearly interpolates between a and b at parameter t in [0, 1].
func Lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// Rotate rotates p about centre by angleDeg degrees (counter-clockwise).
func Rotate(p, centre Point, angleDeg float64) Point {
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	d := p.Sub(centre)
	return Point{
		X: centre.X + d.X*cos - d.Y*sin,
		Y: centre.Y + d.X*sin + d.Y*cos,
	}
}

// Angle returns the orientation of the vector end-start in degrees,
// normalised to [0, 360).
func Angle(start, end Point) float64 {
	rad := math.Atan2(end.Y-start.Y, end.X-start.X)
	deg := rad * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// NormalizeDegrees folds an arbitrary angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// MinDegreeDifference returns the smallest angular difference between two
// orientations modulo 180 — i.e. treating a line and its reverse as
// parallel. Used for parallelism tests (spec §4.A, §4.E step 4).
func MinDegreeDifference(a, b float64) float64 {
	a = math.Mod(a, 180)
	b = math.Mod(b, 180)
	d := math.Abs(a - b)
	if d > 90 {
		d = 180 - d
	}
	return d
}

// AngleBetween returns the smallest angular difference between two
// orientations modulo 360 (directional, not line-parallel).
func AngleBetween(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Direction is an eight-wind compass direction relative to a reference
// point, used by the route sampler's point-around-label summaries.
type Direction string

const (
	DirE  Direction = "E"
	DirNE Direction = "NE"
	DirN  Direction = "N"
	DirNW Direction = "NW"
	DirW  Direction = "W"
	DirSW Direction = "SW"
	DirS  Direction = "S"
	DirSE Direction = "SE"
)

// DirectionFromPoints classifies the direction of target as seen from
// origin into one of the eight compass winds.
func DirectionFromPoints(origin, target Point) Direction {
	deg := Angle(origin, target)
	// Each wind covers a 45-degree slice centred on its cardinal angle.
	switch {
	case deg >= 337.5 || deg < 22.5:
		return DirE
	case deg < 67.5:
		return DirNE
	case deg < 112.5:
		return DirN
	case deg < 157.5:
		return DirNW
	case deg < 202.5:
		return DirW
	case deg < 247.5:
		return DirSW
	case deg < 292.5:
		return DirS
	default:
		return DirSE
	}
}

// PointSegmentDistance returns the shortest distance from p to the segment
// [a, b].
func PointSegmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	abLenSq := ab.Dot(ab)
	if abLenSq < Epsilon*Epsilon {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / abLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a.Add(ab.Scale(t))
	return p.Distance(closest)
}

// SegmentIntersection computes the proper intersection of segments
// [p1, p2] and [p3, p4], if any. It returns the intersection point, the
// parameter e along [p1, p2] at which the crossing occurs, and whether an
// intersection was found.
//
// A small numerical buffer (1e-4 of each segment's parameter range)
// excludes intersections at or near either segment's own endpoints, so
// that segments sharing an endpoint
// (T-junctions) are never reported as a proper crossing.
func SegmentIntersection(p1, p2, p3, p4 Point) (point Point, e float64, ok bool) {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	denom := d1.Cross(d2)
	if math.Abs(denom) < Epsilon {
		return Point{}, 0, false // parallel or collinear
	}

	diff := p3.Sub(p1)
	e = diff.Cross(d2) / denom
	f := diff.Cross(d1) / denom

	const buf = 1e-4
	if e <= buf || e >= 1-buf || f <= buf || f >= 1-buf {
		return Point{}, 0, false
	}

	return p1.Add(d1.Scale(e)), e, true
}
