package geom

import (
	"testing"

	"pgregory.net/rapid"
)

// TestOverlapsSymmetric checks that Bounds.Overlaps never depends on
// argument order, a property every caller (building/element placement,
// quadtree candidate filtering) relies on implicitly.
func TestOverlapsSymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genBounds(t)
		b := genBounds(t)
		if a.Overlaps(b) != b.Overlaps(a) {
			t.Fatalf("Overlaps not symmetric: a=%+v b=%+v", a, b)
		}
	})
}

// TestAABBContainsRotatedCorners checks that Bounds.AABB() always yields a
// superset of the rotated rectangle's corners, the invariant the quadtree
// depends on when indexing an OBB by its AABB (spec §9).
func TestAABBContainsRotatedCorners(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := genBounds(t)
		aabb := b.AABB()
		for _, c := range b.Corners() {
			if c.X < aabb.MinX()-1e-6 || c.X > aabb.MaxX()+1e-6 {
				t.Fatalf("corner %v outside AABB %+v", c, aabb)
			}
			if c.Y < aabb.MinY()-1e-6 || c.Y > aabb.MaxY()+1e-6 {
				t.Fatalf("corner %v outside AABB %+v", c, aabb)
			}
		}
	})
}

// TestSegmentIntersectionDeterministic checks that repeated calls with
// identical inputs return identical results (spec §4.A "deterministic for
// identical inputs").
func TestSegmentIntersectionDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p1, p2, p3, p4 := genPoint(t), genPoint(t), genPoint(t), genPoint(t)
		pt1, e1, ok1 := SegmentIntersection(p1, p2, p3, p4)
		pt2, e2, ok2 := SegmentIntersection(p1, p2, p3, p4)
		if ok1 != ok2 || pt1 != pt2 || e1 != e2 {
			t.Fatalf("non-deterministic intersection result for %v %v %v %v", p1, p2, p3, p4)
		}
	})
}

func genPoint(t *rapid.T) Point {
	return Point{
		X: rapid.Float64Range(-1000, 1000).Draw(t, "x"),
		Y: rapid.Float64Range(-1000, 1000).Draw(t, "y"),
	}
}

func genBounds(t *rapid.T) Bounds {
	return Bounds{
		X:        rapid.Float64Range(-500, 500).Draw(t, "x"),
		Y:        rapid.Float64Range(-500, 500).Draw(t, "y"),
		Width:    rapid.Float64Range(1, 100).Draw(t, "w"),
		Height:   rapid.Float64Range(1, 100).Draw(t, "h"),
		Rotation: rapid.Float64Range(0, 360).Draw(t, "rot"),
	}
}
