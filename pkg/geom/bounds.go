package geom

import "math"

// Bounds is an axis-aligned rectangle with an optional rotation around its
// centre. It serves both as the quadtree's native AABB key and — when
// Rotation != 0 — as an oriented bounding box that callers must test for
// overlap precisely (the quadtree itself never rotates, per spec §9).
//
// (X, Y) is the bottom-left corner of the unrotated rectangle.
type Bounds struct {
	X, Y          float64
	Width, Height float64
	Rotation      float64 // degrees, about the centre
}

// NewBounds returns an axis-aligned Bounds with the given corner and size.
func NewBounds(x, y, w, h float64) Bounds {
	return Bounds{X: x, Y: y, Width: w, Height: h}
}

// Center returns the centre point of the bounds.
func (b Bounds) Center() Point {
	return Point{b.X + b.Width/2, b.Y + b.Height/2}
}

// MinX, MinY, MaxX, MaxY return the axis-aligned extent of the *unrotated*
// rectangle. Use AABB() for the rotation-aware enclosing box.
func (b Bounds) MinX() float64 { return b.X }
func (b Bounds) MinY() float64 { return b.Y }
func (b Bounds) MaxX() float64 { return b.X + b.Width }
func (b Bounds) MaxY() float64 { return b.Y + b.Height }

// Inflate returns a copy of b expanded by d on every side, preserving
// rotation. Used for buffer/spacing checks (building-building,
// road-building, element-element).
func (b Bounds) Inflate(d float64) Bounds {
	return Bounds{
		X:        b.X - d,
		Y:        b.Y - d,
		Width:    b.Width + 2*d,
		Height:   b.Height + 2*d,
		Rotation: b.Rotation,
	}
}

// AABB returns the axis-aligned bounding box that fully contains b even
// after its rotation is applied. For Rotation == 0 this is b itself. The
// quadtree compares stored and query bounds through this conservative
// superset (see OverlapsAABB), so a rotated OBB can be indexed as is.
func (b Bounds) AABB() Bounds {
	if b.Rotation == 0 {
		return b
	}
	corners := b.Corners()
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := corners[0].X, corners[0].Y
	for _, c := range corners[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Corners returns the four corners of the (possibly rotated) rectangle in
// counter-clockwise order starting at the bottom-left.
func (b Bounds) Corners() [4]Point {
	c := b.Center()
	hw, hh := b.Width/2, b.Height/2
	local := [4]Point{
		{c.X - hw, c.Y - hh},
		{c.X + hw, c.Y - hh},
		{c.X + hw, c.Y + hh},
		{c.X - hw, c.Y + hh},
	}
	if b.Rotation == 0 {
		return local
	}
	for i, p := range local {
		local[i] = Rotate(p, c, b.Rotation)
	}
	return local
}

// OverlapsAABB reports whether the two bounds' rotation-aware enclosing
// boxes (AABB()) overlap. Used by the quadtree for candidate selection; it is
// intentionally conservative when either Bounds is rotated (candidates,
// not exact overlaps — see Overlaps for the precise OBB test).
func (a Bounds) OverlapsAABB(b Bounds) bool {
	aa, bb := a.AABB(), b.AABB()
	if aa.MaxX() <= bb.MinX() || bb.MaxX() <= aa.MinX() {
		return false
	}
	if aa.MaxY() <= bb.MinY() || bb.MaxY() <= aa.MinY() {
		return false
	}
	return true
}

// Overlaps performs a precise oriented-bounding-box overlap test using the
// separating axis theorem, correct for arbitrary rotations on either side.
// This is the test callers must use after a quadtree Retrieve narrows
// candidates (spec §4.B: "retrieve returns candidates, not exact overlaps").
func (a Bounds) Overlaps(b Bounds) bool {
	if a.Rotation == 0 && b.Rotation == 0 {
		return a.OverlapsAABB(b)
	}

	axesFrom := func(corners [4]Point) [2]Point {
		edge1 := corners[1].Sub(corners[0])
		edge2 := corners[3].Sub(corners[0])
		return [2]Point{
			{-edge1.Y, edge1.X},
			{-edge2.Y, edge2.X},
		}
	}

	ca, cb := a.Corners(), b.Corners()
	ea, eb := axesFrom(ca), axesFrom(cb)
	axes := append(ea[:], eb[:]...)

	for _, axis := range axes {
		axis = axis.Normalize()
		if axis.Length() < Epsilon {
			continue
		}
		aMin, aMax := projectOntoAxis(ca, axis)
		bMin, bMax := projectOntoAxis(cb, axis)
		if aMax < bMin || bMax < aMin {
			return false // found a separating axis
		}
	}
	return true
}

func projectOntoAxis(corners [4]Point, axis Point) (min, max float64) {
	min = corners[0].Dot(axis)
	max = min
	for _, c := range corners[1:] {
		v := c.Dot(axis)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return
}

// Contains reports whether point p lies inside the (possibly rotated)
// rectangle, using the point-in-rotated-rect test needed by
// filterElementsByBuildings (spec §4.G).
func (b Bounds) Contains(p Point) bool {
	if b.Rotation == 0 {
		return p.X >= b.MinX() && p.X <= b.MaxX() && p.Y >= b.MinY() && p.Y <= b.MaxY()
	}
	local := Rotate(p, b.Center(), -b.Rotation)
	return local.X >= b.MinX() && local.X <= b.MaxX() && local.Y >= b.MinY() && local.Y <= b.MaxY()
}
