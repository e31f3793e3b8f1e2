// Package quadtree implements a generic four-way spatial partition used by
// every placement decision in the city generator (road candidates,
// building overlap checks, element spacing checks).
//
// The tree never rotates (spec §9 — "do not attempt to rotate the
// quadtree"). Stored bounds may carry a rotation; the tree compares them
// only through their axis-aligned superset (geom.Bounds.AABB(), via
// OverlapsAABB). Callers must perform the precise OBB overlap test
// themselves on whatever Retrieve returns, since Retrieve returns
// candidates, not exact overlaps (spec §4.B).
package quadtree

import "github.com/cityproc/citygen/pkg/geom"

const (
	// DefaultMaxObjects is the item count at which a node splits, absent
	// configuration.
	DefaultMaxObjects = 8
	// DefaultMaxLevels bounds recursion depth, absent configuration.
	DefaultMaxLevels = 6
)

// entry pairs a stored item with the bounds it was inserted under, so that
// Remove can find it again without requiring the payload type to carry its
// own bounds.
type entry[T any] struct {
	bounds geom.Bounds
	item   T
}

// Quadtree is a recursive four-way spatial index over items of type T.
type Quadtree[T any] struct {
	bounds     geom.Bounds
	maxObjects int
	maxLevels  int
	level      int

	entries  []entry[T]
	children [4]*Quadtree[T]
	split    bool

	equal func(a, b T) bool
}

// New creates a quadtree rooted at bounds. maxObjects and maxLevels must be
// positive; this is a configuration error (spec §7), not a runtime one, so
// the constructor panics rather than returning an error — callers validate
// configuration once at startup (see pkg/citygen/config.go).
func New[T any](bounds geom.Bounds, maxObjects, maxLevels int, equal func(a, b T) bool) *Quadtree[T] {
	if maxObjects <= 0 {
		panic("quadtree: max_objects must be positive")
	}
	if maxLevels <= 0 {
		panic("quadtree: max_levels must be positive")
	}
	return newNode[T](bounds, maxObjects, maxLevels, 0, equal)
}

func newNode[T any](bounds geom.Bounds, maxObjects, maxLevels, level int, equal func(a, b T) bool) *Quadtree[T] {
	return &Quadtree[T]{
		bounds:     bounds,
		maxObjects: maxObjects,
		maxLevels:  maxLevels,
		level:      level,
		equal:      equal,
	}
}

// Insert adds item under the given bounds. An item whose bounds straddle
// quadrant boundaries is stored in every quadrant it overlaps (duplicated
// payload), matching the reference semantics. Items entirely outside the
// root bounds are still stored — at the root level — rather than dropped
// (spec §4.B: "out-of-root-bounds inserts are still stored at the root
// level to avoid losing items").
func (q *Quadtree[T]) Insert(bounds geom.Bounds, item T) {
	if q.split {
		if indices := q.quadrantsFor(bounds); len(indices) > 0 {
			for _, idx := range indices {
				q.children[idx].Insert(bounds, item)
			}
			return
		}
		// Doesn't overlap any child region (an out-of-root insert at the
		// root) — keep it here.
	}

	q.entries = append(q.entries, entry[T]{bounds: bounds, item: item})

	if !q.split && len(q.entries) > q.maxObjects && q.level < q.maxLevels {
		q.splitNode()
	}
}

// Retrieve returns every item whose stored bounds might overlap the query
// AABB. The result is a candidate superset: callers must perform their own
// precise overlap test (geom.Bounds.Overlaps) before acting on a match.
func (q *Quadtree[T]) Retrieve(query geom.Bounds) []T {
	var out []T
	q.retrieveInto(query, &out)
	return out
}

func (q *Quadtree[T]) retrieveInto(query geom.Bounds, out *[]T) {
	for _, e := range q.entries {
		if e.bounds.OverlapsAABB(query) {
			*out = append(*out, e.item)
		}
	}
	if !q.split {
		return
	}
	for _, idx := range q.quadrantsFor(query) {
		q.children[idx].retrieveInto(query, out)
	}
}

// Remove deletes the first stored item matching bounds and equal(item, x),
// from this node and any child it was duplicated into.
func (q *Quadtree[T]) Remove(bounds geom.Bounds, item T) bool {
	removed := false
	for i, e := range q.entries {
		if e.bounds.OverlapsAABB(bounds) && q.equal(e.item, item) {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			removed = true
			break
		}
	}
	if q.split {
		for _, idx := range q.quadrantsFor(bounds) {
			if q.children[idx].Remove(bounds, item) {
				removed = true
			}
		}
	}
	return removed
}

// Clear empties the tree back to a single unsplit node.
func (q *Quadtree[T]) Clear() {
	q.entries = nil
	q.split = false
	for i := range q.children {
		q.children[i] = nil
	}
}

// splitNode divides this node into four equal quadrants and redistributes
// its entries into them.
func (q *Quadtree[T]) splitNode() {
	hw, hh := q.bounds.Width/2, q.bounds.Height/2
	x, y := q.bounds.X, q.bounds.Y

	regions := [4]geom.Bounds{
		geom.NewBounds(x+hw, y+hh, hw, hh), // top-right
		geom.NewBounds(x, y+hh, hw, hh),    // top-left
		geom.NewBounds(x, y, hw, hh),       // bottom-left
		geom.NewBounds(x+hw, y, hw, hh),    // bottom-right
	}
	for i, r := range regions {
		q.children[i] = newNode[T](r, q.maxObjects, q.maxLevels, q.level+1, q.equal)
	}
	q.split = true

	remaining := q.entries[:0]
	for _, e := range q.entries {
		indices := q.quadrantsFor(e.bounds)
		if len(indices) == 0 {
			remaining = append(remaining, e)
			continue
		}
		for _, idx := range indices {
			q.children[idx].Insert(e.bounds, e.item)
		}
	}
	q.entries = remaining
}

// quadrantsFor returns the indices of every child quadrant that bounds
// overlaps. An item straddling the split point is returned for more than
// one quadrant, which is what causes it to be duplicated into each on
// Insert (spec §4.B) and searched in each on Retrieve. An empty result
// means bounds doesn't overlap this node's child region at all (on
// Insert, only possible for an out-of-root item at the root).
func (q *Quadtree[T]) quadrantsFor(bounds geom.Bounds) []int {
	var indices []int
	for i, c := range q.children {
		if c != nil && c.bounds.OverlapsAABB(bounds) {
			indices = append(indices, i)
		}
	}
	return indices
}
