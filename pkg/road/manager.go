package road

import (
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/quadtree"
)

// Road is an accepted segment plus the integer id assigned at acceptance
// time. Ids are assigned in insertion order and never reused (spec §5
// "segment ids are assigned in acceptance order").
type Road struct {
	ID      int
	Segment geom.Segment
}

func roadEqual(a, b *Road) bool { return a.ID == b.ID }

// Manager holds the canonical set of accepted road segments and a quadtree
// keyed by each segment's AABB, inflated by snapDistance (spec §4.D).
type Manager struct {
	roads        []*Road
	byID         map[int]*Road
	index        *quadtree.Quadtree[*Road]
	nextID       int
	snapDistance float64
}

// NewManager creates an empty road manager over the given world bounds.
func NewManager(worldBounds geom.Bounds, maxObjects, maxLevels int, snapDistance float64) *Manager {
	return &Manager{
		byID:         make(map[int]*Road),
		index:        quadtree.New[*Road](worldBounds, maxObjects, maxLevels, roadEqual),
		snapDistance: snapDistance,
	}
}

// aabb returns the indexing key for a segment: its AABB inflated by the
// manager's configured snap distance, so nearby-but-not-yet-touching
// proposals are still found by Candidates.
func (m *Manager) aabb(s geom.Segment) geom.Bounds {
	return s.AABB(m.snapDistance)
}

// Add assigns the next id to segment, inserts it into the canonical list
// and spatial index, and returns the new Road.
func (m *Manager) Add(segment geom.Segment) *Road {
	r := &Road{ID: m.nextID, Segment: segment}
	m.nextID++
	m.roads = append(m.roads, r)
	m.byID[r.ID] = r
	m.index.Insert(m.aabb(segment), r)
	return r
}

// Remove deletes r from the canonical list and spatial index.
func (m *Manager) Remove(r *Road) {
	m.index.Remove(m.aabb(r.Segment), r)
	delete(m.byID, r.ID)
	for i, existing := range m.roads {
		if existing.ID == r.ID {
			m.roads = append(m.roads[:i], m.roads[i+1:]...)
			break
		}
	}
}

// Update replaces r's segment in place, preserving its id, and re-indexes
// it under the new AABB.
func (m *Manager) Update(r *Road, newSegment geom.Segment) {
	m.index.Remove(m.aabb(r.Segment), r)
	r.Segment = newSegment
	m.index.Insert(m.aabb(newSegment), r)
}

// Get returns the Road with the given id, if any.
func (m *Manager) Get(id int) (*Road, bool) {
	r, ok := m.byID[id]
	return r, ok
}

// Candidates returns every Road whose indexed AABB might overlap aabb. The
// caller must perform a precise geometric test on the result (spec §4.B).
func (m *Manager) Candidates(aabb geom.Bounds) []*Road {
	return m.index.Retrieve(aabb)
}

// All returns every accepted Road in acceptance order. The returned slice
// is owned by the manager; callers must not mutate it.
func (m *Manager) All() []*Road {
	return m.roads
}

// Len returns the number of accepted roads.
func (m *Manager) Len() int { return len(m.roads) }
