package element

import (
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/quadtree"
)

// Manager holds the canonical set of placed elements and a quadtree index
// keyed by each element's Bounds. Grounded on
// original_source/simworld/citygen/element/element_manager.py's
// can_place_element/add_element/remove_element trio.
type Manager struct {
	elements []*Element
	index    *quadtree.Quadtree[*Element]
	nextID   int

	elementElementDistance float64
}

// NewManager creates an empty element manager over worldBounds.
// elementElementDistance is the default inflation buffer used by CanPlace
// when no override is given (invariant I5).
func NewManager(worldBounds geom.Bounds, maxObjects, maxLevels int, elementElementDistance float64) *Manager {
	return &Manager{
		index:                  quadtree.New[*Element](worldBounds, maxObjects, maxLevels, elementEqual),
		elementElementDistance: elementElementDistance,
	}
}

// CanPlace reports whether bounds, inflated by buffer (or the manager's
// configured element-element distance if buffer is nil), is disjoint from
// every existing element's Bounds.
func (m *Manager) CanPlace(bounds geom.Bounds, buffer *float64) bool {
	b := m.elementElementDistance
	if buffer != nil {
		b = *buffer
	}
	check := bounds.Inflate(b)

	for _, candidate := range m.index.Retrieve(check.AABB()) {
		if candidate.Bounds.Overlaps(check) {
			return false
		}
	}
	return true
}

// Add places a new Element of type t at bounds, attributing it to owner.
func (m *Manager) Add(t Type, bounds geom.Bounds, owner Owner) *Element {
	e := newElement(m.nextID, t, bounds, owner)
	m.nextID++
	m.elements = append(m.elements, &e)
	m.index.Insert(bounds, &e)
	return &e
}

// Remove deletes e from the manager.
func (m *Manager) Remove(e *Element) {
	m.index.Remove(e.Bounds, e)
	for i, existing := range m.elements {
		if existing.ID == e.ID {
			m.elements = append(m.elements[:i], m.elements[i+1:]...)
			break
		}
	}
}

// Candidates returns every Element whose indexed bounds might overlap aabb.
func (m *Manager) Candidates(aabb geom.Bounds) []*Element {
	return m.index.Retrieve(aabb)
}

// All returns every placed Element in placement order.
func (m *Manager) All() []*Element { return m.elements }

// Len returns the number of placed elements.
func (m *Manager) Len() int { return len(m.elements) }

// FilterByBuildings removes any element whose centre lies inside a
// building OBB — a defensive cleanup pass for numeric edge cases (spec
// §4.G, "filter_elements_by_buildings").
func (m *Manager) FilterByBuildings(buildingBounds []geom.Bounds) {
	var kept []*Element
	for _, e := range m.elements {
		inside := false
		for _, bb := range buildingBounds {
			if bb.Contains(e.Center) {
				inside = true
				break
			}
		}
		if inside {
			m.index.Remove(e.Bounds, e)
			continue
		}
		kept = append(kept, e)
	}
	m.elements = kept
}
