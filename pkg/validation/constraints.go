package validation

import (
	"fmt"

	"github.com/cityproc/citygen/pkg/building"
	"github.com/cityproc/citygen/pkg/citygraph"
	"github.com/cityproc/citygen/pkg/element"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
)

// CheckNoProperIntersections implements invariant I1: no two accepted
// segments share a proper interior intersection.
func CheckNoProperIntersections(m *road.Manager) ConstraintResult {
	roads := m.All()
	var violations []string

	for i := 0; i < len(roads); i++ {
		for j := i + 1; j < len(roads); j++ {
			a, b := roads[i].Segment, roads[j].Segment
			if _, _, ok := geom.SegmentIntersection(a.Start, a.End, b.Start, b.End); ok {
				violations = append(violations, fmt.Sprintf("road %d crosses road %d", roads[i].ID, roads[j].ID))
			}
		}
	}

	satisfied := len(violations) == 0
	details := "no proper interior intersections"
	if !satisfied {
		details = fmt.Sprintf("%d proper intersections found: %v", len(violations), violations)
	}
	return NewHardConstraintResult("NoProperIntersections", "roads.noProperIntersections()", satisfied, details)
}

// CheckEndpointMerge implements invariant I2: no two distinct segment
// endpoints lie within mergeDistance of each other without being the
// same Point — a near-miss the road generator's endpoint snapping
// should have merged.
func CheckEndpointMerge(m *road.Manager, mergeDistance float64) ConstraintResult {
	var endpoints []geom.Point
	for _, r := range m.All() {
		endpoints = append(endpoints, r.Segment.Start, r.Segment.End)
	}

	var violations []string
	for i := 0; i < len(endpoints); i++ {
		for j := i + 1; j < len(endpoints); j++ {
			a, b := endpoints[i], endpoints[j]
			if a.Equal(b) {
				continue
			}
			if a.Distance(b) < mergeDistance {
				violations = append(violations, fmt.Sprintf("%v near-miss %v (unmerged)", a, b))
			}
		}
	}

	satisfied := len(violations) == 0
	details := "every near endpoint pair is exactly merged"
	if !satisfied {
		details = fmt.Sprintf("%d unmerged near-miss endpoint pairs: %v", len(violations), violations)
	}
	return NewHardConstraintResult("EndpointMerge", "roads.endpointsMergedWithinTolerance()", satisfied, details)
}

// CheckBuildingBuildingDisjoint implements invariant I3: every
// building's OBB, inflated by buildingBuildingDistance, is disjoint
// from every other building's OBB.
func CheckBuildingBuildingDisjoint(m *building.Manager, buildingBuildingDistance float64) ConstraintResult {
	buildings := m.All()
	var violations []string

	for i := 0; i < len(buildings); i++ {
		for j := i + 1; j < len(buildings); j++ {
			inflated := buildings[i].Bounds.Inflate(buildingBuildingDistance)
			if inflated.Overlaps(buildings[j].Bounds) {
				violations = append(violations, fmt.Sprintf("building %d overlaps building %d", buildings[i].ID, buildings[j].ID))
			}
		}
	}

	satisfied := len(violations) == 0
	details := "every building pair is disjoint within the building-building buffer"
	if !satisfied {
		details = fmt.Sprintf("%d overlapping building pairs: %v", len(violations), violations)
	}
	return NewHardConstraintResult("BuildingBuildingDisjoint", "buildings.disjoint(buildingBuildingDistance)", satisfied, details)
}

// CheckRoadBuildingDisjoint implements invariant I4: every building's
// OBB, inflated by roadBuildingDistance, is disjoint from every
// road-segment safety rectangle.
func CheckRoadBuildingDisjoint(buildings *building.Manager, roads *road.Manager, roadBuildingDistance float64) ConstraintResult {
	var violations []string

	for _, b := range buildings.All() {
		check := b.Bounds.Inflate(roadBuildingDistance)
		for _, r := range roads.Candidates(check.AABB()) {
			if check.Overlaps(r.Segment.SafetyRect()) {
				violations = append(violations, fmt.Sprintf("building %d overlaps road %d", b.ID, r.ID))
			}
		}
	}

	satisfied := len(violations) == 0
	details := "every building is disjoint from every road safety rectangle"
	if !satisfied {
		details = fmt.Sprintf("%d road-building overlaps: %v", len(violations), violations)
	}
	return NewHardConstraintResult("RoadBuildingDisjoint", "buildings.disjointFromRoads(roadBuildingDistance)", satisfied, details)
}

// CheckElementElementDisjoint implements invariant I5: every element's
// Bounds, inflated by elementElementDistance, is disjoint from every
// other element.
func CheckElementElementDisjoint(m *element.Manager, elementElementDistance float64) ConstraintResult {
	elements := m.All()
	var violations []string

	for i := 0; i < len(elements); i++ {
		for j := i + 1; j < len(elements); j++ {
			inflated := elements[i].Bounds.Inflate(elementElementDistance)
			if inflated.Overlaps(elements[j].Bounds) {
				violations = append(violations, fmt.Sprintf("element %d overlaps element %d", elements[i].ID, elements[j].ID))
			}
		}
	}

	satisfied := len(violations) == 0
	details := "every element pair is disjoint within the element-element buffer"
	if !satisfied {
		details = fmt.Sprintf("%d overlapping element pairs: %v", len(violations), violations)
	}
	return NewHardConstraintResult("ElementElementDisjoint", "elements.disjoint(elementElementDistance)", satisfied, details)
}

// CheckGraphConnected implements invariant I6: the derived graph is
// connected within each physical road-connected component. Road
// components are found via union-find over shared endpoints (exact
// equality — by the time validation runs, endpoint snapping has already
// merged near-misses per I2); graph components are found via BFS.
// Satisfied iff the two partitions have the same number of components, i.e.
// neither the ring construction nor the adjacent-road connection pass
// silently left any road component split across multiple graph
// components.
func CheckGraphConnected(roads *road.Manager, g *citygraph.Graph) ConstraintResult {
	roadComponents := roadConnectedComponents(roads)
	graphComponents := graphConnectedComponentCount(g)

	satisfied := roadComponents == graphComponents
	details := fmt.Sprintf("road-connected components = %d, graph components = %d", roadComponents, graphComponents)
	return NewHardConstraintResult("GraphConnected", "graph.connectedPerRoadComponent()", satisfied, details)
}

// roadConnectedComponents unions roads sharing an endpoint (by rounded
// Point.Key()) and returns the number of resulting components.
func roadConnectedComponents(m *road.Manager) int {
	parent := make(map[[2]float64][2]float64)
	var find func(k [2]float64) [2]float64
	find = func(k [2]float64) [2]float64 {
		p, ok := parent[k]
		if !ok {
			parent[k] = k
			return k
		}
		if p == k {
			return k
		}
		root := find(p)
		parent[k] = root
		return root
	}
	union := func(a, b [2]float64) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, r := range m.All() {
		a, b := r.Segment.Start.Key(), r.Segment.End.Key()
		find(a)
		find(b)
		union(a, b)
	}

	roots := make(map[[2]float64]bool)
	for k := range parent {
		roots[find(k)] = true
	}
	return len(roots)
}

// graphConnectedComponentCount counts weakly-connected components of g
// via repeated BFS.
func graphConnectedComponentCount(g *citygraph.Graph) int {
	visited := make(map[int]bool)
	count := 0
	for id := range g.Nodes {
		if visited[id] {
			continue
		}
		count++
		for reached := range g.ReachableFrom(id) {
			visited[reached] = true
		}
	}
	return count
}
