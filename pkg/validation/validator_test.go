package validation

import (
	"testing"

	"github.com/cityproc/citygen/pkg/building"
	"github.com/cityproc/citygen/pkg/citygraph"
	"github.com/cityproc/citygen/pkg/element"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
)

func worldBounds() geom.Bounds { return geom.NewBounds(-5000, -5000, 10000, 10000) }

func TestCheckNoProperIntersectionsClean(t *testing.T) {
	roads := road.NewManager(worldBounds(), 8, 6, 10)
	roads.Add(geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 100, Y: 0}})
	roads.Add(geom.Segment{Start: geom.Point{X: 100, Y: 0}, End: geom.Point{X: 200, Y: 0}})

	result := CheckNoProperIntersections(roads)
	if !result.Satisfied {
		t.Errorf("expected satisfied, got %s", result.Details)
	}
}

func TestCheckNoProperIntersectionsViolation(t *testing.T) {
	roads := road.NewManager(worldBounds(), 8, 6, 10)
	// Two segments inserted directly into the manager, bypassing the
	// generator's local constraints, so they cross properly.
	roads.Add(geom.Segment{Start: geom.Point{X: -100, Y: 0}, End: geom.Point{X: 100, Y: 0}})
	roads.Add(geom.Segment{Start: geom.Point{X: 0, Y: -100}, End: geom.Point{X: 0, Y: 100}})

	result := CheckNoProperIntersections(roads)
	if result.Satisfied {
		t.Error("expected an unsatisfied result for crossing segments")
	}
}

func TestCheckEndpointMergeNearMiss(t *testing.T) {
	roads := road.NewManager(worldBounds(), 8, 6, 10)
	roads.Add(geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 100, Y: 0}})
	roads.Add(geom.Segment{Start: geom.Point{X: 100.5, Y: 0}, End: geom.Point{X: 200, Y: 0}})

	result := CheckEndpointMerge(roads, 5)
	if result.Satisfied {
		t.Error("expected unsatisfied result for a near-miss unmerged endpoint pair")
	}
}

func TestCheckEndpointMergeExactShared(t *testing.T) {
	roads := road.NewManager(worldBounds(), 8, 6, 10)
	roads.Add(geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 100, Y: 0}})
	roads.Add(geom.Segment{Start: geom.Point{X: 100, Y: 0}, End: geom.Point{X: 200, Y: 0}})

	result := CheckEndpointMerge(roads, 5)
	if !result.Satisfied {
		t.Errorf("expected satisfied for exactly shared endpoints, got %s", result.Details)
	}
}

func TestCheckBuildingBuildingDisjoint(t *testing.T) {
	buildings := building.NewManager(worldBounds(), 8, 6, 5)
	buildings.Add(building.Type{Name: "House", Width: 20, Height: 20}, geom.NewBounds(0, 0, 20, 20))
	buildings.Add(building.Type{Name: "House", Width: 20, Height: 20}, geom.NewBounds(100, 100, 20, 20))

	result := CheckBuildingBuildingDisjoint(buildings, 5)
	if !result.Satisfied {
		t.Errorf("expected satisfied, got %s", result.Details)
	}

	buildings.Add(building.Type{Name: "House", Width: 20, Height: 20}, geom.NewBounds(1, 1, 20, 20))
	result = CheckBuildingBuildingDisjoint(buildings, 5)
	if result.Satisfied {
		t.Error("expected unsatisfied for overlapping buildings")
	}
}

func TestCheckRoadBuildingDisjoint(t *testing.T) {
	roads := road.NewManager(worldBounds(), 8, 6, 10)
	roads.Add(geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 500, Y: 0}})
	buildings := building.NewManager(worldBounds(), 8, 6, 5)
	buildings.Add(building.Type{Name: "House", Width: 20, Height: 20}, geom.NewBounds(100, 50, 20, 20))

	result := CheckRoadBuildingDisjoint(buildings, roads, 10)
	if !result.Satisfied {
		t.Errorf("expected satisfied, got %s", result.Details)
	}

	buildings.Add(building.Type{Name: "House", Width: 20, Height: 20}, geom.NewBounds(100, 1, 20, 20))
	result = CheckRoadBuildingDisjoint(buildings, roads, 10)
	if result.Satisfied {
		t.Error("expected unsatisfied for a building straddling the road")
	}
}

func TestCheckElementElementDisjoint(t *testing.T) {
	elements := element.NewManager(worldBounds(), 8, 6, 2)
	elements.Add(element.Type{Name: "Lamp", Width: 2, Height: 2}, geom.NewBounds(0, 0, 2, 2), element.Owner{})
	elements.Add(element.Type{Name: "Lamp", Width: 2, Height: 2}, geom.NewBounds(50, 50, 2, 2), element.Owner{})

	result := CheckElementElementDisjoint(elements, 2)
	if !result.Satisfied {
		t.Errorf("expected satisfied, got %s", result.Details)
	}

	elements.Add(element.Type{Name: "Lamp", Width: 2, Height: 2}, geom.NewBounds(0.5, 0.5, 2, 2), element.Owner{})
	result = CheckElementElementDisjoint(elements, 2)
	if result.Satisfied {
		t.Error("expected unsatisfied for overlapping elements")
	}
}

func TestCheckGraphConnected(t *testing.T) {
	roads := road.NewManager(worldBounds(), 8, 6, 10)
	roads.Add(geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 100, Y: 0}})

	g := citygraph.Build(roads, citygraph.Config{SidewalkOffset: 5, Slack: 1})
	result := CheckGraphConnected(roads, g)
	if !result.Satisfied {
		t.Errorf("expected satisfied for a single segment ring, got %s", result.Details)
	}
}

func TestValidatorFullReport(t *testing.T) {
	roads := road.NewManager(worldBounds(), 8, 6, 10)
	roads.Add(geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 100, Y: 0}})
	buildings := building.NewManager(worldBounds(), 8, 6, 5)
	buildings.Add(building.Type{Name: "House", Width: 20, Height: 20}, geom.NewBounds(200, 200, 20, 20))
	elements := element.NewManager(worldBounds(), 8, 6, 2)
	g := citygraph.Build(roads, citygraph.Config{SidewalkOffset: 5, Slack: 1})

	v := NewValidator(Config{MergeDistance: 5, BuildingBuildingDistance: 5, RoadBuildingDistance: 10, ElementElementDistance: 2})
	report := v.Validate(roads, buildings, elements, g)

	if !report.Passed {
		t.Errorf("expected a passing report, got errors: %v", report.Errors)
	}
	if len(report.HardConstraintResults) != 6 {
		t.Errorf("expected 6 hard constraint results, got %d", len(report.HardConstraintResults))
	}
}
