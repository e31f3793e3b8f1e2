package element

import (
	"testing"

	"github.com/cityproc/citygen/internal/rng"
	"github.com/cityproc/citygen/pkg/building"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
)

func setup(t *testing.T) (*road.Manager, *building.Manager) {
	t.Helper()
	bounds := geom.NewBounds(-5000, -5000, 10000, 10000)
	roads := road.NewManager(bounds, 8, 6, 10)
	buildings := building.NewManager(bounds, 8, 6, 5)
	return roads, buildings
}

func TestElementsDisjointFromRoadsAndBuildings(t *testing.T) {
	roads, buildings := setup(t)
	seg := geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 500, Y: 0}}
	roads.Add(seg)
	buildings.Add(building.Type{Name: "House", Width: 30, Height: 20},
		geom.NewBounds(100, 20, 30, 20))

	worldBounds := geom.NewBounds(-5000, -5000, 10000, 10000)
	mgr := NewManager(worldBounds, 8, 6, 2)
	cfg := Config{
		ElementElementDistance:  2,
		ElementBuildingDistance: 3,
		RoadElementSpacing:      20,
		Types:                   []Type{{Name: "Lamp", Width: 2, Height: 2}},
		MaxAroundBuilding:       2,
	}
	r := rng.New(1, "element", []byte("cfg"))
	gen := NewGenerator(mgr, roads, buildings, cfg, r)
	gen.GenerateAll()

	for _, e := range mgr.All() {
		roadCheck := e.Bounds
		if roadCheck.Overlaps(seg.SafetyRect()) {
			t.Errorf("element %d overlaps road safety rectangle", e.ID)
		}
		buildingCheck := e.Bounds.Inflate(cfg.ElementBuildingDistance)
		for _, b := range buildings.All() {
			if buildingCheck.Overlaps(b.Bounds) {
				t.Errorf("element %d overlaps building %d within buffer", e.ID, b.ID)
			}
		}
	}
}

// TestNoElementElementOverlap covers invariant I5.
func TestNoElementElementOverlap(t *testing.T) {
	roads, buildings := setup(t)
	seg := geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 300, Y: 0}}
	roads.Add(seg)

	worldBounds := geom.NewBounds(-5000, -5000, 10000, 10000)
	mgr := NewManager(worldBounds, 8, 6, 3)
	cfg := Config{
		ElementElementDistance: 3,
		RoadElementSpacing:     15,
		Types:                  []Type{{Name: "Bench", Width: 3, Height: 2}},
	}
	r := rng.New(2, "element", []byte("cfg"))
	gen := NewGenerator(mgr, roads, buildings, cfg, r)
	gen.GenerateAll()

	all := mgr.All()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a := all[i].Bounds.Inflate(cfg.ElementElementDistance)
			b := all[j].Bounds
			if a.Overlaps(b) {
				t.Errorf("elements %d and %d overlap within element-element buffer", all[i].ID, all[j].ID)
			}
		}
	}
}

func TestFilterByBuildingsRemovesInsideElements(t *testing.T) {
	worldBounds := geom.NewBounds(-1000, -1000, 2000, 2000)
	mgr := NewManager(worldBounds, 8, 6, 1)
	inside := mgr.Add(Type{Name: "Lamp", Width: 1, Height: 1}, geom.NewBounds(-0.5, -0.5, 1, 1), Owner{})
	outside := mgr.Add(Type{Name: "Lamp", Width: 1, Height: 1}, geom.NewBounds(99.5, 99.5, 1, 1), Owner{})

	mgr.FilterByBuildings([]geom.Bounds{geom.NewBounds(-10, -10, 20, 20)})

	remaining := mgr.All()
	if len(remaining) != 1 || remaining[0].ID != outside.ID {
		t.Fatalf("expected only outside element %d to remain, got %v", outside.ID, remaining)
	}
	_ = inside
}

func TestNoTypesConfiguredIsNoop(t *testing.T) {
	roads, buildings := setup(t)
	roads.Add(geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 100, Y: 0}})

	worldBounds := geom.NewBounds(-1000, -1000, 2000, 2000)
	mgr := NewManager(worldBounds, 8, 6, 1)
	r := rng.New(3, "element", []byte("cfg"))
	gen := NewGenerator(mgr, roads, buildings, Config{}, r)
	gen.GenerateAll()

	if mgr.Len() != 0 {
		t.Errorf("expected no elements with no configured types, got %d", mgr.Len())
	}
}
