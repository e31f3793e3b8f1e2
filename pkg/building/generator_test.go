package building

import (
	"testing"

	"github.com/cityproc/citygen/internal/rng"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
)

func newTestRoads(t *testing.T, segments ...geom.Segment) *road.Manager {
	t.Helper()
	bounds := geom.NewBounds(-5000, -5000, 10000, 10000)
	m := road.NewManager(bounds, 8, 6, 10)
	for _, s := range segments {
		m.Add(s)
	}
	return m
}

// TestBuildingCoverage covers scenario S4 (spec §8): a long single
// frontage with required House/Shop types must place at least one of each,
// and at least the expected minimum count given stride and both sides.
func TestBuildingCoverage(t *testing.T) {
	seg := geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 2000, Y: 0}}
	roads := newTestRoads(t, seg)

	worldBounds := geom.NewBounds(-5000, -5000, 10000, 10000)
	mgr := NewManager(worldBounds, 8, 6, 5)

	cfg := Config{
		BuildingBuildingDistance: 5,
		RoadBuildingDistance:     10,
		FrontageStride:           120,
		StrideJitter:             0,
		RequiredTypes: []Type{
			{Name: "House", Width: 40, Height: 30, IsRequired: true},
			{Name: "Shop", Width: 60, Height: 40, IsRequired: true},
		},
	}

	r := rng.New(1, "building", []byte("cfg"))
	gen := NewGenerator(mgr, roads, cfg, r)
	gen.GenerateAll()

	count := mgr.Len()
	minExpected := int(float64(2000/120) * 2 * 0.5)
	if count < minExpected {
		t.Errorf("building count = %d, want >= %d", count, minExpected)
	}

	hasHouse, hasShop := false, false
	for _, b := range mgr.All() {
		switch b.Type.Name {
		case "House":
			hasHouse = true
		case "Shop":
			hasShop = true
		}
	}
	if !hasHouse || !hasShop {
		t.Errorf("missing required type coverage: house=%v shop=%v", hasHouse, hasShop)
	}
}

// TestNoBuildingBuildingOverlap covers invariant I3.
func TestNoBuildingBuildingOverlap(t *testing.T) {
	seg := geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 1000, Y: 0}}
	roads := newTestRoads(t, seg)
	worldBounds := geom.NewBounds(-5000, -5000, 10000, 10000)
	mgr := NewManager(worldBounds, 8, 6, 5)

	cfg := Config{
		BuildingBuildingDistance: 5,
		RoadBuildingDistance:     10,
		FrontageStride:           50,
		StrideJitter:             5,
		OptionalTypes: []Type{
			{Name: "Shop", Width: 40, Height: 30},
		},
	}
	r := rng.New(2, "building", []byte("cfg"))
	gen := NewGenerator(mgr, roads, cfg, r)
	gen.GenerateAll()

	buildings := mgr.All()
	for i := 0; i < len(buildings); i++ {
		for j := i + 1; j < len(buildings); j++ {
			a := buildings[i].Bounds.Inflate(cfg.BuildingBuildingDistance)
			b := buildings[j].Bounds
			if a.Overlaps(b) {
				t.Errorf("buildings %d and %d overlap within building-building buffer", buildings[i].ID, buildings[j].ID)
			}
		}
	}
}

// TestNoRoadBuildingOverlap covers invariant I4.
func TestNoRoadBuildingOverlap(t *testing.T) {
	seg := geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 600, Y: 0}}
	roads := newTestRoads(t, seg)
	worldBounds := geom.NewBounds(-5000, -5000, 10000, 10000)
	mgr := NewManager(worldBounds, 8, 6, 5)

	cfg := Config{
		RoadBuildingDistance: 10,
		FrontageStride:       80,
		OptionalTypes:        []Type{{Name: "Shop", Width: 30, Height: 20}},
	}
	r := rng.New(3, "building", []byte("cfg"))
	gen := NewGenerator(mgr, roads, cfg, r)
	gen.GenerateAll()

	for _, b := range mgr.All() {
		check := b.Bounds.Inflate(cfg.RoadBuildingDistance)
		if check.Overlaps(seg.SafetyRect()) {
			t.Errorf("building %d overlaps road safety rectangle within buffer", b.ID)
		}
	}
}

func TestHighwayFrontageSkipped(t *testing.T) {
	seg := geom.Segment{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 500, Y: 0}, Highway: true}
	roads := newTestRoads(t, seg)
	worldBounds := geom.NewBounds(-5000, -5000, 10000, 10000)
	mgr := NewManager(worldBounds, 8, 6, 5)
	cfg := Config{FrontageStride: 50, OptionalTypes: []Type{{Name: "Shop", Width: 20, Height: 20}}}
	r := rng.New(4, "building", []byte("cfg"))
	gen := NewGenerator(mgr, roads, cfg, r)
	gen.GenerateAll()

	if mgr.Len() != 0 {
		t.Errorf("expected no buildings along a highway frontage, got %d", mgr.Len())
	}
}
