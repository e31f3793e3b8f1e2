package citygen

import (
	"testing"

	"github.com/cityproc/citygen/pkg/geom"
)

func smallCityConfig() Config {
	cfg := DefaultConfig()
	cfg.Quadtree.Bounds = geom.NewBounds(-500, -500, 1000, 1000)
	cfg.Road.SegmentCap = 12
	cfg.Building.RequiredTypes = []TypeCfg{{Name: "House", Width: 20, Height: 15}}
	cfg.Element.Types = []TypeCfg{{Name: "Lamp", Width: 2, Height: 2}}
	return cfg
}

func TestGenerateRunsAllPhasesToCompletion(t *testing.T) {
	gen, err := NewGenerator(smallCityConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	gen.Generate()

	if !gen.IsGenerationComplete() {
		t.Fatal("expected generation to be complete after Generate()")
	}
	if gen.Roads().Len() == 0 {
		t.Error("expected at least one accepted road")
	}
	if gen.Graph() == nil {
		t.Error("expected the derived graph to be built")
	}
}

func TestGenerateStepIsIncremental(t *testing.T) {
	gen, err := NewGenerator(smallCityConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	steps := 0
	for !gen.IsGenerationComplete() && steps < 100000 {
		gen.GenerateStep()
		steps++
	}
	if !gen.IsGenerationComplete() {
		t.Fatal("did not reach completion within the step budget")
	}
	if steps < 2 {
		t.Errorf("expected multiple steps across phases, got %d", steps)
	}
}

func TestGenerateStepAfterCompletionIsNoop(t *testing.T) {
	gen, err := NewGenerator(smallCityConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	gen.Generate()

	roadsBefore := gen.Roads().Len()
	gen.GenerateStep()
	if gen.Roads().Len() != roadsBefore {
		t.Error("expected GenerateStep to be a no-op once generation is complete")
	}
}

func TestGenerateIsDeterministicForFixedSeed(t *testing.T) {
	cfg := smallCityConfig()

	genA, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	genA.Generate()

	genB, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	genB.Generate()

	roadsA, roadsB := genA.Roads().All(), genB.Roads().All()
	if len(roadsA) != len(roadsB) {
		t.Fatalf("road counts differ: %d vs %d", len(roadsA), len(roadsB))
	}
	for i := range roadsA {
		if roadsA[i].Segment.Start != roadsB[i].Segment.Start || roadsA[i].Segment.End != roadsB[i].Segment.End {
			t.Fatalf("road %d differs between runs: %+v vs %+v", i, roadsA[i].Segment, roadsB[i].Segment)
		}
	}
}

func TestAddRoadInvalidatesGraph(t *testing.T) {
	gen, err := NewGenerator(smallCityConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	gen.Generate()
	if gen.Graph() == nil {
		t.Fatal("expected a graph after Generate()")
	}

	bounds := gen.cfg.Quadtree.Bounds
	start := geom.Point{X: bounds.X + 10, Y: bounds.Y + 10}
	end := geom.Point{X: bounds.X + 10, Y: bounds.Y + 200}
	if _, err := gen.AddRoad(start, end); err != nil {
		t.Fatalf("AddRoad: %v", err)
	}
	if gen.Graph() != nil {
		t.Error("expected Graph() to be nil immediately after AddRoad")
	}
	if gen.IsGenerationComplete() {
		t.Error("expected generation to no longer be complete after an edit invalidated the graph")
	}

	gen.Generate()
	if gen.Graph() == nil {
		t.Error("expected Graph() to be rebuilt after re-running Generate()")
	}
}

func TestIntersectionsAccessor(t *testing.T) {
	gen, err := NewGenerator(smallCityConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	gen.Generate()

	// Every intersection should resolve to a point among the accepted roads'
	// endpoints.
	endpoints := make(map[geom.Point]bool)
	for _, r := range gen.Roads().All() {
		endpoints[r.Segment.Start] = true
		endpoints[r.Segment.End] = true
	}
	for _, ix := range gen.Intersections() {
		if !endpoints[ix.Point] {
			t.Errorf("intersection at %v does not match any road endpoint", ix.Point)
		}
	}
}
