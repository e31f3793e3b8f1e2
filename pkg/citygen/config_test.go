package citygen

import "testing"

func TestLoadConfigFromBytesValid(t *testing.T) {
	yaml := `
seed: 7
quadtree:
  bounds:
    x: -1000
    y: -1000
    width: 2000
    height: 2000
  maxObjects: 8
  maxLevels: 6
road:
  segmentCap: 200
  highwayLength: 800
  branchProbability: 0.35
  continuationJitterDeg: 5
  minLength: 20
  snapAngleDeg: 5
  minAngleBetweenDeg: 20
  parallelMinDistance: 20
  mergeDistance: 5
  snapDistance: 10
building:
  buildingBuildingDistance: 5
  roadBuildingDistance: 10
  frontageStride: 120
  strideJitter: 10
  requiredTypes:
    - name: House
      width: 40
      height: 30
    - name: Shop
      width: 60
      height: 40
element:
  elementElementDistance: 2
  elementBuildingDistance: 3
  roadElementSpacing: 30
  maxAroundBuilding: 3
  types:
    - name: Lamp
      width: 2
      height: 2
route:
  minPointsPerRoute: 3
  maxPointsPerRoute: 8
sidewalk:
  sidewalkOffset: 5
  slack: 1
outputDir: /tmp/out
`
	cfg, err := LoadConfigFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() failed: %v", err)
	}
	if cfg.SeedValue() != 7 {
		t.Errorf("SeedValue() = %d, want 7", cfg.SeedValue())
	}
	if cfg.Road.SegmentCap != 200 {
		t.Errorf("Road.SegmentCap = %d, want 200", cfg.Road.SegmentCap)
	}
	if len(cfg.Building.RequiredTypes) != 2 {
		t.Fatalf("expected 2 required building types, got %d", len(cfg.Building.RequiredTypes))
	}
	if cfg.Building.RequiredTypes[0].Name != "House" {
		t.Errorf("RequiredTypes[0].Name = %q, want House", cfg.Building.RequiredTypes[0].Name)
	}
}

func TestLoadConfigFromBytesDefaultsSeedWhenUnset(t *testing.T) {
	yaml := `
quadtree:
  bounds: {x: -100, y: -100, width: 200, height: 200}
  maxObjects: 8
  maxLevels: 6
road: {segmentCap: 50, minLength: 20}
building: {frontageStride: 120}
element: {}
route: {minPointsPerRoute: 2, maxPointsPerRoute: 4}
sidewalk: {sidewalkOffset: 5}
`
	cfg, err := LoadConfigFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() failed: %v", err)
	}
	if cfg.Seed == nil {
		t.Fatal("expected Seed to be defaulted, got nil")
	}
	if cfg.SeedValue() != defaultSeed {
		t.Errorf("SeedValue() = %d, want default %d", cfg.SeedValue(), defaultSeed)
	}
}

func TestConfigValidateRejectsBadQuadtreeBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quadtree.Bounds.Width = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for zero-width quadtree bounds")
	}
}

func TestConfigValidateRejectsBadRouteRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Route.MinPointsPerRoute = 5
	cfg.Route.MaxPointsPerRoute = 2
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error when min > max points per route")
	}
}

func TestConfigValidateRejectsEmptyTypeName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Building.RequiredTypes = []TypeCfg{{Name: "", Width: 10, Height: 10}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unnamed building type")
	}
}

func TestConfigHashDeterministic(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()

	ha := a.Hash()
	hb := b.Hash()
	if len(ha) != len(hb) {
		t.Fatalf("hash length mismatch: %d vs %d", len(ha), len(hb))
	}
	for i := range ha {
		if ha[i] != hb[i] {
			t.Fatal("expected identical configs to hash identically")
		}
	}
}

func TestConfigHashDiffersOnSeedChange(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	seedB := *b.Seed + 1
	b.Seed = &seedB

	if string(a.Hash()) == string(b.Hash()) {
		t.Fatal("expected different seeds to produce different hashes")
	}
}
