package building

import (
	"github.com/cityproc/citygen/internal/rng"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
)

// maxStrideRetries bounds the stride-shift retry loop of spec §4.F step 4.
const maxStrideRetries = 4

// Config holds citygen.building.* tuning (spec §6).
type Config struct {
	BuildingBuildingDistance float64
	RoadBuildingDistance     float64
	FrontageStride           float64
	StrideJitter             float64
	RequiredTypes            []Type
	OptionalTypes            []Type
}

// Generator walks accepted road frontages and places buildings along them
// (spec §4.F).
type Generator struct {
	manager *Manager
	roads   *road.Manager
	cfg     Config
	rng     *rng.RNG

	requiredPlaced map[string]int
}

// NewGenerator creates a building generator writing into manager, reading
// road geometry from roads for the I4 buffer check.
func NewGenerator(manager *Manager, roads *road.Manager, cfg Config, r *rng.RNG) *Generator {
	return &Generator{
		manager:        manager,
		roads:          roads,
		cfg:            cfg,
		rng:            r,
		requiredPlaced: make(map[string]int),
	}
}

// Manager returns the building manager this generator writes into.
func (g *Generator) Manager() *Manager { return g.manager }

// GenerateAll walks every accepted non-highway road's two frontages.
// Highway frontages are skipped: highways are through-roads, not
// lot-fronting streets (spec §4.F applies to "each accepted (non-highway)
// segment").
func (g *Generator) GenerateAll() {
	for _, r := range g.roads.All() {
		if r.Segment.Highway {
			continue
		}
		g.generateFrontage(r.Segment, 1)
		g.generateFrontage(r.Segment, -1)
	}
}

// generateFrontage marches along seg on the given side (+1 left, -1
// right of travel direction), placing one building per stride position.
func (g *Generator) generateFrontage(seg geom.Segment, side float64) {
	length := seg.Length()
	if length < geom.Epsilon {
		return
	}
	dir := seg.End.Sub(seg.Start).Normalize()
	normal := geom.Point{X: -dir.Y, Y: dir.X}.Scale(side)

	// The frontage line runs just outside the road's safety rectangle, so
	// the road-building buffer is measured from the rectangle's edge.
	lateral := normal.Scale(seg.SafetyRect().Height/2 + geom.Epsilon)

	march := 0.0
	for march < length {
		frontagePt := seg.PointAt(march / length).Add(lateral)
		g.placeAt(seg, frontagePt, normal)
		march += g.cfg.FrontageStride + g.rng.Float64Range(-g.cfg.StrideJitter, g.cfg.StrideJitter)
	}
}

// placeAt attempts to place one building centred on frontagePt, offset
// outward along normal. On overlap it shifts the stride position forward
// by a half-stride and retries, up to maxStrideRetries times, then gives
// up silently (spec §4.F step 4).
func (g *Generator) placeAt(seg geom.Segment, frontagePt, normal geom.Point) {
	shift := dirAlong(seg)
	for attempt := 0; attempt <= maxStrideRetries; attempt++ {
		t := g.pickType()
		bounds := g.buildOBB(frontagePt, normal, seg.Angle(), t)

		if g.roadDisjoint(bounds) && g.manager.CanPlace(bounds, nil) {
			g.manager.Add(t, bounds)
			if t.IsRequired {
				g.requiredPlaced[t.Name]++
			}
			return
		}
		frontagePt = frontagePt.Add(shift.Scale(g.cfg.FrontageStride / 2))
	}
}

func dirAlong(seg geom.Segment) geom.Point {
	return seg.End.Sub(seg.Start).Normalize()
}

// buildOBB constructs the oriented bounding box for type t, centred
// offset outward from frontagePt by half its depth plus the
// road-building buffer, with its longest edge parallel to the road
// (spec §4.F step 2).
func (g *Generator) buildOBB(frontagePt, normal geom.Point, roadAngle float64, t Type) geom.Bounds {
	along, depth := t.Width, t.Height
	if depth > along {
		along, depth = depth, along
	}
	offset := g.cfg.RoadBuildingDistance + depth/2
	center := frontagePt.Add(normal.Scale(offset))
	return geom.Bounds{
		X:        center.X - along/2,
		Y:        center.Y - depth/2,
		Width:    along,
		Height:   depth,
		Rotation: roadAngle,
	}
}

// roadDisjoint implements invariant I4: bounds, inflated by the
// road-building buffer, must not overlap any road's safety rectangle —
// not only the fronted segment, since adjacent roads can cut across a
// deep lot.
func (g *Generator) roadDisjoint(bounds geom.Bounds) bool {
	check := bounds.Inflate(g.cfg.RoadBuildingDistance)
	for _, r := range g.roads.Candidates(check.AABB()) {
		if check.Overlaps(r.Segment.SafetyRect()) {
			return false
		}
	}
	return true
}

// pickType selects a BuildingType, biasing toward required types that
// have not yet been placed anywhere in this run (spec §4.F step 1:
// "biases selection to satisfy coverage before falling back to optional
// types. Selection is deterministic given the RNG seed").
func (g *Generator) pickType() Type {
	var missing []Type
	for _, rt := range g.cfg.RequiredTypes {
		if g.requiredPlaced[rt.Name] == 0 {
			missing = append(missing, rt)
		}
	}
	if len(missing) > 0 {
		return missing[g.rng.Intn(len(missing))]
	}

	all := make([]Type, 0, len(g.cfg.RequiredTypes)+len(g.cfg.OptionalTypes))
	all = append(all, g.cfg.RequiredTypes...)
	all = append(all, g.cfg.OptionalTypes...)
	if len(all) == 0 {
		return Type{Name: "default", Width: 20, Height: 20}
	}
	return all[g.rng.Intn(len(all))]
}
