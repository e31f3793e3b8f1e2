package element

import (
	"github.com/cityproc/citygen/internal/rng"
	"github.com/cityproc/citygen/pkg/building"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
)

// Config holds citygen.element.* tuning (spec §6).
type Config struct {
	ElementElementDistance  float64
	ElementBuildingDistance float64
	RoadElementSpacing      float64
	Types                   []Type

	MaxAroundBuilding int // k in spec §4.G's "0..k elements"
}

// Generator places elements in the two modes of spec §4.G, run in
// sequence after buildings: spline-along-road, then around-building.
type Generator struct {
	manager   *Manager
	roads     *road.Manager
	buildings *building.Manager
	cfg       Config
	rng       *rng.RNG
}

// NewGenerator creates an element generator writing into manager, reading
// road and building geometry for the collision filter.
func NewGenerator(manager *Manager, roads *road.Manager, buildings *building.Manager, cfg Config, r *rng.RNG) *Generator {
	return &Generator{manager: manager, roads: roads, buildings: buildings, cfg: cfg, rng: r}
}

// Manager returns the element manager this generator writes into.
func (g *Generator) Manager() *Manager { return g.manager }

// GenerateAll runs spline-along-road over every accepted segment, then
// around-building over every placed building, then the defensive
// filter_elements_by_buildings cleanup pass.
func (g *Generator) GenerateAll() {
	if len(g.cfg.Types) == 0 {
		return
	}
	for _, r := range g.roads.All() {
		g.generateAlongRoad(r)
	}
	for _, b := range g.buildings.All() {
		g.generateAroundBuilding(b)
	}
	g.finalFilter()
}

// generateAlongRoad proposes an element from the configured types at
// evenly spaced offsets along seg, owned by that Segment.
func (g *Generator) generateAlongRoad(r *road.Road) {
	length := r.Segment.Length()
	if length < geom.Epsilon || g.cfg.RoadElementSpacing <= 0 {
		return
	}
	dir := r.Segment.End.Sub(r.Segment.Start).Normalize()
	normal := geom.Point{X: -dir.Y, Y: dir.X}

	for march := 0.0; march < length; march += g.cfg.RoadElementSpacing {
		t := g.pickType()
		pt := r.Segment.PointAt(march / length)
		center := pt.Add(normal.Scale(g.cfg.RoadElementSpacing / 2))
		bounds := g.obbAt(center, r.Segment.Angle(), t)

		if g.collidesWithRoads(bounds) {
			continue
		}
		if g.collidesWithBuildings(bounds) {
			continue
		}
		if !g.manager.CanPlace(bounds, nil) {
			continue
		}
		g.manager.Add(t, bounds, Owner{Kind: OwnerSegment, SegmentID: r.ID})
	}
}

// generateAroundBuilding proposes 0..MaxAroundBuilding elements along the
// perimeter of b, offset outward by ElementBuildingDistance, owned by b.
func (g *Generator) generateAroundBuilding(b *building.Building) {
	if g.cfg.MaxAroundBuilding <= 0 {
		return
	}
	n := g.rng.Intn(g.cfg.MaxAroundBuilding + 1)
	corners := b.Bounds.Corners()
	if len(corners) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		c := corners[i%len(corners)]
		outward := c.Sub(b.Center).Normalize()
		center := c.Add(outward.Scale(g.cfg.ElementBuildingDistance))

		t := g.pickType()
		bounds := g.obbAt(center, b.Rotation, t)

		if g.collidesWithRoads(bounds) {
			continue
		}
		if g.collidesWithBuildings(bounds) {
			continue
		}
		if !g.manager.CanPlace(bounds, nil) {
			continue
		}
		g.manager.Add(t, bounds, Owner{Kind: OwnerBuilding, BuildingID: b.ID})
	}
}

// finalFilter runs the defensive filter_elements_by_buildings cleanup
// pass (spec §4.G).
func (g *Generator) finalFilter() {
	all := g.buildings.All()
	bounds := make([]geom.Bounds, len(all))
	for i, b := range all {
		bounds[i] = b.Bounds
	}
	g.manager.FilterByBuildings(bounds)
}

func (g *Generator) obbAt(center geom.Point, angle float64, t Type) geom.Bounds {
	return geom.Bounds{
		X:        center.X - t.Width/2,
		Y:        center.Y - t.Height/2,
		Width:    t.Width,
		Height:   t.Height,
		Rotation: angle,
	}
}

func (g *Generator) collidesWithRoads(bounds geom.Bounds) bool {
	for _, r := range g.roads.Candidates(bounds.AABB()) {
		if bounds.Overlaps(r.Segment.SafetyRect()) {
			return true
		}
	}
	return false
}

func (g *Generator) collidesWithBuildings(bounds geom.Bounds) bool {
	check := bounds.Inflate(g.cfg.ElementBuildingDistance)
	for _, b := range g.buildings.Candidates(check.AABB()) {
		if check.Overlaps(b.Bounds) {
			return true
		}
	}
	return false
}

func (g *Generator) pickType() Type {
	return g.cfg.Types[g.rng.Intn(len(g.cfg.Types))]
}
