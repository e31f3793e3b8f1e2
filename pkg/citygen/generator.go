package citygen

import (
	"fmt"

	"github.com/cityproc/citygen/internal/debug"
	"github.com/cityproc/citygen/internal/rng"
	"github.com/cityproc/citygen/pkg/building"
	"github.com/cityproc/citygen/pkg/citygraph"
	"github.com/cityproc/citygen/pkg/element"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
	"github.com/cityproc/citygen/pkg/route"
)

// phase names the five pipeline stages a Generator advances through, in
// order (spec §2 "Control flow").
type phase int

const (
	phaseRoad phase = iota
	phaseBuilding
	phaseElement
	phaseRoute
	phaseGraph
	phaseDone
)

// Generator is the main entry point for procedural city generation.
// Generate is deterministic: the same Config+seed produces byte-identical
// exporter output (spec §8 property 6). Grounded on the teacher's
// dungeon.DefaultGenerator: a struct owning every manager/sub-generator,
// orchestrating them stage by stage with stage-scoped RNGs derived via
// H(masterSeed, stageName, configHash).
type Generator struct {
	cfg Config

	roadGen     *road.Generator
	buildingGen *building.Generator
	elementGen  *element.Generator
	routeGen    *route.Generator
	graph       *citygraph.Graph

	phase phase
}

// NewGenerator constructs a Generator from cfg, wiring every manager and
// sub-generator and seeding the road phase from the centre of the
// configured world bounds. cfg must already be valid (LoadConfig/
// LoadConfigFromBytes validate on load; callers constructing a Config by
// hand should call Validate first).
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	configHash := cfg.Hash()
	seed := cfg.SeedValue()

	roadRNG := rng.New(seed, "road", configHash)
	buildingRNG := rng.New(seed, "building", configHash)
	elementRNG := rng.New(seed, "element", configHash)
	routeRNG := rng.New(seed, "route", configHash)

	worldBounds := cfg.Quadtree.Bounds
	maxObjects, maxLevels := cfg.Quadtree.MaxObjects, cfg.Quadtree.MaxLevels

	roadGen := road.NewGenerator(worldBounds, maxObjects, maxLevels, cfg.Road, roadRNG)
	roadGen.SetDebugLogger(debug.New(cfg.Debug))
	roadGen.Seed(worldBounds.Center(), true)

	buildingManager := building.NewManager(worldBounds, maxObjects, maxLevels, cfg.Building.BuildingBuildingDistance)
	buildingCfg := building.Config{
		BuildingBuildingDistance: cfg.Building.BuildingBuildingDistance,
		RoadBuildingDistance:     cfg.Building.RoadBuildingDistance,
		FrontageStride:           cfg.Building.FrontageStride,
		StrideJitter:             cfg.Building.StrideJitter,
		RequiredTypes:            nil,
		OptionalTypes:            nil,
	}
	for _, t := range cfg.buildingTypes() {
		if t.IsRequired {
			buildingCfg.RequiredTypes = append(buildingCfg.RequiredTypes, t)
		} else {
			buildingCfg.OptionalTypes = append(buildingCfg.OptionalTypes, t)
		}
	}
	buildingGen := building.NewGenerator(buildingManager, roadGen.Manager(), buildingCfg, buildingRNG)

	elementManager := element.NewManager(worldBounds, maxObjects, maxLevels, cfg.Element.ElementElementDistance)
	elementCfg := element.Config{
		ElementElementDistance:  cfg.Element.ElementElementDistance,
		ElementBuildingDistance: cfg.Element.ElementBuildingDistance,
		RoadElementSpacing:      cfg.Element.RoadElementSpacing,
		Types:                   cfg.elementTypes(),
		MaxAroundBuilding:       cfg.Element.MaxAroundBuilding,
	}
	elementGen := element.NewGenerator(elementManager, roadGen.Manager(), buildingManager, elementCfg, elementRNG)

	routeManager := route.NewManager()
	routeGen := route.NewGenerator(routeManager, cfg.Route, routeRNG)

	return &Generator{
		cfg:         cfg,
		roadGen:     roadGen,
		buildingGen: buildingGen,
		elementGen:  elementGen,
		routeGen:    routeGen,
		phase:       phaseRoad,
	}, nil
}

// IsGenerationComplete reports whether every phase has run (spec §6
// is_generation_complete).
func (g *Generator) IsGenerationComplete() bool { return g.phase == phaseDone }

// GenerateStep advances the pipeline by one unit of work: in the road
// phase, one proposal pop/apply/push cycle; in every later phase, the
// entire phase runs to completion in a single step, since buildings,
// elements, routes, and the graph are each a single deterministic pass
// with no natural finer-grained increment (spec §2 "Control flow":
// "when the road phase is complete, advances through building placement,
// element placement, route sampling, and finally derived graph
// construction"). Calling GenerateStep after completion is a no-op.
func (g *Generator) GenerateStep() {
	switch g.phase {
	case phaseRoad:
		_, done := g.roadGen.Step()
		if done {
			g.phase = phaseBuilding
		}
	case phaseBuilding:
		g.buildingGen.GenerateAll()
		g.phase = phaseElement
	case phaseElement:
		g.elementGen.GenerateAll()
		g.phase = phaseRoute
	case phaseRoute:
		g.generateRoutes()
		g.phase = phaseGraph
	case phaseGraph:
		g.graph = citygraph.Build(g.roadGen.Manager(), g.cfg.Sidewalk)
		g.phase = phaseDone
	case phaseDone:
		// no-op
	}
}

// Generate runs GenerateStep until IsGenerationComplete, then returns.
// generate() in spec §5 is described as "a pure computation" with "no
// suspension points and no cancellation" — this loop is that pure form.
func (g *Generator) Generate() {
	for !g.IsGenerationComplete() {
		g.GenerateStep()
	}
}

// generateRoutes samples one route along every accepted road segment, and
// — when any elements were placed — one additional route through the
// element set, exercising both of route sampler's two modes (spec §4.H).
// The config only tunes points-per-route (citygen.route.*), not a route
// count, so the per-segment-plus-one-element-pass cadence is this
// orchestrator's own scheduling decision, not a source-mandated count.
func (g *Generator) generateRoutes() {
	for _, r := range g.roadGen.Manager().All() {
		g.routeGen.GenerateRouteAlongRoad(r.Segment)
	}
	if all := g.elementGen.Manager().All(); len(all) > 0 {
		g.routeGen.GenerateRouteBasedOnElements(all)
	}
}

// Roads returns the accepted-road manager.
func (g *Generator) Roads() *road.Manager { return g.roadGen.Manager() }

// Intersections classifies every accepted road endpoint (spec §6
// read-only accessor).
func (g *Generator) Intersections() []road.Intersection {
	return road.ClassifyIntersections(g.roadGen.Manager())
}

// Buildings returns the placed-building manager.
func (g *Generator) Buildings() *building.Manager { return g.buildingGen.Manager() }

// Elements returns the placed-element manager.
func (g *Generator) Elements() *element.Manager { return g.elementGen.Manager() }

// Routes returns the sampled-route manager.
func (g *Generator) Routes() *route.Manager { return g.routeGen.Manager() }

// Graph returns the derived walkable graph, or nil before the graph phase
// has run.
func (g *Generator) Graph() *citygraph.Graph { return g.graph }

// AddRoad inserts a new road via the local-constraints pass and returns
// its id (spec §6 edit API). Only valid once the road phase has started.
// Invalidates the derived graph, since its sidewalk rings are keyed to the
// road set that existed when it was built (spec §6: each edit API call
// "invalidates dependent phases").
func (g *Generator) AddRoad(start, end geom.Point) (int, error) {
	id, err := g.roadGen.AddRoad(start, end)
	if err == nil {
		g.invalidateGraph()
	}
	return id, err
}

// RemoveRoad deletes an accepted road by id (spec §6 edit API).
// Invalidates the derived graph (see AddRoad).
func (g *Generator) RemoveRoad(id int) error {
	err := g.roadGen.RemoveRoad(id)
	if err == nil {
		g.invalidateGraph()
	}
	return err
}

// ModifyRoad re-runs the local-constraints pass for an existing road with
// a new start/end (spec §6 edit API). Per spec §9's open question, this
// does not re-run global-goal spawning for the modified segment, matching
// the source's behaviour. Invalidates the derived graph (see AddRoad).
func (g *Generator) ModifyRoad(id int, start, end geom.Point) error {
	err := g.roadGen.ModifyRoad(id, start, end)
	if err == nil {
		g.invalidateGraph()
	}
	return err
}

// invalidateGraph drops the cached derived graph after an edit-API call
// that changed the road set. Graph() returns nil until the caller runs
// the graph phase again (GenerateStep from phaseGraph, or Generate after
// rewinding to it).
func (g *Generator) invalidateGraph() {
	g.graph = nil
	if g.phase == phaseDone {
		g.phase = phaseGraph
	}
}

// ClosestNode returns the derived-graph node nearest to position (spec §6
// get_closest_node). Returns false if the graph has not been built yet.
func (g *Generator) ClosestNode(position geom.Point) (*citygraph.Node, bool) {
	if g.graph == nil {
		return nil, false
	}
	return g.graph.ClosestNode(position)
}

// AdjacentPoints returns the positions adjacent to a node id (spec §6
// get_adjacent_points).
func (g *Generator) AdjacentPoints(nodeID int) []geom.Point {
	if g.graph == nil {
		return nil
	}
	return g.graph.AdjacentPoints(nodeID)
}

// RandomNode returns a uniformly random node from the derived graph
// (spec §6 get_random_node).
func (g *Generator) RandomNode(r *rng.RNG) (*citygraph.Node, bool) {
	if g.graph == nil {
		return nil, false
	}
	return g.graph.RandomNode(r)
}

// EdgeDistanceBetween returns the shortest edge-hop distance between two
// derived-graph nodes (spec §6 get_edge_distance_between_two_points).
func (g *Generator) EdgeDistanceBetween(a, b int) (int, bool) {
	if g.graph == nil {
		return 0, false
	}
	return g.graph.EdgeDistanceBetween(a, b)
}
