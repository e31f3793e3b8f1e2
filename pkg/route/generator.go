package route

import (
	"github.com/cityproc/citygen/internal/rng"
	"github.com/cityproc/citygen/pkg/building"
	"github.com/cityproc/citygen/pkg/element"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
)

// Config holds citygen.route.* tuning (spec §6).
type Config struct {
	MinPointsPerRoute int `yaml:"minPointsPerRoute"`
	MaxPointsPerRoute int `yaml:"maxPointsPerRoute"`
}

// Generator samples routes along roads and through element clusters
// (spec §4.H).
type Generator struct {
	manager *Manager
	cfg     Config
	rng     *rng.RNG
}

// NewGenerator creates a route generator writing into manager.
func NewGenerator(manager *Manager, cfg Config, r *rng.RNG) *Generator {
	return &Generator{manager: manager, cfg: cfg, rng: r}
}

// Manager returns the route manager this generator writes into.
func (g *Generator) Manager() *Manager { return g.manager }

// GenerateRouteAlongRoad samples N points in [MinPointsPerRoute,
// MaxPointsPerRoute] uniformly along seg and records them as a Route.
// Per the Open Question decision recorded in DESIGN.md, points are raw
// interpolations, never snapped to a graph node.
func (g *Generator) GenerateRouteAlongRoad(seg geom.Segment) Route {
	n := g.cfg.MinPointsPerRoute
	if g.cfg.MaxPointsPerRoute > g.cfg.MinPointsPerRoute {
		n = g.rng.IntRange(g.cfg.MinPointsPerRoute, g.cfg.MaxPointsPerRoute)
	}
	if n < 1 {
		n = 1
	}

	points := make([]geom.Point, n)
	for i := 0; i < n; i++ {
		points[i] = geom.Lerp(seg.Start, seg.End, g.rng.Float64())
	}
	return g.manager.AddRoutePoints(points)
}

// GenerateRouteBasedOnElements picks one element at random and records a
// single-point Route at its centre — a placeholder for downstream
// planners (spec §4.H).
func (g *Generator) GenerateRouteBasedOnElements(elements []*element.Element) Route {
	if len(elements) == 0 {
		return Route{}
	}
	e := elements[g.rng.Intn(len(elements))]
	return g.manager.AddRoutePoints([]geom.Point{e.Center})
}

// PointLabel is the structured summary returned by GetPointAroundLabel:
// up to k buildings (name + eight-wind direction from the query point)
// and up to k elements (histogram by type) within a square window of the
// given radius (spec §4.H), taken in quadtree-retrieval order rather than
// sorted by distance.
type PointLabel struct {
	ElementCounts   map[string]int
	BuildingDirections map[string]geom.Direction
}

// GetPointAroundLabel queries roads, buildings and elements for
// candidates within a square window of the given radius around point,
// then takes up to k of each kind in quadtree-retrieval order (no
// distance sort: a Supplemented Feature carried over from the Python
// source's get_point_around_label, which truncates before any nearest
// sort). Roads themselves do not contribute to the label; the manager is
// accepted only to keep the fan-in shape symmetric across all three
// spatial indices the original takes as a generic quadtree list.
func GetPointAroundLabel(point geom.Point, roads *road.Manager, buildings *building.Manager, elements *element.Manager, radius float64, k int) PointLabel {
	window := geom.NewBounds(point.X-radius, point.Y-radius, 2*radius, 2*radius)

	label := PointLabel{
		ElementCounts:      make(map[string]int),
		BuildingDirections: make(map[string]geom.Direction),
	}

	if elements != nil {
		candidates := elements.Candidates(window)
		if len(candidates) > k {
			candidates = candidates[:k]
		}
		for _, e := range candidates {
			label.ElementCounts[e.Type.Name]++
		}
	}

	if buildings != nil {
		candidates := buildings.Candidates(window)
		if len(candidates) > k {
			candidates = candidates[:k]
		}
		for _, b := range candidates {
			label.BuildingDirections[b.Type.Name] = geom.DirectionFromPoints(point, b.Center)
		}
	}

	_ = roads // reserved for symmetry with the multi-quadtree fan-in; roads carry no label-relevant type name

	return label
}
