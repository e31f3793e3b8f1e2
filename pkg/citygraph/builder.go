package citygraph

import (
	"sort"

	"github.com/cityproc/citygen/internal/rng"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
)

// Config holds graph-builder tuning. Spec §6's configuration key list
// does not name a citygen.graph.* section, so SidewalkOffset and Slack
// are engineering parameters invented to make §4.I's sidewalk-ring
// construction and adjacent-road connection concrete; see DESIGN.md.
type Config struct {
	SidewalkOffset float64 `yaml:"sidewalkOffset"`
	Slack          float64 `yaml:"slack"`
}

// Build constructs the derived walkable graph from the accepted roads in
// m: for each segment, a rectangular sidewalk ring of four corner nodes
// typed intersection, connected by four edges, followed by a pass
// connecting every pair of nodes closer than 2*SidewalkOffset+Slack
// (spec §4.I).
func Build(m *road.Manager, cfg Config) *Graph {
	g := NewGraph()

	for _, r := range m.All() {
		ringNodes(g, r.Segment, cfg.SidewalkOffset)
	}

	connectAdjacent(g, cfg.SidewalkOffset+cfg.SidewalkOffset+cfg.Slack)
	return g
}

// ringNodes constructs the four corner nodes and ring edges for one
// segment's sidewalk offset rectangle.
func ringNodes(g *Graph, seg geom.Segment, offset float64) {
	dir := seg.End.Sub(seg.Start).Normalize()
	normal := geom.Point{X: -dir.Y, Y: dir.X}

	startExt := seg.Start.Sub(dir.Scale(offset))
	endExt := seg.End.Add(dir.Scale(offset))

	corners := [4]geom.Point{
		startExt.Add(normal.Scale(offset)),
		endExt.Add(normal.Scale(offset)),
		endExt.Sub(normal.Scale(offset)),
		startExt.Sub(normal.Scale(offset)),
	}

	nodes := make([]*Node, 4)
	for i, c := range corners {
		nodes[i] = g.AddNode(c, NodeIntersection)
	}
	for i := 0; i < 4; i++ {
		g.AddEdge(nodes[i].ID, nodes[(i+1)%4].ID)
	}
}

// connectAdjacent adds an edge between every pair of nodes whose
// Euclidean distance is below threshold and which are not already
// connected (spec §4.I's "connect adjacent roads" pass).
func connectAdjacent(g *Graph, threshold float64) {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := g.Nodes[ids[i]], g.Nodes[ids[j]]
			if g.HasEdge(a.ID, b.ID) {
				continue
			}
			if a.Position.Distance(b.Position) < threshold {
				g.AddEdge(a.ID, b.ID)
			}
		}
	}
}

// RandomNode returns a uniformly random node, and false if the graph is
// empty.
func (g *Graph) RandomNode(r *rng.RNG) (*Node, bool) {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	if len(ids) == 0 {
		return nil, false
	}
	return g.Nodes[ids[r.Intn(len(ids))]], true
}

// RandomNodeWithinDistance returns a uniformly random node whose
// Euclidean distance from origin is at most maxDist, and false if none
// qualify.
func (g *Graph) RandomNodeWithinDistance(r *rng.RNG, origin geom.Point, maxDist float64) (*Node, bool) {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var candidates []*Node
	for _, id := range ids {
		n := g.Nodes[id]
		if n.Position.Distance(origin) <= maxDist {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates[r.Intn(len(candidates))], true
}

// RandomNodeWithinHops returns a uniformly random node reachable from
// start within maxHops edge hops, and false if none qualify.
func (g *Graph) RandomNodeWithinHops(r *rng.RNG, start int, maxHops int) (*Node, bool) {
	dists := g.EdgeHopDistances(start)
	ids := make([]int, 0, len(dists))
	for id := range dists {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var candidates []*Node
	for _, id := range ids {
		if dists[id] <= maxHops {
			if n, ok := g.Nodes[id]; ok {
				candidates = append(candidates, n)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates[r.Intn(len(candidates))], true
}
