package citygraph

import (
	"sort"

	"github.com/cityproc/citygen/pkg/geom"
)

// NodeType classifies a graph node (spec §3).
type NodeType int

const (
	NodeNormal NodeType = iota
	NodeIntersection
	NodeSupply
)

// Node is a point in the derived walkable graph.
type Node struct {
	ID       int
	Position geom.Point
	Type     NodeType
}

// Edge is an undirected, Euclidean-weighted connection between two nodes.
type Edge struct {
	From, To int
	Weight   float64
}

// Graph is the walkable graph derived from accepted road geometry (spec
// §4.I). Grounded on the adjacency-list/BFS shape of the teacher's old
// dungeon Room/Connector graph, generalised from string room IDs to
// integer node IDs and from directed dungeon connectors to undirected,
// weighted city edges.
type Graph struct {
	Nodes     map[int]*Node
	Edges     map[[2]int]*Edge // keyed by (min(from,to), max(from,to))
	Adjacency map[int][]int
	nextID    int
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:     make(map[int]*Node),
		Edges:     make(map[[2]int]*Edge),
		Adjacency: make(map[int][]int),
	}
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// AddNode inserts a new node at position with the given type and returns
// it.
func (g *Graph) AddNode(position geom.Point, t NodeType) *Node {
	n := &Node{ID: g.nextID, Position: position, Type: t}
	g.nextID++
	g.Nodes[n.ID] = n
	if g.Adjacency[n.ID] == nil {
		g.Adjacency[n.ID] = []int{}
	}
	return n
}

// AddEdge adds an undirected edge between a and b if one does not already
// exist, weighted by the Euclidean distance between their positions.
func (g *Graph) AddEdge(a, b int) *Edge {
	key := edgeKey(a, b)
	if e, ok := g.Edges[key]; ok {
		return e
	}
	na, ok := g.Nodes[a]
	if !ok {
		return nil
	}
	nb, ok := g.Nodes[b]
	if !ok {
		return nil
	}
	e := &Edge{From: a, To: b, Weight: na.Position.Distance(nb.Position)}
	g.Edges[key] = e
	g.Adjacency[a] = append(g.Adjacency[a], b)
	g.Adjacency[b] = append(g.Adjacency[b], a)
	return e
}

// HasEdge reports whether an edge already exists between a and b.
func (g *Graph) HasEdge(a, b int) bool {
	_, ok := g.Edges[edgeKey(a, b)]
	return ok
}

// AdjacentPoints returns the positions of every node adjacent to node.
func (g *Graph) AdjacentPoints(node int) []geom.Point {
	var out []geom.Point
	for _, id := range g.Adjacency[node] {
		if n, ok := g.Nodes[id]; ok {
			out = append(out, n.Position)
		}
	}
	return out
}

// ClosestNode returns the node nearest to position by Euclidean distance,
// and false if the graph has no nodes.
func (g *Graph) ClosestNode(position geom.Point) (*Node, bool) {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var best *Node
	bestDist := 0.0
	for _, id := range ids {
		n := g.Nodes[id]
		d := n.Position.Distance(position)
		if best == nil || d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, best != nil
}

// EdgeHopDistances returns the minimum number of edge hops from start to
// every reachable node, via BFS.
func (g *Graph) EdgeHopDistances(start int) map[int]int {
	dist := map[int]int{start: 0}
	if _, ok := g.Nodes[start]; !ok {
		return dist
	}
	queue := []int{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, neighbor := range g.Adjacency[current] {
			if _, seen := dist[neighbor]; seen {
				continue
			}
			dist[neighbor] = dist[current] + 1
			queue = append(queue, neighbor)
		}
	}
	return dist
}

// EdgeDistanceBetween returns the minimum edge-hop count between a and b,
// and false if b is unreachable from a.
func (g *Graph) EdgeDistanceBetween(a, b int) (int, bool) {
	dists := g.EdgeHopDistances(a)
	d, ok := dists[b]
	return d, ok
}

// ReachableFrom returns every node reachable from start (weak/undirected
// connectivity, since all edges are undirected).
func (g *Graph) ReachableFrom(start int) map[int]bool {
	reachable := make(map[int]bool)
	if _, ok := g.Nodes[start]; !ok {
		return reachable
	}
	queue := []int{start}
	reachable[start] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, neighbor := range g.Adjacency[current] {
			if !reachable[neighbor] {
				reachable[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}
	return reachable
}

// IsConnected reports whether every node is reachable from every other
// node (invariant I6, checked per physical road-connected component by
// the caller comparing against expected component membership).
func (g *Graph) IsConnected() bool {
	if len(g.Nodes) == 0 {
		return true
	}
	var start int
	for id := range g.Nodes {
		start = id
		break
	}
	return len(g.ReachableFrom(start)) == len(g.Nodes)
}
