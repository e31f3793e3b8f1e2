package route

import "github.com/cityproc/citygen/pkg/geom"

// Route is an ordered sequence of Points sampled along a road or through
// an element cluster, for downstream agent planners (spec §3).
type Route struct {
	Points []geom.Point
	Start  geom.Point
	End    geom.Point
}

func newRoute(points []geom.Point) Route {
	return Route{
		Points: points,
		Start:  points[0],
		End:    points[len(points)-1],
	}
}

// Manager holds the canonical list of sampled routes, grounded on
// original_source/simworld/citygen/route/route_manager.py's
// RouteManager.add_route_points.
type Manager struct {
	routes []Route
}

// NewManager creates an empty route manager.
func NewManager() *Manager {
	return &Manager{}
}

// AddRoutePoints records a new Route over points. points must be
// non-empty.
func (m *Manager) AddRoutePoints(points []geom.Point) Route {
	r := newRoute(points)
	m.routes = append(m.routes, r)
	return r
}

// All returns every recorded Route in creation order.
func (m *Manager) All() []Route { return m.routes }

// Len returns the number of recorded routes.
func (m *Manager) Len() int { return len(m.routes) }
