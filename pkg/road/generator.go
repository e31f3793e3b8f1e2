package road

import (
	"fmt"
	"math"

	"github.com/cityproc/citygen/internal/debug"
	"github.com/cityproc/citygen/internal/rng"
	"github.com/cityproc/citygen/pkg/geom"
)

// gridIncrement is the snap-to-grid angle unit used by local constraint 1.
// The spec leaves the grid unit unspecified; 90 degrees (the cardinal
// directions) is the natural choice for a block-oriented street layout.
const gridIncrement = 90.0

// parallelAngleEpsilonDeg is the angular tolerance used by the parallel-
// road-rejection constraint (local constraint 4).
const parallelAngleEpsilonDeg = 5.0

// nearFarEndFraction is the threshold above which an intersection
// parameter e is treated as "near the far end" (truncate only, no split of
// the crossed segment) rather than a genuine mid-segment crossing.
const nearFarEndFraction = 0.9

// Generator grows a road network from a seed point using the iterative
// priority-queue algorithm described in spec §4.E. It owns the Manager, the
// pending-proposal Queue, and the stage RNG exclusively for the duration of
// a run (spec §5 — single-threaded, no external mutation during growth).
type Generator struct {
	manager *Manager
	queue   *Queue
	cfg     Config
	rng     *rng.RNG
	log     *debug.Logger

	complete bool
}

// NewGenerator creates a road generator over worldBounds with the given
// quadtree split thresholds and tuning configuration.
func NewGenerator(worldBounds geom.Bounds, quadtreeMaxObjects, quadtreeMaxLevels int, cfg Config, r *rng.RNG) *Generator {
	return &Generator{
		manager: NewManager(worldBounds, quadtreeMaxObjects, quadtreeMaxLevels, cfg.SnapDistance),
		queue:   NewQueue(),
		cfg:     cfg,
		rng:     r,
		log:     debug.New(false),
	}
}

// SetDebugLogger replaces the generator's constraint-rejection trace
// logger (spec §7: rejections are "logged at debug level").
func (g *Generator) SetDebugLogger(l *debug.Logger) { g.log = l }

// Manager exposes the underlying road manager for read-only accessors and
// downstream phases (building frontage walk, graph derivation).
func (g *Generator) Manager() *Manager { return g.manager }

// Seed enqueues the two opposing initial proposals described in spec §4.E,
// both at T=0, both marked highway if highwayBackbone is set.
func (g *Generator) Seed(origin geom.Point, highwayBackbone bool) {
	angle := g.rng.Float64Range(0, 360)
	length := g.proposalLength(highwayBackbone)

	a := pointFromAngle(origin, angle, length)
	b := pointFromAngle(origin, geom.NormalizeDegrees(angle+180), length)

	budget := g.cfg.HighwayLength
	g.queue.Push(&Proposal{Segment: geom.Segment{Start: origin, End: a, Highway: highwayBackbone}, T: 0, HighwayBudget: budget})
	g.queue.Push(&Proposal{Segment: geom.Segment{Start: origin, End: b, Highway: highwayBackbone}, T: 0, HighwayBudget: budget})
}

// IsRoadPhaseComplete reports whether the growth loop has terminated
// (queue exhausted or segment cap reached).
func (g *Generator) IsRoadPhaseComplete() bool { return g.complete }

// Step pops and processes a single proposal, returning whether it was
// accepted and whether the road phase is now complete. Capacity exhaustion
// before any road was accepted is not an error (spec §7) — the caller reads
// Manager().Len() == 0 to detect it.
func (g *Generator) Step() (accepted, done bool) {
	if g.complete {
		return false, true
	}
	if g.queue.IsEmpty() || g.manager.Len() >= g.cfg.SegmentCap {
		g.complete = true
		return false, true
	}

	p := g.queue.Pop()
	result := g.applyLocalConstraints(p)

	switch result.kind {
	case constraintAcceptSplit:
		g.splitRoad(result.splitRoad, result.splitPoint)
		newRoad := g.manager.Add(result.segment)
		g.spawnGlobalGoals(p, newRoad)
		accepted = true
	case constraintAccept:
		newRoad := g.manager.Add(result.segment)
		g.spawnGlobalGoals(p, newRoad)
		accepted = true
	case constraintReject:
		// normal outcome, not an error (spec §7)
	}

	if g.queue.IsEmpty() || g.manager.Len() >= g.cfg.SegmentCap {
		g.complete = true
	}
	return accepted, g.complete
}

// Run drives Step to completion.
func (g *Generator) Run() {
	for !g.complete {
		g.Step()
	}
}

// splitRoad replaces existing with its portion up to at (keeping its id)
// and adds the remainder as a new Road, implementing the T-junction split
// of local constraint 2.
func (g *Generator) splitRoad(existing *Road, at geom.Point) {
	original := existing.Segment
	first := geom.Segment{Start: original.Start, End: at, Highway: original.Highway}
	second := geom.Segment{Start: at, End: original.End, Highway: original.Highway}
	g.manager.Update(existing, first)
	g.manager.Add(second)
}

type constraintKind int

const (
	constraintReject constraintKind = iota
	constraintAccept
	constraintAcceptSplit
)

type constraintResult struct {
	kind       constraintKind
	segment    geom.Segment
	splitRoad  *Road
	splitPoint geom.Point
}

// reject logs reason at debug level and returns a rejected constraintResult.
// Rejection is a normal outcome, not an error (spec §7); the log call is the
// only record of why, since the queue simply drops the proposal.
func (g *Generator) reject(reason string) constraintResult {
	g.log.Printf("road: rejected proposal: %s", reason)
	return constraintResult{kind: constraintReject}
}

// applyLocalConstraints runs the five-step pass of spec §4.E in order.
func (g *Generator) applyLocalConstraints(p *Proposal) constraintResult {
	return g.evaluateConstraints(p.Segment, nil)
}

// evaluateConstraints is applyLocalConstraints generalised with an excluded
// road, used by ModifyRoad so a road being moved never collides with its
// own pre-edit self.
func (g *Generator) evaluateConstraints(seg geom.Segment, exclude *Road) constraintResult {
	// 1. Length and angle sanity.
	if seg.Length() < g.cfg.MinLength {
		return g.reject("below minimum length")
	}
	seg = g.snapToGrid(seg)

	// 2. Intersect existing segments: pick the crossing closest to the
	// proposal's start (smallest e), then decide split vs. truncate-only.
	// The query is padded by ParallelMinDistance so that the same candidate
	// set also covers the parallel-road check of step 4.
	candidates := excludeRoad(g.manager.Candidates(seg.AABB(g.cfg.ParallelMinDistance)), exclude)
	bestE := math.Inf(1)
	var bestRoad *Road
	var bestPoint geom.Point
	for _, cand := range candidates {
		pt, e, ok := geom.SegmentIntersection(seg.Start, seg.End, cand.Segment.Start, cand.Segment.End)
		if !ok {
			continue
		}
		if e < bestE {
			bestE, bestRoad, bestPoint = e, cand, pt
		}
	}

	result := constraintAccept
	var splitRoad *Road
	if bestRoad != nil {
		seg.End = bestPoint
		if bestE < nearFarEndFraction {
			result = constraintAcceptSplit
			splitRoad = bestRoad
		}
		if seg.Length() < g.cfg.MinLength {
			return g.reject("truncated below minimum length by an intersection")
		}
	}

	// 3. Endpoint snapping.
	seg.End = g.snapEndpoint(seg.End, exclude)
	if seg.Length() < g.cfg.MinLength {
		return g.reject("truncated below minimum length by endpoint snapping")
	}

	// 4. Parallel road rejection.
	if g.isParallelTooClose(seg, candidates) {
		return g.reject("too close and parallel to an existing road")
	}

	// 5. Angle crowding at the shared start endpoint.
	if g.isAngleCrowded(seg, exclude) {
		return g.reject("angle too close to an existing road at the shared endpoint")
	}

	return constraintResult{kind: result, segment: seg, splitRoad: splitRoad, splitPoint: bestPoint}
}

// snapToGrid adjusts seg's orientation to the nearest grid angle when
// within SnapAngleDeg of it (local constraint 1's snapping clause).
func (g *Generator) snapToGrid(seg geom.Segment) geom.Segment {
	angle := seg.Angle()
	nearest := math.Round(angle/gridIncrement) * gridIncrement
	if geom.AngleBetween(angle, geom.NormalizeDegrees(nearest)) >= g.cfg.SnapAngleDeg {
		return seg
	}
	length := seg.Length()
	seg.End = pointFromAngle(seg.Start, nearest, length)
	return seg
}

// snapEndpoint snaps p to the nearest existing road endpoint within
// MergeDistance, if any (local constraint 3).
func (g *Generator) snapEndpoint(p geom.Point, exclude *Road) geom.Point {
	d := g.cfg.MergeDistance
	query := geom.Bounds{X: p.X - d, Y: p.Y - d, Width: 2 * d, Height: 2 * d}
	best := p
	bestDist := d
	for _, r := range excludeRoad(g.manager.Candidates(query), exclude) {
		for _, ep := range [2]geom.Point{r.Segment.Start, r.Segment.End} {
			if dist := p.Distance(ep); dist < bestDist {
				bestDist, best = dist, ep
			}
		}
	}
	return best
}

// excludeRoad returns roads with exclude filtered out, by identity. A nil
// exclude is a no-op.
func excludeRoad(roads []*Road, exclude *Road) []*Road {
	if exclude == nil {
		return roads
	}
	out := roads[:0:0]
	for _, r := range roads {
		if r != exclude {
			out = append(out, r)
		}
	}
	return out
}

// isParallelTooClose implements local constraint 4: reject proposals
// nearly parallel to, and laterally too close to, an existing segment over
// their overlapping extent.
func (g *Generator) isParallelTooClose(seg geom.Segment, candidates []*Road) bool {
	for _, r := range candidates {
		cand := r.Segment
		if geom.MinDegreeDifference(seg.Angle(), cand.Angle()) >= parallelAngleEpsilonDeg {
			continue
		}
		d1 := geom.PointSegmentDistance(seg.Start, cand.Start, cand.End)
		d2 := geom.PointSegmentDistance(seg.End, cand.Start, cand.End)
		if math.Min(d1, d2) < g.cfg.ParallelMinDistance {
			return true
		}
	}
	return false
}

// isAngleCrowded implements local constraint 5: reject if the new segment
// would sit closer than MinAngleBetweenDeg to any segment already incident
// at its start endpoint.
func (g *Generator) isAngleCrowded(seg geom.Segment, exclude *Road) bool {
	for _, a := range g.incidentAngles(seg.Start, exclude) {
		if geom.AngleBetween(a, seg.Angle()) < g.cfg.MinAngleBetweenDeg {
			return true
		}
	}
	return false
}

// incidentAngles returns the outward orientation of every accepted road
// touching p within merge tolerance.
func (g *Generator) incidentAngles(p geom.Point, exclude *Road) []float64 {
	d := g.cfg.MergeDistance
	query := geom.Bounds{X: p.X - d, Y: p.Y - d, Width: 2 * d, Height: 2 * d}
	var angles []float64
	for _, r := range excludeRoad(g.manager.Candidates(query), exclude) {
		switch {
		case r.Segment.Start.Equal(p):
			angles = append(angles, r.Segment.Angle())
		case r.Segment.End.Equal(p):
			angles = append(angles, geom.NormalizeDegrees(r.Segment.Angle()+180))
		}
	}
	return angles
}

// proposalLength draws a random block length for a newly spawned proposal.
// Highway blocks run longer than street blocks; neither length is a
// configuration key (spec §6 only budgets total highway length), so both
// ranges are derived from min_length.
func (g *Generator) proposalLength(highway bool) float64 {
	if highway {
		return g.rng.Float64Range(g.cfg.MinLength*4, g.cfg.MinLength*8)
	}
	return g.rng.Float64Range(g.cfg.MinLength*1.5, g.cfg.MinLength*4)
}

// branchWeights returns the continuation and per-side branch probabilities
// for a segment, biased so highways continue more and branch less than
// streets (spec §4.E "global goals").
func (g *Generator) branchWeights(highway bool) (continuation, branch float64) {
	if highway {
		return 1 - g.cfg.BranchProbability*0.5, g.cfg.BranchProbability * 0.25
	}
	return 1 - g.cfg.BranchProbability, g.cfg.BranchProbability * 0.5
}

// spawnGlobalGoals enqueues 0..3 new proposals from accepted's far endpoint:
// a straight continuation and up to two ±90-degree branches, each gated by
// branchWeights. Highway segments demote to streets once their cumulative
// length budget (carried forward from the seed via parent.HighwayBudget) is
// exhausted.
func (g *Generator) spawnGlobalGoals(parent *Proposal, accepted *Road) {
	seg := accepted.Segment
	budget := parent.HighwayBudget
	if seg.Highway {
		budget -= seg.Length()
	}
	stillHighway := seg.Highway && budget > 0

	continuation, branch := g.branchWeights(seg.Highway)

	if g.rng.Float64() < continuation {
		g.enqueue(seg, 0, stillHighway, parent.T, budget)
	}
	if g.rng.Float64() < branch {
		g.enqueue(seg, 90, stillHighway, parent.T, budget)
	}
	if g.rng.Float64() < branch {
		g.enqueue(seg, -90, stillHighway, parent.T, budget)
	}
}

// enqueue builds and pushes one spawned proposal deviating from parentSeg's
// orientation by turnDeg (0 for straight continuation, ±90 for a branch),
// with jitter applied. t is the open-question formula (spec §9): straight
// continuations pay only the unit step, branches pay an additional penalty
// of (|turnDeg| + |jitter|) / 90, so straighter growth is always explored
// first.
func (g *Generator) enqueue(parentSeg geom.Segment, turnDeg float64, highway bool, parentT float64, budget float64) {
	jitter := g.rng.Float64Range(-g.cfg.ContinuationJitterDeg, g.cfg.ContinuationJitterDeg)
	angle := parentSeg.Angle() + turnDeg + jitter
	length := g.proposalLength(highway)
	end := pointFromAngle(parentSeg.End, angle, length)

	penalty := 0.0
	if turnDeg != 0 {
		penalty = (math.Abs(turnDeg) + math.Abs(jitter)) / 90
	}

	g.queue.Push(&Proposal{
		Segment:       geom.Segment{Start: parentSeg.End, End: end, Highway: highway},
		T:             parentT + 1 + penalty,
		HighwayBudget: budget,
	})
}

func pointFromAngle(origin geom.Point, angleDeg, length float64) geom.Point {
	rad := angleDeg * math.Pi / 180
	return geom.Point{X: origin.X + length*math.Cos(rad), Y: origin.Y + length*math.Sin(rad)}
}

// AddRoad is the external edit-API operation (spec §6): it runs the same
// local-constraints pass a grown proposal would undergo and, on
// acceptance, adds the (possibly truncated/snapped) segment to the
// manager. It returns an error if the constraints pass rejects the
// segment outright, or if either endpoint is non-finite (spec §7
// "numerical degeneracy").
func (g *Generator) AddRoad(start, end geom.Point) (int, error) {
	if !finitePoint(start) || !finitePoint(end) {
		return 0, fmt.Errorf("road: non-finite coordinate in AddRoad(%v, %v)", start, end)
	}
	result := g.evaluateConstraints(geom.Segment{Start: start, End: end}, nil)
	if result.kind == constraintReject {
		return 0, fmt.Errorf("road: AddRoad(%v, %v) rejected by local constraints", start, end)
	}
	if result.kind == constraintAcceptSplit {
		g.splitRoad(result.splitRoad, result.splitPoint)
	}
	return g.manager.Add(result.segment).ID, nil
}

// RemoveRoad deletes the road with the given id. It does not re-derive any
// downstream phase; the caller (citygen.Generator) is responsible for
// invalidating building/element/route/graph state built from it.
func (g *Generator) RemoveRoad(id int) error {
	r, ok := g.manager.Get(id)
	if !ok {
		return fmt.Errorf("road: no road with id %d", id)
	}
	g.manager.Remove(r)
	return nil
}

// ModifyRoad re-runs the local-constraints pass for road id against its new
// endpoints, excluding the road's own prior geometry from every candidate
// check so it never collides with itself. Per spec §9's open-question
// resolution, this does not re-run global-goal spawning: modifying a road
// never grows new proposals from its endpoints, it only re-validates and
// repositions the one segment.
func (g *Generator) ModifyRoad(id int, start, end geom.Point) error {
	if !finitePoint(start) || !finitePoint(end) {
		return fmt.Errorf("road: non-finite coordinate in ModifyRoad(%d, %v, %v)", id, start, end)
	}
	r, ok := g.manager.Get(id)
	if !ok {
		return fmt.Errorf("road: no road with id %d", id)
	}

	seg := geom.Segment{Start: start, End: end, Highway: r.Segment.Highway}
	result := g.evaluateConstraints(seg, r)
	if result.kind == constraintReject {
		return fmt.Errorf("road: ModifyRoad(%d, %v, %v) rejected by local constraints", id, start, end)
	}
	if result.kind == constraintAcceptSplit {
		g.splitRoad(result.splitRoad, result.splitPoint)
	}
	g.manager.Update(r, result.segment)
	return nil
}

func finitePoint(p geom.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
