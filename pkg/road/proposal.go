package road

import (
	"container/heap"

	"github.com/cityproc/citygen/pkg/geom"
)

// Proposal is a pending road-growth candidate awaiting the local-constraints
// pass. T is the priority-queue delay: proposals are explored lowest-T
// first, so straight continuations (T = parent.T + 1) are explored before
// branches (T = parent.T + 1 + a penalty proportional to the turn plus
// jitter angle).
type Proposal struct {
	Segment geom.Segment
	T       float64

	// HighwayBudget is the remaining highway-length budget carried forward
	// from the seed proposal, used for highway-to-street demotion
	// (spec §4.E "Highway-to-street demotion after a configured length
	// budget").
	HighwayBudget float64

	seq int // insertion order, used to break T ties stably
}

// proposalHeap is the container/heap.Interface implementation backing
// Queue. Ties on T are broken by seq (insertion order), giving the stable
// minimum-by-T ordering spec §4.C requires.
type proposalHeap []*Proposal

func (h proposalHeap) Len() int { return len(h) }

func (h proposalHeap) Less(i, j int) bool {
	if h[i].T != h[j].T {
		return h[i].T < h[j].T
	}
	return h[i].seq < h[j].seq
}

func (h proposalHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *proposalHeap) Push(x any) {
	*h = append(*h, x.(*Proposal))
}

func (h *proposalHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Queue is a minimum-by-T priority queue of road proposals, ties broken by
// insertion order (spec §4.C).
type Queue struct {
	h       proposalHeap
	nextSeq int
}

// NewQueue returns an empty proposal queue.
func NewQueue() *Queue {
	q := &Queue{}
	heap.Init(&q.h)
	return q
}

// Push enqueues a proposal.
func (q *Queue) Push(p *Proposal) {
	p.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.h, p)
}

// Pop removes and returns the minimum-T proposal. Panics if the queue is
// empty; callers must check IsEmpty first.
func (q *Queue) Pop() *Proposal {
	return heap.Pop(&q.h).(*Proposal)
}

// IsEmpty reports whether the queue has no pending proposals.
func (q *Queue) IsEmpty() bool { return q.h.Len() == 0 }

// Len returns the number of pending proposals.
func (q *Queue) Len() int { return q.h.Len() }
