package element

import "github.com/cityproc/citygen/pkg/geom"

// Type is a category of small point-item (lamp, sign, tree, bench) —
// spec §3 ElementType.
type Type struct {
	Name   string
	Width  float64
	Height float64
}

// OwnerKind distinguishes what an Element is attributed to for export
// (spec §3: "owner is either a Segment ... or a Building ... carried
// only for export attribution").
type OwnerKind int

const (
	OwnerNone OwnerKind = iota
	OwnerSegment
	OwnerBuilding
)

// Owner is a resolvable reference to the Segment or Building an Element
// was placed against. Only one of SegmentID/BuildingID is meaningful,
// selected by Kind.
type Owner struct {
	Kind      OwnerKind
	SegmentID int
	BuildingID int
}

// Element is a placed instance of a Type.
type Element struct {
	ID     int
	Type   Type
	Bounds geom.Bounds
	Rotation float64
	Center geom.Point
	Owner  Owner
}

func newElement(id int, t Type, bounds geom.Bounds, owner Owner) Element {
	return Element{
		ID:       id,
		Type:     t,
		Bounds:   bounds,
		Rotation: bounds.Rotation,
		Center:   bounds.Center(),
		Owner:    owner,
	}
}

func elementEqual(a, b *Element) bool { return a.ID == b.ID }
