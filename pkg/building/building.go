package building

import "github.com/cityproc/citygen/pkg/geom"

// Type is a category of building (spec §3 BuildingType): a fixed footprint
// plus whether at least one instance is mandatory per road frontage when
// space permits.
type Type struct {
	Name       string
	Width      float64
	Height     float64
	IsRequired bool
}

// Building is a placed instance of a Type. Bounds.Rotation always equals
// Rotation and Bounds.Center() always equals Center (spec §3 invariant).
type Building struct {
	ID     int
	Type   Type
	Bounds geom.Bounds
	Rotation float64
	Center geom.Point
}

func newBuilding(id int, t Type, bounds geom.Bounds) Building {
	return Building{
		ID:       id,
		Type:     t,
		Bounds:   bounds,
		Rotation: bounds.Rotation,
		Center:   bounds.Center(),
	}
}

func buildingEqual(a, b *Building) bool { return a.ID == b.ID }
