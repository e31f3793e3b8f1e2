package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cityproc/citygen/pkg/building"
	"github.com/cityproc/citygen/pkg/element"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
	"github.com/cityproc/citygen/pkg/route"
)

// worldToCM converts a world-space coordinate to centimetres for the
// engine bridge (spec §4.J: "linear units chosen so 1 unit = 1 cm... the
// exporter multiplies by 100").
const worldToCM = 100.0

type pointDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toPointDTO(p geom.Point) pointDTO { return pointDTO{X: p.X, Y: p.Y} }

type boundsDTO struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

func toBoundsDTO(b geom.Bounds) boundsDTO {
	return boundsDTO{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height, Rotation: b.Rotation}
}

type roadDTO struct {
	ID      int      `json:"id"`
	Start   pointDTO `json:"start"`
	End     pointDTO `json:"end"`
	Highway bool     `json:"highway"`
}

// RoadsJSON renders roads.json: the accepted segments plus highway flag
// (spec §4.J), in manager insertion (acceptance) order.
func RoadsJSON(m *road.Manager) ([]byte, error) {
	out := make([]roadDTO, 0, m.Len())
	for _, r := range m.All() {
		out = append(out, roadDTO{
			ID:      r.ID,
			Start:   toPointDTO(r.Segment.Start),
			End:     toPointDTO(r.Segment.End),
			Highway: r.Segment.Highway,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

type buildingDTO struct {
	ID       int       `json:"id"`
	Type     string    `json:"type"`
	Center   pointDTO  `json:"center"`
	Bounds   boundsDTO `json:"bounds"`
	Rotation float64   `json:"rotation"`
}

// BuildingsJSON renders buildings.json: centre, OBB, rotation, type
// (spec §4.J), in placement-id order.
func BuildingsJSON(m *building.Manager) ([]byte, error) {
	out := make([]buildingDTO, 0, m.Len())
	for _, b := range m.All() {
		out = append(out, buildingDTO{
			ID:       b.ID,
			Type:     b.Type.Name,
			Center:   toPointDTO(b.Center),
			Bounds:   toBoundsDTO(b.Bounds),
			Rotation: b.Rotation,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

type ownerDTO struct {
	Kind       string `json:"kind"`
	SegmentID  *int   `json:"segment_id,omitempty"`
	BuildingID *int   `json:"building_id,omitempty"`
}

func toOwnerDTO(o element.Owner) *ownerDTO {
	switch o.Kind {
	case element.OwnerSegment:
		id := o.SegmentID
		return &ownerDTO{Kind: "segment", SegmentID: &id}
	case element.OwnerBuilding:
		id := o.BuildingID
		return &ownerDTO{Kind: "building", BuildingID: &id}
	default:
		return nil
	}
}

type elementDTO struct {
	ID       int       `json:"id"`
	Type     string    `json:"type"`
	Center   pointDTO  `json:"center"`
	Bounds   boundsDTO `json:"bounds"`
	Rotation float64   `json:"rotation"`
	Owner    *ownerDTO `json:"owner,omitempty"`
}

// ElementsJSON renders elements.json: centre, OBB, rotation, type,
// optional owner (spec §4.J), in placement-id order.
func ElementsJSON(m *element.Manager) ([]byte, error) {
	out := make([]elementDTO, 0, m.Len())
	for _, e := range m.All() {
		out = append(out, elementDTO{
			ID:       e.ID,
			Type:     e.Type.Name,
			Center:   toPointDTO(e.Center),
			Bounds:   toBoundsDTO(e.Bounds),
			Rotation: e.Rotation,
			Owner:    toOwnerDTO(e.Owner),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

type routeDTO struct {
	Points []pointDTO `json:"points"`
	Start  pointDTO   `json:"start"`
	End    pointDTO   `json:"end"`
}

// RoutesJSON renders routes.json: ordered points per route (spec §4.J),
// in creation order.
func RoutesJSON(m *route.Manager) ([]byte, error) {
	out := make([]routeDTO, 0, m.Len())
	for _, r := range m.All() {
		points := make([]pointDTO, len(r.Points))
		for i, p := range r.Points {
			points[i] = toPointDTO(p)
		}
		out = append(out, routeDTO{Points: points, Start: toPointDTO(r.Start), End: toPointDTO(r.End)})
	}
	return json.MarshalIndent(out, "", "  ")
}

type worldLocationDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type worldOrientationDTO struct {
	Yaw float64 `json:"yaw"`
}

type worldScaleDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type worldTransformDTO struct {
	Location    worldLocationDTO    `json:"location"`
	Orientation worldOrientationDTO `json:"orientation"`
	Scale       worldScaleDTO       `json:"scale"`
}

type worldNodeDTO struct {
	ID        string            `json:"id"`
	Transform worldTransformDTO `json:"transform"`
}

// WorldJSON renders progen_world.json: a flat node list with stable ids
// (GEN_<Type>_<n>) and engine-bridge transforms, covering every placed
// building and element, scaled ×100 into centimetres (spec §4.J).
func WorldJSON(buildings *building.Manager, elements *element.Manager) ([]byte, error) {
	counters := make(map[string]int)
	nextID := func(typeName string) string {
		n := counters[typeName]
		counters[typeName]++
		return fmt.Sprintf("GEN_%s_%d", typeName, n)
	}

	out := make([]worldNodeDTO, 0, buildings.Len()+elements.Len())
	for _, b := range buildings.All() {
		out = append(out, worldNodeDTO{
			ID: nextID(b.Type.Name),
			Transform: worldTransformDTO{
				Location:    worldLocationDTO{X: b.Center.X * worldToCM, Y: b.Center.Y * worldToCM, Z: 0},
				Orientation: worldOrientationDTO{Yaw: b.Rotation},
				Scale:       worldScaleDTO{X: 1, Y: 1, Z: 1},
			},
		})
	}
	for _, e := range elements.All() {
		out = append(out, worldNodeDTO{
			ID: nextID(e.Type.Name),
			Transform: worldTransformDTO{
				Location:    worldLocationDTO{X: e.Center.X * worldToCM, Y: e.Center.Y * worldToCM, Z: 0},
				Orientation: worldOrientationDTO{Yaw: e.Rotation},
				Scale:       worldScaleDTO{X: 1, Y: 1, Z: 1},
			},
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// saveToFile writes data to filepath with 0644 permissions (readable by
// all, writable by owner) — the teacher's own SaveJSONToFile convention.
func saveToFile(data []byte, filepath string) error {
	return os.WriteFile(filepath, data, 0644)
}

// SaveRoadsJSON writes roads.json to filepath.
func SaveRoadsJSON(m *road.Manager, filepath string) error {
	data, err := RoadsJSON(m)
	if err != nil {
		return err
	}
	return saveToFile(data, filepath)
}

// SaveBuildingsJSON writes buildings.json to filepath.
func SaveBuildingsJSON(m *building.Manager, filepath string) error {
	data, err := BuildingsJSON(m)
	if err != nil {
		return err
	}
	return saveToFile(data, filepath)
}

// SaveElementsJSON writes elements.json to filepath.
func SaveElementsJSON(m *element.Manager, filepath string) error {
	data, err := ElementsJSON(m)
	if err != nil {
		return err
	}
	return saveToFile(data, filepath)
}

// SaveRoutesJSON writes routes.json to filepath.
func SaveRoutesJSON(m *route.Manager, filepath string) error {
	data, err := RoutesJSON(m)
	if err != nil {
		return err
	}
	return saveToFile(data, filepath)
}

// SaveWorldJSON writes progen_world.json to filepath.
func SaveWorldJSON(buildings *building.Manager, elements *element.Manager, filepath string) error {
	data, err := WorldJSON(buildings, elements)
	if err != nil {
		return err
	}
	return saveToFile(data, filepath)
}
