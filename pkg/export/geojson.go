package export

import (
	"bytes"
	"encoding/json"
	"os"

	geojson "github.com/paulmach/go.geojson"

	"github.com/cityproc/citygen/pkg/building"
	"github.com/cityproc/citygen/pkg/element"
	"github.com/cityproc/citygen/pkg/road"
)

// GeoJSON renders roads, buildings, and elements as a single GeoJSON
// FeatureCollection: roads become LineString features, buildings become
// Polygon features (their oriented footprint), and elements become Point
// features. A sibling export to the JSON/SVG formats for GIS-oriented
// downstream tools.
func GeoJSON(roads *road.Manager, buildings *building.Manager, elements *element.Manager) ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	if roads != nil {
		for _, r := range roads.All() {
			coords := [][]float64{
				{r.Segment.Start.X, r.Segment.Start.Y},
				{r.Segment.End.X, r.Segment.End.Y},
			}
			feature := geojson.NewFeature(geojson.NewLineStringGeometry(coords))
			feature.Properties = map[string]interface{}{
				"kind":    "road",
				"id":      r.ID,
				"highway": r.Segment.Highway,
			}
			fc.AddFeature(feature)
		}
	}

	if buildings != nil {
		for _, b := range buildings.All() {
			corners := b.Bounds.Corners()
			ring := make([][]float64, 0, len(corners)+1)
			for _, c := range corners {
				ring = append(ring, []float64{c.X, c.Y})
			}
			ring = append(ring, ring[0]) // GeoJSON polygons must close their ring.
			feature := geojson.NewFeature(geojson.NewPolygonGeometry([][][]float64{ring}))
			feature.Properties = map[string]interface{}{
				"kind":     "building",
				"id":       b.ID,
				"type":     b.Type.Name,
				"rotation": b.Rotation,
			}
			fc.AddFeature(feature)
		}
	}

	if elements != nil {
		for _, e := range elements.All() {
			feature := geojson.NewFeature(geojson.NewPointGeometry([]float64{e.Center.X, e.Center.Y}))
			feature.Properties = map[string]interface{}{
				"kind":     "element",
				"id":       e.ID,
				"type":     e.Type.Name,
				"rotation": e.Rotation,
			}
			fc.AddFeature(feature)
		}
	}

	raw, err := json.Marshal(fc)
	if err != nil {
		return nil, err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return nil, err
	}
	return pretty.Bytes(), nil
}

// SaveGeoJSON writes the GeoJSON FeatureCollection to filepath.
func SaveGeoJSON(roads *road.Manager, buildings *building.Manager, elements *element.Manager, filepath string) error {
	data, err := GeoJSON(roads, buildings, elements)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}
