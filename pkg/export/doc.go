// Package export serialises a generated city's roads, buildings,
// elements, and routes to the downstream formats spec
// §4.J names: four JSON documents (roads.json, buildings.json,
// elements.json, routes.json), a flat-node progen_world.json for the
// engine bridge, a top-down SVG visualisation, and a GeoJSON
// FeatureCollection sibling export.
package export
