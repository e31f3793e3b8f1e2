// Package validation checks the hard invariants I1-I6 of a generated
// city (spec §3) against the road, building, element, and derived-graph
// managers.
//
// # Hard invariants
//
//   - I1: no two accepted segments share a proper interior intersection.
//   - I2: no two distinct segment endpoints lie within merge tolerance
//     of each other without being the same Point (a near-miss the road
//     generator's snapping should have merged).
//   - I3: every building's OBB, inflated by the building-building
//     buffer, is disjoint from every other building's OBB.
//   - I4: every building's OBB, inflated by the road-building buffer, is
//     disjoint from every road-segment safety rectangle.
//   - I5: every element's Bounds, inflated by the element-element
//     buffer, is disjoint from every other element.
//   - I6: the derived graph is connected within each physical
//     road-connected component.
//
// # Usage
//
//	v := validation.NewValidator(cfg)
//	report := v.Validate(roads, buildings, elements, graph)
//	if !report.Passed {
//	    log.Printf("validation failed: %v", report.Errors)
//	}
package validation
