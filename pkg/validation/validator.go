package validation

import (
	"github.com/cityproc/citygen/pkg/building"
	"github.com/cityproc/citygen/pkg/citygraph"
	"github.com/cityproc/citygen/pkg/element"
	"github.com/cityproc/citygen/pkg/road"
)

// Config holds the buffer distances the invariant checks need —
// mirrored from citygen.{road,building,element}.* so the validator can
// run independently of the generator's own Config type.
type Config struct {
	MergeDistance            float64
	BuildingBuildingDistance float64
	RoadBuildingDistance     float64
	ElementElementDistance   float64
}

// Validator runs every hard invariant (I1-I6) against a generated
// city's managers and derived graph. Adapted from the teacher's
// DefaultValidator (pkg/validation/validator.go), generalised from
// dungeon-specific hard/soft constraint checks (connectivity, key
// reachability, pacing) to the city's geometric invariants — all six
// of which are hard constraints here, so Validate has no soft-
// constraint phase.
type Validator struct {
	cfg Config
}

// NewValidator creates a Validator with the given buffer configuration.
func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate checks invariants I1-I6 and returns a Report. Any of roads,
// buildings, elements, or graph may be nil, which skips the checks that
// depend on it (useful for validating a partially generated city, e.g.
// after generate_step has only completed the road phase).
func (v *Validator) Validate(roads *road.Manager, buildings *building.Manager, elements *element.Manager, graph *citygraph.Graph) *Report {
	report := NewReport()

	if roads != nil {
		report.addHard(CheckNoProperIntersections(roads))
		report.addHard(CheckEndpointMerge(roads, v.cfg.MergeDistance))
	}
	if buildings != nil {
		report.addHard(CheckBuildingBuildingDisjoint(buildings, v.cfg.BuildingBuildingDistance))
		if roads != nil {
			report.addHard(CheckRoadBuildingDisjoint(buildings, roads, v.cfg.RoadBuildingDistance))
		}
	}
	if elements != nil {
		report.addHard(CheckElementElementDisjoint(elements, v.cfg.ElementElementDistance))
	}
	if roads != nil && graph != nil {
		report.addHard(CheckGraphConnected(roads, graph))
	}

	return report
}
