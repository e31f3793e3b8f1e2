// Package citygen orchestrates the full city generation pipeline: road
// growth, building placement, element placement, route sampling, and
// derived-graph construction, driven by a nested Config (spec §6) and a
// single seeded RNG threaded through every stochastic decision.
//
// Generate runs the pipeline to completion; GenerateStep advances it by
// one unit of work at a time (one road proposal, or one later-phase pass)
// for incremental visualisation, mirroring the teacher's
// generate()/generate_step() split (spec §2 "Control flow"). The edit API
// (AddRoad/RemoveRoad/ModifyRoad) delegates straight into pkg/road's
// local-constraints pass.
package citygen
