// Package rng provides deterministic random number generation for the city
// generator.
//
// # Overview
//
// The RNG type ensures reproducible city generation by deriving stage-specific
// seeds from a master seed. This allows each pipeline stage (road growth,
// building placement, element placement, route sampling) to have an
// independent random sequence while the overall run stays deterministic.
//
// # Sub-seed derivation
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where H is SHA-256 and the first 8 bytes become the uint64 seed. Same
// inputs always produce the same sequence; different stages or configs never
// share a sequence.
//
// # Thread safety
//
// RNG instances are NOT thread-safe. The generator is single-threaded per
// §5 of the spec, so a single RNG instance is threaded explicitly through
// every stochastic decision rather than calling a package-level random
// source.
package rng
