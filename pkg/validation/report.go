package validation

import (
	"fmt"
	"strings"
)

// Constraint categorizes a single invariant check (spec §3 invariants
// I1-I6), all of which are hard pass/fail checks for this validator.
type Constraint struct {
	Kind string
	Expr string
}

// ConstraintResult is the outcome of evaluating one Constraint.
type ConstraintResult struct {
	Constraint *Constraint
	Satisfied  bool
	Score      float64
	Details    string
}

// NewHardConstraintResult creates a pass/fail result (score is 1.0 or
// 0.0). Adapted from the teacher's dungeon validator
// (NewHardConstraintResult), generalised from dungeon-specific
// constraint kinds to the city invariants I1-I6.
func NewHardConstraintResult(kind, expr string, satisfied bool, details string) ConstraintResult {
	score := 0.0
	if satisfied {
		score = 1.0
	}
	return ConstraintResult{
		Constraint: &Constraint{Kind: kind, Expr: expr},
		Satisfied:  satisfied,
		Score:      score,
		Details:    details,
	}
}

// Report aggregates every constraint result from a Validate run.
type Report struct {
	Passed                bool
	HardConstraintResults []ConstraintResult
	Errors                []string
}

// NewReport creates an empty Report, passed by default until a failing
// hard constraint flips it.
func NewReport() *Report {
	return &Report{
		Passed:                true,
		HardConstraintResults: []ConstraintResult{},
		Errors:                []string{},
	}
}

// addHard records a hard-constraint result, flipping Passed and Errors
// on failure.
func (r *Report) addHard(res ConstraintResult) {
	r.HardConstraintResults = append(r.HardConstraintResults, res)
	if !res.Satisfied {
		r.Passed = false
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", res.Constraint.Kind, res.Details))
	}
}

// HasErrors reports whether any hard constraint failed.
func (r *Report) HasErrors() bool { return len(r.Errors) > 0 }

// FailedConstraints returns every unsatisfied hard constraint result.
func (r *Report) FailedConstraints() []ConstraintResult {
	var out []ConstraintResult
	for _, res := range r.HardConstraintResults {
		if !res.Satisfied {
			out = append(out, res)
		}
	}
	return out
}

// Summary returns a human-readable report summary.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Validation Report ===\n\npassed: %v\n\n", r.Passed)
	for _, res := range r.HardConstraintResults {
		fmt.Fprintf(&b, "%-24s satisfied=%-5v %s\n", res.Constraint.Kind, res.Satisfied, res.Details)
	}
	return b.String()
}
