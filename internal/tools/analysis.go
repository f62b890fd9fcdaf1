package tools

import (
	"context"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/sessionstate"
)

// DecomposeProblem marks the DECOMPOSE gate and records the decomposition
// on session state (spec §4.5 "Analysis (gates)").
func DecomposeProblem(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	problemStatement, err := reqString(input, "problem_statement")
	if err != nil {
		return nil, err
	}
	dimensions, err := reqStringSlice(input, "dimensions")
	if err != nil {
		return nil, err
	}

	env.State.Decomposition = &sessionstate.Decomposition{
		ProblemStatement:   problemStatement,
		Dimensions:         dimensions,
		ConstraintsReal:    optStringSlice(input, "constraints_real"),
		ConstraintsAssumed: optStringSlice(input, "constraints_assumed"),
		SuccessMetrics:     optStringSlice(input, "success_metrics"),
	}
	env.State.CompletedGates[sessionstate.GateDecompose] = true

	return Result{
		"status":          StatusOK,
		"gates_completed": completedGatesList(env.State),
		"gates_remaining": env.State.MissingGates(),
		"message":         "problem decomposition recorded",
	}, nil
}

// MapConventionalApproaches marks the CONVENTIONAL gate.
func MapConventionalApproaches(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	approaches, err := reqStringSlice(input, "approaches")
	if err != nil {
		return nil, err
	}

	env.State.ConventionalApproaches = approaches
	env.State.CompletedGates[sessionstate.GateConventional] = true

	return Result{
		"status":          StatusOK,
		"gates_completed": completedGatesList(env.State),
		"gates_remaining": env.State.MissingGates(),
		"message":         "conventional approaches recorded",
	}, nil
}

// ExtractHiddenAxioms marks the AXIOMS gate and appends to ExtractedAxioms.
func ExtractHiddenAxioms(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	axioms, err := reqStringSlice(input, "axioms")
	if err != nil {
		return nil, err
	}
	// existing_axioms is advisory context the LLM supplies for itself; the
	// session's own record of axioms is ExtractedAxioms, appended to below.
	_ = optStringSlice(input, "existing_axioms")

	env.State.ExtractedAxioms = append(env.State.ExtractedAxioms, axioms...)
	env.State.CompletedGates[sessionstate.GateAxioms] = true

	return Result{
		"status":          StatusOK,
		"gates_completed": completedGatesList(env.State),
		"gates_remaining": env.State.MissingGates(),
		"message":         "hidden axioms extracted",
	}, nil
}
