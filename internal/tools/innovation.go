package tools

import (
	"context"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/validators"
)

var validViolationStrategies = map[string]bool{
	"negate": true, "invert": true, "remove": true, "replace": true, "exaggerate": true,
}

// ChallengeAxiom unlocks radical premises for the round. An axiom the LLM
// names that isn't among extracted_axioms still challenges — it returns a
// warning, not a rejection, and still flips axiom_challenged. When no
// axioms were ever extracted there is nothing to check against, so an
// unrecognized axiom passes silently (spec §9 open question).
func ChallengeAxiom(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	axiom, err := reqString(input, "axiom")
	if err != nil {
		return nil, err
	}
	strategy, err := reqString(input, "violation_strategy")
	if err != nil {
		return nil, err
	}
	if !validViolationStrategies[strategy] {
		return nil, validationErr("violation_strategy", "must be one of negate, invert, remove, replace, exaggerate")
	}
	if _, err := reqString(input, "resulting_insight"); err != nil {
		return nil, err
	}

	env.State.AxiomChallenged = true

	known := false
	for _, a := range env.State.ExtractedAxioms {
		if a == axiom {
			known = true
			break
		}
	}
	if !known && len(env.State.ExtractedAxioms) > 0 {
		return Result{
			"status":  StatusWarning,
			"message": "axiom not found among extracted_axioms for this session",
			"axiom":   axiom,
		}, nil
	}
	return Result{"status": StatusOK, "axiom": axiom}, nil
}

// ImportForeignDomain is side-effect-free; it just validates and echoes.
func ImportForeignDomain(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	problemDomain, err := reqString(input, "problem_domain")
	if err != nil {
		return nil, err
	}
	sourceDomain, err := reqString(input, "source_domain")
	if err != nil {
		return nil, err
	}
	analogySeed, err := reqString(input, "analogy_seed")
	if err != nil {
		return nil, err
	}
	translatedInsight, err := reqString(input, "translated_insight")
	if err != nil {
		return nil, err
	}
	return Result{
		"status":             StatusOK,
		"problem_domain":     problemDomain,
		"source_domain":      sourceDomain,
		"analogy_seed":       analogySeed,
		"translated_insight": translatedInsight,
	}, nil
}

// ObviousnessTest applies the pure descriptor from validators.EvaluateObviousness:
// on rejection it removes the buffer entry and compacts obviousness_tested
// (invariant I3); on acceptance it marks the index tested.
func ObviousnessTest(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	bufferIndex, err := reqInt(input, "premise_buffer_index")
	if err != nil {
		return nil, err
	}
	if _, err := reqString(input, "premise_title"); err != nil {
		return nil, err
	}
	score, err := reqFloat(input, "obviousness_score")
	if err != nil {
		return nil, err
	}
	if score < 0 || score > 1 {
		return nil, validationErr("obviousness_score", "must be within [0, 1]")
	}
	if _, err := reqString(input, "justification"); err != nil {
		return nil, err
	}

	outcome, verr := validators.EvaluateObviousness(env.State, bufferIndex, score)
	if verr != nil {
		return nil, verr
	}

	if !outcome.Accepted {
		env.State.RemoveFromBuffer(bufferIndex)
		return Result{
			"status":              StatusRejected,
			"error_code":          string(ideaerrors.CodeTooObvious),
			"premise_index":       bufferIndex,
			"score":               score,
			"premises_in_buffer":  env.State.PremisesInBuffer(),
			"premises_remaining":  env.State.PremisesRemaining(),
		}, nil
	}

	env.State.ObviousnessTested[bufferIndex] = true
	return Result{
		"status":        StatusOK,
		"premise_index": bufferIndex,
		"score":         score,
		"all_tested":    env.State.AllPremisesTested(),
	}, nil
}

// InvertProblem is side-effect-free.
func InvertProblem(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	originalProblem, err := reqString(input, "original_problem")
	if err != nil {
		return nil, err
	}
	inversionType, err := reqString(input, "inversion_type")
	if err != nil {
		return nil, err
	}
	invertedFraming, err := reqString(input, "inverted_framing")
	if err != nil {
		return nil, err
	}
	insights, err := reqStringSlice(input, "insights")
	if err != nil {
		return nil, err
	}
	return Result{
		"status":           StatusOK,
		"original_problem": originalProblem,
		"inversion_type":   inversionType,
		"inverted_framing": invertedFraming,
		"insights":         insights,
	}, nil
}
