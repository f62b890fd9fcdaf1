package tools

import (
	"context"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/validators"
	"github.com/ghostpath/sessionrt/pkg/models"
)

func parsePremiseType(input map[string]any) (models.PremiseType, *ideaerrors.Error) {
	raw, err := reqString(input, "premise_type")
	if err != nil {
		return "", err
	}
	pt := models.PremiseType(raw)
	switch pt {
	case models.PremiseInitial, models.PremiseConservative, models.PremiseRadical, models.PremiseCombination:
		return pt, nil
	default:
		return "", validationErr("premise_type", "must be one of initial, conservative, radical, combination")
	}
}

func stageBuffered(env *Env, input map[string]any, title, body string, premiseType models.PremiseType) Result {
	bp := models.BufferedPremise{
		Title:             title,
		Body:              body,
		Type:              premiseType,
		ViolatedAxiom:     optString(input, "violated_axiom"),
		CrossDomainSource: optString(input, "cross_domain_source"),
	}
	idx := env.State.AppendToBuffer(bp)
	return Result{
		"status":             StatusOK,
		"buffer_position":    idx,
		"premises_remaining": env.State.PremisesRemaining(),
	}
}

// GeneratePremise appends a freshly generated premise to the round buffer
// once every generation precondition passes (spec §4.4, §4.5).
func GeneratePremise(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	title, err := reqString(input, "title")
	if err != nil {
		return nil, err
	}
	body, err := reqString(input, "body")
	if err != nil {
		return nil, err
	}
	premiseType, err := parsePremiseType(input)
	if err != nil {
		return nil, err
	}
	if verr := validators.CheckGenerationPreconditions(env.State, premiseType); verr != nil {
		return nil, verr
	}
	return stageBuffered(env, input, title, body, premiseType), nil
}

// MutatePremise stages a variant of an existing premise; the source fields
// are descriptive context for the LLM only, not looked up in the buffer.
func MutatePremise(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	if _, err := reqString(input, "source_title"); err != nil {
		return nil, err
	}
	title, err := reqString(input, "title")
	if err != nil {
		return nil, err
	}
	body, err := reqString(input, "body")
	if err != nil {
		return nil, err
	}
	premiseType, err := parsePremiseType(input)
	if err != nil {
		return nil, err
	}
	strength, err := reqFloat(input, "mutation_strength")
	if err != nil {
		return nil, err
	}
	if strength < 0.1 || strength > 1.0 {
		return nil, validationErr("mutation_strength", "must be within [0.1, 1.0]")
	}
	if verr := validators.CheckGenerationPreconditions(env.State, premiseType); verr != nil {
		return nil, verr
	}
	return stageBuffered(env, input, title, body, premiseType), nil
}

// CrossPollinate stages a synthesis of a primary premise and one or more
// secondary premises, defaulting to premise_type "combination".
func CrossPollinate(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	if _, err := reqString(input, "primary_title"); err != nil {
		return nil, err
	}
	if _, err := reqStringSlice(input, "secondary_premises"); err != nil {
		return nil, err
	}
	title, err := reqString(input, "title")
	if err != nil {
		return nil, err
	}
	body, err := reqString(input, "body")
	if err != nil {
		return nil, err
	}
	if _, err := reqString(input, "synthesis_strategy"); err != nil {
		return nil, err
	}

	premiseType := models.PremiseCombination
	if raw, ok := input["premise_type"].(string); ok && raw != "" {
		premiseType = models.PremiseType(raw)
	}
	if verr := validators.CheckGenerationPreconditions(env.State, premiseType); verr != nil {
		return nil, verr
	}
	return stageBuffered(env, input, title, body, premiseType), nil
}
