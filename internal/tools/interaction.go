package tools

import (
	"context"
	"time"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/sessionstate"
	"github.com/ghostpath/sessionrt/internal/validators"
	"github.com/ghostpath/sessionrt/pkg/models"
)

// AskUser is a pause point: it flags the session as waiting on a user
// choice. The agent loop re-emits the original input payload on the
// stream so the client can render the question (spec §4.5, §4.7 S7).
func AskUser(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	if _, err := reqString(input, "question"); err != nil {
		return nil, err
	}
	optionsRaw, ok := input["options"].([]any)
	if !ok || len(optionsRaw) < 2 || len(optionsRaw) > 5 {
		return nil, validationErr("options", "must contain between 2 and 5 entries")
	}
	for _, o := range optionsRaw {
		opt, ok := o.(map[string]any)
		if !ok {
			return nil, validationErr("options", "each entry must be an object with a label")
		}
		if label, ok := opt["label"].(string); !ok || label == "" {
			return nil, validationErr("options", "each entry requires a non-empty string label")
		}
	}

	env.State.AwaitingUserInput = true
	env.State.AwaitingInputType = sessionstate.InputAskUser

	return Result{"status": StatusAwaitingUserResponse}, nil
}

// PresentRound commits the staged buffer as a durable Round and three
// Premise records — the buffer is the source of truth, never re-submitted
// LLM arguments — then resets per-round flags and pauses for scores.
func PresentRound(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	if verr := validators.CheckRoundPresentation(env.State); verr != nil {
		return nil, verr
	}
	summary := optString(input, "round_summary")
	roundNumber := env.State.CurrentRoundNumber + 1

	premises, serr := env.Store.PresentRound(ctx, env.Session.ID, roundNumber, summary, env.State.CurrentRoundBuffer)
	if serr != nil {
		return nil, serr
	}

	env.State.CurrentRoundNumber = roundNumber
	env.State.ResetRoundFlags()
	env.State.AwaitingUserInput = true
	env.State.AwaitingInputType = sessionstate.InputScores

	premiseViews := make([]Result, 0, len(premises))
	for _, p := range premises {
		premiseViews = append(premiseViews, Result{
			"title":               p.Title,
			"body":                p.Body,
			"premise_type":        string(p.Type),
			"violated_axiom":      p.ViolatedAxiom,
			"cross_domain_source": p.CrossDomainSource,
		})
	}

	return Result{
		"status":       StatusAwaitingUserScores,
		"round_number": roundNumber,
		"premises":     premiseViews,
	}, nil
}

// GenerateFinalSpec marks the session resolved and hands the spec content
// back to the agent loop, which emits it as a distinct stream event and
// persists it to the filesystem artifact location. The transport only
// ever prompts the LLM to call this tool once the user has submitted a
// resolution payload, so no separate precondition is enforced here.
func GenerateFinalSpec(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	if _, err := reqString(input, "winning_premise_title"); err != nil {
		return nil, err
	}
	if _, err := reqString(input, "winning_premise_body"); err != nil {
		return nil, err
	}
	_ = optFloat(input, "winning_score")
	if _, err := reqString(input, "problem_statement"); err != nil {
		return nil, err
	}
	_ = optString(input, "evolution_summary")
	specContent, err := reqString(input, "spec_content")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if serr := env.Store.ResolveSession(ctx, env.Session.ID, now); serr != nil {
		return nil, serr
	}
	env.Session.Status = models.SessionResolved
	env.Session.ResolvedAt = &now
	env.State.AwaitingUserInput = false
	env.State.AwaitingInputType = sessionstate.InputNone

	return Result{
		"status":       StatusOK,
		"spec_content": specContent,
	}, nil
}
