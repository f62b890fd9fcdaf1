package tools

import (
	"context"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/pkg/models"
)

// TokensLimit is the fixed context budget get_context_usage reports
// against (spec §4.5).
const TokensLimit = 1_000_000

// StorePremise overlays the user's evaluation onto the most recently
// persisted premise matching title within this session.
func StorePremise(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	title, err := reqString(input, "title")
	if err != nil {
		return nil, err
	}
	if _, err := reqString(input, "premise_type"); err != nil {
		return nil, err
	}
	if _, err := reqInt(input, "round_number"); err != nil {
		return nil, err
	}
	score := optFloat(input, "score")
	if score != nil && (*score < 0 || *score > 10) {
		return nil, validationErr("score", "must be within [0, 10]")
	}
	comment := optString(input, "user_comment")
	isWinner := optBool(input, "is_winner")

	if serr := env.Store.StorePremiseEvaluation(ctx, env.Session.ID, title, score, comment, isWinner); serr != nil {
		return nil, serr
	}
	return Result{"status": StatusStored, "title": title}, nil
}

var validQueryFilters = map[string]bool{
	"all": true, "winners": true, "top_scored": true, "low_scored": true, "by_type": true, "by_round": true,
}

// QueryPremises is a read-only projection over persisted premises for the
// session, filtered the way the LLM asked.
func QueryPremises(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	filter, err := reqString(input, "filter")
	if err != nil {
		return nil, err
	}
	if !validQueryFilters[filter] {
		return nil, validationErr("filter", "must be one of all, winners, top_scored, low_scored, by_type, by_round")
	}
	premiseType := optString(input, "premise_type")
	var roundNumber *int
	if f, ok := input["round_number"].(float64); ok {
		n := int(f)
		roundNumber = &n
	}
	limit := 10
	if f, ok := input["limit"].(float64); ok && f > 0 {
		limit = int(f)
	}

	premises, serr := env.Store.QueryPremises(ctx, env.Session.ID, roundNumber, premiseType, limit)
	if serr != nil {
		return nil, serr
	}
	premises = applyQueryFilter(filter, premises)

	return Result{"status": StatusOK, "premises": premiseViews(premises), "count": len(premises)}, nil
}

// GetNegativeContext surfaces previously low-scored premises so the LLM
// can steer away from what already failed. It is a required side effect:
// calling it, not reading its result, is what generation preconditions
// check for past round 1 (spec §4.4 check_negative_context).
func GetNegativeContext(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	env.State.NegativeContextFetched = true

	premises, serr := env.Store.QueryPremises(ctx, env.Session.ID, nil, "", 100)
	if serr != nil {
		return nil, serr
	}
	low := filterPremises(premises, func(p *models.Premise) bool { return p.Score != nil && *p.Score < 5.0 })

	return Result{"status": StatusOK, "premises": premiseViews(low)}, nil
}

// GetContextUsage reports token budget consumed/remaining and a rough
// estimate of rounds left at the session's observed burn rate.
func GetContextUsage(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
	used := env.Session.TokensUsed
	remaining := TokensLimit - used
	if remaining < 0 {
		remaining = 0
	}
	usagePct := float64(used) / float64(TokensLimit) * 100

	rounds := env.State.CurrentRoundNumber
	if rounds < 1 {
		rounds = 1
	}
	avgPerRound := float64(used) / float64(rounds)
	estimatedRoundsLeft := 0
	if avgPerRound > 0 {
		estimatedRoundsLeft = int(float64(remaining) / avgPerRound)
	}

	return Result{
		"status":                StatusOK,
		"tokens_used":           used,
		"tokens_limit":          TokensLimit,
		"tokens_remaining":      remaining,
		"usage_percentage":      usagePct,
		"estimated_rounds_left": estimatedRoundsLeft,
	}, nil
}

func applyQueryFilter(filter string, premises []*models.Premise) []*models.Premise {
	switch filter {
	case "winners":
		return filterPremises(premises, func(p *models.Premise) bool { return p.IsWinner })
	case "top_scored":
		return filterPremises(premises, func(p *models.Premise) bool { return p.Score != nil && *p.Score >= 7 })
	case "low_scored":
		return filterPremises(premises, func(p *models.Premise) bool { return p.Score != nil && *p.Score < 5 })
	default:
		return premises
	}
}

func filterPremises(premises []*models.Premise, keep func(*models.Premise) bool) []*models.Premise {
	out := make([]*models.Premise, 0, len(premises))
	for _, p := range premises {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func premiseViews(premises []*models.Premise) []Result {
	views := make([]Result, 0, len(premises))
	for _, p := range premises {
		views = append(views, Result{
			"title":        p.Title,
			"body":         p.Body,
			"premise_type": string(p.Type),
			"round_number": p.RoundNumber,
			"score":        p.Score,
			"is_winner":    p.IsWinner,
		})
	}
	return views
}
