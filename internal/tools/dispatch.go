package tools

import (
	"context"
	"fmt"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
)

// Table is the explicit tool-name-to-handler mapping of spec §4.6. No
// reflection, no method-name lookup — an unlisted name is simply absent
// and rejected by Dispatch rather than looked up dynamically.
var Table = map[string]Handler{
	"decompose_problem":           DecomposeProblem,
	"map_conventional_approaches": MapConventionalApproaches,
	"extract_hidden_axioms":       ExtractHiddenAxioms,

	"generate_premise": GeneratePremise,
	"mutate_premise":   MutatePremise,
	"cross_pollinate":  CrossPollinate,

	"challenge_axiom":       ChallengeAxiom,
	"import_foreign_domain": ImportForeignDomain,
	"obviousness_test":      ObviousnessTest,
	"invert_problem":        InvertProblem,

	"ask_user":            AskUser,
	"present_round":       PresentRound,
	"generate_final_spec": GenerateFinalSpec,

	"store_premise":        StorePremise,
	"query_premises":       QueryPremises,
	"get_negative_context": GetNegativeContext,
	"get_context_usage":    GetContextUsage,
}

// Dispatch looks up name in Table and runs it, isolating both
// business-rule failures (a returned *ideaerrors.Error) and unexpected
// panics into the same Result/error pair (spec §4.7 safe_execute).
func Dispatch(ctx context.Context, env *Env, name string, input map[string]any) (result Result, appErr *ideaerrors.Error) {
	handler, ok := Table[name]
	if !ok {
		appErr = ideaerrors.New(ideaerrors.CodeUnknownTool, fmt.Sprintf("unknown tool: %s", name)).WithToolName(name)
		return errResult(appErr), appErr
	}

	defer func() {
		if r := recover(); r != nil {
			appErr = ideaerrors.New(ideaerrors.CodeToolExecutionError, fmt.Sprintf("tool panicked: %v", r)).WithToolName(name)
			result = errResult(appErr)
		}
	}()

	result, appErr = handler(ctx, env, input)
	if appErr != nil {
		appErr = appErr.WithToolName(name)
		return errResult(appErr), appErr
	}
	return result, nil
}
