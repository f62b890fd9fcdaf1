// Package validators implements the pure precondition checks of spec
// §4.4: functions that inspect sessionstate.State and return either nil
// (ok) or a structured *ideaerrors.Error. They never mutate state and
// never talk to the store or the LLM — handlers apply the consequences.
package validators

import (
	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/sessionstate"
	"github.com/ghostpath/sessionrt/pkg/models"
)

// CheckGates fails GATES_NOT_SATISFIED unless every required analysis
// gate has fired.
func CheckGates(s *sessionstate.State) *ideaerrors.Error {
	if s.AllGatesSatisfied() {
		return nil
	}
	missing := s.MissingGates()
	return ideaerrors.New(ideaerrors.CodeGatesNotSatisfied, "required analysis gates have not all completed").
		WithDebug("missing_gates", missing)
}

// CheckRadical fails AXIOM_NOT_CHALLENGED if premiseType is "radical" and
// no axiom has been challenged yet this round.
func CheckRadical(s *sessionstate.State, premiseType models.PremiseType) *ideaerrors.Error {
	if premiseType != models.PremiseRadical {
		return nil
	}
	if s.AxiomChallenged {
		return nil
	}
	return ideaerrors.New(ideaerrors.CodeAxiomNotChallenged, "radical premises require challenge_axiom to run first this round")
}

// CheckNegativeContext fails NEGATIVE_CONTEXT_MISSING once the session is
// past round 1 and get_negative_context has not yet been called this round.
func CheckNegativeContext(s *sessionstate.State) *ideaerrors.Error {
	if s.CurrentRoundNumber < 1 {
		return nil
	}
	if s.NegativeContextFetched {
		return nil
	}
	return ideaerrors.New(ideaerrors.CodeNegativeContextMissing, "get_negative_context must be called before generating in round 2+")
}

// CheckBufferCapacity fails ROUND_BUFFER_FULL once the buffer already
// holds the maximum of three premises.
func CheckBufferCapacity(s *sessionstate.State) *ideaerrors.Error {
	if s.PremisesInBuffer() < sessionstate.MaxBufferSize {
		return nil
	}
	return ideaerrors.New(ideaerrors.CodeRoundBufferFull, "the round buffer already holds 3 premises")
}

// CheckGenerationPreconditions composes the four generation preconditions
// left to right; the first failure short-circuits the rest, matching
// spec §4.4's ordering.
func CheckGenerationPreconditions(s *sessionstate.State, premiseType models.PremiseType) *ideaerrors.Error {
	if err := CheckGates(s); err != nil {
		return err
	}
	if err := CheckRadical(s, premiseType); err != nil {
		return err
	}
	if err := CheckNegativeContext(s); err != nil {
		return err
	}
	if err := CheckBufferCapacity(s); err != nil {
		return err
	}
	return nil
}

// CheckRoundPresentation fails INCOMPLETE_ROUND if the buffer is not
// exactly full, or UNTESTED_PREMISES if any buffer index has not passed
// the obviousness test.
func CheckRoundPresentation(s *sessionstate.State) *ideaerrors.Error {
	if s.PremisesInBuffer() != sessionstate.MaxBufferSize {
		return ideaerrors.New(ideaerrors.CodeIncompleteRound, "a round must hold exactly 3 premises before it can be presented").
			WithDebug("premises_in_buffer", s.PremisesInBuffer())
	}
	if !s.AllPremisesTested() {
		return ideaerrors.New(ideaerrors.CodeUntestedPremises, "every buffered premise must pass the obviousness test before presentation")
	}
	return nil
}

// ObviousnessOutcome is the pure result of evaluating one obviousness
// test call, before the handler applies its side effects.
type ObviousnessOutcome struct {
	Accepted     bool
	PremiseIndex int
	Score        float64
}

// EvaluateObviousness is the pure function of spec §4.4: given a buffer
// index and score, decide whether the premise survives. A score above
// 0.6 is rejected as too obvious. The caller (the obviousness_test
// handler) is responsible for applying the outcome to state.
func EvaluateObviousness(s *sessionstate.State, bufferIndex int, score float64) (*ObviousnessOutcome, *ideaerrors.Error) {
	if bufferIndex < 0 || bufferIndex >= s.PremisesInBuffer() {
		return nil, ideaerrors.New(ideaerrors.CodeInvalidIndex, "buffer index out of range").
			WithDebug("buffer_index", bufferIndex).
			WithDebug("buffer_size", s.PremisesInBuffer())
	}
	if score > 0.6 {
		return &ObviousnessOutcome{Accepted: false, PremiseIndex: bufferIndex, Score: score}, nil
	}
	return &ObviousnessOutcome{Accepted: true, PremiseIndex: bufferIndex, Score: score}, nil
}
