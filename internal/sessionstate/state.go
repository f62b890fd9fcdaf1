// Package sessionstate holds the per-session, non-durable state machine
// described in spec §3/§4.4: which analysis gates have fired, the current
// round buffer, which buffer entries have passed the obviousness test, and
// whether the session is paused waiting on the user. It is a plain
// in-memory map; nothing here talks to the store or the LLM.
package sessionstate

import "github.com/ghostpath/sessionrt/pkg/models"

// Gate names for the three mandatory analysis tools (spec §4.5 "Analysis (gates)").
const (
	GateDecompose    = "decompose_problem"
	GateConventional = "map_conventional_approaches"
	GateAxioms       = "extract_hidden_axioms"
)

// RequiredGates lists every gate generation handlers require before running.
var RequiredGates = []string{GateDecompose, GateConventional, GateAxioms}

// InputType is the kind of input the session is paused awaiting.
type InputType string

const (
	InputNone           InputType = "none"
	InputScores         InputType = "scores"
	InputAskUser        InputType = "ask_user"
	InputResolved       InputType = "resolved"
)

// MaxBufferSize is the number of premises a round holds (invariant I1/I4).
const MaxBufferSize = 3

// Decomposition is the payload recorded by decompose_problem. It lives on
// SessionState rather than the durable Session record: it guides the rest
// of the turn's generation but is not one of the entities spec §3 commits
// to the store.
type Decomposition struct {
	ProblemStatement   string
	Dimensions         []string
	ConstraintsReal    []string
	ConstraintsAssumed []string
	SuccessMetrics     []string
}

// State is the in-memory per-session structure of spec §3.
type State struct {
	CompletedGates         map[string]bool
	CurrentRoundBuffer     []models.BufferedPremise
	CurrentRoundNumber     int
	ObviousnessTested      map[int]bool
	ExtractedAxioms        []string
	AxiomChallenged        bool
	NegativeContextFetched bool
	AwaitingUserInput      bool
	AwaitingInputType      InputType

	Decomposition          *Decomposition
	ConventionalApproaches []string
}

// New returns a freshly reset State, as created on POST /sessions.
func New() *State {
	return &State{
		CompletedGates:    make(map[string]bool, len(RequiredGates)),
		ObviousnessTested: make(map[int]bool, MaxBufferSize),
		AwaitingInputType: InputNone,
	}
}

// AllGatesSatisfied reports whether every required gate has fired.
func (s *State) AllGatesSatisfied() bool {
	return len(s.MissingGates()) == 0
}

// MissingGates returns the required gates not yet completed, in fixed order.
func (s *State) MissingGates() []string {
	missing := make([]string, 0, len(RequiredGates))
	for _, g := range RequiredGates {
		if !s.CompletedGates[g] {
			missing = append(missing, g)
		}
	}
	return missing
}

// PremisesInBuffer returns the number of premises currently staged.
func (s *State) PremisesInBuffer() int {
	return len(s.CurrentRoundBuffer)
}

// PremisesRemaining returns how many more premises the buffer can hold
// before it is full (invariant I1).
func (s *State) PremisesRemaining() int {
	remaining := MaxBufferSize - len(s.CurrentRoundBuffer)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AllPremisesTested reports whether every current buffer index has passed
// the obviousness test (precondition for present_round).
func (s *State) AllPremisesTested() bool {
	for i := range s.CurrentRoundBuffer {
		if !s.ObviousnessTested[i] {
			return false
		}
	}
	return true
}

// AppendToBuffer stages a premise and returns its buffer index.
func (s *State) AppendToBuffer(p models.BufferedPremise) int {
	s.CurrentRoundBuffer = append(s.CurrentRoundBuffer, p)
	return len(s.CurrentRoundBuffer) - 1
}

// RemoveFromBuffer deletes the premise at index and renumbers
// ObviousnessTested so indices above it shift down by one (invariant I3).
func (s *State) RemoveFromBuffer(index int) {
	if index < 0 || index >= len(s.CurrentRoundBuffer) {
		return
	}
	s.CurrentRoundBuffer = append(s.CurrentRoundBuffer[:index], s.CurrentRoundBuffer[index+1:]...)

	renumbered := make(map[int]bool, len(s.ObviousnessTested))
	for i := range s.ObviousnessTested {
		switch {
		case i < index:
			renumbered[i] = true
		case i == index:
			// dropped
		default:
			renumbered[i-1] = true
		}
	}
	s.ObviousnessTested = renumbered
}

// ResetRoundFlags clears everything scoped to a single round after
// presentation (invariant I5). current_round_number is intentionally left
// untouched — it is monotonically non-decreasing (I6) and bumped by the
// caller at the point of presentation.
func (s *State) ResetRoundFlags() {
	s.CurrentRoundBuffer = nil
	s.ObviousnessTested = make(map[int]bool, MaxBufferSize)
	s.AxiomChallenged = false
	s.NegativeContextFetched = false
}
