package models

import "time"

// PremiseType categorizes the nature of a generated premise.
type PremiseType string

const (
	PremiseInitial      PremiseType = "initial"
	PremiseConservative PremiseType = "conservative"
	PremiseRadical      PremiseType = "radical"
	PremiseCombination  PremiseType = "combination"
)

// Premise is a candidate idea generated by the LLM, belonging to exactly
// one round of exactly one session. Premises are created only when a
// round is presented; the in-round staging area is the buffer held in
// SessionState, not a Premise record.
//
// Position is the premise's 0-based slot within its round (buffer order
// at present_round). /user-input maps scores[i] onto the i-th premise by
// this column, not by CreatedAt — premises in the same round share a
// timestamp.
type Premise struct {
	ID                string      `json:"id"`
	SessionID         string      `json:"session_id"`
	RoundID           string      `json:"round_id"`
	RoundNumber       int         `json:"round_number"`
	Position          int         `json:"position"`
	Title             string      `json:"title"`
	Body              string      `json:"body"`
	Type              PremiseType `json:"premise_type"`
	ViolatedAxiom     string      `json:"violated_axiom,omitempty"`
	CrossDomainSource string      `json:"cross_domain_source,omitempty"`
	Score             *float64    `json:"score,omitempty"`
	UserComment       string      `json:"user_comment,omitempty"`
	IsWinner          bool        `json:"is_winner"`
	CreatedAt         time.Time   `json:"created_at"`
}

// Round is a cohort of exactly three premises presented together.
type Round struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Number    int        `json:"round_number"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BufferedPremise is a premise staged in the current round buffer before
// it is persisted. It carries the same fields as Premise but has no
// identity yet — identity is assigned only at present_round.
type BufferedPremise struct {
	Title             string
	Body              string
	Type              PremiseType
	ViolatedAxiom     string
	CrossDomainSource string
}
