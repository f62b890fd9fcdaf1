package tools

import "encoding/json"

// Spec is the function-calling declaration for one tool: its name, a
// natural-language description the LLM uses to decide when to call it,
// and a JSON Schema for its parameters (spec §4.5/§4.6), grounded on the
// teacher's Tool.Name/Description/Schema() triplet.
type Spec struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

func obj(properties string, required ...string) json.RawMessage {
	req, _ := json.Marshal(required)
	return json.RawMessage(`{"type":"object","properties":{` + properties + `},"required":` + string(req) + `}`)
}

// Specs returns the function-calling declarations for every tool in
// Table, in the fixed order spec §4.5 lists them (analysis, generation,
// innovation, interaction, memory).
func Specs() []Spec {
	return []Spec{
		{
			Name:        "decompose_problem",
			Description: "Break the problem statement into dimensions, real and assumed constraints, and success metrics.",
			InputSchema: obj(`
				"problem_statement":{"type":"string"},
				"dimensions":{"type":"array","items":{"type":"string"}},
				"constraints_real":{"type":"array","items":{"type":"string"}},
				"constraints_assumed":{"type":"array","items":{"type":"string"}},
				"success_metrics":{"type":"array","items":{"type":"string"}}`,
				"problem_statement", "dimensions"),
		},
		{
			Name:        "map_conventional_approaches",
			Description: "List the obvious, already-tried approaches to the problem, to be avoided in later premises.",
			InputSchema: obj(`"approaches":{"type":"array","items":{"type":"string"}}`, "approaches"),
		},
		{
			Name:        "extract_hidden_axioms",
			Description: "Name the unstated assumptions the conventional approaches all share.",
			InputSchema: obj(`"axioms":{"type":"array","items":{"type":"string"}}`, "axioms"),
		},
		{
			Name:        "generate_premise",
			Description: "Stage a new premise of the given type into the current round buffer.",
			InputSchema: obj(`
				"premise_type":{"type":"string","enum":["initial","conservative","radical","combination"]},
				"title":{"type":"string"},
				"body":{"type":"string"},
				"violated_axiom":{"type":"string"},
				"cross_domain_source":{"type":"string"}`,
				"premise_type", "title", "body"),
		},
		{
			Name:        "mutate_premise",
			Description: "Replace an existing buffered premise's content with a mutated variant, preserving its type.",
			InputSchema: obj(`
				"buffer_index":{"type":"integer","minimum":0},
				"title":{"type":"string"},
				"body":{"type":"string"}`,
				"buffer_index", "title", "body"),
		},
		{
			Name:        "cross_pollinate",
			Description: "Combine two buffered premises into a new cross-domain premise.",
			InputSchema: obj(`
				"source_indices":{"type":"array","items":{"type":"integer"},"minItems":2,"maxItems":2},
				"title":{"type":"string"},
				"body":{"type":"string"},
				"cross_domain_source":{"type":"string"}`,
				"source_indices", "title", "body"),
		},
		{
			Name:        "challenge_axiom",
			Description: "Declare which extracted axiom this round's radical premise will violate.",
			InputSchema: obj(`"axiom":{"type":"string"}`, "axiom"),
		},
		{
			Name:        "import_foreign_domain",
			Description: "Bring in a concrete mechanism from an unrelated domain as cross-pollination material.",
			InputSchema: obj(`"domain":{"type":"string"},"mechanism":{"type":"string"}`, "domain", "mechanism"),
		},
		{
			Name:        "obviousness_test",
			Description: "Score a buffered premise's obviousness; scores above 0.6 are rejected and removed from the buffer.",
			InputSchema: obj(`
				"buffer_index":{"type":"integer","minimum":0},
				"score":{"type":"number","minimum":0,"maximum":1}`,
				"buffer_index", "score"),
		},
		{
			Name:        "invert_problem",
			Description: "State the inverse of the problem statement, as material for an inversion-type premise.",
			InputSchema: obj(`"inverted_statement":{"type":"string"}`, "inverted_statement"),
		},
		{
			Name:        "ask_user",
			Description: "Pause the turn to ask the user a clarifying question.",
			InputSchema: obj(`
				"question":{"type":"string"},
				"options":{"type":"array","items":{}},
				"allow_free_text":{"type":"boolean"},
				"context":{"type":"string"}`,
				"question"),
		},
		{
			Name:        "present_round",
			Description: "Commit the three buffered, obviousness-tested premises as a durable round and pause for user scores.",
			InputSchema: obj(`"round_summary":{"type":"string"}`),
		},
		{
			Name:        "generate_final_spec",
			Description: "Produce the final Markdown specification once the user has indicated resolution.",
			InputSchema: obj(`"spec_content":{"type":"string"}`, "spec_content"),
		},
		{
			Name:        "store_premise",
			Description: "Persist a standalone premise evaluation (score/comment) outside of round presentation.",
			InputSchema: obj(`
				"title":{"type":"string"},
				"score":{"type":"number"},
				"comment":{"type":"string"},
				"is_winner":{"type":"boolean"}`,
				"title"),
		},
		{
			Name:        "query_premises",
			Description: "Retrieve previously stored premises, optionally filtered by round number or premise type.",
			InputSchema: obj(`
				"round_number":{"type":"integer"},
				"premise_type":{"type":"string"},
				"limit":{"type":"integer","minimum":1}`),
		},
		{
			Name:        "get_negative_context",
			Description: "Fetch the rejected/low-scoring premises from prior rounds, required before generating in round 2+.",
			InputSchema: obj(``),
		},
		{
			Name:        "get_context_usage",
			Description: "Report the session's current token usage against the context budget.",
			InputSchema: obj(``),
		},
	}
}
