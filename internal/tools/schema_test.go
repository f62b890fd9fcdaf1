package tools

import (
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestSpecsCompileAndCoverDispatchTable(t *testing.T) {
	specs := Specs()
	if len(specs) != len(Table) {
		t.Fatalf("expected one Spec per dispatch table entry, got %d specs for %d handlers", len(specs), len(Table))
	}
	for _, s := range specs {
		if _, ok := Table[s.Name]; !ok {
			t.Errorf("spec %q has no matching dispatch table entry", s.Name)
		}
		if _, err := jsonschema.CompileString(s.Name, string(s.InputSchema)); err != nil {
			t.Errorf("spec %q: schema failed to compile: %v", s.Name, err)
		}
	}
}

func TestGeneratePremiseSchemaRejectsUnknownType(t *testing.T) {
	spec := specByName(t, "generate_premise")
	schema, err := jsonschema.CompileString(spec.Name, string(spec.InputSchema))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	valid := map[string]any{"premise_type": "conservative", "title": "t", "body": "b"}
	if err := schema.Validate(valid); err != nil {
		t.Errorf("expected valid input to pass, got %v", err)
	}
	invalid := map[string]any{"premise_type": "not_a_real_type", "title": "t", "body": "b"}
	if err := schema.Validate(invalid); err == nil {
		t.Errorf("expected an invalid premise_type to fail validation")
	}
}

func specByName(t *testing.T, name string) Spec {
	t.Helper()
	for _, s := range Specs() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no spec named %q", name)
	return Spec{}
}
