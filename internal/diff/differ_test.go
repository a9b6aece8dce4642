package diff

import (
	"testing"

	"github.com/omnera-dev/schemapipe/internal/schema"
)

func parseNode(t *testing.T, doc string) *schema.Node {
	t.Helper()
	node, err := schema.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return node
}

func TestCompareAbsentCurrent(t *testing.T) {
	vision := parseNode(t, `{"type": "string", "minLength": 1}`)

	status := Compare("name", nil, vision)

	if status.Status != StatusMissing {
		t.Errorf("Status = %v, want missing", status.Status)
	}
	if status.CompletionPercent != 0 {
		t.Errorf("CompletionPercent = %v, want 0", status.CompletionPercent)
	}
	if len(status.MissingFeatures) == 0 {
		t.Error("MissingFeatures empty, want validation entry")
	}
}

func TestCompareExactMatch(t *testing.T) {
	doc := `{
		"type": "object",
		"properties": {"id": {"type": "string"}, "label": {"type": "string"}},
		"required": ["id"]
	}`
	vision := parseNode(t, doc)
	current := parseNode(t, doc)

	status := Compare("tables", current, vision)

	if status.Status != StatusComplete {
		t.Errorf("Status = %v, want complete", status.Status)
	}
	if status.CompletionPercent != 100 {
		t.Errorf("CompletionPercent = %v, want 100", status.CompletionPercent)
	}
	if len(status.MissingFeatures) != 0 {
		t.Errorf("MissingFeatures = %v, want none", status.MissingFeatures)
	}
}

// An empty current object whose vision expects properties is still missing:
// the placeholder type declaration is not progress.
func TestCompareEmptyObjectIsMissing(t *testing.T) {
	vision := parseNode(t, `{
		"type": "object",
		"properties": {"path": {"type": "string"}},
		"required": ["path"]
	}`)
	current := parseNode(t, `{"type": "object", "properties": {}}`)

	status := Compare("pages", current, vision)

	if status.Status != StatusMissing {
		t.Errorf("Status = %v, want missing", status.Status)
	}
	if status.CompletionPercent != 0 {
		t.Errorf("CompletionPercent = %v, want 0 for a missing property", status.CompletionPercent)
	}
}

func TestComparePartial(t *testing.T) {
	vision := parseNode(t, `{
		"type": "object",
		"properties": {
			"id": {"type": "string"},
			"label": {"type": "string", "title": "Display Label"}
		},
		"required": ["id", "label"]
	}`)
	current := parseNode(t, `{
		"type": "object",
		"properties": {"id": {"type": "string"}},
		"required": ["id"]
	}`)

	status := Compare("tables", current, vision)

	if status.Status != StatusPartial {
		t.Errorf("Status = %v, want partial", status.Status)
	}
	if status.CompletionPercent <= 0 || status.CompletionPercent >= 100 {
		t.Errorf("CompletionPercent = %v, want strictly between 0 and 100", status.CompletionPercent)
	}
	wantFeature := "Property: label (Display Label)"
	found := false
	for _, f := range status.MissingFeatures {
		if f == wantFeature {
			found = true
		}
	}
	if !found {
		t.Errorf("MissingFeatures = %v, want %q", status.MissingFeatures, wantFeature)
	}
}

func TestCompareNothingToValidate(t *testing.T) {
	vision := parseNode(t, `{"title": "free-form"}`)
	current := parseNode(t, `{}`)

	status := Compare("meta", current, vision)

	if status.Status != StatusComplete {
		t.Errorf("Status = %v, want complete when there are no checks", status.Status)
	}
	if status.CompletionPercent != 100 {
		t.Errorf("CompletionPercent = %v, want 100", status.CompletionPercent)
	}
}

func TestCompareConstraintMismatch(t *testing.T) {
	vision := parseNode(t, `{"type": "string", "minLength": 1, "maxLength": 50}`)
	current := parseNode(t, `{"type": "string", "minLength": 1}`)

	status := Compare("name", current, vision)

	// type + minLength match, maxLength does not: 2 of 3.
	want := 2.0 / 3.0 * 100
	if status.CompletionPercent != want {
		t.Errorf("CompletionPercent = %v, want %v", status.CompletionPercent, want)
	}
	if len(status.MissingFeatures) != 1 || status.MissingFeatures[0] != "Validation: maxLength" {
		t.Errorf("MissingFeatures = %v, want [Validation: maxLength]", status.MissingFeatures)
	}
}

func TestCompareUnionVariants(t *testing.T) {
	vision := parseNode(t, `{
		"anyOf": [
			{"type": "object", "title": "A"},
			{"type": "object", "title": "B"},
			{"type": "object", "title": "C"}
		]
	}`)
	current := parseNode(t, `{
		"anyOf": [{"type": "object", "title": "A"}]
	}`)

	status := Compare("field", current, vision)

	found := false
	for _, f := range status.MissingFeatures {
		if f == "2 missing union variant(s)" {
			found = true
		}
	}
	if !found {
		t.Errorf("MissingFeatures = %v, want missing variant count", status.MissingFeatures)
	}
}

func TestCompareDeterministic(t *testing.T) {
	vision := parseNode(t, `{
		"type": "object",
		"properties": {
			"a": {"type": "string"}, "b": {"type": "string"},
			"c": {"type": "string"}, "d": {"type": "string"}
		}
	}`)

	first := Compare("x", nil, vision)
	for i := 0; i < 10; i++ {
		again := Compare("x", nil, vision)
		if len(again.MissingFeatures) != len(first.MissingFeatures) {
			t.Fatalf("MissingFeatures length varies across runs")
		}
		for j := range first.MissingFeatures {
			if again.MissingFeatures[j] != first.MissingFeatures[j] {
				t.Fatalf("MissingFeatures order varies: %v vs %v", again.MissingFeatures, first.MissingFeatures)
			}
		}
	}
}
