package traverse

import (
	"testing"

	"github.com/omnera-dev/schemapipe/internal/schema"
)

func parseTree(t *testing.T, doc string) *schema.Node {
	t.Helper()
	tree, err := schema.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tree
}

func fixtureTree(t *testing.T) *schema.Node {
	t.Helper()
	return parseTree(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"tables": {"type": "array", "items": {"$ref": "#/definitions/table"}},
			"pages": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"path": {"type": "string"},
						"layout": {
							"type": "object",
							"properties": {"columns": {"type": "integer"}}
						}
					}
				}
			}
		},
		"definitions": {
			"table": {
				"type": "object",
				"title": "Table",
				"properties": {"id": {"type": "string"}}
			},
			"automation_trigger": {
				"anyOf": [
					{
						"anyOf": [
							{
								"type": "object",
								"title": "HTTP Post Trigger",
								"properties": {
									"service": {"const": "http"},
									"event": {"const": "post"},
									"path": {"type": "string"}
								}
							},
							{
								"type": "object",
								"title": "Record Created Trigger",
								"properties": {
									"service": {"const": "database"},
									"event": {"const": "record-created"},
									"table": {"type": "string"}
								}
							}
						]
					},
					{
						"type": "object",
						"title": "Cron Trigger",
						"properties": {
							"service": {"const": "scheduler"},
							"event": {"const": "cron"},
							"expression": {"type": "string"}
						}
					}
				]
			}
		}
	}`)
}

func TestGetRootProperty(t *testing.T) {
	tree := fixtureTree(t)

	node, err := Get(tree, "name")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if node.Type != "string" {
		t.Errorf("Get(name).Type = %q, want string", node.Type)
	}
}

func TestGetCollectionResolvesToDefinition(t *testing.T) {
	tree := fixtureTree(t)

	node, err := Get(tree, "tables")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if node.Title != "Table" {
		t.Errorf("Get(tables).Title = %q, want the singular definition", node.Title)
	}
}

func TestGetNestedPath(t *testing.T) {
	tree := fixtureTree(t)

	node, err := Get(tree, "pages.layout.columns")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if node.Type != "integer" {
		t.Errorf("Get(pages.layout.columns).Type = %q, want integer", node.Type)
	}
}

func TestGetDiscriminantPath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantTitle string
		wantErr   bool
	}{
		{
			name:      "nested variant by pair",
			path:      "automation_trigger.http.post",
			wantTitle: "HTTP Post Trigger",
		},
		{
			name:      "separator equivalence",
			path:      "automation_trigger.database.record_created",
			wantTitle: "Record Created Trigger",
		},
		{
			name:      "case insensitive",
			path:      "automation_trigger.SCHEDULER.CRON",
			wantTitle: "Cron Trigger",
		},
		{
			name:    "unknown pair",
			path:    "automation_trigger.http.delete",
			wantErr: true,
		},
	}

	tree := fixtureTree(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Get(tree, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && node.Title != tt.wantTitle {
				t.Errorf("Get(%s).Title = %q, want %q", tt.path, node.Title, tt.wantTitle)
			}
		})
	}
}

func TestGetMissingProperty(t *testing.T) {
	tree := fixtureTree(t)
	if _, err := Get(tree, "connections"); err == nil {
		t.Error("Get(connections) = nil error, want not-found")
	}
	if _, err := Get(tree, "pages.layout.rows"); err == nil {
		t.Error("Get(pages.layout.rows) = nil error, want not-found")
	}
}

func TestMatchesDiscriminants(t *testing.T) {
	variant := parseTree(t, `{
		"type": "object",
		"properties": {
			"service": {"const": "http"},
			"event": {"const": "post"}
		}
	}`)

	if !MatchesDiscriminants(variant, "http", "post") {
		t.Error("MatchesDiscriminants(http, post) = false, want true")
	}
	if !MatchesDiscriminants(variant, "post", "http") {
		t.Error("MatchesDiscriminants is order-insensitive, got false")
	}
	if MatchesDiscriminants(variant, "http", "http") {
		t.Error("a single const field must not satisfy both discriminants")
	}
	if MatchesDiscriminants(variant, "http", "get") {
		t.Error("MatchesDiscriminants(http, get) = true, want false")
	}
}

func TestDiscriminantPairs(t *testing.T) {
	tree := fixtureTree(t)
	def := Definition(tree, "automation_trigger")
	if def == nil {
		t.Fatal("Definition(automation_trigger) = nil")
	}

	pairs := DiscriminantPairs(def)
	want := [][2]string{
		{"http", "post"},
		{"database", "record-created"},
		{"scheduler", "cron"},
	}
	if len(pairs) != len(want) {
		t.Fatalf("DiscriminantPairs() = %v, want %v", pairs, want)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("DiscriminantPairs()[%d] = %v, want %v", i, pairs[i], want[i])
		}
	}
}

func TestDefinitionSeparatorTolerance(t *testing.T) {
	tree := fixtureTree(t)
	if Definition(tree, "automation-trigger") == nil {
		t.Error("Definition(automation-trigger) = nil, want the underscore definition")
	}
}
