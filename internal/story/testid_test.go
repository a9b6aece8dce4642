package story

import (
	"testing"

	"github.com/omnera-dev/schemapipe/internal/schema"
)

func TestElementIDs(t *testing.T) {
	minOne := 1
	tests := []struct {
		name string
		path string
		node *schema.Node
		want []string
	}{
		{
			name: "scalar node",
			path: "name",
			node: &schema.Node{Type: "string", MinLength: &minOne},
			want: []string{"name-input", "name-error"},
		},
		{
			name: "nil node still gets base hooks",
			path: "theme",
			node: nil,
			want: []string{"theme-input", "theme-error"},
		},
		{
			name: "enum node adds select hooks",
			path: "theme",
			node: &schema.Node{Type: "string", Enum: []any{"light", "dark"}},
			want: []string{"theme-input", "theme-error", "theme-select", "theme-option"},
		},
		{
			name: "array node adds list hooks",
			path: "languages",
			node: &schema.Node{Type: "array", Items: &schema.Node{Type: "string"}},
			want: []string{"languages-input", "languages-error", "languages-list", "languages-add-button", "languages-remove-button"},
		},
		{
			name: "dotted path is kebab-cased",
			path: "automation_trigger.http.post",
			node: &schema.Node{Type: "object"},
			want: []string{"automation-trigger-http-post-input", "automation-trigger-http-post-error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ElementIDs(tt.path, tt.node)
			if len(got) != len(tt.want) {
				t.Fatalf("ElementIDs() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ElementIDs()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
