package story

import (
	"regexp"
	"strings"

	"github.com/omnera-dev/schemapipe/internal/schema"
)

var idSeparators = regexp.MustCompile(`[._\s]+`)

// kebabPath converts a property path into its kebab-cased element id stem.
func kebabPath(path string) string {
	return strings.Trim(idSeparators.ReplaceAllString(strings.ToLower(path), "-"), "-")
}

// ElementIDs generates the canonical element identifiers for a property:
// input and error hooks for scalar nodes, select and option hooks for enums,
// and list management hooks for arrays. Generated independently of any
// authored stories.
func ElementIDs(path string, node *schema.Node) []string {
	stem := kebabPath(path)
	ids := []string{stem + "-input", stem + "-error"}

	if node == nil {
		return ids
	}
	if len(node.Enum) > 0 {
		ids = append(ids, stem+"-select", stem+"-option")
	}
	if node.Kind() == schema.KindArray {
		ids = append(ids, stem+"-list", stem+"-add-button", stem+"-remove-button")
	}
	return ids
}
